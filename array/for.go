/*
Copyright (C) 2026  Vortex Contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package array

import (
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

func init() {
	RegisterEncoding(EncodingRef{ID: EncodingFoR, Decode: decodeFoR, Cost: 1})
}

// FoRArray is frame-of-reference: every logical value equals a shared
// reference plus a child array of small non-negative offsets (spec §4.3
// FoR), typically followed by BitPacked on the offsets. subtract_scalar
// folds straight into the reference, never touching the offsets child.
type FoRArray struct {
	statsMixin
	noBuffersT
	typ       dtype.DType
	reference int64
	offsets   Array // unsigned primitive, same length
}

func NewFoR(typ dtype.DType, reference int64, offsets Array) *FoRArray {
	return &FoRArray{statsMixin: newStatsMixin(), typ: typ, reference: reference, offsets: offsets}
}

func decodeFoR(length int, metadata []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) != 1 {
		return nil, errInvalidArgument("decode", "for array requires exactly one offsets child")
	}
	if len(metadata) < 9 {
		return nil, errInvalidArgument("decode", "for array metadata must encode ptype + reference")
	}
	p := dtype.PType(metadata[0])
	ref := int64(leU64(metadata[1:9]))
	return NewFoR(dtype.Primitive(p, children[0].DType().Nullability()), ref, children[0]), nil
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func (a *FoRArray) EncodingID() string         { return EncodingFoR }
func (a *FoRArray) DType() dtype.DType         { return a.typ }
func (a *FoRArray) Len() int                   { return a.offsets.Len() }
func (a *FoRArray) IsEmpty() bool              { return a.offsets.IsEmpty() }
func (a *FoRArray) NBytes() int64              { return a.offsets.NBytes() + 16 }
func (a *FoRArray) Metadata() EncodingMetadata { return forMetadata{ptype: a.typ.PType(), reference: a.reference} }

func (a *FoRArray) NumChildren() int  { return 1 }
func (a *FoRArray) Child(i int) Array {
	if i != 0 {
		panic("array: FoRArray has exactly one child")
	}
	return a.offsets
}

func (a *FoRArray) Accept(v Visitor) { v.VisitChild("offsets", a.offsets) }

func (a *FoRArray) IsValid(i int) bool                 { return a.offsets.IsValid(i) }
func (a *FoRArray) LogicalValidity() vxbuffer.Validity { return a.offsets.LogicalValidity() }
func (a *FoRArray) ScalarTrue(i int) bool              { return a.value(i) != 0 }

func (a *FoRArray) value(i int) int64 {
	off, err := ScalarAt(a.offsets, i)
	if err != nil {
		panic(err)
	}
	return a.reference + int64(off.Uint())
}

func (a *FoRArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	v := a.value(i)
	if a.typ.PType().IsSigned() {
		return scalar.NewInt(a.typ.PType(), v, a.typ.Nullability()), nil
	}
	return scalar.NewUint(a.typ.PType(), uint64(v), a.typ.Nullability()), nil
}

func (a *FoRArray) SliceImpl(start, end int) (Array, error) {
	sl, err := Slice(a.offsets, start, end)
	if err != nil {
		return nil, err
	}
	return NewFoR(a.typ, a.reference, sl), nil
}

// SubtractScalarImpl folds the subtraction into the reference value without
// touching the (possibly bit-packed) offsets child at all.
func (a *FoRArray) SubtractScalarImpl(rhs scalar.Scalar) (Array, error) {
	return NewFoR(a.typ, a.reference-rhs.Int(), a.offsets), nil
}

func (a *FoRArray) Flatten() Array {
	n := a.offsets.Len()
	buf := vxbuffer.NewOwned(n * a.typ.PType().ByteWidth())
	for i := 0; i < n; i++ {
		writeIntAt(buf, i, a.typ.PType().ByteWidth(), a.value(i))
	}
	return NewPrimitive(a.typ, buf, a.offsets.LogicalValidity())
}

func (a *FoRArray) ComputeStatImpl(s Stat) (scalar.Scalar, bool) {
	switch s {
	case StatMin:
		v, ok := ComputeStat(a.offsets, StatMin)
		if !ok {
			return scalar.Scalar{}, false
		}
		return offsetStatToScalar(a.typ, a.reference, v), true
	case StatMax:
		v, ok := ComputeStat(a.offsets, StatMax)
		if !ok {
			return scalar.Scalar{}, false
		}
		return offsetStatToScalar(a.typ, a.reference, v), true
	case StatIsSorted, StatIsStrictSorted, StatNullCount, StatRunCount:
		return ComputeStat(a.offsets, s)
	default:
		return scalar.Scalar{}, false
	}
}

func offsetStatToScalar(typ dtype.DType, reference int64, off scalar.Scalar) scalar.Scalar {
	v := reference + int64(off.Uint())
	if typ.PType().IsSigned() {
		return scalar.NewInt(typ.PType(), v, typ.Nullability())
	}
	return scalar.NewUint(typ.PType(), uint64(v), typ.Nullability())
}

type forMetadata struct {
	ptype     dtype.PType
	reference int64
}

func (forMetadata) isEncodingMetadata() {}
