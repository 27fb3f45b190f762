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
	RegisterEncoding(EncodingRef{ID: EncodingConstant, Decode: decodeConstant, Cost: 0})
}

// ConstantArray represents length repetitions of a single scalar (spec
// §4.3 Constant) with zero buffers: NBytes is the cost of one scalar no
// matter how large length is. This is the compressor's cheapest possible
// encoding and the one RunEnd/Sparse degenerate to when a sampled column
// turns out to have exactly one distinct value.
type ConstantArray struct {
	statsMixin
	noChildren
	noBuffersT
	length int
	value  scalar.Scalar
}

func NewConstant(value scalar.Scalar, length int) *ConstantArray {
	a := &ConstantArray{statsMixin: newStatsMixin(), length: length, value: value}
	a.stats.SetAll(constantStats(value, length))
	return a
}

func constantStats(value scalar.Scalar, length int) map[Stat]scalar.Scalar {
	m := map[Stat]scalar.Scalar{
		StatIsConstant:     scalar.NewBool(true, dtype.NonNullable),
		StatIsSorted:       scalar.NewBool(true, dtype.NonNullable),
		StatIsStrictSorted: scalar.NewBool(length <= 1, dtype.NonNullable),
	}
	if value.IsValid() {
		m[StatMin] = value
		m[StatMax] = value
		m[StatNullCount] = scalar.NewUint(dtype.U64, 0, dtype.NonNullable)
		if value.DType().Kind() == dtype.KindBool {
			cnt := uint64(0)
			if value.Bool() {
				cnt = uint64(length)
			}
			m[StatTrueCount] = scalar.NewUint(dtype.U64, cnt, dtype.NonNullable)
		}
	} else {
		m[StatNullCount] = scalar.NewUint(dtype.U64, uint64(length), dtype.NonNullable)
	}
	if length == 0 {
		m[StatRunCount] = scalar.NewUint(dtype.U64, 0, dtype.NonNullable)
	} else {
		m[StatRunCount] = scalar.NewUint(dtype.U64, 1, dtype.NonNullable)
	}
	return m
}

func decodeConstant(length int, _ []byte, _ []Array, _ []vxbuffer.Buffer) (Array, error) {
	// The scalar payload for Constant travels out-of-band via the ipc
	// package's own metadata codec (see ipc.decodeNode), which calls
	// NewConstant directly; this Decoder exists only so the encoding id is
	// present in the registry for ViewContext negotiation.
	return nil, errNotImplemented("decode", EncodingConstant)
}

func (a *ConstantArray) EncodingID() string         { return EncodingConstant }
func (a *ConstantArray) DType() dtype.DType         { return a.value.DType() }
func (a *ConstantArray) Len() int                   { return a.length }
func (a *ConstantArray) IsEmpty() bool              { return a.length == 0 }
func (a *ConstantArray) NBytes() int64              { return 32 }
func (a *ConstantArray) Metadata() EncodingMetadata { return constantMetadata{value: a.value} }
func (a *ConstantArray) Accept(v Visitor)           {}

func (a *ConstantArray) IsValid(int) bool { return a.value.IsValid() }
func (a *ConstantArray) LogicalValidity() vxbuffer.Validity {
	if a.value.IsValid() {
		return vxbuffer.MakeAllValid(a.length)
	}
	return vxbuffer.MakeAllInvalid(a.length)
}
func (a *ConstantArray) ScalarTrue(int) bool {
	return a.value.DType().Kind() == dtype.KindBool && a.value.Bool()
}

func (a *ConstantArray) ScalarAtImpl(int) (scalar.Scalar, error) { return a.value, nil }

func (a *ConstantArray) SliceImpl(start, end int) (Array, error) {
	return NewConstant(a.value, end-start), nil
}

func (a *ConstantArray) Flatten() Array {
	switch a.value.DType().Kind() {
	case dtype.KindBool:
		vals := make([]bool, a.length)
		valid := make([]bool, a.length)
		for i := range vals {
			vals[i] = a.value.Bool()
			valid[i] = a.value.IsValid()
		}
		return NewBoolFromSlice(vals, valid, a.value.DType().Nullability())
	case dtype.KindPrimitive:
		typ := a.value.DType()
		buf := vxbuffer.NewOwned(a.length * typ.PType().ByteWidth())
		for i := 0; i < a.length; i++ {
			writeScalarAt(buf, i, typ.PType(), a.value)
		}
		validity := vxbuffer.MakeAllValid(a.length)
		if !a.value.IsValid() {
			validity = vxbuffer.MakeAllInvalid(a.length)
		}
		return NewPrimitive(typ, buf, validity)
	case dtype.KindUtf8, dtype.KindBinary:
		vals := make([]string, a.length)
		valid := make([]bool, a.length)
		for i := range vals {
			if a.value.IsValid() {
				vals[i] = a.value.Utf8()
			}
			valid[i] = a.value.IsValid()
		}
		return NewVarBinFromStrings(vals, valid, a.value.DType().Nullability())
	default:
		return NewNull(a.length)
	}
}

func (a *ConstantArray) ComputeStatImpl(s Stat) (scalar.Scalar, bool) {
	v, ok := a.stats.Get(s)
	return v, ok
}

func writeScalarAt(buf vxbuffer.Buffer, i int, p dtype.PType, v scalar.Scalar) {
	if p.IsFloat() {
		if p == dtype.F32 {
			buf.AsF32()[i] = float32(v.Float())
		} else {
			buf.AsF64()[i] = v.Float()
		}
		return
	}
	if p.IsSigned() {
		writeIntAt(buf, i, p.ByteWidth(), v.Int())
		return
	}
	switch p.ByteWidth() {
	case 1:
		buf.AsU8()[i] = uint8(v.Uint())
	case 2:
		buf.AsU16()[i] = uint16(v.Uint())
	case 4:
		buf.AsU32()[i] = uint32(v.Uint())
	default:
		buf.AsU64()[i] = v.Uint()
	}
}

type constantMetadata struct{ value scalar.Scalar }

func (constantMetadata) isEncodingMetadata() {}
