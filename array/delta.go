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
	"sync"

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

func init() {
	RegisterEncoding(EncodingRef{ID: EncodingDelta, Decode: decodeDelta, Cost: 2})
}

// DeltaArray stores a first value plus a child array of successive
// differences (spec §4.3 Delta), the representation FastLanes' delta
// codec produces for slowly-varying integer columns (typically followed by
// BitPacked on the deltas). scalar_at needs the prefix sum up to i, which
// we compute once lazily and cache rather than rescanning per call.
type DeltaArray struct {
	statsMixin
	noBuffersT
	typ    dtype.DType
	first  int64
	deltas Array // signed primitive, length = Len()-1

	prefixOnce sync.Once
	prefix     []int64 // prefix[i] = logical value at position i
}

func NewDelta(typ dtype.DType, first int64, deltas Array) *DeltaArray {
	return &DeltaArray{statsMixin: newStatsMixin(), typ: typ, first: first, deltas: deltas}
}

func decodeDelta(length int, metadata []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) != 1 {
		return nil, errInvalidArgument("decode", "delta array requires exactly one deltas child")
	}
	if len(metadata) < 9 {
		return nil, errInvalidArgument("decode", "delta array metadata must encode ptype + first value")
	}
	p := dtype.PType(metadata[0])
	first := int64(leU64(metadata[1:9]))
	return NewDelta(dtype.Primitive(p, children[0].DType().Nullability()), first, children[0]), nil
}

func (a *DeltaArray) EncodingID() string { return EncodingDelta }
func (a *DeltaArray) DType() dtype.DType { return a.typ }
func (a *DeltaArray) Len() int           { return a.deltas.Len() + 1 }
func (a *DeltaArray) IsEmpty() bool      { return false }
func (a *DeltaArray) NBytes() int64      { return a.deltas.NBytes() + 16 }
func (a *DeltaArray) Metadata() EncodingMetadata {
	return deltaMetadata{ptype: a.typ.PType(), first: a.first}
}

func (a *DeltaArray) NumChildren() int  { return 1 }
func (a *DeltaArray) Child(i int) Array {
	if i != 0 {
		panic("array: DeltaArray has exactly one child")
	}
	return a.deltas
}

func (a *DeltaArray) Accept(v Visitor) { v.VisitChild("deltas", a.deltas) }

func (a *DeltaArray) IsValid(i int) bool {
	if i == 0 {
		return true
	}
	return a.deltas.IsValid(i - 1)
}
func (a *DeltaArray) LogicalValidity() vxbuffer.Validity { return vxbuffer.MakePerElement(a) }
func (a *DeltaArray) ScalarTrue(i int) bool               { return a.ensurePrefix()[i] != 0 }

func (a *DeltaArray) ensurePrefix() []int64 {
	a.prefixOnce.Do(func() {
		n := a.Len()
		prefix := make([]int64, n)
		prefix[0] = a.first
		for i := 1; i < n; i++ {
			d, err := ScalarAt(a.deltas, i-1)
			if err != nil {
				panic(err)
			}
			prefix[i] = prefix[i-1] + d.Int()
		}
		a.prefix = prefix
	})
	return a.prefix
}

func (a *DeltaArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	v := a.ensurePrefix()[i]
	if a.typ.PType().IsSigned() {
		return scalar.NewInt(a.typ.PType(), v, a.typ.Nullability()), nil
	}
	return scalar.NewUint(a.typ.PType(), uint64(v), a.typ.Nullability()), nil
}

func (a *DeltaArray) Flatten() Array {
	prefix := a.ensurePrefix()
	width := a.typ.PType().ByteWidth()
	buf := vxbuffer.NewOwned(len(prefix) * width)
	for i, v := range prefix {
		writeIntAt(buf, i, width, v)
	}
	return NewPrimitive(a.typ, buf, a.LogicalValidity())
}

func (a *DeltaArray) ComputeStatImpl(s Stat) (scalar.Scalar, bool) {
	if s != StatIsSorted && s != StatIsStrictSorted {
		return scalar.Scalar{}, false
	}
	nonNeg, ok := ComputeStat(a.deltas, StatMin)
	if !ok {
		return scalar.Scalar{}, false
	}
	if s == StatIsSorted {
		return scalar.NewBool(nonNeg.Int() >= 0, dtype.NonNullable), true
	}
	return scalar.NewBool(nonNeg.Int() > 0, dtype.NonNullable), true
}

type deltaMetadata struct {
	ptype dtype.PType
	first int64
}

func (deltaMetadata) isEncodingMetadata() {}
