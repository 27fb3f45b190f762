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
	RegisterEncoding(EncodingRef{ID: EncodingDict, Decode: decodeDict, Cost: 2})
}

// DictArray stores an unsigned code per logical position plus a values
// array of the distinct payloads the codes index into (spec §4.3 Dict),
// the encoding the compressor's distinct-value enumeration (built over a
// google/btree.BTreeG ordered set, see applyDict in compress/apply.go) produces for
// low-cardinality Utf8 and Primitive columns.
type DictArray struct {
	statsMixin
	noBuffersT
	codes  Array // unsigned primitive
	values Array // distinct values, same dtype as this array's logical dtype
}

func NewDict(codes, values Array) *DictArray {
	return &DictArray{statsMixin: newStatsMixin(), codes: codes, values: values}
}

func decodeDict(length int, _ []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) != 2 {
		return nil, errInvalidArgument("decode", "dict array requires exactly two children: codes, values")
	}
	return NewDict(children[0], children[1]), nil
}

func (a *DictArray) EncodingID() string { return EncodingDict }
func (a *DictArray) DType() dtype.DType { return a.values.DType() }
func (a *DictArray) Len() int           { return a.codes.Len() }
func (a *DictArray) IsEmpty() bool      { return a.codes.IsEmpty() }
func (a *DictArray) NBytes() int64      { return a.codes.NBytes() + a.values.NBytes() }
func (a *DictArray) Metadata() EncodingMetadata { return dictMetadata{} }

func (a *DictArray) NumChildren() int { return 2 }
func (a *DictArray) Child(i int) Array {
	switch i {
	case 0:
		return a.codes
	case 1:
		return a.values
	default:
		panic("array: DictArray has exactly two children")
	}
}

func (a *DictArray) Accept(v Visitor) {
	v.VisitChild("codes", a.codes)
	v.VisitChild("values", a.values)
}

func (a *DictArray) IsValid(i int) bool                 { return a.codes.IsValid(i) }
func (a *DictArray) LogicalValidity() vxbuffer.Validity { return a.codes.LogicalValidity() }
func (a *DictArray) ScalarTrue(i int) bool {
	code, err := ScalarAt(a.codes, i)
	if err != nil {
		panic(err)
	}
	return a.values.ScalarTrue(int(code.Uint()))
}

func (a *DictArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	code, err := ScalarAt(a.codes, i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	if !code.IsValid() {
		return scalar.NullOf(a.DType()), nil
	}
	return ScalarAt(a.values, int(code.Uint()))
}

func (a *DictArray) SliceImpl(start, end int) (Array, error) {
	sl, err := Slice(a.codes, start, end)
	if err != nil {
		return nil, err
	}
	return NewDict(sl, a.values), nil
}

// TakeImpl gathers against the codes only; the values dictionary is shared
// and never copied, the key reason Dict.take is cheap.
func (a *DictArray) TakeImpl(indices []int) (Array, error) {
	t, err := Take(a.codes, indices)
	if err != nil {
		return nil, err
	}
	return NewDict(t, a.values), nil
}

func (a *DictArray) Flatten() Array {
	n := a.codes.Len()
	vals := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		s, err := a.ScalarAtImpl(i)
		if err != nil {
			panic(err)
		}
		vals[i] = s
	}
	return scalarsToArray(vals, a.DType())
}

func (a *DictArray) ComputeStatImpl(s Stat) (scalar.Scalar, bool) {
	if s == StatNullCount {
		return ComputeStat(a.codes, StatNullCount)
	}
	return scalar.Scalar{}, false
}

type dictMetadata struct{}

func (dictMetadata) isEncodingMetadata() {}
