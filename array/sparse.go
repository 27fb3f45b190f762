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
	"sort"

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

func init() {
	RegisterEncoding(EncodingRef{ID: EncodingSparse, Decode: decodeSparse, Cost: 0})
}

// SparseArray is a fill value overridden at a sorted, deduplicated set of
// exception positions (spec §4.3 Sparse) — the encoding a compressed column
// degenerates to once Patch() is applied against it, and the one a mostly-
// null or mostly-one-value column samples into directly.
type SparseArray struct {
	statsMixin
	length        int
	fillValue     scalar.Scalar
	patchIndices  *PrimitiveArray // sorted ascending, dtype u64
	patchValues   Array
}

// NewSparse builds a Sparse array; patchIndices must already be sorted
// ascending and patchValues.Len() must equal len(patchIndices).
func NewSparse(fillValue scalar.Scalar, patchIndices *PrimitiveArray, patchValues Array, length int) (*SparseArray, error) {
	if patchIndices.Len() != patchValues.Len() {
		return nil, errLengthMismatch("sparse", "patch indices and patch values must have equal length")
	}
	return &SparseArray{statsMixin: newStatsMixin(), length: length, fillValue: fillValue, patchIndices: patchIndices, patchValues: patchValues}, nil
}

// decodeSparse is registered so EncodingSparse has an entry in the registry
// for ViewContext negotiation; the fill value travels out-of-band via ipc's
// own scalar codec (see array.SparseFillValue / ipc.decodeNode), so a
// direct registry decode has no fill scalar to reconstruct and falls back to
// a null fill of the values child's dtype.
func decodeSparse(length int, metadata []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) != 2 {
		return nil, errInvalidArgument("decode", "sparse array requires exactly two children: indices, values")
	}
	idx, ok := children[0].(*PrimitiveArray)
	if !ok {
		return nil, errInvalidArgument("decode", "sparse array's first child must be a primitive index array")
	}
	return NewSparse(scalar.NullOf(children[1].DType()), idx, children[1], length)
}

func (a *SparseArray) EncodingID() string { return EncodingSparse }
func (a *SparseArray) DType() dtype.DType { return a.patchValues.DType() }
func (a *SparseArray) Len() int           { return a.length }
func (a *SparseArray) IsEmpty() bool      { return a.length == 0 }
func (a *SparseArray) NBytes() int64      { return a.patchIndices.NBytes() + a.patchValues.NBytes() + 32 }
func (a *SparseArray) Metadata() EncodingMetadata { return sparseMetadata{fillValue: a.fillValue} }

func (a *SparseArray) NumChildren() int { return 2 }
func (a *SparseArray) Child(i int) Array {
	switch i {
	case 0:
		return a.patchIndices
	case 1:
		return a.patchValues
	default:
		panic("array: SparseArray has exactly two children")
	}
}
func (a *SparseArray) NumBuffers() int                { return 0 }
func (a *SparseArray) Buffer(int) vxbuffer.Buffer     { panic("array: SparseArray has no buffers of its own") }

func (a *SparseArray) Accept(v Visitor) {
	v.VisitChild("indices", a.patchIndices)
	v.VisitChild("values", a.patchValues)
}

func (a *SparseArray) findPatch(i int) (int, bool) {
	n := a.patchIndices.Len()
	pos := sort.Search(n, func(k int) bool { return a.patchIndices.asUint(k) >= uint64(i) })
	if pos < n && a.patchIndices.asUint(pos) == uint64(i) {
		return pos, true
	}
	return 0, false
}

func (a *SparseArray) IsValid(i int) bool {
	if pos, ok := a.findPatch(i); ok {
		return a.patchValues.IsValid(pos)
	}
	return a.fillValue.IsValid()
}

func (a *SparseArray) LogicalValidity() vxbuffer.Validity {
	return vxbuffer.MakePerElement(a)
}
func (a *SparseArray) ScalarTrue(i int) bool {
	if pos, ok := a.findPatch(i); ok {
		return a.patchValues.ScalarTrue(pos)
	}
	return a.fillValue.DType().Kind() == dtype.KindBool && a.fillValue.Bool()
}

func (a *SparseArray) Flatten() Array {
	vals := make([]scalar.Scalar, a.length)
	for i := range vals {
		s, err := ScalarAt(a, i)
		if err != nil {
			panic(err)
		}
		vals[i] = s
	}
	return scalarsToArray(vals, a.DType())
}

func (a *SparseArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	if pos, ok := a.findPatch(i); ok {
		return ScalarAt(a.patchValues, pos)
	}
	return a.fillValue, nil
}

func (a *SparseArray) PatchImpl(indices []int, values Array) (Array, error) {
	merged := make(map[int]int, a.patchIndices.Len()+len(indices))
	for i := 0; i < a.patchIndices.Len(); i++ {
		merged[int(a.patchIndices.asUint(i))] = i
	}
	keys := make([]int, 0, len(merged)+len(indices))
	for k := range merged {
		keys = append(keys, k)
	}
	type src struct {
		fromNew bool
		pos     int
	}
	srcOf := make(map[int]src, len(merged)+len(indices))
	for k, v := range merged {
		srcOf[k] = src{false, v}
	}
	for j, idx := range indices {
		if _, exists := srcOf[idx]; !exists {
			keys = append(keys, idx)
		}
		srcOf[idx] = src{true, j}
	}
	sort.Ints(keys)
	newIdx := make([]uint64, len(keys))
	valueIdx := make([]int, len(keys))
	fromNew := make([]bool, len(keys))
	for k, idx := range keys {
		newIdx[k] = uint64(idx)
		valueIdx[k] = srcOf[idx].pos
		fromNew[k] = srcOf[idx].fromNew
	}
	allVals := make([]scalar.Scalar, len(keys))
	for k := range keys {
		if fromNew[k] {
			s, err := ScalarAt(values, valueIdx[k])
			if err != nil {
				return nil, err
			}
			allVals[k] = s
		} else {
			s, err := ScalarAt(a.patchValues, valueIdx[k])
			if err != nil {
				return nil, err
			}
			allVals[k] = s
		}
	}
	newValues := scalarsToArray(allVals, a.patchValues.DType())
	newIndicesArr := NewPrimitive(dtype.Primitive(dtype.U64, dtype.NonNullable), vxbuffer.FromU64(newIdx), vxbuffer.MakeAllValid(len(newIdx)))
	return NewSparse(a.fillValue, newIndicesArr, newValues, a.length)
}

// scalarsToArray materializes a small slice of same-dtype scalars into a
// plain array, used when merging patch exception lists.
func scalarsToArray(vals []scalar.Scalar, typ dtype.DType) Array {
	switch typ.Kind() {
	case dtype.KindNull:
		return NewNull(len(vals))
	case dtype.KindStruct:
		names := typ.StructNames()
		fieldTypes := typ.StructFields()
		fields := make([]Array, len(names))
		for fi, ft := range fieldTypes {
			fv := make([]scalar.Scalar, len(vals))
			for i, v := range vals {
				if v.IsValid() {
					fv[i] = v.StructFields()[fi]
				} else {
					fv[i] = scalar.NullOf(ft)
				}
			}
			fields[fi] = scalarsToArray(fv, ft)
		}
		valid := make([]bool, len(vals))
		for i, v := range vals {
			valid[i] = v.IsValid()
		}
		out, err := NewStruct(names, fields, typ.Nullability(), vxbuffer.MakePerElement(&boolSliceView{vals: valid}))
		if err != nil {
			panic(err)
		}
		return out
	case dtype.KindBool:
		b := make([]bool, len(vals))
		valid := make([]bool, len(vals))
		for i, v := range vals {
			valid[i] = v.IsValid()
			if valid[i] {
				b[i] = v.Bool()
			}
		}
		return NewBoolFromSlice(b, valid, typ.Nullability())
	case dtype.KindUtf8, dtype.KindBinary:
		s := make([]string, len(vals))
		valid := make([]bool, len(vals))
		for i, v := range vals {
			valid[i] = v.IsValid()
			if valid[i] {
				s[i] = v.Utf8()
			}
		}
		return NewVarBinFromStrings(s, valid, typ.Nullability())
	default:
		buf := vxbuffer.NewOwned(len(vals) * typ.PType().ByteWidth())
		valid := make([]bool, len(vals))
		for i, v := range vals {
			valid[i] = v.IsValid()
			if valid[i] {
				writeScalarAt(buf, i, typ.PType(), v)
			}
		}
		return NewPrimitive(typ, buf, vxbuffer.MakePerElement(&boolSliceView{vals: valid}))
	}
}

type sparseMetadata struct{ fillValue scalar.Scalar }

func (sparseMetadata) isEncodingMetadata() {}
