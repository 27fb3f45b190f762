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
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

func init() {
	RegisterEncoding(EncodingRef{ID: EncodingRoaringBool, Decode: decodeRoaringBool, Cost: 2})
	RegisterEncoding(EncodingRef{ID: EncodingRoaringInt, Decode: decodeRoaringInt, Cost: 2})
}

// RoaringBoolArray represents a non-nullable boolean column as the compact
// bitmap of its true positions (spec §4.3 Roaring): admissible when the
// sampled column's true/false population is skewed enough that a Roaring
// container beats one-bit-per-value packing.
type RoaringBoolArray struct {
	statsMixin
	noChildren
	length int
	bitmap *roaring.Bitmap
}

func NewRoaringBool(length int, bitmap *roaring.Bitmap) *RoaringBoolArray {
	return &RoaringBoolArray{statsMixin: newStatsMixin(), length: length, bitmap: bitmap}
}

// NewRoaringBoolFromSlice is the builder the compressor uses once it has
// decided a Bool column is admissible for Roaring.
func NewRoaringBoolFromSlice(vals []bool) *RoaringBoolArray {
	bm := roaring.New()
	for i, v := range vals {
		if v {
			bm.Add(uint32(i))
		}
	}
	return NewRoaringBool(len(vals), bm)
}

func decodeRoaringBool(length int, _ []byte, _ []Array, buffers []vxbuffer.Buffer) (Array, error) {
	if len(buffers) < 1 {
		return nil, errInvalidArgument("decode", "roaring bool array requires a serialized bitmap buffer")
	}
	bm := roaring.New()
	if _, err := bm.FromBuffer(buffers[0].Bytes()); err != nil {
		return nil, errInvalidArgument("decode", "malformed roaring bitmap: "+err.Error())
	}
	return NewRoaringBool(length, bm), nil
}

func (a *RoaringBoolArray) EncodingID() string { return EncodingRoaringBool }
func (a *RoaringBoolArray) DType() dtype.DType { return dtype.Bool(dtype.NonNullable) }
func (a *RoaringBoolArray) Len() int           { return a.length }
func (a *RoaringBoolArray) IsEmpty() bool      { return a.length == 0 }
func (a *RoaringBoolArray) NBytes() int64      { return int64(a.bitmap.GetSerializedSizeInBytes()) }
func (a *RoaringBoolArray) Metadata() EncodingMetadata { return roaringMetadata{} }

func (a *RoaringBoolArray) NumBuffers() int { return 1 }
func (a *RoaringBoolArray) Buffer(i int) vxbuffer.Buffer {
	if i != 0 {
		panic("array: RoaringBoolArray buffer index out of range")
	}
	buf, err := a.bitmap.ToBytes()
	if err != nil {
		panic(err)
	}
	return vxbuffer.WrapOwned(buf)
}

func (a *RoaringBoolArray) Accept(v Visitor) { v.VisitBuffer(a.Buffer(0)) }

func (a *RoaringBoolArray) IsValid(int) bool { return true }
func (a *RoaringBoolArray) LogicalValidity() vxbuffer.Validity {
	return vxbuffer.MakeAllValid(a.length)
}
func (a *RoaringBoolArray) ScalarTrue(i int) bool { return a.bitmap.Contains(uint32(i)) }

func (a *RoaringBoolArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	return scalar.NewBool(a.bitmap.Contains(uint32(i)), dtype.NonNullable), nil
}

func (a *RoaringBoolArray) SliceImpl(start, end int) (Array, error) {
	sub := roaring.New()
	it := a.bitmap.Iterator()
	it.AdvanceIfNeeded(uint32(start))
	for it.HasNext() {
		v := it.Next()
		if v >= uint32(end) {
			break
		}
		sub.Add(v - uint32(start))
	}
	return NewRoaringBool(end-start, sub), nil
}

func (a *RoaringBoolArray) Flatten() Array {
	vals := make([]bool, a.length)
	it := a.bitmap.Iterator()
	for it.HasNext() {
		vals[it.Next()] = true
	}
	return NewBoolFromSlice(vals, nil, dtype.NonNullable)
}

func (a *RoaringBoolArray) ComputeStatImpl(s Stat) (scalar.Scalar, bool) {
	if s != StatTrueCount {
		return scalar.Scalar{}, false
	}
	return scalar.NewUint(dtype.U64, uint64(a.bitmap.GetCardinality()), dtype.NonNullable), true
}

// RoaringIntArray stores a strictly ascending set of u32 values compactly
// (spec §4.3 Roaring applied to integer columns): logical position i holds
// the i-th smallest member of the set. The compressor never produces it;
// it is built with NewRoaringInt/NewRoaringIntFromSlice or decoded from IPC,
// and run-end offsets and sparse/ALP patch indices are PrimitiveArrays.
type RoaringIntArray struct {
	statsMixin
	noChildren
	bitmap *roaring.Bitmap
}

func NewRoaringInt(bitmap *roaring.Bitmap) *RoaringIntArray {
	return &RoaringIntArray{statsMixin: newStatsMixin(), bitmap: bitmap}
}

func NewRoaringIntFromSlice(vals []uint32) *RoaringIntArray {
	bm := roaring.New()
	bm.AddMany(vals)
	return NewRoaringInt(bm)
}

func decodeRoaringInt(length int, _ []byte, _ []Array, buffers []vxbuffer.Buffer) (Array, error) {
	if len(buffers) < 1 {
		return nil, errInvalidArgument("decode", "roaring int array requires a serialized bitmap buffer")
	}
	bm := roaring.New()
	if _, err := bm.FromBuffer(buffers[0].Bytes()); err != nil {
		return nil, errInvalidArgument("decode", "malformed roaring bitmap: "+err.Error())
	}
	return NewRoaringInt(bm), nil
}

func (a *RoaringIntArray) EncodingID() string { return EncodingRoaringInt }
func (a *RoaringIntArray) DType() dtype.DType { return dtype.Primitive(dtype.U32, dtype.NonNullable) }
func (a *RoaringIntArray) Len() int           { return int(a.bitmap.GetCardinality()) }
func (a *RoaringIntArray) IsEmpty() bool      { return a.bitmap.IsEmpty() }
func (a *RoaringIntArray) NBytes() int64      { return int64(a.bitmap.GetSerializedSizeInBytes()) }
func (a *RoaringIntArray) Metadata() EncodingMetadata { return roaringMetadata{} }

func (a *RoaringIntArray) NumBuffers() int { return 1 }
func (a *RoaringIntArray) Buffer(i int) vxbuffer.Buffer {
	if i != 0 {
		panic("array: RoaringIntArray buffer index out of range")
	}
	buf, err := a.bitmap.ToBytes()
	if err != nil {
		panic(err)
	}
	return vxbuffer.WrapOwned(buf)
}

func (a *RoaringIntArray) Accept(v Visitor) { v.VisitBuffer(a.Buffer(0)) }

func (a *RoaringIntArray) IsValid(int) bool { return true }
func (a *RoaringIntArray) LogicalValidity() vxbuffer.Validity {
	return vxbuffer.MakeAllValid(a.Len())
}
func (a *RoaringIntArray) ScalarTrue(i int) bool { return a.nth(i) != 0 }

func (a *RoaringIntArray) nth(i int) uint32 {
	it := a.bitmap.Iterator()
	var v uint32
	for k := 0; k <= i; k++ {
		v = it.Next()
	}
	return v
}

func (a *RoaringIntArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	return scalar.NewUint(dtype.U32, uint64(a.nth(i)), dtype.NonNullable), nil
}

func (a *RoaringIntArray) SearchSortedImpl(target scalar.Scalar, bias SearchBias) (int, error) {
	t := uint32(target.Uint())
	rank := int(a.bitmap.Rank(t))
	if bias == SearchLeft && a.bitmap.Contains(t) {
		rank--
	}
	return rank, nil
}

func (a *RoaringIntArray) Flatten() Array {
	vals := a.bitmap.ToArray()
	buf := vxbuffer.FromU32(vals)
	return NewPrimitive(dtype.Primitive(dtype.U32, dtype.NonNullable), buf, vxbuffer.MakeAllValid(len(vals)))
}

type roaringMetadata struct{}

func (roaringMetadata) isEncodingMetadata() {}
