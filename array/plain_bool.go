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
	RegisterEncoding(EncodingRef{ID: EncodingBool, Decode: decodeBool, Cost: 1})
}

// BoolArray packs one bit per logical value into buffer 0 (LSB-first within
// each byte), with an optional second buffer holding the validity bitmap in
// the same layout when the dtype is nullable (spec §4.2 Bool).
type BoolArray struct {
	statsMixin
	noChildren
	typ      dtype.DType
	length   int
	values   vxbuffer.Buffer
	validity vxbuffer.Validity
}

// NewBool builds a Bool array from a packed bit buffer and its validity.
func NewBool(typ dtype.DType, length int, values vxbuffer.Buffer, validity vxbuffer.Validity) *BoolArray {
	return &BoolArray{statsMixin: newStatsMixin(), typ: typ, length: length, values: values, validity: validity}
}

// NewBoolFromSlice is the convenience builder used by tests and by the
// compressor's sampling path.
func NewBoolFromSlice(vals []bool, valid []bool, n dtype.Nullability) *BoolArray {
	values := vxbuffer.NewOwned(bitsetBytes(len(vals)))
	raw := values.Bytes()
	for i, v := range vals {
		if v {
			raw[i/8] |= 1 << uint(i%8)
		}
	}
	var validity vxbuffer.Validity
	if n == dtype.Nullable && valid != nil {
		vbuf := vxbuffer.NewOwned(bitsetBytes(len(vals)))
		vraw := vbuf.Bytes()
		for i, v := range valid {
			if v {
				vraw[i/8] |= 1 << uint(i%8)
			}
		}
		validity = vxbuffer.MakePerElement(&bitsetView{buf: vbuf, length: len(vals)})
	} else {
		validity = vxbuffer.MakeAllValid(len(vals))
	}
	return NewBool(dtype.Bool(n), len(vals), values, validity)
}

func bitsetBytes(n int) int { return (n + 7) / 8 }

func decodeBool(length int, _ []byte, _ []Array, buffers []vxbuffer.Buffer) (Array, error) {
	if len(buffers) < 1 {
		return nil, errInvalidArgument("decode", "bool array requires at least 1 buffer")
	}
	n := dtype.NonNullable
	validity := vxbuffer.MakeAllValid(length)
	if len(buffers) >= 2 {
		n = dtype.Nullable
		validity = vxbuffer.MakePerElement(&bitsetView{buf: buffers[1], length: length})
	}
	return NewBool(dtype.Bool(n), length, buffers[0], validity), nil
}

func (a *BoolArray) EncodingID() string         { return EncodingBool }
func (a *BoolArray) DType() dtype.DType         { return a.typ }
func (a *BoolArray) Len() int                   { return a.length }
func (a *BoolArray) IsEmpty() bool              { return a.length == 0 }
func (a *BoolArray) NBytes() int64              { return int64(a.values.Len()) }
func (a *BoolArray) Metadata() EncodingMetadata { return boolMetadata{} }
func (a *BoolArray) Flatten() Array             { return a }

func (a *BoolArray) NumBuffers() int { return 1 }
func (a *BoolArray) Buffer(i int) vxbuffer.Buffer {
	if i != 0 {
		panic("array: BoolArray buffer index out of range")
	}
	return a.values
}

func (a *BoolArray) IsValid(i int) bool { return a.validity.IsValid(i) }
func (a *BoolArray) LogicalValidity() vxbuffer.Validity { return a.validity }

// ScalarTrue reads the raw bit at i, ignoring validity, satisfying
// vxbuffer.BoolArrayLike so a BoolArray can serve as another array's
// validity bitmap.
func (a *BoolArray) ScalarTrue(i int) bool {
	raw := a.values.Bytes()
	return raw[i/8]&(1<<uint(i%8)) != 0
}

func (a *BoolArray) Accept(v Visitor) {
	v.VisitBuffer(a.values)
	v.VisitValidity(a.validity)
}

func (a *BoolArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	return scalar.NewBool(a.ScalarTrue(i), a.typ.Nullability()), nil
}

func (a *BoolArray) SliceImpl(start, end int) (Array, error) {
	// Bit offsets don't byte-align in general, so Slice on Bool re-packs
	// into a fresh buffer rather than sharing bytes; this mirrors the
	// teacher's StorageBool which always materializes a contiguous range
	// rather than bit-shifting a shared backing array.
	n := end - start
	vals := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		vals[i] = a.ScalarTrue(start + i)
		valid[i] = a.validity.IsValid(start + i)
	}
	out := NewBoolFromSlice(vals, valid, a.typ.Nullability())
	return out, nil
}

func (a *BoolArray) ComputeStatImpl(s Stat) (scalar.Scalar, bool) {
	if s != StatTrueCount {
		return scalar.Scalar{}, false
	}
	cnt := 0
	for i := 0; i < a.length; i++ {
		if a.validity.IsValid(i) && a.ScalarTrue(i) {
			cnt++
		}
	}
	return scalar.NewUint(dtype.U64, uint64(cnt), dtype.NonNullable), true
}

type boolMetadata struct{}

func (boolMetadata) isEncodingMetadata() {}

// bitsetView adapts a raw packed-bit Buffer to vxbuffer.BoolArrayLike so it
// can back a Validity PerElement mask.
type bitsetView struct {
	buf    vxbuffer.Buffer
	length int
}

func (b *bitsetView) Len() int { return b.length }
func (b *bitsetView) IsValid(int) bool { return true }
func (b *bitsetView) ScalarTrue(i int) bool {
	raw := b.buf.Bytes()
	return raw[i/8]&(1<<uint(i%8)) != 0
}
