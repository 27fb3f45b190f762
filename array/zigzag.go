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
	RegisterEncoding(EncodingRef{ID: EncodingZigZag, Decode: decodeZigZag, Cost: 1})
}

// ZigZagArray maps a signed integer column to its unsigned zigzag encoding
// so that small-magnitude negative values stay small-magnitude (spec §4.3
// ZigZag), letting a downstream BitPacked or FoR pass operate on the
// unsigned child without re-deriving sign handling.
type ZigZagArray struct {
	statsMixin
	noBuffersT
	typ     dtype.DType // signed primitive
	encoded Array       // unsigned primitive of the same width
}

func NewZigZag(typ dtype.DType, encoded Array) *ZigZagArray {
	return &ZigZagArray{statsMixin: newStatsMixin(), typ: typ, encoded: encoded}
}

func decodeZigZag(length int, metadata []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) != 1 {
		return nil, errInvalidArgument("decode", "zigzag array requires exactly one encoded child")
	}
	if len(metadata) < 1 {
		return nil, errInvalidArgument("decode", "zigzag array metadata must encode ptype")
	}
	p := dtype.PType(metadata[0])
	return NewZigZag(dtype.Primitive(p, children[0].DType().Nullability()), children[0]), nil
}

func zigZagEncode(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }
func zigZagDecode(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

func (a *ZigZagArray) EncodingID() string { return EncodingZigZag }
func (a *ZigZagArray) DType() dtype.DType { return a.typ }
func (a *ZigZagArray) Len() int           { return a.encoded.Len() }
func (a *ZigZagArray) IsEmpty() bool      { return a.encoded.IsEmpty() }
func (a *ZigZagArray) NBytes() int64      { return a.encoded.NBytes() }
func (a *ZigZagArray) Metadata() EncodingMetadata { return zigZagMetadata{ptype: a.typ.PType()} }

func (a *ZigZagArray) NumChildren() int  { return 1 }
func (a *ZigZagArray) Child(i int) Array {
	if i != 0 {
		panic("array: ZigZagArray has exactly one child")
	}
	return a.encoded
}

func (a *ZigZagArray) Accept(v Visitor) { v.VisitChild("encoded", a.encoded) }

func (a *ZigZagArray) IsValid(i int) bool                 { return a.encoded.IsValid(i) }
func (a *ZigZagArray) LogicalValidity() vxbuffer.Validity { return a.encoded.LogicalValidity() }
func (a *ZigZagArray) ScalarTrue(i int) bool              { return a.value(i) != 0 }

func (a *ZigZagArray) value(i int) int64 {
	v, err := ScalarAt(a.encoded, i)
	if err != nil {
		panic(err)
	}
	return zigZagDecode(v.Uint())
}

func (a *ZigZagArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	return scalar.NewInt(a.typ.PType(), a.value(i), a.typ.Nullability()), nil
}

func (a *ZigZagArray) SliceImpl(start, end int) (Array, error) {
	sl, err := Slice(a.encoded, start, end)
	if err != nil {
		return nil, err
	}
	return NewZigZag(a.typ, sl), nil
}

func (a *ZigZagArray) Flatten() Array {
	n := a.encoded.Len()
	width := a.typ.PType().ByteWidth()
	buf := vxbuffer.NewOwned(n * width)
	for i := 0; i < n; i++ {
		writeIntAt(buf, i, width, a.value(i))
	}
	return NewPrimitive(a.typ, buf, a.encoded.LogicalValidity())
}

type zigZagMetadata struct{ ptype dtype.PType }

func (zigZagMetadata) isEncodingMetadata() {}
