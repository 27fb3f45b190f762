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
	RegisterEncoding(EncodingRef{ID: EncodingBitPacked, Decode: decodeBitPacked, Cost: 2})
}

// BitPackedArray packs length values of a narrower bit width than the
// backing ptype into a contiguous little-endian bitstream (spec §4.3
// BitPacked, the FastLanes layout): bitWidth bits per element starting at
// bit offset i*bitWidth, values read LSB-first.
type BitPackedArray struct {
	statsMixin
	typ      dtype.DType // unsigned primitive
	length   int
	bitWidth int
	packed   vxbuffer.Buffer
	validity vxbuffer.Validity
}

func NewBitPacked(typ dtype.DType, length, bitWidth int, packed vxbuffer.Buffer, validity vxbuffer.Validity) *BitPackedArray {
	return &BitPackedArray{statsMixin: newStatsMixin(), typ: typ, length: length, bitWidth: bitWidth, packed: packed, validity: validity}
}

func decodeBitPacked(length int, metadata []byte, _ []Array, buffers []vxbuffer.Buffer) (Array, error) {
	if len(metadata) < 2 {
		return nil, errInvalidArgument("decode", "bitpacked array metadata must encode ptype + bit width")
	}
	if len(buffers) < 1 {
		return nil, errInvalidArgument("decode", "bitpacked array requires a packed buffer")
	}
	p := dtype.PType(metadata[0])
	width := int(metadata[1])
	n := dtype.NonNullable
	validity := vxbuffer.MakeAllValid(length)
	if len(buffers) >= 2 {
		n = dtype.Nullable
		validity = vxbuffer.MakePerElement(&bitsetView{buf: buffers[1], length: length})
	}
	return NewBitPacked(dtype.Primitive(p, n), length, width, buffers[0], validity), nil
}

func (a *BitPackedArray) EncodingID() string { return EncodingBitPacked }
func (a *BitPackedArray) DType() dtype.DType { return a.typ }
func (a *BitPackedArray) Len() int           { return a.length }
func (a *BitPackedArray) IsEmpty() bool      { return a.length == 0 }
func (a *BitPackedArray) NBytes() int64      { return int64(a.packed.Len()) }
func (a *BitPackedArray) Metadata() EncodingMetadata {
	return bitPackedMetadata{ptype: a.typ.PType(), bitWidth: a.bitWidth}
}

func (a *BitPackedArray) NumChildren() int  { return 0 }
func (a *BitPackedArray) Child(int) Array   { panic("array: BitPackedArray has no children") }
func (a *BitPackedArray) NumBuffers() int   { return 1 }
func (a *BitPackedArray) Buffer(i int) vxbuffer.Buffer {
	if i != 0 {
		panic("array: BitPackedArray buffer index out of range")
	}
	return a.packed
}

func (a *BitPackedArray) Accept(v Visitor) {
	v.VisitBuffer(a.packed)
	v.VisitValidity(a.validity)
}

func (a *BitPackedArray) IsValid(i int) bool                 { return a.validity.IsValid(i) }
func (a *BitPackedArray) LogicalValidity() vxbuffer.Validity { return a.validity }
func (a *BitPackedArray) ScalarTrue(i int) bool              { return a.unpack(i) != 0 }

// unpack extracts the bitWidth-bit value starting at bit offset i*bitWidth,
// LSB-first, spanning at most 9 bytes (bitWidth<=64, plus up to 7 bits of
// misalignment).
func (a *BitPackedArray) unpack(i int) uint64 {
	bitStart := i * a.bitWidth
	byteStart := bitStart / 8
	bitOff := uint(bitStart % 8)
	raw := a.packed.Bytes()
	var acc uint64
	nBytes := (bitOff + uint(a.bitWidth) + 7) / 8
	for k := uint(0); k < nBytes; k++ {
		acc |= uint64(raw[byteStart+int(k)]) << (8 * k)
	}
	acc >>= bitOff
	if a.bitWidth < 64 {
		acc &= (uint64(1) << uint(a.bitWidth)) - 1
	}
	return acc
}

func (a *BitPackedArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	v := a.unpack(i)
	if a.typ.PType().IsSigned() {
		return scalar.NewInt(a.typ.PType(), int64(v), a.typ.Nullability()), nil
	}
	return scalar.NewUint(a.typ.PType(), v, a.typ.Nullability()), nil
}

func (a *BitPackedArray) SliceImpl(start, end int) (Array, error) {
	// Bit offsets don't byte-align in general; repack rather than share the
	// backing buffer, same tradeoff as BoolArray.Slice.
	n := end - start
	buf := vxbuffer.NewOwned((n*a.bitWidth + 7) / 8)
	for i := 0; i < n; i++ {
		packInto(buf, i, a.bitWidth, a.unpack(start+i))
	}
	return NewBitPacked(a.typ, n, a.bitWidth, buf, a.validity.Slice(start, end)), nil
}

func packInto(buf vxbuffer.Buffer, i, bitWidth int, v uint64) {
	bitStart := i * bitWidth
	byteStart := bitStart / 8
	bitOff := uint(bitStart % 8)
	raw := buf.Bytes()
	nBytes := (bitOff + uint(bitWidth) + 7) / 8
	acc := v << bitOff
	for k := uint(0); k < nBytes; k++ {
		raw[byteStart+int(k)] |= byte(acc >> (8 * k))
	}
}

func (a *BitPackedArray) Flatten() Array {
	width := a.typ.PType().ByteWidth()
	buf := vxbuffer.NewOwned(a.length * width)
	for i := 0; i < a.length; i++ {
		v := a.unpack(i)
		if a.typ.PType().IsSigned() {
			writeIntAt(buf, i, width, int64(v))
		} else {
			switch width {
			case 1:
				buf.AsU8()[i] = uint8(v)
			case 2:
				buf.AsU16()[i] = uint16(v)
			case 4:
				buf.AsU32()[i] = uint32(v)
			default:
				buf.AsU64()[i] = v
			}
		}
	}
	return NewPrimitive(a.typ, buf, a.validity)
}

// PackBitPacked builds a BitPackedArray from an already-extracted slice of
// unsigned values and the minimum bit width needed to hold them, the
// construction path the compressor uses after deciding BitPacked is
// admissible (spec §4.5 step 3: "max value's bit width").
func PackBitPacked(typ dtype.DType, values []uint64, bitWidth int, validity vxbuffer.Validity) *BitPackedArray {
	buf := vxbuffer.NewOwned((len(values)*bitWidth + 7) / 8)
	for i, v := range values {
		packInto(buf, i, bitWidth, v)
	}
	return NewBitPacked(typ, len(values), bitWidth, buf, validity)
}

type bitPackedMetadata struct {
	ptype    dtype.PType
	bitWidth int
}

func (bitPackedMetadata) isEncodingMetadata() {}
