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
	RegisterEncoding(EncodingRef{ID: EncodingPrimitive, Decode: decodePrimitive, Cost: 1})
}

// PrimitiveArray is a flat, fixed-width array of one PType, the base case
// every compressed numeric encoding eventually flattens to (spec §4.2
// Primitive). Buffer 0 holds the packed elements; buffer 1, when present,
// holds the validity bitmap.
type PrimitiveArray struct {
	statsMixin
	noChildren
	typ      dtype.DType
	length   int
	data     vxbuffer.Buffer
	validity vxbuffer.Validity
}

func NewPrimitive(typ dtype.DType, data vxbuffer.Buffer, validity vxbuffer.Validity) *PrimitiveArray {
	width := typ.PType().ByteWidth()
	length := data.Len() / width
	return &PrimitiveArray{statsMixin: newStatsMixin(), typ: typ, length: length, data: data, validity: validity}
}

func decodePrimitive(length int, metadata []byte, _ []Array, buffers []vxbuffer.Buffer) (Array, error) {
	if len(metadata) < 1 {
		return nil, errInvalidArgument("decode", "primitive array metadata must encode its ptype")
	}
	p := dtype.PType(metadata[0])
	n := dtype.NonNullable
	if len(metadata) >= 2 && metadata[1] != 0 {
		n = dtype.Nullable
	}
	if len(buffers) < 1 {
		return nil, errInvalidArgument("decode", "primitive array requires at least 1 buffer")
	}
	validity := vxbuffer.MakeAllValid(length)
	if n == dtype.Nullable {
		if len(buffers) < 2 {
			return nil, errInvalidArgument("decode", "nullable primitive array requires a validity buffer")
		}
		validity = vxbuffer.MakePerElement(&bitsetView{buf: buffers[1], length: length})
	}
	return &PrimitiveArray{
		statsMixin: newStatsMixin(),
		typ:        dtype.Primitive(p, n),
		length:     length,
		data:       buffers[0],
		validity:   validity,
	}, nil
}

func (a *PrimitiveArray) EncodingID() string { return EncodingPrimitive }
func (a *PrimitiveArray) DType() dtype.DType { return a.typ }
func (a *PrimitiveArray) Len() int           { return a.length }
func (a *PrimitiveArray) IsEmpty() bool      { return a.length == 0 }
func (a *PrimitiveArray) NBytes() int64      { return int64(a.data.Len()) }
func (a *PrimitiveArray) Metadata() EncodingMetadata {
	return primitiveMetadata{ptype: a.typ.PType(), nullable: a.typ.IsNullable()}
}
func (a *PrimitiveArray) Flatten() Array { return a }

func (a *PrimitiveArray) NumBuffers() int { return 1 }
func (a *PrimitiveArray) Buffer(i int) vxbuffer.Buffer {
	if i != 0 {
		panic("array: PrimitiveArray buffer index out of range")
	}
	return a.data
}

func (a *PrimitiveArray) IsValid(i int) bool                    { return a.validity.IsValid(i) }
func (a *PrimitiveArray) LogicalValidity() vxbuffer.Validity    { return a.validity }
func (a *PrimitiveArray) ScalarTrue(i int) bool {
	return a.asUint(i) != 0
}

func (a *PrimitiveArray) Accept(v Visitor) {
	v.VisitBuffer(a.data)
	v.VisitValidity(a.validity)
}

func (a *PrimitiveArray) asUint(i int) uint64 {
	switch a.typ.PType().ByteWidth() {
	case 1:
		return uint64(a.data.AsU8()[i])
	case 2:
		return uint64(a.data.AsU16()[i])
	case 4:
		return uint64(a.data.AsU32()[i])
	default:
		return a.data.AsU64()[i]
	}
}

func (a *PrimitiveArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	p := a.typ.PType()
	if p.IsFloat() {
		var f float64
		if p == dtype.F32 {
			f = float64(a.data.AsF32()[i])
		} else {
			f = a.data.AsF64()[i]
		}
		return scalar.NewFloat(p, f, a.typ.Nullability()), nil
	}
	if p.IsSigned() {
		return scalar.NewInt(p, a.asInt(i), a.typ.Nullability()), nil
	}
	return scalar.NewUint(p, a.asUint(i), a.typ.Nullability()), nil
}

func (a *PrimitiveArray) asInt(i int) int64 {
	switch a.typ.PType().ByteWidth() {
	case 1:
		return int64(a.data.AsI8()[i])
	case 2:
		return int64(a.data.AsI16()[i])
	case 4:
		return int64(a.data.AsI32()[i])
	default:
		return a.data.AsI64()[i]
	}
}

func (a *PrimitiveArray) SliceImpl(start, end int) (Array, error) {
	width := a.typ.PType().ByteWidth()
	sub := a.data.Slice(start*width, end*width)
	return &PrimitiveArray{
		statsMixin: newStatsMixin(),
		typ:        a.typ,
		length:     end - start,
		data:       sub,
		validity:   a.validity.Slice(start, end),
	}, nil
}

func (a *PrimitiveArray) SubtractScalarImpl(rhs scalar.Scalar) (Array, error) {
	if !a.typ.PType().IsInteger() {
		return nil, errNotImplemented("subtract_scalar", a.EncodingID())
	}
	out := vxbuffer.NewOwned(a.data.Len())
	width := a.typ.PType().ByteWidth()
	for i := 0; i < a.length; i++ {
		if !a.validity.IsValid(i) {
			continue
		}
		v := a.asInt(i) - rhs.Int()
		writeIntAt(out, i, width, v)
	}
	return &PrimitiveArray{statsMixin: newStatsMixin(), typ: a.typ, length: a.length, data: out, validity: a.validity}, nil
}

func writeIntAt(buf vxbuffer.Buffer, i, width int, v int64) {
	switch width {
	case 1:
		buf.AsI8()[i] = int8(v)
	case 2:
		buf.AsI16()[i] = int16(v)
	case 4:
		buf.AsI32()[i] = int32(v)
	default:
		buf.AsI64()[i] = v
	}
}

type primitiveMetadata struct {
	ptype    dtype.PType
	nullable bool
}

func (primitiveMetadata) isEncodingMetadata() {}
