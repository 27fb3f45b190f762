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
	RegisterEncoding(EncodingRef{ID: EncodingVarBin, Decode: decodeVarBin, Cost: 2})
}

// VarBinArray is the plain representation of Utf8/Binary: an offsets buffer
// of N+1 u32 values delimiting runs in a single bytes buffer (spec §4.2
// VarBin), the layout the teacher's string columns use before any
// dictionary/compression pass (see storage's variable-length column path).
type VarBinArray struct {
	statsMixin
	noChildren
	typ      dtype.DType
	length   int
	offsets  vxbuffer.Buffer // length+1 x u32
	bytes    vxbuffer.Buffer
	validity vxbuffer.Validity
}

func NewVarBin(typ dtype.DType, offsets, bytesBuf vxbuffer.Buffer, validity vxbuffer.Validity) *VarBinArray {
	return &VarBinArray{
		statsMixin: newStatsMixin(),
		typ:        typ,
		length:     len(offsets.AsU32()) - 1,
		offsets:    offsets,
		bytes:      bytesBuf,
		validity:   validity,
	}
}

// NewVarBinFromStrings is the convenience builder used by tests and the
// compressor's sampling path for Utf8 columns.
func NewVarBinFromStrings(vals []string, valid []bool, n dtype.Nullability) *VarBinArray {
	offsets := make([]uint32, len(vals)+1)
	total := 0
	for i, s := range vals {
		total += len(s)
		offsets[i+1] = uint32(total)
	}
	data := make([]byte, 0, total)
	for _, s := range vals {
		data = append(data, s...)
	}
	offBuf := vxbuffer.FromU32(offsets)
	dataBuf := vxbuffer.WrapOwned(append([]byte{}, data...))
	validity := vxbuffer.MakeAllValid(len(vals))
	if n == dtype.Nullable && valid != nil {
		validity = vxbuffer.MakePerElement(&boolSliceView{vals: valid})
	}
	return NewVarBin(dtype.Utf8(n), offBuf, dataBuf, validity)
}

func decodeVarBin(length int, metadata []byte, _ []Array, buffers []vxbuffer.Buffer) (Array, error) {
	if len(buffers) < 2 {
		return nil, errInvalidArgument("decode", "varbin array requires offsets and bytes buffers")
	}
	isBinary := len(metadata) >= 1 && metadata[0] != 0
	nullable := len(metadata) >= 2 && metadata[1] != 0
	n := dtype.NonNullable
	if nullable {
		n = dtype.Nullable
	}
	typ := dtype.Utf8(n)
	if isBinary {
		typ = dtype.Binary(n)
	}
	validity := vxbuffer.MakeAllValid(length)
	if nullable {
		if len(buffers) < 3 {
			return nil, errInvalidArgument("decode", "nullable varbin array requires a validity buffer")
		}
		validity = vxbuffer.MakePerElement(&bitsetView{buf: buffers[2], length: length})
	}
	return &VarBinArray{
		statsMixin: newStatsMixin(),
		typ:        typ,
		length:     length,
		offsets:    buffers[0],
		bytes:      buffers[1],
		validity:   validity,
	}, nil
}

func (a *VarBinArray) EncodingID() string { return EncodingVarBin }
func (a *VarBinArray) DType() dtype.DType { return a.typ }
func (a *VarBinArray) Len() int           { return a.length }
func (a *VarBinArray) IsEmpty() bool      { return a.length == 0 }
func (a *VarBinArray) NBytes() int64      { return int64(a.offsets.Len() + a.bytes.Len()) }
func (a *VarBinArray) Metadata() EncodingMetadata {
	return varBinMetadata{binary: a.typ.Kind() == dtype.KindBinary, nullable: a.typ.IsNullable()}
}
func (a *VarBinArray) Flatten() Array { return a }

func (a *VarBinArray) NumBuffers() int { return 2 }
func (a *VarBinArray) Buffer(i int) vxbuffer.Buffer {
	switch i {
	case 0:
		return a.offsets
	case 1:
		return a.bytes
	default:
		panic("array: VarBinArray buffer index out of range")
	}
}

func (a *VarBinArray) IsValid(i int) bool                 { return a.validity.IsValid(i) }
func (a *VarBinArray) LogicalValidity() vxbuffer.Validity { return a.validity }
func (a *VarBinArray) ScalarTrue(i int) bool              { return a.runLen(i) > 0 }

func (a *VarBinArray) Accept(v Visitor) {
	v.VisitBuffer(a.offsets)
	v.VisitBuffer(a.bytes)
	v.VisitValidity(a.validity)
}

func (a *VarBinArray) runLen(i int) int {
	off := a.offsets.AsU32()
	return int(off[i+1] - off[i])
}

func (a *VarBinArray) runBytes(i int) []byte {
	off := a.offsets.AsU32()
	return a.bytes.Bytes()[off[i]:off[i+1]]
}

func (a *VarBinArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	b := a.runBytes(i)
	if a.typ.Kind() == dtype.KindBinary {
		return scalar.NewBinary(b, a.typ.Nullability()), nil
	}
	return scalar.NewUtf8(string(b), a.typ.Nullability()), nil
}

func (a *VarBinArray) SliceImpl(start, end int) (Array, error) {
	off := a.offsets.AsU32()
	byteStart, byteEnd := off[start], off[end]
	newOffsets := make([]uint32, end-start+1)
	for i := range newOffsets {
		newOffsets[i] = off[start+i] - byteStart
	}
	return &VarBinArray{
		statsMixin: newStatsMixin(),
		typ:        a.typ,
		length:     end - start,
		offsets:    vxbuffer.FromU32(newOffsets),
		bytes:      a.bytes.Slice(int(byteStart), int(byteEnd)),
		validity:   a.validity.Slice(start, end),
	}, nil
}

type varBinMetadata struct {
	binary   bool
	nullable bool
}

func (varBinMetadata) isEncodingMetadata() {}

// boolSliceView adapts a plain []bool to vxbuffer.BoolArrayLike, used when a
// builder already has a Go bool slice and doesn't want to pack bits first.
type boolSliceView struct {
	vals []bool
}

func (b *boolSliceView) Len() int           { return len(b.vals) }
func (b *boolSliceView) IsValid(int) bool   { return true }
func (b *boolSliceView) ScalarTrue(i int) bool { return b.vals[i] }
