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
	"encoding/binary"

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

func init() {
	RegisterEncoding(EncodingRef{ID: EncodingVarBinView, Decode: decodeVarBinView, Cost: 2})
}

// viewEntrySize is the width of one Arrow-style string-view entry: a 4-byte
// length, followed by either 12 bytes of inline data (length<=12) or a
// 4-byte prefix + 4-byte data-buffer index + 4-byte offset (spec §4.2
// VarBinView). arrowconv.AsArrow does not export this layout; it flattens
// the array to VarBin first.
const viewEntrySize = 16
const viewInlineMax = 12

// VarBinViewArray stores one 16-byte view per logical element in buffer 0,
// and the actual out-of-line bytes in one or more additional data buffers —
// letting scalar_at on a short string avoid touching any data buffer at
// all, and a dictionary-like builder append new data buffers instead of
// rewriting existing ones.
type VarBinViewArray struct {
	statsMixin
	noChildren
	typ         dtype.DType
	length      int
	views       vxbuffer.Buffer // length x 16 bytes
	dataBuffers []vxbuffer.Buffer
	validity    vxbuffer.Validity
}

func NewVarBinView(typ dtype.DType, views vxbuffer.Buffer, dataBuffers []vxbuffer.Buffer, validity vxbuffer.Validity) *VarBinViewArray {
	return &VarBinViewArray{
		statsMixin:  newStatsMixin(),
		typ:         typ,
		length:      views.Len() / viewEntrySize,
		views:       views,
		dataBuffers: dataBuffers,
		validity:    validity,
	}
}

// NewVarBinViewFromStrings packs vals into the view layout, placing every
// string's overflow bytes (length > 12) into a single shared data buffer.
func NewVarBinViewFromStrings(vals []string, valid []bool, n dtype.Nullability) *VarBinViewArray {
	viewBytes := make([]byte, len(vals)*viewEntrySize)
	var data []byte
	for i, s := range vals {
		entry := viewBytes[i*viewEntrySize : (i+1)*viewEntrySize]
		binary.LittleEndian.PutUint32(entry[0:4], uint32(len(s)))
		if len(s) <= viewInlineMax {
			copy(entry[4:4+len(s)], s)
		} else {
			copy(entry[4:8], s[:4])
			binary.LittleEndian.PutUint32(entry[8:12], 0) // buffer index
			binary.LittleEndian.PutUint32(entry[12:16], uint32(len(data)))
			data = append(data, s...)
		}
	}
	validity := vxbuffer.MakeAllValid(len(vals))
	if n == dtype.Nullable && valid != nil {
		validity = vxbuffer.MakePerElement(&boolSliceView{vals: valid})
	}
	return NewVarBinView(dtype.Utf8(n), vxbuffer.WrapOwned(viewBytes), []vxbuffer.Buffer{vxbuffer.WrapOwned(data)}, validity)
}

func decodeVarBinView(length int, metadata []byte, _ []Array, buffers []vxbuffer.Buffer) (Array, error) {
	if len(buffers) < 1 {
		return nil, errInvalidArgument("decode", "varbinview array requires a views buffer")
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
	dataBuffers := buffers[1:]
	validity := vxbuffer.MakeAllValid(length)
	if nullable {
		if len(dataBuffers) == 0 {
			return nil, errInvalidArgument("decode", "nullable varbinview array requires a validity buffer")
		}
		validity = vxbuffer.MakePerElement(&bitsetView{buf: dataBuffers[len(dataBuffers)-1], length: length})
		dataBuffers = dataBuffers[:len(dataBuffers)-1]
	}
	return &VarBinViewArray{
		statsMixin:  newStatsMixin(),
		typ:         typ,
		length:      length,
		views:       buffers[0],
		dataBuffers: dataBuffers,
		validity:    validity,
	}, nil
}

func (a *VarBinViewArray) EncodingID() string { return EncodingVarBinView }
func (a *VarBinViewArray) DType() dtype.DType { return a.typ }
func (a *VarBinViewArray) Len() int           { return a.length }
func (a *VarBinViewArray) IsEmpty() bool      { return a.length == 0 }
func (a *VarBinViewArray) NBytes() int64 {
	n := int64(a.views.Len())
	for _, b := range a.dataBuffers {
		n += int64(b.Len())
	}
	return n
}
func (a *VarBinViewArray) Metadata() EncodingMetadata {
	return varBinMetadata{binary: a.typ.Kind() == dtype.KindBinary, nullable: a.typ.IsNullable()}
}

// Flatten converts to the simpler offsets+bytes VarBin layout; every
// compute op that doesn't shortcut views directly gets there this way.
func (a *VarBinViewArray) Flatten() Array {
	vals := make([]string, a.length)
	valid := make([]bool, a.length)
	for i := 0; i < a.length; i++ {
		valid[i] = a.validity.IsValid(i)
		if valid[i] {
			vals[i] = string(a.viewBytes(i))
		}
	}
	return NewVarBinFromStrings(vals, valid, a.typ.Nullability())
}

func (a *VarBinViewArray) NumBuffers() int { return 1 + len(a.dataBuffers) }
func (a *VarBinViewArray) Buffer(i int) vxbuffer.Buffer {
	if i == 0 {
		return a.views
	}
	return a.dataBuffers[i-1]
}

func (a *VarBinViewArray) IsValid(i int) bool                 { return a.validity.IsValid(i) }
func (a *VarBinViewArray) LogicalValidity() vxbuffer.Validity { return a.validity }
func (a *VarBinViewArray) ScalarTrue(i int) bool              { return a.viewLen(i) > 0 }

func (a *VarBinViewArray) Accept(v Visitor) {
	v.VisitBuffer(a.views)
	for _, b := range a.dataBuffers {
		v.VisitBuffer(b)
	}
	v.VisitValidity(a.validity)
}

func (a *VarBinViewArray) entry(i int) []byte {
	return a.views.Bytes()[i*viewEntrySize : (i+1)*viewEntrySize]
}

func (a *VarBinViewArray) viewLen(i int) int {
	return int(binary.LittleEndian.Uint32(a.entry(i)[0:4]))
}

func (a *VarBinViewArray) viewBytes(i int) []byte {
	e := a.entry(i)
	length := int(binary.LittleEndian.Uint32(e[0:4]))
	if length <= viewInlineMax {
		return e[4 : 4+length]
	}
	bufIdx := binary.LittleEndian.Uint32(e[8:12])
	offset := binary.LittleEndian.Uint32(e[12:16])
	return a.dataBuffers[bufIdx].Bytes()[offset : int(offset)+length]
}

func (a *VarBinViewArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	b := a.viewBytes(i)
	if a.typ.Kind() == dtype.KindBinary {
		return scalar.NewBinary(b, a.typ.Nullability()), nil
	}
	return scalar.NewUtf8(string(b), a.typ.Nullability()), nil
}
