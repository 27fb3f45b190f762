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
	"github.com/vortexdb/vortex/vxbuffer"
)

func init() {
	RegisterEncoding(EncodingRef{ID: EncodingNull, Decode: decodeNull, Cost: 0})
}

// NullArray is the all-null plain encoding: every logical position is null,
// regardless of its nominal dtype's nullability (spec §4.2 Null). It carries
// no buffers and no children.
type NullArray struct {
	statsMixin
	noChildren
	noBuffersT
	length int
}

// NewNull builds a length-n array of type Null (spec §3: the dtype with
// exactly one valid logical value, nothing, doubling as "all null").
func NewNull(length int) *NullArray {
	return &NullArray{statsMixin: newStatsMixin(), length: length}
}

func decodeNull(length int, _ []byte, _ []Array, _ []vxbuffer.Buffer) (Array, error) {
	return NewNull(length), nil
}

func (a *NullArray) EncodingID() string  { return EncodingNull }
func (a *NullArray) DType() dtype.DType  { return dtype.Null() }
func (a *NullArray) Len() int            { return a.length }
func (a *NullArray) IsEmpty() bool       { return a.length == 0 }
func (a *NullArray) NBytes() int64       { return 0 }
func (a *NullArray) Metadata() EncodingMetadata { return nullMetadata{} }
func (a *NullArray) Accept(v Visitor)    {}
func (a *NullArray) IsValid(int) bool    { return false }
func (a *NullArray) ScalarTrue(int) bool { return false }
func (a *NullArray) Flatten() Array      { return a }

func (a *NullArray) LogicalValidity() vxbuffer.Validity {
	return vxbuffer.MakeAllInvalid(a.length)
}

func (a *NullArray) SliceImpl(start, end int) (Array, error) {
	return NewNull(end - start), nil
}

type nullMetadata struct{}

func (nullMetadata) isEncodingMetadata() {}
