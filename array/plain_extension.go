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
	RegisterEncoding(EncodingRef{ID: EncodingExtension, Decode: decodeExtension, Cost: 0})
}

// ExtensionArray wraps a single storage child array under a named,
// opaque-metadata extension type (spec §4.2 Extension), e.g.
// "vortex.localdatetime" over a Primitive(I64) storage.
type ExtensionArray struct {
	statsMixin
	noBuffersT
	typ     dtype.DType
	storage Array
}

func NewExtension(id string, storage Array, meta []byte, n dtype.Nullability) *ExtensionArray {
	typ := dtype.Extension(id, storage.DType(), meta, n)
	return &ExtensionArray{statsMixin: newStatsMixin(), typ: typ, storage: storage}
}

func decodeExtension(length int, metadata []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) != 1 {
		return nil, errInvalidArgument("decode", "extension array requires exactly one storage child")
	}
	return &ExtensionArray{
		statsMixin: newStatsMixin(),
		typ:        dtype.Extension("", children[0].DType(), metadata, dtype.NonNullable),
		storage:    children[0],
	}, nil
}

func (a *ExtensionArray) EncodingID() string         { return EncodingExtension }
func (a *ExtensionArray) DType() dtype.DType         { return a.typ }
func (a *ExtensionArray) Len() int                   { return a.storage.Len() }
func (a *ExtensionArray) IsEmpty() bool              { return a.storage.IsEmpty() }
func (a *ExtensionArray) NBytes() int64              { return a.storage.NBytes() }
func (a *ExtensionArray) Metadata() EncodingMetadata { return extensionMetadata{meta: a.typ.ExtensionMetadata()} }
func (a *ExtensionArray) Flatten() Array             { return a }

func (a *ExtensionArray) NumChildren() int { return 1 }
func (a *ExtensionArray) Child(i int) Array {
	if i != 0 {
		panic("array: ExtensionArray has exactly one child")
	}
	return a.storage
}

func (a *ExtensionArray) IsValid(i int) bool                 { return a.storage.IsValid(i) }
func (a *ExtensionArray) LogicalValidity() vxbuffer.Validity { return a.storage.LogicalValidity() }
func (a *ExtensionArray) ScalarTrue(i int) bool              { return a.storage.ScalarTrue(i) }

func (a *ExtensionArray) Accept(v Visitor) {
	v.VisitChild("storage", a.storage)
}

func (a *ExtensionArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	inner, err := ScalarAt(a.storage, i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return scalar.NewExtension(a.typ.ExtensionID(), a.typ.ExtensionStorage(), a.typ.ExtensionMetadata(), inner, a.typ.Nullability()), nil
}

func (a *ExtensionArray) SliceImpl(start, end int) (Array, error) {
	sl, err := Slice(a.storage, start, end)
	if err != nil {
		return nil, err
	}
	return &ExtensionArray{statsMixin: newStatsMixin(), typ: a.typ, storage: sl}, nil
}

type extensionMetadata struct{ meta []byte }

func (extensionMetadata) isEncodingMetadata() {}
