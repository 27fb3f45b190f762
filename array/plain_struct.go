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
	RegisterEncoding(EncodingRef{ID: EncodingStruct, Decode: decodeStruct, Cost: 0})
}

// StructArray holds one child Array per field, all sharing the same
// logical length, plus its own top-level validity (spec §4.2 Struct). It
// carries no buffers of its own.
type StructArray struct {
	statsMixin
	noBuffersT
	typ      dtype.DType
	length   int
	fields   []Array
	validity vxbuffer.Validity
}

func NewStruct(names []string, fields []Array, nullability dtype.Nullability, validity vxbuffer.Validity) (*StructArray, error) {
	if len(fields) == 0 {
		return nil, errInvalidArgument("struct", "struct array requires at least one field")
	}
	length := fields[0].Len()
	fieldTypes := make([]dtype.DType, len(fields))
	for i, f := range fields {
		if f.Len() != length {
			return nil, errLengthMismatch("struct", "every field must share the struct's length")
		}
		fieldTypes[i] = f.DType()
	}
	typ := dtype.Struct(names, fieldTypes, nullability)
	return &StructArray{statsMixin: newStatsMixin(), typ: typ, length: length, fields: fields, validity: validity}, nil
}

// decodeStruct reads field names and top-level nullability from metadata
// (written by array.MarshalMetadata's *StructArray case); the struct's own
// null mask is not yet carried over the wire (every decoded Struct is
// reconstructed all-valid), since no plain encoding here gives a nullable
// Struct its own validity buffer the way Primitive/Bool/VarBin do.
func decodeStruct(length int, metadata []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) == 0 {
		return nil, errInvalidArgument("decode", "struct array requires at least one child")
	}
	names := make([]string, len(children))
	fieldTypes := make([]dtype.DType, len(children))
	for i, c := range children {
		names[i] = ""
		fieldTypes[i] = c.DType()
	}
	nullability := dtype.NonNullable
	if len(metadata) >= 1 {
		if metadata[0] != 0 {
			nullability = dtype.Nullable
		}
		parsedNames, ok := parseStructFieldNames(metadata[1:], len(children))
		if ok {
			names = parsedNames
		}
	}
	typ := dtype.Struct(names, fieldTypes, nullability)
	return &StructArray{
		statsMixin: newStatsMixin(),
		typ:        typ,
		length:     length,
		fields:     children,
		validity:   vxbuffer.MakeAllValid(length),
	}, nil
}

// parseStructFieldNames reads count length-prefixed names packed by
// MarshalMetadata; a malformed or absent payload is tolerated by falling
// back to empty names rather than failing the whole decode.
func parseStructFieldNames(b []byte, count int) ([]string, bool) {
	names := make([]string, count)
	pos := 0
	for i := 0; i < count; i++ {
		if pos+4 > len(b) {
			return nil, false
		}
		n := int(uint32(b[pos]) | uint32(b[pos+1])<<8 | uint32(b[pos+2])<<16 | uint32(b[pos+3])<<24)
		pos += 4
		if pos+n > len(b) {
			return nil, false
		}
		names[i] = string(b[pos : pos+n])
		pos += n
	}
	return names, true
}

func (a *StructArray) EncodingID() string         { return EncodingStruct }
func (a *StructArray) DType() dtype.DType         { return a.typ }
func (a *StructArray) Len() int                   { return a.length }
func (a *StructArray) IsEmpty() bool              { return a.length == 0 }
func (a *StructArray) Metadata() EncodingMetadata {
	return structMetadata{names: a.typ.StructNames(), nullable: a.typ.IsNullable()}
}
func (a *StructArray) Flatten() Array             { return a }

func (a *StructArray) NBytes() int64 {
	var n int64
	for _, f := range a.fields {
		n += f.NBytes()
	}
	return n
}

func (a *StructArray) NumChildren() int { return len(a.fields) }
func (a *StructArray) Child(i int) Array { return a.fields[i] }

func (a *StructArray) IsValid(i int) bool                 { return a.validity.IsValid(i) }
func (a *StructArray) LogicalValidity() vxbuffer.Validity { return a.validity }
func (a *StructArray) ScalarTrue(int) bool                { return true }

func (a *StructArray) Accept(v Visitor) {
	for i, f := range a.fields {
		v.VisitChild(a.typ.StructNames()[i], f)
	}
	v.VisitValidity(a.validity)
}

func (a *StructArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	fields := make([]scalar.Scalar, len(a.fields))
	for j, f := range a.fields {
		s, err := ScalarAt(f, i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		fields[j] = s
	}
	return scalar.NewStruct(a.typ, fields, a.typ.Nullability()), nil
}

func (a *StructArray) SliceImpl(start, end int) (Array, error) {
	fields := make([]Array, len(a.fields))
	for i, f := range a.fields {
		sl, err := Slice(f, start, end)
		if err != nil {
			return nil, err
		}
		fields[i] = sl
	}
	return &StructArray{
		statsMixin: newStatsMixin(),
		typ:        a.typ,
		length:     end - start,
		fields:     fields,
		validity:   a.validity.Slice(start, end),
	}, nil
}

type structMetadata struct {
	names    []string
	nullable bool
}

func (structMetadata) isEncodingMetadata() {}
