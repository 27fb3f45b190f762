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
package dtype

import (
	"fmt"
	"strings"
)

// Nullability marks whether a DType admits nulls. A non-nullable array never
// carries a Validity child or buffer (see vxbuffer.Validity).
type Nullability uint8

const (
	NonNullable Nullability = iota
	Nullable
)

// Kind is the tag of the DType union.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindPrimitive
	KindDecimal
	KindUtf8
	KindBinary
	KindList
	KindStruct
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindPrimitive:
		return "primitive"
	case KindDecimal:
		return "decimal"
	case KindUtf8:
		return "utf8"
	case KindBinary:
		return "binary"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	case KindExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// DType is the logical type of an array or scalar. It is an immutable value
// type; composite variants (List, Struct, Extension) are built once and
// shared by pointer to their sub-DTypes.
type DType struct {
	kind        Kind
	nullability Nullability

	ptype PType // KindPrimitive

	precision int32 // KindDecimal
	scale     int32 // KindDecimal

	element *DType // KindList

	names      []string // KindStruct
	fieldTypes []DType  // KindStruct

	extID      string // KindExtension: e.g. "vortex.localdatetime"
	extStorage *DType // KindExtension: physical storage dtype
	extMeta    []byte // KindExtension: opaque handler-interpreted metadata
}

func Null() DType { return DType{kind: KindNull, nullability: Nullable} }

func Bool(n Nullability) DType { return DType{kind: KindBool, nullability: n} }

func Primitive(p PType, n Nullability) DType {
	return DType{kind: KindPrimitive, nullability: n, ptype: p}
}

func Decimal(precision, scale int32, n Nullability) DType {
	return DType{kind: KindDecimal, nullability: n, precision: precision, scale: scale}
}

func Utf8(n Nullability) DType { return DType{kind: KindUtf8, nullability: n} }

func Binary(n Nullability) DType { return DType{kind: KindBinary, nullability: n} }

func List(element DType, n Nullability) DType {
	e := element
	return DType{kind: KindList, nullability: n, element: &e}
}

func Struct(names []string, fields []DType, n Nullability) DType {
	if len(names) != len(fields) {
		panic("dtype: Struct requires one name per field")
	}
	return DType{kind: KindStruct, nullability: n, names: append([]string{}, names...), fieldTypes: append([]DType{}, fields...)}
}

func Extension(id string, storage DType, meta []byte, n Nullability) DType {
	s := storage
	return DType{kind: KindExtension, nullability: n, extID: id, extStorage: &s, extMeta: meta}
}

func (d DType) Kind() Kind                 { return d.kind }
func (d DType) IsNullable() bool           { return d.nullability == Nullable }
func (d DType) Nullability() Nullability   { return d.nullability }
func (d DType) PType() PType               { return d.ptype }
func (d DType) DecimalPrecision() int32    { return d.precision }
func (d DType) DecimalScale() int32        { return d.scale }
func (d DType) ListElement() DType         { return *d.element }
func (d DType) StructNames() []string      { return d.names }
func (d DType) StructFields() []DType      { return d.fieldTypes }
func (d DType) ExtensionID() string        { return d.extID }
func (d DType) ExtensionStorage() DType    { return *d.extStorage }
func (d DType) ExtensionMetadata() []byte  { return d.extMeta }

// AsNullable returns the same DType with nullability forced to Nullable.
func (d DType) AsNullable() DType {
	d.nullability = Nullable
	return d
}

// AsNonNullable returns the same DType with nullability forced to NonNullable.
func (d DType) AsNonNullable() DType {
	d.nullability = NonNullable
	return d
}

// Equal performs structural equality including nullability — two DTypes
// are equal only if their nullability also matches, per the invariant that
// MismatchedTypes errors must compare exact dtypes. Extension dtypes are
// compared by id and storage dtype; their metadata bytes are not compared.
func (d DType) Equal(other DType) bool {
	if d.kind != other.kind || d.nullability != other.nullability {
		return false
	}
	switch d.kind {
	case KindPrimitive:
		return d.ptype == other.ptype
	case KindDecimal:
		return d.precision == other.precision && d.scale == other.scale
	case KindList:
		return d.element.Equal(*other.element)
	case KindStruct:
		if len(d.names) != len(other.names) {
			return false
		}
		for i := range d.names {
			if d.names[i] != other.names[i] || !d.fieldTypes[i].Equal(other.fieldTypes[i]) {
				return false
			}
		}
		return true
	case KindExtension:
		return d.extID == other.extID && d.extStorage.Equal(*other.extStorage)
	default:
		return true
	}
}

func (d DType) String() string {
	suffix := ""
	if d.nullability == Nullable {
		suffix = "?"
	}
	switch d.kind {
	case KindPrimitive:
		return d.ptype.String() + suffix
	case KindDecimal:
		return fmt.Sprintf("decimal(%d,%d)%s", d.precision, d.scale, suffix)
	case KindList:
		return fmt.Sprintf("list<%s>%s", d.element.String(), suffix)
	case KindStruct:
		var b strings.Builder
		b.WriteString("struct<")
		for i, n := range d.names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(n)
			b.WriteString(": ")
			b.WriteString(d.fieldTypes[i].String())
		}
		b.WriteString(">")
		b.WriteString(suffix)
		return b.String()
	case KindExtension:
		return fmt.Sprintf("%s<%s>%s", d.extID, d.extStorage.String(), suffix)
	default:
		return d.kind.String() + suffix
	}
}

// FromPType produces the logical DType for a physical scalar type; this
// conversion is total for every PType value.
func FromPType(p PType, n Nullability) DType {
	return Primitive(p, n)
}
