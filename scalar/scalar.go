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
// Package scalar implements the Scalar tagged union: a single typed,
// possibly-null value mirroring dtype.DType, the same way the teacher's
// scm.Scmer carries a single dynamically-typed value through the storage
// engine (see storage-int.go's toInt helper and storage.go's dataset type).
package scalar

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/vortexdb/vortex/dtype"
)

// Scalar is an immutable, typed, possibly-null value. The zero value is not
// meaningful; construct with the New* functions.
type Scalar struct {
	typ   dtype.DType
	valid bool // false means SQL NULL

	b        bool
	bits     uint64 // Primitive: raw bit pattern, reinterpret via typ.PType()
	dec      decimal.Decimal
	str      string
	bin      []byte
	list     []Scalar
	extInner *Scalar
}

// MismatchedTypesError is returned by Cast when the source scalar's dtype
// cannot be coerced into the requested dtype.
type MismatchedTypesError struct {
	From, To dtype.DType
}

func (e MismatchedTypesError) Error() string {
	return fmt.Sprintf("scalar: mismatched types: cannot cast %s to %s", e.From, e.To)
}

func Null() Scalar { return Scalar{typ: dtype.Null(), valid: false} }

// NullOf builds a null scalar carrying a specific dtype, for call sites that
// need a typed null rather than the untyped Null() sentinel (e.g. scalar_at
// on a nullable array must return a null of the array's own dtype).
func NullOf(d dtype.DType) Scalar { return Scalar{typ: d, valid: false} }

func NewBool(v bool, n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Bool(n), valid: true, b: v}
}

func NullBool(n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Bool(n), valid: false}
}

func bitsOf(p dtype.PType, v uint64) uint64 {
	switch p.ByteWidth() {
	case 1:
		return v & 0xFF
	case 2:
		return v & 0xFFFF
	case 4:
		return v & 0xFFFFFFFF
	default:
		return v
	}
}

// NewUint builds a Primitive scalar from an unsigned representation.
func NewUint(p dtype.PType, v uint64, n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Primitive(p, n), valid: true, bits: bitsOf(p, v)}
}

// NewInt builds a Primitive scalar from a signed representation, reinterpreting
// the bit pattern at the ptype's width (two's complement).
func NewInt(p dtype.PType, v int64, n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Primitive(p, n), valid: true, bits: bitsOf(p, uint64(v))}
}

// NewFloat builds a Primitive F32/F64 scalar.
func NewFloat(p dtype.PType, v float64, n dtype.Nullability) Scalar {
	var bits uint64
	switch p {
	case dtype.F32:
		bits = uint64(math.Float32bits(float32(v)))
	case dtype.F64:
		bits = math.Float64bits(v)
	default:
		panic("scalar: NewFloat requires F32 or F64")
	}
	return Scalar{typ: dtype.Primitive(p, n), valid: true, bits: bits}
}

func NullPrimitive(p dtype.PType, n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Primitive(p, n), valid: false}
}

func NewDecimal(d decimal.Decimal, precision, scale int32, n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Decimal(precision, scale, n), valid: true, dec: d}
}

func NewUtf8(v string, n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Utf8(n), valid: true, str: v}
}

func NullUtf8(n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Utf8(n), valid: false}
}

func NewBinary(v []byte, n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.Binary(n), valid: true, bin: append([]byte{}, v...)}
}

func NewList(elemType dtype.DType, items []Scalar, n dtype.Nullability) Scalar {
	return Scalar{typ: dtype.List(elemType, n), valid: true, list: append([]Scalar{}, items...)}
}

func NewStruct(typ dtype.DType, fields []Scalar, n dtype.Nullability) Scalar {
	if typ.Kind() != dtype.KindStruct {
		panic("scalar: NewStruct requires a struct dtype")
	}
	return Scalar{typ: typ, valid: true, list: append([]Scalar{}, fields...)}
}

func NewExtension(id string, storage dtype.DType, meta []byte, inner Scalar, n dtype.Nullability) Scalar {
	in := inner
	return Scalar{typ: dtype.Extension(id, storage, meta, n), valid: true, extInner: &in}
}

func (s Scalar) DType() dtype.DType { return s.typ }
func (s Scalar) IsNull() bool       { return !s.valid }
func (s Scalar) IsValid() bool      { return s.valid }

// Bool returns the boolean payload; only meaningful when DType().Kind()==KindBool.
func (s Scalar) Bool() bool { return s.b }

// Uint returns the unsigned reinterpretation of a Primitive scalar's bits.
func (s Scalar) Uint() uint64 { return s.bits }

// Int returns the signed (sign-extended) reinterpretation of a Primitive
// scalar's bits at its ptype's width.
func (s Scalar) Int() int64 {
	p := s.typ.PType()
	switch p.ByteWidth() {
	case 1:
		return int64(int8(s.bits))
	case 2:
		return int64(int16(s.bits))
	case 4:
		return int64(int32(s.bits))
	default:
		return int64(s.bits)
	}
}

// Float returns the floating-point reinterpretation of a Primitive F32/F64 scalar.
func (s Scalar) Float() float64 {
	switch s.typ.PType() {
	case dtype.F32:
		return float64(math.Float32frombits(uint32(s.bits)))
	case dtype.F64:
		return math.Float64frombits(s.bits)
	default:
		panic("scalar: Float called on non-float scalar")
	}
}

func (s Scalar) Decimal() decimal.Decimal { return s.dec }
func (s Scalar) Utf8() string             { return s.str }
func (s Scalar) Binary() []byte           { return s.bin }
func (s Scalar) ListItems() []Scalar      { return s.list }
func (s Scalar) StructFields() []Scalar   { return s.list }
func (s Scalar) ExtensionInner() Scalar   { return *s.extInner }

func (s Scalar) String() string {
	if !s.valid {
		return "null"
	}
	switch s.typ.Kind() {
	case dtype.KindBool:
		return fmt.Sprint(s.b)
	case dtype.KindPrimitive:
		if s.typ.PType().IsFloat() {
			return fmt.Sprint(s.Float())
		}
		if s.typ.PType().IsSigned() {
			return fmt.Sprint(s.Int())
		}
		return fmt.Sprint(s.Uint())
	case dtype.KindDecimal:
		return s.dec.String()
	case dtype.KindUtf8:
		return s.str
	case dtype.KindBinary:
		return fmt.Sprintf("%x", s.bin)
	default:
		return fmt.Sprintf("%v", s.typ)
	}
}

// Cast converts s to the requested dtype, returning MismatchedTypesError when
// no lossless (or well-defined widening/narrowing) conversion exists.
func (s Scalar) Cast(to dtype.DType) (Scalar, error) {
	if s.typ.Equal(to) {
		return s, nil
	}
	if !s.valid {
		return Scalar{typ: to, valid: false}, nil
	}
	switch to.Kind() {
	case dtype.KindPrimitive:
		if s.typ.Kind() != dtype.KindPrimitive {
			return Scalar{}, MismatchedTypesError{s.typ, to}
		}
		if to.PType().IsFloat() {
			return NewFloat(to.PType(), s.numericFloat(), to.Nullability()), nil
		}
		if to.PType().IsSigned() {
			return NewInt(to.PType(), s.numericInt(), to.Nullability()), nil
		}
		return NewUint(to.PType(), uint64(s.numericInt()), to.Nullability()), nil
	case dtype.KindUtf8:
		if s.typ.Kind() != dtype.KindUtf8 {
			return Scalar{}, MismatchedTypesError{s.typ, to}
		}
		return NewUtf8(s.str, to.Nullability()), nil
	default:
		return Scalar{}, MismatchedTypesError{s.typ, to}
	}
}

func (s Scalar) numericFloat() float64 {
	if s.typ.PType().IsFloat() {
		return s.Float()
	}
	if s.typ.PType().IsSigned() {
		return float64(s.Int())
	}
	return float64(s.Uint())
}

func (s Scalar) numericInt() int64 {
	if s.typ.PType().IsFloat() {
		return int64(s.Float())
	}
	return s.Int()
}

// Equal compares two scalars by dtype and value; two nulls of the same
// dtype are equal.
func Equal(a, b Scalar) bool {
	if !a.typ.Equal(b.typ) {
		return false
	}
	if a.valid != b.valid {
		return false
	}
	if !a.valid {
		return true
	}
	switch a.typ.Kind() {
	case dtype.KindBool:
		return a.b == b.b
	case dtype.KindPrimitive:
		return a.bits == b.bits
	case dtype.KindDecimal:
		return a.dec.Equal(b.dec)
	case dtype.KindUtf8:
		return a.str == b.str
	case dtype.KindBinary:
		if len(a.bin) != len(b.bin) {
			return false
		}
		for i := range a.bin {
			if a.bin[i] != b.bin[i] {
				return false
			}
		}
		return true
	case dtype.KindList, dtype.KindStruct:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case dtype.KindExtension:
		return Equal(*a.extInner, *b.extInner)
	default:
		return true
	}
}

// Less orders two non-null scalars of the same dtype; used by search_sorted
// and stat computation (IsSorted/Min/Max).
func Less(a, b Scalar) bool {
	switch a.typ.Kind() {
	case dtype.KindPrimitive:
		p := a.typ.PType()
		if p.IsFloat() {
			return a.Float() < b.Float()
		}
		if p.IsSigned() {
			return a.Int() < b.Int()
		}
		return a.Uint() < b.Uint()
	case dtype.KindDecimal:
		return a.dec.LessThan(b.dec)
	case dtype.KindUtf8:
		return a.str < b.str
	case dtype.KindBinary:
		n := len(a.bin)
		if len(b.bin) < n {
			n = len(b.bin)
		}
		for i := 0; i < n; i++ {
			if a.bin[i] != b.bin[i] {
				return a.bin[i] < b.bin[i]
			}
		}
		return len(a.bin) < len(b.bin)
	case dtype.KindBool:
		return !a.b && b.b
	default:
		panic(fmt.Sprintf("scalar: Less not defined for %s", a.typ))
	}
}
