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
// Package dtype implements the Vortex logical type system: physical scalar
// tags (PType) and the logical DType tree they compose into.
package dtype

import "fmt"

// PType is the physical scalar type backing a Primitive array or scalar.
type PType uint8

const (
	U8 PType = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F16
	F32
	F64
)

func (p PType) String() string {
	switch p {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F16:
		return "f16"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return fmt.Sprintf("ptype(%d)", uint8(p))
	}
}

// ByteWidth returns the storage width of one element of this ptype.
func (p PType) ByteWidth() int {
	switch p {
	case U8, I8:
		return 1
	case U16, I16, F16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		panic(fmt.Sprintf("dtype: unknown ptype %d", uint8(p)))
	}
}

// BitWidth is ByteWidth*8, the natural upper bound for bit-packing.
func (p PType) BitWidth() int {
	return p.ByteWidth() * 8
}

// IsSigned reports whether this ptype is a two's-complement signed integer.
func (p PType) IsSigned() bool {
	switch p {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether this ptype is an unsigned integer.
func (p PType) IsUnsigned() bool {
	switch p {
	case U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether this ptype is a floating-point type.
func (p PType) IsFloat() bool {
	switch p {
	case F16, F32, F64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether this ptype is signed or unsigned integral.
func (p PType) IsInteger() bool {
	return p.IsSigned() || p.IsUnsigned()
}

// Unsigned returns the unsigned ptype of the same width, used by ZigZag/
// BitPacked/FoR which always operate on an unsigned physical representation.
func (p PType) Unsigned() PType {
	switch p {
	case I8:
		return U8
	case I16:
		return U16
	case I32:
		return U32
	case I64:
		return U64
	default:
		return p
	}
}

// Signed returns the signed ptype of the same width.
func (p PType) Signed() PType {
	switch p {
	case U8:
		return I8
	case U16:
		return I16
	case U32:
		return I32
	case U64:
		return I64
	default:
		return p
	}
}
