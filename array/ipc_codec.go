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
)

// MarshalMetadata produces the metadata byte payload the ipc package writes
// into an ArrayNode for a, in exactly the layout this encoding's own
// Decoder (registered in registry.go) expects to parse back - the write-side
// counterpart to decodeXxx, kept here rather than in ipc/ because only this
// package can see each encoding's unexported fields.
//
// Constant and Sparse carry a scalar (the fill/constant value) that has no
// fixed-width wire representation of its own; ipc serializes it with its
// own scalar codec and calls NewConstant/NewSparse directly rather than
// going through RegisterEncoding's Decoder, so those two cases are not
// handled here.
func MarshalMetadata(a Array) []byte {
	switch v := a.(type) {
	case *PrimitiveArray:
		nullable := byte(0)
		if v.typ.IsNullable() {
			nullable = 1
		}
		return []byte{byte(v.typ.PType()), nullable}
	case *VarBinArray:
		isBinary := byte(0)
		if v.typ.Kind() == dtype.KindBinary {
			isBinary = 1
		}
		nullable := byte(0)
		if v.typ.IsNullable() {
			nullable = 1
		}
		return []byte{isBinary, nullable}
	case *VarBinViewArray:
		isBinary := byte(0)
		if v.typ.Kind() == dtype.KindBinary {
			isBinary = 1
		}
		nullable := byte(0)
		if v.typ.IsNullable() {
			nullable = 1
		}
		return []byte{isBinary, nullable}
	case *BitPackedArray:
		return []byte{byte(v.typ.PType()), byte(v.bitWidth)}
	case *DeltaArray:
		return appendU64LE([]byte{byte(v.typ.PType())}, uint64(v.first))
	case *FoRArray:
		return appendU64LE([]byte{byte(v.typ.PType())}, uint64(v.reference))
	case *ALPArray:
		return appendU64LE([]byte{byte(v.typ.PType())}, uint64(int64(v.exponent)))
	case *ZigZagArray:
		return []byte{byte(v.typ.PType())}
	case *ExtensionArray:
		return append([]byte{}, v.typ.ExtensionMetadata()...)
	case *StructArray:
		nullable := byte(0)
		if v.typ.IsNullable() {
			nullable = 1
		}
		out := []byte{nullable}
		for _, n := range v.typ.StructNames() {
			out = appendU32LE(out, uint32(len(n)))
			out = append(out, n...)
		}
		return out
	default:
		return nil
	}
}

func appendU32LE(out []byte, v uint32) []byte {
	return append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendU64LE(prefix []byte, v uint64) []byte {
	out := append(prefix, 0, 0, 0, 0, 0, 0, 0, 0)
	for i := 0; i < 8; i++ {
		out[len(prefix)+i] = byte(v >> (8 * uint(i)))
	}
	return out
}

// ConstantValue exposes the scalar a Constant array repeats, so ipc can
// serialize it out-of-band; there is no general accessor for encoding
// metadata since EncodingMetadata's fields are otherwise package-private.
func ConstantValue(a *ConstantArray) scalar.Scalar { return a.value }

// SparseFillValue exposes the scalar a Sparse array implicitly fills with,
// the Sparse counterpart to ConstantValue.
func SparseFillValue(a *SparseArray) scalar.Scalar { return a.fillValue }
