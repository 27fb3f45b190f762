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
package ipc

import "github.com/vortexdb/vortex/dtype"

// writeDType recursively encodes a DType into w, one byte of Kind, one byte
// of Nullability, then Kind-specific fields - the Schema message body (spec
// §6) is just this applied to the top-level array's dtype.
func writeDType(w *byteWriter, d dtype.DType) {
	w.u8(byte(d.Kind()))
	nullable := byte(0)
	if d.IsNullable() {
		nullable = 1
	}
	w.u8(nullable)
	switch d.Kind() {
	case dtype.KindPrimitive:
		w.u8(byte(d.PType()))
	case dtype.KindDecimal:
		w.u32(uint32(d.DecimalPrecision()))
		w.u32(uint32(d.DecimalScale()))
	case dtype.KindList:
		writeDType(w, d.ListElement())
	case dtype.KindStruct:
		names := d.StructNames()
		fields := d.StructFields()
		w.u32(uint32(len(names)))
		for i, n := range names {
			w.str(n)
			writeDType(w, fields[i])
		}
	case dtype.KindExtension:
		w.str(d.ExtensionID())
		writeDType(w, d.ExtensionStorage())
		w.bytesLP(d.ExtensionMetadata())
	}
}

// readDType is writeDType's inverse.
func readDType(r *byteReader) (dtype.DType, error) {
	kindByte, err := r.u8()
	if err != nil {
		return dtype.DType{}, err
	}
	nullableByte, err := r.u8()
	if err != nil {
		return dtype.DType{}, err
	}
	n := dtype.NonNullable
	if nullableByte != 0 {
		n = dtype.Nullable
	}
	switch dtype.Kind(kindByte) {
	case dtype.KindNull:
		return dtype.Null(), nil
	case dtype.KindBool:
		return dtype.Bool(n), nil
	case dtype.KindPrimitive:
		p, err := r.u8()
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Primitive(dtype.PType(p), n), nil
	case dtype.KindDecimal:
		prec, err := r.u32()
		if err != nil {
			return dtype.DType{}, err
		}
		scale, err := r.u32()
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Decimal(int32(prec), int32(scale), n), nil
	case dtype.KindUtf8:
		return dtype.Utf8(n), nil
	case dtype.KindBinary:
		return dtype.Binary(n), nil
	case dtype.KindList:
		elem, err := readDType(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.List(elem, n), nil
	case dtype.KindStruct:
		count, err := r.u32()
		if err != nil {
			return dtype.DType{}, err
		}
		names := make([]string, count)
		fields := make([]dtype.DType, count)
		for i := range names {
			names[i], err = r.str()
			if err != nil {
				return dtype.DType{}, err
			}
			fields[i], err = readDType(r)
			if err != nil {
				return dtype.DType{}, err
			}
		}
		return dtype.Struct(names, fields, n), nil
	case dtype.KindExtension:
		id, err := r.str()
		if err != nil {
			return dtype.DType{}, err
		}
		storage, err := readDType(r)
		if err != nil {
			return dtype.DType{}, err
		}
		meta, err := r.bytesLP()
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Extension(id, storage, meta, n), nil
	default:
		return dtype.DType{}, errInvalidSerde("unknown dtype kind byte %d", kindByte)
	}
}
