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

import (
	"github.com/shopspring/decimal"

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
)

// writeScalar encodes a Scalar's own dtype followed by its payload. It
// carries the fill/constant value of the two encodings that have no
// fixed-width metadata slot for it (Constant, Sparse; see
// array.ConstantValue and array.SparseFillValue) and every cached
// statistic writeNodeStats persists; an array's element values travel in
// its buffers, not as standalone wire scalars.
func writeScalar(w *byteWriter, s scalar.Scalar) {
	writeDType(w, s.DType())
	valid := byte(0)
	if s.IsValid() {
		valid = 1
	}
	w.u8(valid)
	if !s.IsValid() {
		return
	}
	switch s.DType().Kind() {
	case dtype.KindBool:
		b := byte(0)
		if s.Bool() {
			b = 1
		}
		w.u8(b)
	case dtype.KindPrimitive:
		w.u64(s.Uint())
	case dtype.KindDecimal:
		// shopspring/decimal exposes no binary marshaler in this module's
		// dependency set; its canonical String()/NewFromString() pair is
		// the textual round trip the package documents, so the wire form
		// is just that string, length-prefixed like any other text field.
		w.str(s.Decimal().String())
	case dtype.KindUtf8:
		w.str(s.Utf8())
	case dtype.KindBinary:
		w.bytesLP(s.Binary())
	case dtype.KindList, dtype.KindStruct:
		items := s.ListItems()
		w.u32(uint32(len(items)))
		for _, it := range items {
			writeScalar(w, it)
		}
	case dtype.KindExtension:
		writeScalar(w, s.ExtensionInner())
	}
}

// readScalar is writeScalar's inverse.
func readScalar(r *byteReader) (scalar.Scalar, error) {
	d, err := readDType(r)
	if err != nil {
		return scalar.Scalar{}, err
	}
	validByte, err := r.u8()
	if err != nil {
		return scalar.Scalar{}, err
	}
	if validByte == 0 {
		return scalar.NullOf(d), nil
	}
	switch d.Kind() {
	case dtype.KindBool:
		b, err := r.u8()
		if err != nil {
			return scalar.Scalar{}, err
		}
		return scalar.NewBool(b != 0, d.Nullability()), nil
	case dtype.KindPrimitive:
		bits, err := r.u64()
		if err != nil {
			return scalar.Scalar{}, err
		}
		return scalar.NewUint(d.PType(), bits, d.Nullability()), nil
	case dtype.KindDecimal:
		s, err := r.str()
		if err != nil {
			return scalar.Scalar{}, err
		}
		dec, derr := decimal.NewFromString(s)
		if derr != nil {
			return scalar.Scalar{}, errInvalidSerde("malformed decimal scalar %q: %v", s, derr)
		}
		return scalar.NewDecimal(dec, d.DecimalPrecision(), d.DecimalScale(), d.Nullability()), nil
	case dtype.KindUtf8:
		s, err := r.str()
		if err != nil {
			return scalar.Scalar{}, err
		}
		return scalar.NewUtf8(s, d.Nullability()), nil
	case dtype.KindBinary:
		b, err := r.bytesLP()
		if err != nil {
			return scalar.Scalar{}, err
		}
		return scalar.NewBinary(b, d.Nullability()), nil
	case dtype.KindList:
		count, err := r.u32()
		if err != nil {
			return scalar.Scalar{}, err
		}
		items := make([]scalar.Scalar, count)
		for i := range items {
			items[i], err = readScalar(r)
			if err != nil {
				return scalar.Scalar{}, err
			}
		}
		return scalar.NewList(d.ListElement(), items, d.Nullability()), nil
	case dtype.KindStruct:
		count, err := r.u32()
		if err != nil {
			return scalar.Scalar{}, err
		}
		fields := make([]scalar.Scalar, count)
		for i := range fields {
			fields[i], err = readScalar(r)
			if err != nil {
				return scalar.Scalar{}, err
			}
		}
		return scalar.NewStruct(d, fields, d.Nullability()), nil
	case dtype.KindExtension:
		inner, err := readScalar(r)
		if err != nil {
			return scalar.Scalar{}, err
		}
		return scalar.NewExtension(d.ExtensionID(), d.ExtensionStorage(), d.ExtensionMetadata(), inner, d.Nullability()), nil
	default:
		return scalar.NullOf(d), nil
	}
}
