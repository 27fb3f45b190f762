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
// Package arrowconv implements the Arrow boundary (spec §9, C9 "Arrow
// boundary" in the system overview): a pair of conversion traits, AsArrow
// and its inverse FromArrow, between the plain vortex encodings and a
// byte-identical Arrow buffer layout. This package holds that layout and
// the conversion itself; the core array package never imports it and never
// depends on Arrow runtime types, matching §9's "Arrow interop is a
// separate crate/module... the core must not depend on Arrow runtime
// types" note. There is no actual Arrow Go library in play here (none of
// the example repos this module is grounded on import one, and the spec
// explicitly scopes "full Arrow interop" out) - ArrowArray is this
// package's own minimal description of Arrow's physical buffer layout,
// sufficient to hand a zero-copy view to, or accept one from, a producer
// that does speak the real format.
package arrowconv

import (
	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/vxbuffer"
)

// ArrowArray is this package's description of one Arrow-layout array: a
// validity bitmap (absent/zero-length when the array has no nulls, Arrow's
// own convention), zero or more data buffers in Arrow's per-type order
// (offsets-then-values for variable-width types, one values buffer for
// fixed-width), and children for nested types.
type ArrowArray struct {
	Length    int
	NullCount int
	Validity  vxbuffer.Buffer // zero value (Len()==0) means "no validity buffer"
	Buffers   []vxbuffer.Buffer
	Children  []ArrowArray
	TypeName  string // Arrow type name ("int32", "utf8", "struct", "timestamp[us]", ...), diagnostic only
}

// AsArrow converts a to Arrow's physical layout (spec §4.1's as_arrow
// compute op, spec.md line: "as_arrow is zero-copy when alignment
// matches"). Only the plain encodings describe a fixed Arrow layout, so a
// compressed array is flattened first, and VarBinView flattens to VarBin.
// The data buffers of the flattened Primitive, Bool and VarBin arrays are
// handed through as they are, without copying bytes. The validity bitmap is
// packed into a new buffer whenever the array holds at least one null, and
// left out when it holds none.
func AsArrow(a array.Array) (ArrowArray, error) {
	flat := array.Flatten(a)
	return asArrowFlat(flat)
}

func asArrowFlat(flat array.FlattenedArray) (ArrowArray, error) {
	a := flat.Array
	switch flat.Kind {
	case array.FlattenedNull:
		return ArrowArray{Length: a.Len(), NullCount: a.Len(), TypeName: "null"}, nil
	case array.FlattenedBool:
		return asArrowBool(a.(*array.BoolArray)), nil
	case array.FlattenedPrimitive:
		return asArrowPrimitive(a.(*array.PrimitiveArray)), nil
	case array.FlattenedVarBin:
		return asArrowVarBin(a.(*array.VarBinArray)), nil
	case array.FlattenedStruct:
		return asArrowStruct(a.(*array.StructArray))
	case array.FlattenedExtension:
		return asArrowExtension(a.(*array.ExtensionArray))
	default:
		return ArrowArray{}, errUnsupported("as_arrow", a.EncodingID())
	}
}

func validityBuffer(v vxbuffer.Validity) (vxbuffer.Buffer, int) {
	n := v.NullCount()
	if n == 0 {
		return vxbuffer.Buffer{}, 0
	}
	bytes := (v.Len() + 7) / 8
	out := vxbuffer.NewOwned(bytes)
	raw := out.Bytes()
	for i := 0; i < v.Len(); i++ {
		if v.IsValid(i) {
			raw[i/8] |= 1 << uint(i%8)
		}
	}
	return out, n
}

func asArrowBool(a *array.BoolArray) ArrowArray {
	validity, nulls := validityBuffer(a.LogicalValidity())
	return ArrowArray{
		Length:    a.Len(),
		NullCount: nulls,
		Validity:  validity,
		Buffers:   []vxbuffer.Buffer{a.Buffer(0)},
		TypeName:  "bool",
	}
}

func asArrowPrimitive(a *array.PrimitiveArray) ArrowArray {
	validity, nulls := validityBuffer(a.LogicalValidity())
	return ArrowArray{
		Length:    a.Len(),
		NullCount: nulls,
		Validity:  validity,
		Buffers:   []vxbuffer.Buffer{a.Buffer(0)},
		TypeName:  a.DType().PType().String(),
	}
}

func asArrowVarBin(a *array.VarBinArray) ArrowArray {
	validity, nulls := validityBuffer(a.LogicalValidity())
	typeName := "utf8"
	if a.DType().Kind() == dtype.KindBinary {
		typeName = "binary"
	}
	return ArrowArray{
		Length:    a.Len(),
		NullCount: nulls,
		Validity:  validity,
		Buffers:   []vxbuffer.Buffer{a.Buffer(0), a.Buffer(1)},
		TypeName:  typeName,
	}
}

func asArrowStruct(a *array.StructArray) (ArrowArray, error) {
	validity, nulls := validityBuffer(a.LogicalValidity())
	children := make([]ArrowArray, a.NumChildren())
	for i := 0; i < a.NumChildren(); i++ {
		c, err := AsArrow(a.Child(i))
		if err != nil {
			return ArrowArray{}, err
		}
		children[i] = c
	}
	return ArrowArray{Length: a.Len(), NullCount: nulls, Validity: validity, Children: children, TypeName: "struct"}, nil
}

func asArrowExtension(a *array.ExtensionArray) (ArrowArray, error) {
	if h, ok := lookupHandler(a.DType().ExtensionID()); ok {
		return h.AsArrow(a)
	}
	storage, err := AsArrow(a.Child(0))
	if err != nil {
		return ArrowArray{}, err
	}
	storage.TypeName = "extension<" + a.DType().ExtensionID() + ">"
	return storage, nil
}

// FromArrow is AsArrow's inverse: it builds a plain vortex array from an
// Arrow-layout buffer set, the entry point used when ingesting an external
// Arrow-shaped batch (spec's "external producer -> Arrow-shaped batches ->
// C9 constructs Array trees in plain encodings" data flow, §2).
func FromArrow(aa ArrowArray, typ dtype.DType) (array.Array, error) {
	switch typ.Kind() {
	case dtype.KindNull:
		return array.NewNull(aa.Length), nil
	case dtype.KindBool:
		return fromArrowBool(aa, typ), nil
	case dtype.KindPrimitive:
		return fromArrowPrimitive(aa, typ), nil
	case dtype.KindUtf8, dtype.KindBinary:
		return fromArrowVarBin(aa, typ), nil
	case dtype.KindStruct:
		return fromArrowStruct(aa, typ)
	case dtype.KindExtension:
		return fromArrowExtension(aa, typ)
	default:
		return nil, errUnsupported("from_arrow", typ.Kind().String())
	}
}

func fromArrowValidity(aa ArrowArray, n dtype.Nullability) vxbuffer.Validity {
	if n != dtype.Nullable || aa.Validity.Len() == 0 {
		return vxbuffer.MakeAllValid(aa.Length)
	}
	return vxbuffer.MakePerElement(arrowBitset{buf: aa.Validity, length: aa.Length})
}

// arrowBitset adapts an Arrow-layout validity buffer (LSB-first, bit=1
// means valid, identical to this module's own bitsetView convention) to
// vxbuffer.BoolArrayLike.
type arrowBitset struct {
	buf    vxbuffer.Buffer
	length int
}

func (b arrowBitset) Len() int { return b.length }
func (b arrowBitset) IsValid(int) bool { return true }
func (b arrowBitset) ScalarTrue(i int) bool {
	raw := b.buf.Bytes()
	return raw[i/8]&(1<<uint(i%8)) != 0
}

func fromArrowBool(aa ArrowArray, typ dtype.DType) array.Array {
	return array.NewBool(typ, aa.Length, aa.Buffers[0], fromArrowValidity(aa, typ.Nullability()))
}

func fromArrowPrimitive(aa ArrowArray, typ dtype.DType) array.Array {
	return array.NewPrimitive(typ, aa.Buffers[0], fromArrowValidity(aa, typ.Nullability()))
}

func fromArrowVarBin(aa ArrowArray, typ dtype.DType) array.Array {
	return array.NewVarBin(typ, aa.Buffers[0], aa.Buffers[1], fromArrowValidity(aa, typ.Nullability()))
}

func fromArrowStruct(aa ArrowArray, typ dtype.DType) (array.Array, error) {
	names := typ.StructNames()
	fieldTypes := typ.StructFields()
	fields := make([]array.Array, len(aa.Children))
	for i, c := range aa.Children {
		f, err := FromArrow(c, fieldTypes[i])
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return array.NewStruct(names, fields, typ.Nullability(), fromArrowValidity(aa, typ.Nullability()))
}

func fromArrowExtension(aa ArrowArray, typ dtype.DType) (array.Array, error) {
	if h, ok := lookupHandler(typ.ExtensionID()); ok {
		return h.FromArrow(aa, typ)
	}
	storage, err := FromArrow(aa, typ.ExtensionStorage())
	if err != nil {
		return nil, err
	}
	return array.NewExtension(typ.ExtensionID(), storage, typ.ExtensionMetadata(), typ.Nullability()), nil
}

func errUnsupported(op, what string) error {
	return &array.VortexError{Kind: array.NotImplementedKind, Op: op, Encoding: what}
}
