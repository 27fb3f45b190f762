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
package arrowconv

import (
	"testing"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/vxbuffer"
)

func buildI32s(vals []int64) *array.PrimitiveArray {
	bits := make([]uint32, len(vals))
	for i, v := range vals {
		bits[i] = uint32(int32(v))
	}
	typ := dtype.Primitive(dtype.I32, dtype.NonNullable)
	return array.NewPrimitive(typ, vxbuffer.FromU32(bits), vxbuffer.MakeNonNullable())
}

func TestAsArrowPrimitiveNoNullsHasNoValidityBuffer(t *testing.T) {
	a := buildI32s([]int64{1, 2, 3})
	aa, err := AsArrow(a)
	if err != nil {
		t.Fatalf("AsArrow: %v", err)
	}
	if aa.NullCount != 0 {
		t.Errorf("NullCount = %d, want 0", aa.NullCount)
	}
	if aa.Validity.Len() != 0 {
		t.Error("an all-valid array should carry no validity buffer, matching Arrow's own convention")
	}
	if aa.Length != 3 {
		t.Errorf("Length = %d, want 3", aa.Length)
	}
}

func TestPrimitiveArrowRoundTrip(t *testing.T) {
	typ := dtype.Primitive(dtype.I32, dtype.Nullable)
	bits := []uint32{10, 20, 30}
	validity := vxbuffer.MakePerElement(boolSliceAC{true, false, true})
	a := array.NewPrimitive(typ, vxbuffer.FromU32(bits), validity)

	aa, err := AsArrow(a)
	if err != nil {
		t.Fatalf("AsArrow: %v", err)
	}
	if aa.NullCount != 1 {
		t.Fatalf("NullCount = %d, want 1", aa.NullCount)
	}

	back, err := FromArrow(aa, typ)
	if err != nil {
		t.Fatalf("FromArrow: %v", err)
	}
	if back.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", back.Len())
	}
	if back.IsValid(1) {
		t.Error("index 1 should remain invalid after the Arrow round trip")
	}
	if !back.IsValid(0) || !back.IsValid(2) {
		t.Error("indices 0 and 2 should remain valid after the Arrow round trip")
	}
	got := array.ScalarAtUnchecked(back, 0)
	if got.Int() != 10 {
		t.Errorf("round-tripped value at 0 = %d, want 10", got.Int())
	}
}

func TestVarBinArrowRoundTrip(t *testing.T) {
	a := array.NewVarBinFromStrings([]string{"hello", "vortex", "arrow"}, nil, dtype.NonNullable)
	aa, err := AsArrow(a)
	if err != nil {
		t.Fatalf("AsArrow: %v", err)
	}
	if aa.TypeName != "utf8" {
		t.Errorf("TypeName = %q, want utf8", aa.TypeName)
	}

	back, err := FromArrow(aa, a.DType())
	if err != nil {
		t.Fatalf("FromArrow: %v", err)
	}
	if back.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", back.Len())
	}
	got := array.ScalarAtUnchecked(back, 1)
	if got.Utf8() != "vortex" {
		t.Errorf("round-tripped value at 1 = %q, want %q", got.Utf8(), "vortex")
	}
}

type boolSliceAC []bool

func (b boolSliceAC) Len() int             { return len(b) }
func (b boolSliceAC) IsValid(i int) bool   { return b[i] }
func (b boolSliceAC) ScalarTrue(i int) bool { return b[i] }
