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
	"testing"

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/vxbuffer"
)

func buildI64s(vals []int64) *PrimitiveArray {
	bits := make([]uint64, len(vals))
	for i, v := range vals {
		bits[i] = uint64(v)
	}
	typ := dtype.Primitive(dtype.I64, dtype.NonNullable)
	return NewPrimitive(typ, vxbuffer.FromU64(bits), vxbuffer.MakeNonNullable())
}

func assertScalarInt(t *testing.T, a Array, i int, expected int64, ctx string) {
	t.Helper()
	got := ScalarAtUnchecked(a, i)
	if got.IsNull() {
		t.Errorf("%s: idx=%d expected %d, got null", ctx, i, expected)
		return
	}
	if got.Int() != expected {
		t.Errorf("%s: idx=%d expected %d, got %d", ctx, i, expected, got.Int())
	}
}

func TestPrimitiveArrayRoundTrip(t *testing.T) {
	vals := []int64{1, -2, 3, 0, 42}
	a := buildI64s(vals)

	if a.Len() != len(vals) {
		t.Fatalf("Len() = %d, want %d", a.Len(), len(vals))
	}
	for i, v := range vals {
		assertScalarInt(t, a, i, v, "PrimitiveArrayRoundTrip")
	}
	if a.EncodingID() != EncodingPrimitive {
		t.Errorf("EncodingID() = %q, want %q", a.EncodingID(), EncodingPrimitive)
	}
}

func TestPrimitiveArrayFlattenIsIdempotent(t *testing.T) {
	a := buildI64s([]int64{1, 2, 3})
	if a.Flatten() != Array(a) {
		t.Error("Flatten() of a plain PrimitiveArray must return itself")
	}
}

func TestPrimitiveArrayValidity(t *testing.T) {
	typ := dtype.Primitive(dtype.I64, dtype.Nullable)
	bits := vxbuffer.FromU64([]uint64{1, 2, 3})
	validity := vxbuffer.MakePerElement(boolSlice{true, false, true})
	a := NewPrimitive(typ, bits, validity)

	if a.IsValid(1) {
		t.Error("index 1 should be invalid")
	}
	if !a.IsValid(0) || !a.IsValid(2) {
		t.Error("indices 0 and 2 should be valid")
	}
	if a.LogicalValidity().NullCount() != 1 {
		t.Errorf("NullCount() = %d, want 1", a.LogicalValidity().NullCount())
	}
}

type boolSlice []bool

func (b boolSlice) Len() int             { return len(b) }
func (b boolSlice) IsValid(i int) bool   { return b[i] }
func (b boolSlice) ScalarTrue(i int) bool { return b[i] }
