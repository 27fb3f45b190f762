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

import "testing"

func TestEqualIgnoresNullabilityMismatchIsFalse(t *testing.T) {
	a := Primitive(I64, NonNullable)
	b := Primitive(I64, Nullable)
	if a.Equal(b) {
		t.Error("Equal should distinguish nullable from non-nullable variants of the same ptype")
	}
	if !a.Equal(Primitive(I64, NonNullable)) {
		t.Error("two identically-built DTypes should compare equal")
	}
}

func TestAsNullableAsNonNullable(t *testing.T) {
	a := Primitive(I64, NonNullable)
	if !a.AsNullable().IsNullable() {
		t.Error("AsNullable() should produce a nullable DType")
	}
	n := Primitive(F64, Nullable)
	if n.AsNonNullable().IsNullable() {
		t.Error("AsNonNullable() should strip nullability")
	}
}

func TestStructEqual(t *testing.T) {
	a := Struct([]string{"x", "y"}, []DType{Primitive(I64, NonNullable), Utf8(NonNullable)}, NonNullable)
	b := Struct([]string{"x", "y"}, []DType{Primitive(I64, NonNullable), Utf8(NonNullable)}, NonNullable)
	c := Struct([]string{"x", "z"}, []DType{Primitive(I64, NonNullable), Utf8(NonNullable)}, NonNullable)

	if !a.Equal(b) {
		t.Error("structurally identical Struct DTypes should be equal")
	}
	if a.Equal(c) {
		t.Error("Struct DTypes with different field names should not be equal")
	}
}

func TestExtensionRoundTrip(t *testing.T) {
	storage := Primitive(I64, NonNullable)
	ext := Extension("vortex.localdatetime", storage, []byte{0x01}, NonNullable)

	if ext.Kind() != KindExtension {
		t.Fatalf("Kind() = %v, want KindExtension", ext.Kind())
	}
	if ext.ExtensionID() != "vortex.localdatetime" {
		t.Errorf("ExtensionID() = %q", ext.ExtensionID())
	}
	if !ext.ExtensionStorage().Equal(storage) {
		t.Error("ExtensionStorage() should round-trip the storage DType")
	}
}

func TestDTypeString(t *testing.T) {
	cases := []struct {
		d    DType
		want string
	}{
		{Primitive(I64, NonNullable), "i64"},
		{Primitive(I64, Nullable), "i64?"},
		{Utf8(NonNullable), "utf8"},
	}
	for _, c := range cases {
		if got := c.d.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
