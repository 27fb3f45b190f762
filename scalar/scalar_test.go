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
package scalar

import (
	"testing"

	"github.com/vortexdb/vortex/dtype"
)

func TestNullScalarsAreEqual(t *testing.T) {
	a := NullPrimitive(dtype.I64, dtype.Nullable)
	b := NullPrimitive(dtype.I64, dtype.Nullable)
	if !Equal(a, b) {
		t.Error("two nulls of the same dtype should be equal")
	}
	if !a.IsNull() {
		t.Error("NullPrimitive should produce a null scalar")
	}
}

func TestNewIntRoundTrip(t *testing.T) {
	s := NewInt(dtype.I32, -17, dtype.NonNullable)
	if s.IsNull() {
		t.Fatal("NewInt should not produce a null scalar")
	}
	if s.Int() != -17 {
		t.Errorf("Int() = %d, want -17", s.Int())
	}
}

func TestCastIntToFloat(t *testing.T) {
	s := NewInt(dtype.I64, 3, dtype.NonNullable)
	f, err := s.Cast(dtype.Primitive(dtype.F64, dtype.NonNullable))
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if f.Float() != 3.0 {
		t.Errorf("Float() = %v, want 3.0", f.Float())
	}
}

func TestCastMismatchedKindFails(t *testing.T) {
	s := NewUtf8("hello", dtype.NonNullable)
	_, err := s.Cast(dtype.Primitive(dtype.I64, dtype.NonNullable))
	if err == nil {
		t.Error("casting a Utf8 scalar to a primitive kind should fail")
	}
}

func TestEqualDistinguishesValue(t *testing.T) {
	a := NewInt(dtype.I64, 1, dtype.NonNullable)
	b := NewInt(dtype.I64, 2, dtype.NonNullable)
	if Equal(a, b) {
		t.Error("scalars with different values should not be equal")
	}
}

func TestLessOrdersNumerically(t *testing.T) {
	a := NewInt(dtype.I64, 1, dtype.NonNullable)
	b := NewInt(dtype.I64, 2, dtype.NonNullable)
	if !Less(a, b) {
		t.Error("Less(1, 2) should be true")
	}
	if Less(b, a) {
		t.Error("Less(2, 1) should be false")
	}
}
