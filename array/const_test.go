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
	"github.com/vortexdb/vortex/scalar"
)

func TestConstantArrayBasics(t *testing.T) {
	v := scalar.NewInt(dtype.I64, 7, dtype.NonNullable)
	a := NewConstant(v, 5)

	if a.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", a.Len())
	}
	for i := 0; i < a.Len(); i++ {
		assertScalarInt(t, a, i, 7, "ConstantArrayBasics")
	}
	if a.NumBuffers() != 0 {
		t.Errorf("NumBuffers() = %d, want 0", a.NumBuffers())
	}

	min, ok := a.Stats().Get(StatMin)
	if !ok || min.Int() != 7 {
		t.Errorf("StatMin = %v (ok=%v), want 7", min, ok)
	}
	isConst, ok := a.Stats().Get(StatIsConstant)
	if !ok || !isConst.Bool() {
		t.Errorf("StatIsConstant = %v (ok=%v), want true", isConst, ok)
	}
}

func TestConstantArrayAllNull(t *testing.T) {
	a := NewConstant(scalar.NullOf(dtype.Primitive(dtype.I64, dtype.Nullable)), 3)
	if a.LogicalValidity().NullCount() != 3 {
		t.Errorf("NullCount() = %d, want 3", a.LogicalValidity().NullCount())
	}
	for i := 0; i < a.Len(); i++ {
		if a.IsValid(i) {
			t.Errorf("index %d should be invalid in an all-null constant", i)
		}
	}
}
