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
)

func TestChunkedArrayLogicalIndexing(t *testing.T) {
	typ := dtype.Primitive(dtype.I64, dtype.NonNullable)
	c1 := buildI64s([]int64{1, 2, 3})
	c2 := buildI64s([]int64{4, 5})
	chunked, err := NewChunked(typ, []Array{c1, c2})
	if err != nil {
		t.Fatalf("NewChunked: %v", err)
	}

	if chunked.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", chunked.Len())
	}
	want := []int64{1, 2, 3, 4, 5}
	for i, v := range want {
		assertScalarInt(t, chunked, i, v, "ChunkedArrayLogicalIndexing")
	}
}

func TestChunkedArrayRejectsMismatchedDType(t *testing.T) {
	i64 := dtype.Primitive(dtype.I64, dtype.NonNullable)
	f64 := dtype.Primitive(dtype.F64, dtype.NonNullable)
	c1 := buildI64s([]int64{1})

	_, err := NewChunked(f64, []Array{c1})
	if err == nil {
		t.Fatal("NewChunked should reject a chunk whose dtype disagrees with the declared type")
	}
	_, err = NewChunked(i64, []Array{c1})
	if err != nil {
		t.Fatalf("NewChunked should accept a matching chunk: %v", err)
	}
}
