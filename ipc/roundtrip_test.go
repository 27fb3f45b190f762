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
	"bytes"
	"io"
	"testing"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/vxbuffer"
)

func buildI64sForIPC(vals []int64) *array.PrimitiveArray {
	bits := make([]uint64, len(vals))
	for i, v := range vals {
		bits[i] = uint64(v)
	}
	typ := dtype.Primitive(dtype.I64, dtype.NonNullable)
	return array.NewPrimitive(typ, vxbuffer.FromU64(bits), vxbuffer.MakeNonNullable())
}

func TestWriterReaderRoundTripSingleArray(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteContext(); err != nil {
		t.Fatalf("WriteContext: %v", err)
	}
	orig := buildI64sForIPC([]int64{1, 2, 3, 4})
	if err := w.WriteArray(orig); err != nil {
		t.Fatalf("WriteArray: %v", err)
	}

	r := NewReader(&buf)
	if err := r.ReadContext(); err != nil {
		t.Fatalf("ReadContext: %v", err)
	}
	got, err := r.ReadArray()
	if err != nil {
		t.Fatalf("ReadArray: %v", err)
	}

	if got.Len() != orig.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), orig.Len())
	}
	if !got.DType().Equal(orig.DType()) {
		t.Errorf("DType() = %v, want %v", got.DType(), orig.DType())
	}
	for i := 0; i < orig.Len(); i++ {
		wantS := array.ScalarAtUnchecked(orig, i)
		gotS := array.ScalarAtUnchecked(got, i)
		if gotS.Int() != wantS.Int() {
			t.Errorf("value at %d = %d, want %d", i, gotS.Int(), wantS.Int())
		}
	}

	if _, err := r.ReadArray(); err != io.EOF {
		t.Errorf("second ReadArray() err = %v, want io.EOF", err)
	}
}

func TestWriterReaderRoundTripChunkedArray(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteContext(); err != nil {
		t.Fatalf("WriteContext: %v", err)
	}

	typ := dtype.Primitive(dtype.I64, dtype.NonNullable)
	c1 := buildI64sForIPC([]int64{1, 2})
	c2 := buildI64sForIPC([]int64{3, 4, 5})
	chunked, err := array.NewChunked(typ, []array.Array{c1, c2})
	if err != nil {
		t.Fatalf("NewChunked: %v", err)
	}
	if err := w.WriteArray(chunked); err != nil {
		t.Fatalf("WriteArray: %v", err)
	}

	r := NewReader(&buf)
	if err := r.ReadContext(); err != nil {
		t.Fatalf("ReadContext: %v", err)
	}
	got, err := r.ReadArray()
	if err != nil {
		t.Fatalf("ReadArray: %v", err)
	}

	if got.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", got.Len())
	}
	want := []int64{1, 2, 3, 4, 5}
	for i, v := range want {
		gotS := array.ScalarAtUnchecked(got, i)
		if gotS.Int() != v {
			t.Errorf("value at %d = %d, want %d", i, gotS.Int(), v)
		}
	}
}

func TestReadArrayBeforeContextFails(t *testing.T) {
	var buf bytes.Buffer
	r := NewReader(&buf)
	if _, err := r.ReadArray(); err == nil {
		t.Error("ReadArray before ReadContext should fail")
	}
}
