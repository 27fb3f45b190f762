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
package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/ipc"
	"github.com/vortexdb/vortex/vxbuffer"
)

func buildI64sForTransport(vals []int64) *array.PrimitiveArray {
	bits := make([]uint64, len(vals))
	for i, v := range vals {
		bits[i] = uint64(v)
	}
	typ := dtype.Primitive(dtype.I64, dtype.NonNullable)
	return array.NewPrimitive(typ, vxbuffer.FromU64(bits), vxbuffer.MakeNonNullable())
}

func TestServeEchoesOneArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(w, r, func(wr *ipc.Writer, rd *ipc.Reader) {
			if err := rd.ReadContext(); err != nil {
				t.Errorf("server ReadContext: %v", err)
				return
			}
			a, err := rd.ReadArray()
			if err != nil {
				t.Errorf("server ReadArray: %v", err)
				return
			}
			if err := wr.WriteContext(); err != nil {
				t.Errorf("server WriteContext: %v", err)
				return
			}
			if err := wr.WriteArray(a); err != nil {
				t.Errorf("server WriteArray: %v", err)
			}
		})
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	stream, err := Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer stream.Close()

	orig := buildI64sForTransport([]int64{10, 20, 30})
	if err := stream.Writer.WriteContext(); err != nil {
		t.Fatalf("client WriteContext: %v", err)
	}
	if err := stream.Writer.WriteArray(orig); err != nil {
		t.Fatalf("client WriteArray: %v", err)
	}
	if err := stream.CloseWrite(); err != nil {
		t.Fatalf("client CloseWrite: %v", err)
	}

	done := make(chan struct{})
	var got array.Array
	var readErr error
	go func() {
		defer close(done)
		if readErr = stream.Reader.ReadContext(); readErr != nil {
			return
		}
		got, readErr = stream.Reader.ReadArray()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for echoed array")
	}
	if readErr != nil {
		t.Fatalf("client read: %v", readErr)
	}
	if got.Len() != orig.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), orig.Len())
	}
	for i := 0; i < orig.Len(); i++ {
		want := array.ScalarAtUnchecked(orig, i)
		gotS := array.ScalarAtUnchecked(got, i)
		if gotS.Int() != want.Int() {
			t.Errorf("value at %d = %d, want %d", i, gotS.Int(), want.Int())
		}
	}
}
