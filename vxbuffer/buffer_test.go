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
package vxbuffer

import (
	"testing"
	"unsafe"
)

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func TestNewOwnedIsAligned(t *testing.T) {
	b := NewOwned(37)
	if b.Len() != 37 {
		t.Fatalf("Len() = %d, want 37", b.Len())
	}
	if !b.IsOwned() {
		t.Error("NewOwned should report IsOwned() == true")
	}
	addr := addrOf(b.Bytes())
	if addr%Alignment != 0 {
		t.Errorf("NewOwned buffer base address %#x is not %d-byte aligned", addr, Alignment)
	}
}

func TestFromU64RoundTrip(t *testing.T) {
	vals := []uint64{1, 2, 3, 0xFFFFFFFFFFFFFFFF}
	b := FromU64(vals)
	got := b.AsU64()
	if len(got) != len(vals) {
		t.Fatalf("AsU64() length = %d, want %d", len(got), len(vals))
	}
	for i, v := range vals {
		if got[i] != v {
			t.Errorf("AsU64()[%d] = %d, want %d", i, got[i], v)
		}
	}
}

func TestViewIsNotOwned(t *testing.T) {
	raw := make([]byte, 16)
	b := View(raw)
	if b.IsOwned() {
		t.Error("View should report IsOwned() == false")
	}
}

func TestBufferSlice(t *testing.T) {
	b := FromU32([]uint32{10, 20, 30, 40})
	s := b.Slice(4, 12)
	got := s.AsU32()
	want := []uint32{20, 30}
	if len(got) != len(want) {
		t.Fatalf("Slice AsU32() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice AsU32()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
