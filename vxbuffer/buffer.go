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
// Package vxbuffer implements the aligned byte Buffer and the logical
// Validity (null-mask) types shared by every array encoding. The byte
// reinterpretation style (unsafe.Slice over a []byte) mirrors the teacher's
// StorageInt.Serialize/Deserialize and StorageFloat, which reinterpret
// []uint64/[]float64 slices as raw bytes for zero-copy (de)serialization.
package vxbuffer

import (
	"fmt"
	"unsafe"
)

// Alignment is the byte alignment NewOwned guarantees for a Buffer's base
// pointer, matching the IPC wire format's 64-byte buffer region alignment
// (spec §6). Buffers made by WrapOwned, View, FromU64/FromU32/FromF64 or
// Slice keep whatever alignment the memory they wrap has.
const Alignment = 64

// Buffer is an immutable byte region plus a logical length. It may either
// Own its backing allocation (constructed in memory, e.g. by a compressor
// or a plain-encoding builder) or be a View borrowing a slice of a parent
// IPC frame (constructed by the ipc Chunk decoder); both share this type so compute
// code never needs to distinguish them.
type Buffer struct {
	data  []byte
	owned bool
}

// NewOwned allocates a new 64-byte-aligned buffer of n bytes, zeroed.
func NewOwned(n int) Buffer {
	// over-allocate and slice to the first aligned offset: Go gives no
	// alignment guarantee for make([]byte, n), so we carve out extra room.
	raw := make([]byte, n+Alignment)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	pad := (Alignment - int(addr%Alignment)) % Alignment
	return Buffer{data: raw[pad : pad+n], owned: true}
}

// WrapOwned takes ownership of an existing, already 64-byte-aligned slice
// without copying (used when a builder already produced aligned bytes, e.g.
// by reinterpreting a []uint64 FastLanes block).
func WrapOwned(b []byte) Buffer {
	return Buffer{data: b, owned: true}
}

// View wraps a borrowed slice (e.g. of a memory-mapped or otherwise
// externally-owned IPC frame) without copying or taking ownership.
func View(b []byte) Buffer {
	return Buffer{data: b, owned: false}
}

func (b Buffer) Len() int      { return len(b.data) }
func (b Buffer) Bytes() []byte { return b.data }
func (b Buffer) IsOwned() bool { return b.owned }

// Slice returns the sub-region [start,end) sharing the same backing array;
// the invariant "children own their own buffers, a node's own buffers are
// its own" is preserved because Slice never copies.
func (b Buffer) Slice(start, end int) Buffer {
	if start < 0 || end > len(b.data) || start > end {
		panic(fmt.Sprintf("vxbuffer: slice [%d:%d) out of range for buffer of length %d", start, end, len(b.data)))
	}
	return Buffer{data: b.data[start:end], owned: b.owned}
}

func requireDivisible(n, width int, what string) {
	if n%width != 0 {
		panic(fmt.Sprintf("vxbuffer: %s: byte length %d is not a multiple of element width %d", what, n, width))
	}
}

// AsU8/AsU16/... reinterpret the buffer as a typed slice sharing the same
// backing memory. Byte length must be a multiple of the element width.

func (b Buffer) AsU8() []uint8 { return b.data }

func (b Buffer) AsU16() []uint16 {
	requireDivisible(len(b.data), 2, "AsU16")
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b.data[0])), len(b.data)/2)
}

func (b Buffer) AsU32() []uint32 {
	requireDivisible(len(b.data), 4, "AsU32")
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b.data[0])), len(b.data)/4)
}

func (b Buffer) AsU64() []uint64 {
	requireDivisible(len(b.data), 8, "AsU64")
	return unsafe.Slice((*uint64)(unsafe.Pointer(&b.data[0])), len(b.data)/8)
}

func (b Buffer) AsI8() []int8 {
	requireDivisible(len(b.data), 1, "AsI8")
	return unsafe.Slice((*int8)(unsafe.Pointer(&b.data[0])), len(b.data))
}

func (b Buffer) AsI16() []int16 {
	requireDivisible(len(b.data), 2, "AsI16")
	return unsafe.Slice((*int16)(unsafe.Pointer(&b.data[0])), len(b.data)/2)
}

func (b Buffer) AsI32() []int32 {
	requireDivisible(len(b.data), 4, "AsI32")
	return unsafe.Slice((*int32)(unsafe.Pointer(&b.data[0])), len(b.data)/4)
}

func (b Buffer) AsI64() []int64 {
	requireDivisible(len(b.data), 8, "AsI64")
	return unsafe.Slice((*int64)(unsafe.Pointer(&b.data[0])), len(b.data)/8)
}

func (b Buffer) AsF32() []float32 {
	requireDivisible(len(b.data), 4, "AsF32")
	return unsafe.Slice((*float32)(unsafe.Pointer(&b.data[0])), len(b.data)/4)
}

func (b Buffer) AsF64() []float64 {
	requireDivisible(len(b.data), 8, "AsF64")
	return unsafe.Slice((*float64)(unsafe.Pointer(&b.data[0])), len(b.data)/8)
}

// FromU64 builds an owned Buffer from a []uint64 by reinterpreting its
// backing array as bytes (zero-copy, so the Buffer has that array's
// alignment), the mirror image of AsU64. This is
// the pattern StorageInt.Serialize uses for its chunk []uint64.
func FromU64(v []uint64) Buffer {
	if len(v) == 0 {
		return NewOwned(0)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), 8*len(v))
	return Buffer{data: b, owned: true}
}

func FromU32(v []uint32) Buffer {
	if len(v) == 0 {
		return NewOwned(0)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), 4*len(v))
	return Buffer{data: b, owned: true}
}

func FromF64(v []float64) Buffer {
	if len(v) == 0 {
		return NewOwned(0)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), 8*len(v))
	return Buffer{data: b, owned: true}
}

// PaddedLen rounds n up to the next multiple of Alignment.
func PaddedLen(n int) int {
	rem := n % Alignment
	if rem == 0 {
		return n
	}
	return n + (Alignment - rem)
}
