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
// Package ipc implements the Vortex wire format (spec §6): a little-endian
// stream of length-prefixed messages (Context, Schema, Chunk) followed by a
// 64-byte-aligned buffer region, plus the Writer/Reader pair and the
// decode path that views each buffer of a Chunk's region in place
// (vxbuffer.View). There is no flatbuffer code generator
// here (spec.md's Non-goals exclude it); the message bodies below are a
// hand-rolled binary encoding that reproduces the layout §6 describes
// abstractly, the same way the teacher hand-rolls its own on-disk formats
// in storage/storage-int.go rather than reaching for a schema compiler.
package ipc

import (
	"encoding/binary"
	"fmt"
)

// byteWriter accumulates a message body with little-endian primitive helpers;
// mirrors the teacher's bytes.Buffer-based log-line encoding in
// persistence-files.go's FileLogfile.Write, generalized to binary fields.
type byteWriter struct {
	buf []byte
}

func (w *byteWriter) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *byteWriter) u32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *byteWriter) u64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *byteWriter) bytes(b []byte) { w.buf = append(w.buf, b...) }

// bytesLP writes a u32 length prefix followed by the bytes themselves.
func (w *byteWriter) bytesLP(b []byte) {
	w.u32(uint32(len(b)))
	w.bytes(b)
}

func (w *byteWriter) str(s string) { w.bytesLP([]byte(s)) }

// byteReader is the read-side counterpart, erroring (rather than panicking)
// on truncated input so a malformed stream becomes an InvalidSerde error
// instead of a crash (spec §7).
type byteReader struct {
	buf []byte
	pos int
}

func newByteReader(b []byte) *byteReader { return &byteReader{buf: b} }

func (r *byteReader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return fmt.Errorf("ipc: truncated message: need %d bytes at offset %d, have %d", n, r.pos, len(r.buf))
	}
	return nil
}

func (r *byteReader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *byteReader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *byteReader) u64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) bytesLP() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	return r.bytes(int(n))
}

func (r *byteReader) str() (string, error) {
	b, err := r.bytesLP()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
