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
	"encoding/binary"
	"io"
)

// endMarker is the sentinel length value (spec §6 EndMarker: "u32 ==
// 0xFFFFFFFF") that closes an Array's Chunk* run instead of introducing a
// message payload.
const endMarker uint32 = 0xFFFFFFFF

// writeMessage frames payload as a length-prefixed message: one u32 LE byte
// count followed by the bytes themselves (spec §6 Message).
func writeMessage(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}

// writeEndMarker closes a Chunk* run within one Array.
func writeEndMarker(w io.Writer) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], endMarker)
	_, err := w.Write(lenBuf[:])
	return err
}

// readFrame reads one length prefix and, unless it is the end marker,
// the payload that follows; isEnd reports whether the sentinel was seen.
func readFrame(r io.Reader) (payload []byte, isEnd bool, err error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, false, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n == endMarker {
		return nil, true, nil
	}
	payload = make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, false, err
		}
	}
	return payload, false, nil
}
