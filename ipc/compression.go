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

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Compression tags the codec applied to one Chunk's buffer region (spec §6
// Chunk.buffers[].compression). LZ4 is the default for ordinary streaming
// (fast enough to not bottleneck a producer); XZ trades CPU for ratio and is
// meant for the cold, write-once "Page" buffers SPEC_FULL.md's domain stack
// calls out separately from the per-chunk streaming path.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionLZ4
	CompressionXZ
)

func compressRegion(c Compression, raw []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return raw, nil
	case CompressionLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionXZ:
		var buf bytes.Buffer
		zw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(raw); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errInvalidSerde("unknown compression code %d", c)
	}
}

func decompressRegion(c Compression, data []byte, rawLen int) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		zr := lz4.NewReader(bytes.NewReader(data))
		out := make([]byte, rawLen)
		if _, err := io.ReadFull(zr, out); err != nil {
			return nil, err
		}
		return out, nil
	case CompressionXZ:
		zr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		out := make([]byte, rawLen)
		if _, err := io.ReadFull(zr, out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, errInvalidSerde("unknown compression code %d", c)
	}
}
