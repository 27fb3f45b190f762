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
	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/vxbuffer"
)

// encodeChunkPayload builds one Chunk message body (spec §6 Chunk): the
// recursive ArrayNode header, a directory of buffer lengths, and the flat
// buffer region itself - concatenated in the same depth-first order
// writeArrayNode discovered them in, each padded to vxbuffer.Alignment so a
// CompressionNone reader can vxbuffer.View each slice without copying.
func encodeChunkPayload(a array.Array, vc *ViewContext, compression Compression) ([]byte, error) {
	headerW := &byteWriter{}
	var bufs []vxbuffer.Buffer
	if err := writeArrayNode(headerW, a, vc, &bufs); err != nil {
		return nil, err
	}

	lengths := make([]uint64, len(bufs))
	region := make([]byte, 0, 4096)
	for i, b := range bufs {
		lengths[i] = uint64(b.Len())
		region = append(region, b.Bytes()...)
		if pad := vxbuffer.PaddedLen(b.Len()) - b.Len(); pad > 0 {
			region = append(region, make([]byte, pad)...)
		}
	}
	compressed, err := compressRegion(compression, region)
	if err != nil {
		return nil, err
	}

	w := &byteWriter{}
	w.u32(uint32(a.Len()))
	w.bytesLP(headerW.buf)
	w.u32(uint32(len(bufs)))
	for _, l := range lengths {
		w.u64(l)
	}
	w.u8(byte(compression))
	w.u64(uint64(len(region)))
	w.bytesLP(compressed)
	return w.buf, nil
}

// decodeChunkPayload is encodeChunkPayload's inverse.
func decodeChunkPayload(payload []byte, vc *ViewContext) (array.Array, error) {
	r := newByteReader(payload)
	rowLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	headerBytes, err := r.bytesLP()
	if err != nil {
		return nil, err
	}
	bufCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	lengths := make([]uint64, bufCount)
	for i := range lengths {
		lengths[i], err = r.u64()
		if err != nil {
			return nil, err
		}
	}
	compCode, err := r.u8()
	if err != nil {
		return nil, err
	}
	regionLen, err := r.u64()
	if err != nil {
		return nil, err
	}
	compressed, err := r.bytesLP()
	if err != nil {
		return nil, err
	}
	region, err := decompressRegion(Compression(compCode), compressed, int(regionLen))
	if err != nil {
		return nil, err
	}

	bufs := make([]vxbuffer.Buffer, bufCount)
	offset := 0
	for i, l := range lengths {
		if offset+int(l) > len(region) {
			return nil, errInvalidSerde("chunk buffer region too short for buffer %d", i)
		}
		bufs[i] = vxbuffer.View(region[offset : offset+int(l)])
		offset += vxbuffer.PaddedLen(int(l))
	}

	hr := newByteReader(headerBytes)
	cursor := 0
	return readArrayNode(hr, vc, int(rowLen), bufs, &cursor)
}
