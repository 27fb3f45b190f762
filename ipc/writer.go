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
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/vortexdb/vortex/array"
)

// Writer serializes arrays onto a stream following spec §4.7's state
// machine: one Context, then per array a Schema followed by one or more
// Chunk messages and a closing EndMarker.
type Writer struct {
	w  io.Writer
	vc *ViewContext
	id uuid.UUID

	// Compression picks the codec applied to each Chunk's buffer region.
	// Defaults to CompressionLZ4.
	Compression Compression
	// Verbose mirrors the teacher's stderr progress logging (see
	// storage/cache.go's eviction trace) gated by a bool rather than a
	// level, since one stream has exactly one thing worth tracing: bytes
	// written per chunk.
	Verbose bool

	contextWritten bool
}

// NewWriter builds a Writer over w using the process's current registry
// snapshot as the stream's ViewContext; id is a fresh stream identifier
// (surfaced only for logging/correlation, not interpreted by the wire
// format itself).
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, vc: NewViewContext(), id: uuid.New(), Compression: CompressionLZ4}
}

// WriteContext emits the Context message. Must be called exactly once,
// before the first WriteArray.
func (wr *Writer) WriteContext() error {
	if wr.contextWritten {
		return errInvalidSerde("WriteContext called twice on stream %s", wr.id)
	}
	if wr.Verbose {
		fmt.Fprintf(os.Stderr, "ipc: stream %s: writing context with %d encodings\n", wr.id, len(wr.vc.ids))
	}
	if err := writeMessage(wr.w, writeContextMessage(wr.vc)); err != nil {
		return err
	}
	wr.contextWritten = true
	return nil
}

// WriteArray writes one Schema message followed by one Chunk message per
// physical chunk - a ChunkedArray's children become one Chunk message
// each, while any other array becomes a single Chunk - and a closing
// EndMarker.
func (wr *Writer) WriteArray(a array.Array) error {
	if !wr.contextWritten {
		return errInvalidSerde("WriteArray called before WriteContext on stream %s", wr.id)
	}
	schemaW := &byteWriter{}
	writeDType(schemaW, a.DType())
	if err := writeMessage(wr.w, schemaW.buf); err != nil {
		return err
	}

	chunks := []array.Array{a}
	if ca, ok := a.(*array.ChunkedArray); ok {
		chunks = make([]array.Array, ca.NumChildren())
		for i := range chunks {
			chunks[i] = ca.Child(i)
		}
	}
	for i, chunk := range chunks {
		payload, err := encodeChunkPayload(chunk, wr.vc, wr.Compression)
		if err != nil {
			return err
		}
		if wr.Verbose {
			fmt.Fprintf(os.Stderr, "ipc: stream %s: chunk %d: %d rows, %d bytes on wire\n", wr.id, i, chunk.Len(), len(payload))
		}
		if err := writeMessage(wr.w, payload); err != nil {
			return err
		}
	}
	return writeEndMarker(wr.w)
}
