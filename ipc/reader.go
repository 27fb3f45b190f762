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
	"io"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
)

// readerState names the states of spec §4.7's state machine: AwaitingContext
// -> AwaitingSchema -> AwaitingChunk <-> AwaitingChunk -> EndOfArray ->
// AwaitingSchema | EOF. A Reader only ever moves forward through this
// sequence; ReadArray drives AwaitingSchema through EndOfArray internally
// and leaves the Reader back in AwaitingSchema (or EOF) for the next call.
type readerState uint8

const (
	stateAwaitingContext readerState = iota
	stateAwaitingSchema
	stateEOF
)

// Reader deserializes a Writer's stream back into arrays.
type Reader struct {
	r     io.Reader
	vc    *ViewContext
	state readerState
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, state: stateAwaitingContext}
}

// ReadContext consumes the stream's Context message, the first message any
// well-formed stream carries.
func (rd *Reader) ReadContext() error {
	if rd.state != stateAwaitingContext {
		return errInvalidSerde("ReadContext called out of order")
	}
	payload, isEnd, err := readFrame(rd.r)
	if err != nil {
		return err
	}
	if isEnd {
		return errInvalidSerde("unexpected end marker in place of the Context message")
	}
	vc, err := readContextMessage(payload)
	if err != nil {
		return err
	}
	rd.vc = vc
	rd.state = stateAwaitingSchema
	return nil
}

// ReadArray reads one Schema message followed by every Chunk message up to
// the closing EndMarker, concatenating multiple chunks into a ChunkedArray
// (spec §4.3 Chunked) so a caller always gets back a single Array value
// regardless of how many wire chunks it took. Returns io.EOF once the
// stream is exhausted (no further Schema message follows).
func (rd *Reader) ReadArray() (array.Array, error) {
	if rd.state == stateEOF {
		return nil, io.EOF
	}
	if rd.state != stateAwaitingSchema {
		return nil, errInvalidSerde("ReadArray called out of order")
	}

	schemaPayload, isEnd, err := readFrame(rd.r)
	if err != nil {
		if err == io.EOF {
			rd.state = stateEOF
			return nil, io.EOF
		}
		return nil, err
	}
	if isEnd {
		return nil, errInvalidSerde("unexpected end marker in place of a Schema message")
	}
	typ, err := readDType(newByteReader(schemaPayload))
	if err != nil {
		return nil, err
	}

	var chunks []array.Array
	for {
		payload, isEnd, err := readFrame(rd.r)
		if err != nil {
			return nil, err
		}
		if isEnd {
			break
		}
		chunk, err := decodeChunkPayload(payload, rd.vc)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	if len(chunks) == 1 {
		if !chunks[0].DType().Equal(typ) {
			return nil, errMismatchedSchema(typ, chunks[0].DType())
		}
		return chunks[0], nil
	}
	if len(chunks) == 0 {
		return emptyArrayOf(typ), nil
	}
	merged, err := array.NewChunked(typ, chunks)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func errMismatchedSchema(declared, got dtype.DType) error {
	return &array.VortexError{Kind: array.MismatchedTypes, Op: "ipc.ReadArray", From: got, To: declared}
}

// emptyArrayOf builds a zero-length array of typ for a Schema with no
// following Chunk messages (an array logically present but carrying no
// rows, e.g. an empty table column).
func emptyArrayOf(typ dtype.DType) array.Array {
	return array.BuildFromScalars(nil, typ)
}
