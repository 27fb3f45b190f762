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
package array

import (
	"sort"

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

func init() {
	RegisterEncoding(EncodingRef{ID: EncodingChunked, Decode: decodeChunked, Cost: 0})
}

// ChunkedArray concatenates same-dtype chunks logically into one array
// without copying (spec §4.3 Chunked) — the in-memory mirror of an IPC
// Page's sequence of Chunk messages for one column. The compressor does not
// carry a plan from one chunk to the next: compress.Apply samples and
// decides each array it is given on its own.
type ChunkedArray struct {
	statsMixin
	noBuffersT
	typ     dtype.DType
	chunks  []Array
	offsets []int // cumulative chunk start offsets, len(chunks)+1
	length  int
}

func NewChunked(typ dtype.DType, chunks []Array) (*ChunkedArray, error) {
	offsets := make([]int, len(chunks)+1)
	for i, c := range chunks {
		if !c.DType().Equal(typ) {
			return nil, errMismatchedTypes("chunked", typ, c.DType())
		}
		offsets[i+1] = offsets[i] + c.Len()
	}
	return &ChunkedArray{statsMixin: newStatsMixin(), typ: typ, chunks: chunks, offsets: offsets, length: offsets[len(chunks)]}, nil
}

func decodeChunked(length int, _ []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) == 0 {
		return nil, errInvalidArgument("decode", "chunked array requires at least one chunk child")
	}
	return NewChunked(children[0].DType(), children)
}

func (a *ChunkedArray) EncodingID() string         { return EncodingChunked }
func (a *ChunkedArray) DType() dtype.DType         { return a.typ }
func (a *ChunkedArray) Len() int                   { return a.length }
func (a *ChunkedArray) IsEmpty() bool              { return a.length == 0 }
func (a *ChunkedArray) Metadata() EncodingMetadata { return chunkedMetadata{} }

func (a *ChunkedArray) NBytes() int64 {
	var n int64
	for _, c := range a.chunks {
		n += c.NBytes()
	}
	return n
}

func (a *ChunkedArray) NumChildren() int  { return len(a.chunks) }
func (a *ChunkedArray) Child(i int) Array { return a.chunks[i] }

func (a *ChunkedArray) Accept(v Visitor) {
	for _, c := range a.chunks {
		v.VisitChild("chunk", c)
	}
}

// locate returns the chunk index holding logical position i, and i's offset
// within that chunk.
func (a *ChunkedArray) locate(i int) (int, int) {
	c := sort.Search(len(a.chunks), func(k int) bool { return a.offsets[k+1] > i })
	return c, i - a.offsets[c]
}

func (a *ChunkedArray) IsValid(i int) bool {
	c, off := a.locate(i)
	return a.chunks[c].IsValid(off)
}
func (a *ChunkedArray) LogicalValidity() vxbuffer.Validity { return vxbuffer.MakePerElement(a) }
func (a *ChunkedArray) ScalarTrue(i int) bool {
	c, off := a.locate(i)
	return a.chunks[c].ScalarTrue(off)
}

func (a *ChunkedArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	c, off := a.locate(i)
	return ScalarAt(a.chunks[c], off)
}

func (a *ChunkedArray) SliceImpl(start, end int) (Array, error) {
	startChunk, startOff := a.locate(start)
	endChunk, endOff := a.locate(end - 1)
	endOff++
	if startChunk == endChunk {
		sl, err := Slice(a.chunks[startChunk], startOff, endOff)
		if err != nil {
			return nil, err
		}
		return NewChunked(a.typ, []Array{sl})
	}
	out := make([]Array, 0, endChunk-startChunk+1)
	first, err := Slice(a.chunks[startChunk], startOff, a.chunks[startChunk].Len())
	if err != nil {
		return nil, err
	}
	out = append(out, first)
	for c := startChunk + 1; c < endChunk; c++ {
		out = append(out, a.chunks[c])
	}
	last, err := Slice(a.chunks[endChunk], 0, endOff)
	if err != nil {
		return nil, err
	}
	out = append(out, last)
	return NewChunked(a.typ, out)
}

// Flatten concatenates every chunk's flattened form into a single plain
// array, via repeated scalar materialization through scalarsToArray — the
// simplest correct concatenation that works uniformly across every plain
// kind (spec §4.3 Chunked: "flatten concatenates").
func (a *ChunkedArray) Flatten() Array {
	vals := make([]scalar.Scalar, a.length)
	for c, chunk := range a.chunks {
		base := a.offsets[c]
		for i := 0; i < chunk.Len(); i++ {
			s, err := ScalarAt(chunk, i)
			if err != nil {
				panic(err)
			}
			vals[base+i] = s
		}
	}
	return scalarsToArray(vals, a.typ)
}

type chunkedMetadata struct{}

func (chunkedMetadata) isEncodingMetadata() {}
