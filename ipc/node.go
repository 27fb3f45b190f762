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

// ownValidityEncodings names the encodings whose own Decoder reads a
// trailing validity-bitset buffer straight after their data buffers
// (see decodePrimitive, decodeBool, decodeVarBin, decodeVarBinView,
// decodeBitPacked): Primitive, VarBin and VarBinView gate it on a nullable
// bit in their metadata, Bool and BitPacked on the buffer count. Every other
// encoding either carries no validity of its own (it is derived entirely
// from a child, e.g. Dict/RunEnd/Sparse) or is never nullable (Delta/FoR/
// ALP/ZigZag), so appending a synthetic buffer for them would desync the
// flat buffer list the Chunk message carries.
var ownValidityEncodings = map[string]bool{
	array.EncodingPrimitive:  true,
	array.EncodingBool:       true,
	array.EncodingVarBin:     true,
	array.EncodingVarBinView: true,
	array.EncodingBitPacked:  true,
}

// packValidity renders a logical Validity as a packed, LSB-first bitset
// buffer (1 = valid), the same layout array.bitsetView reads - the one
// wire representation every own-validity encoding's Decoder expects.
func packValidity(v vxbuffer.Validity) vxbuffer.Buffer {
	n := v.Len()
	buf := vxbuffer.NewOwned((n + 7) / 8)
	raw := buf.Bytes()
	for i := 0; i < n; i++ {
		if v.IsValid(i) {
			raw[i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}

// writeArrayNode serializes a's own fields and recurses into its children,
// appending every buffer it and its subtree own (own data buffers, then a
// synthesized validity buffer where applicable) to bufs in the same
// depth-first order the reader will consume them in - this is what keeps
// the flat Chunk.buffers list in sync with the recursive ArrayNode tree
// (spec §6).
func writeArrayNode(w *byteWriter, a array.Array, vc *ViewContext, bufs *[]vxbuffer.Buffer) error {
	idx, ok := vc.indexOf(a.EncodingID())
	if !ok {
		return errInvalidSerde("encoding %q is not present in this stream's Context", a.EncodingID())
	}
	w.u32(uint32(idx))

	metadata, err := marshalNodeMetadata(a)
	if err != nil {
		return err
	}
	w.bytesLP(metadata)

	writeNodeStats(w, a.Stats())

	nb := a.NumBuffers()
	hasValidity := ownValidityEncodings[a.EncodingID()] && a.DType().IsNullable()
	total := nb
	if hasValidity {
		total++
	}
	w.u32(uint32(total))
	for i := 0; i < nb; i++ {
		*bufs = append(*bufs, a.Buffer(i))
	}
	if hasValidity {
		*bufs = append(*bufs, packValidity(a.LogicalValidity()))
	}

	nc := a.NumChildren()
	w.u32(uint32(nc))
	for i := 0; i < nc; i++ {
		if err := writeArrayNode(w, a.Child(i), vc, bufs); err != nil {
			return err
		}
	}
	return nil
}

// marshalNodeMetadata special-cases Constant and Sparse (whose payload is a
// scalar with no fixed-width layout) and defers to array.MarshalMetadata
// for every other encoding.
func marshalNodeMetadata(a array.Array) ([]byte, error) {
	switch v := a.(type) {
	case *array.ConstantArray:
		w := &byteWriter{}
		writeScalar(w, array.ConstantValue(v))
		return w.buf, nil
	case *array.SparseArray:
		w := &byteWriter{}
		writeScalar(w, array.SparseFillValue(v))
		return w.buf, nil
	default:
		return array.MarshalMetadata(a), nil
	}
}

// writeNodeStats persists only the stats already resident in the cache
// (spec §4.4: stats are hints, never forced into existence just to be
// serialized), as a count-prefixed (statID byte, scalar) list.
func writeNodeStats(w *byteWriter, stats *array.StatsCache) {
	all := []array.Stat{
		array.StatMin, array.StatMax, array.StatIsSorted, array.StatIsStrictSorted,
		array.StatIsConstant, array.StatRunCount, array.StatTrueCount, array.StatNullCount,
	}
	present := make([]array.Stat, 0, len(all))
	for _, s := range all {
		if _, ok := stats.Get(s); ok {
			present = append(present, s)
		}
	}
	w.u32(uint32(len(present)))
	for _, s := range present {
		v, _ := stats.Get(s)
		w.u8(byte(s))
		writeScalar(w, v)
	}
}

func readNodeStats(r *byteReader, stats *array.StatsCache) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		sb, err := r.u8()
		if err != nil {
			return err
		}
		v, err := readScalar(r)
		if err != nil {
			return err
		}
		stats.Set(array.Stat(sb), v)
	}
	return nil
}

// readArrayNode is writeArrayNode's inverse: it decodes this node's header,
// slices its own buffers off the shared flat list via a running cursor,
// recurses into its children (matching write order), then dispatches to
// the registered Decoder - except Constant and Sparse, which are built
// directly since their scalar payload bypasses the Decoder entirely.
func readArrayNode(r *byteReader, vc *ViewContext, length int, bufs []vxbuffer.Buffer, cursor *int) (array.Array, error) {
	idxU32, err := r.u32()
	if err != nil {
		return nil, err
	}
	id, ok := vc.idAt(int(idxU32))
	if !ok {
		return nil, errInvalidSerde("encoding index %d out of range for this stream's Context", idxU32)
	}
	metadata, err := r.bytesLP()
	if err != nil {
		return nil, err
	}

	stats := array.NewStatsCache()
	if err := readNodeStats(r, stats); err != nil {
		return nil, err
	}

	bufCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	if *cursor+int(bufCount) > len(bufs) {
		return nil, errInvalidSerde("chunk buffer list exhausted decoding %q", id)
	}
	ownBufs := bufs[*cursor : *cursor+int(bufCount)]
	*cursor += int(bufCount)

	childCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	children := make([]array.Array, childCount)
	for i := range children {
		children[i], err = readArrayNode(r, vc, length, bufs, cursor)
		if err != nil {
			return nil, err
		}
	}

	a, err := decodeNode(id, length, metadata, children, ownBufs)
	if err != nil {
		return nil, err
	}
	for _, s := range []array.Stat{
		array.StatMin, array.StatMax, array.StatIsSorted, array.StatIsStrictSorted,
		array.StatIsConstant, array.StatRunCount, array.StatTrueCount, array.StatNullCount,
	} {
		if v, ok := stats.Get(s); ok {
			a.Stats().Set(s, v)
		}
	}
	return a, nil
}

// decodeNode dispatches to the registered Decoder, special-casing Constant
// and Sparse whose scalar payload travels through metadata rather than a
// buffer (see marshalNodeMetadata).
func decodeNode(id string, length int, metadata []byte, children []array.Array, buffers []vxbuffer.Buffer) (array.Array, error) {
	switch id {
	case array.EncodingConstant:
		r := newByteReader(metadata)
		v, err := readScalar(r)
		if err != nil {
			return nil, err
		}
		return array.NewConstant(v, length), nil
	case array.EncodingSparse:
		if len(children) != 2 {
			return nil, errInvalidSerde("sparse array requires exactly two children")
		}
		idx, ok := children[0].(*array.PrimitiveArray)
		if !ok {
			return nil, errInvalidSerde("sparse array's first child must be a primitive index array")
		}
		r := newByteReader(metadata)
		fill, err := readScalar(r)
		if err != nil {
			return nil, err
		}
		return array.NewSparse(fill, idx, children[1], length)
	default:
		ref, ok := array.LookupEncoding(id)
		if !ok {
			return nil, errInvalidSerde("unknown encoding %q", id)
		}
		return ref.Decode(length, metadata, children, buffers)
	}
}
