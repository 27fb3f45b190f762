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

import "github.com/vortexdb/vortex/array"

// ViewContext is the per-stream encoding-id negotiation table (spec §6
// Context{encodings:[{id}]}): every ArrayNode references an encoding by a
// small integer index into this table rather than repeating its string id,
// the same role storage/storage.go's type byte constants play for the
// teacher's on-disk column format, generalized to a table because Vortex's
// encoding set is open (new third-party encodings can register themselves).
type ViewContext struct {
	ids   []string
	index map[string]int
}

// NewViewContext snapshots the process-wide registry's current encodings in
// registration order, the default a Writer uses unless the caller supplies
// one explicitly (e.g. to pin a smaller table for a stream that only ever
// uses a handful of encodings).
func NewViewContext() *ViewContext {
	return viewContextFromIDs(array.RegisteredEncodings())
}

func viewContextFromIDs(ids []string) *ViewContext {
	vc := &ViewContext{ids: ids, index: make(map[string]int, len(ids))}
	for i, id := range ids {
		vc.index[id] = i
	}
	return vc
}

func (vc *ViewContext) indexOf(id string) (int, bool) {
	i, ok := vc.index[id]
	return i, ok
}

func (vc *ViewContext) idAt(i int) (string, bool) {
	if i < 0 || i >= len(vc.ids) {
		return "", false
	}
	return vc.ids[i], true
}

// writeContextMessage encodes the Context message body: a count-prefixed
// list of encoding id strings.
func writeContextMessage(vc *ViewContext) []byte {
	w := &byteWriter{}
	w.u32(uint32(len(vc.ids)))
	for _, id := range vc.ids {
		w.str(id)
	}
	return w.buf
}

// readContextMessage is writeContextMessage's inverse, building the
// ViewContext a subsequent Schema/Chunk message's encoding indices resolve
// against - always the one actually written by the peer, never the local
// registry's order, since a remote process may have registered encodings in
// a different order (or a different subset).
func readContextMessage(body []byte) (*ViewContext, error) {
	r := newByteReader(body)
	count, err := r.u32()
	if err != nil {
		return nil, err
	}
	ids := make([]string, count)
	for i := range ids {
		ids[i], err = r.str()
		if err != nil {
			return nil, err
		}
	}
	return viewContextFromIDs(ids), nil
}
