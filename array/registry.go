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
	"sync"

	"github.com/vortexdb/vortex/vxbuffer"
)

// Encoding ids, interned strings identifying a concrete physical
// representation on the wire (spec §3 "ViewContext / Encoding registry").
const (
	EncodingNull       = "vortex.null"
	EncodingBool       = "vortex.bool"
	EncodingPrimitive  = "vortex.primitive"
	EncodingVarBin     = "vortex.varbin"
	EncodingVarBinView = "vortex.varbinview"
	EncodingStruct     = "vortex.struct"
	EncodingConstant   = "vortex.constant"
	EncodingSparse     = "vortex.sparse"
	EncodingChunked    = "vortex.chunked"
	EncodingExtension  = "vortex.extension"

	EncodingBitPacked = "fastlanes.bitpacked"
	EncodingDelta     = "fastlanes.delta"
	EncodingFoR       = "vortex.for"
	EncodingALP       = "vortex.alp"
	EncodingDict      = "vortex.dict"
	EncodingRunEnd    = "vortex.runend"
	EncodingZigZag    = "vortex.zigzag"
	EncodingRoaringBool = "roaring.bool"
	EncodingRoaringInt  = "roaring.int"
)

// Decoder reconstructs a Data array from the raw components an IPC chunk (or
// an in-memory compressor) produced for one node: logical length, opaque
// metadata bytes, already-resolved children, and this node's own buffers.
// This is the single extension point new encodings must implement to be
// usable from the IPC reader.
type Decoder func(length int, metadata []byte, children []Array, buffers []vxbuffer.Buffer) (Array, error)

// EncodingRef is what the process-wide registry stores per encoding id.
type EncodingRef struct {
	ID      string
	Decode  Decoder
	Cost    float64 // static per-encoding weight (spec §4.5 step 4); compress.Propose does not read it
}

var (
	registryMu sync.RWMutex
	registry   = map[string]EncodingRef{}
	// registryOrder preserves first-registration order so a fresh process
	// has a deterministic default ViewContext ordering before any stream is
	// read.
	registryOrder []string
)

// RegisterEncoding adds e to the process-wide registry. The registry is
// append-only (spec §5): call this only from package init() functions.
func RegisterEncoding(e EncodingRef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[e.ID]; !exists {
		registryOrder = append(registryOrder, e.ID)
	}
	registry[e.ID] = e
}

// LookupEncoding retrieves a previously-registered encoding by id.
func LookupEncoding(id string) (EncodingRef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[id]
	return e, ok
}

// RegisteredEncodings returns every registered encoding id in registration
// order.
func RegisteredEncodings() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, len(registryOrder))
	copy(out, registryOrder)
	return out
}
