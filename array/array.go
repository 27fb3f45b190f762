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
// Package array implements the Vortex encoded-array kernel: a single
// polymorphic Array interface shared by every plain and compressed encoding,
// a canonical flatten-then-retry compute dispatcher, and the encoding
// registry.
//
// The shape follows the teacher's ColumnStorage interface (storage/storage.go):
// one small interface every physical representation satisfies, a scan/build
// lifecycle replaced here by decode-at-construction, and free top-level
// functions (here: the Compute* functions in compute.go) that know how to
// fall back when a concrete type does not implement a faster path.
package array

import (
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

// Array is the trait surface every encoding implements (spec §4.1). A value
// satisfying Array is one node of the array tree; Data implementations own
// their children/buffers, View implementations borrow them from an IPC frame
// (see the ipc package) but satisfy the exact same interface.
type Array interface {
	// Identity
	EncodingID() string
	DType() dtype.DType
	Len() int
	IsEmpty() bool
	// NBytes is a recursive estimate of the serialized byte size of this
	// subtree (own buffers + children), used by the compressor's ratio
	// objective and by IPC size planning.
	NBytes() int64

	// Structural access
	NumChildren() int
	Child(i int) Array
	NumBuffers() int
	Buffer(i int) vxbuffer.Buffer
	Metadata() EncodingMetadata

	// Visitor, used for NBytes/printing/serialization traversal.
	Accept(v Visitor)

	// Validity
	IsValid(i int) bool
	LogicalValidity() vxbuffer.Validity
	// ScalarTrue is the raw boolean payload at i, ignoring validity; it lets
	// any Bool-dtype array satisfy vxbuffer.BoolArrayLike so it can serve as
	// a nested Validity array without an import cycle.
	ScalarTrue(i int) bool

	// Flatten recursively materializes this array to a plain representation.
	// Must be idempotent: a plain array flattens to itself.
	Flatten() Array

	// Stats is the lazily-populated, thread-safe statistics cache attached
	// to this node (spec §4.4).
	Stats() *StatsCache
}

// EncodingMetadata is the opaque, encoding-specific metadata every node
// carries; concrete encodings assert to their own metadata struct.
type EncodingMetadata interface {
	isEncodingMetadata()
}

// Visitor receives the structural decomposition of an array for traversal
// purposes (nbytes accounting, tree printing, IPC serialization).
type Visitor interface {
	VisitChild(name string, a Array)
	VisitBuffer(b vxbuffer.Buffer)
	VisitValidity(v vxbuffer.Validity)
}

// FlattenedKind tags the result of Flatten(): it is always one of the plain
// encodings.
type FlattenedKind uint8

const (
	FlattenedNull FlattenedKind = iota
	FlattenedBool
	FlattenedPrimitive
	FlattenedVarBin
	FlattenedStruct
	FlattenedExtension
)

// FlattenedArray is a view over a flatten() result restricted to the plain
// encodings, letting callers switch on the returned kind without needing to
// know every encoding ID string.
type FlattenedArray struct {
	Kind  FlattenedKind
	Array Array
}

// Flatten classifies a.Flatten()'s result by its plain encoding kind. It
// never loops: every plain encoding's own Flatten() returns itself.
func Flatten(a Array) FlattenedArray {
	flat := a.Flatten()
	var kind FlattenedKind
	switch flat.EncodingID() {
	case EncodingNull:
		kind = FlattenedNull
	case EncodingBool:
		kind = FlattenedBool
	case EncodingPrimitive:
		kind = FlattenedPrimitive
	case EncodingVarBin, EncodingVarBinView:
		kind = FlattenedVarBin
	case EncodingStruct:
		kind = FlattenedStruct
	case EncodingExtension:
		kind = FlattenedExtension
	default:
		panic("array: Flatten() returned a non-plain encoding " + flat.EncodingID())
	}
	return FlattenedArray{Kind: kind, Array: flat}
}

// ScalarAtUnchecked is a small helper shared by encodings that need the Nth
// logical scalar of a child array without going through the public
// ScalarAt dispatcher's bounds/error plumbing (e.g. while unpacking a
// block). It still respects validity.
func ScalarAtUnchecked(a Array, i int) scalar.Scalar {
	s, err := ScalarAt(a, i)
	if err != nil {
		panic(err)
	}
	return s
}
