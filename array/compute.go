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
	"github.com/vortexdb/vortex/scalar"
)

// Every Compute* entry point below follows the same three-step dispatch
// (spec §4.6 "flatten then retry"): bounds/shape check, then ask the
// concrete array for a fast path via its optional Provider interface, and
// only if it has none, Flatten() once and recurse. A plain encoding that
// still lacks a Provider for an op is a real NotImplemented — flattening a
// plain array returns itself, which would otherwise recurse forever.

// ScalarAtProvider lets an encoding answer ScalarAt without flattening.
type ScalarAtProvider interface {
	ScalarAtImpl(i int) (scalar.Scalar, error)
}

// ScalarAt returns the logical value at position i (spec §4.6 scalar_at).
func ScalarAt(a Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, errOutOfBounds("scalar_at", i, a.Len())
	}
	if !a.IsValid(i) {
		return scalar.NullOf(a.DType()), nil
	}
	if p, ok := a.(ScalarAtProvider); ok {
		return p.ScalarAtImpl(i)
	}
	flat := a.Flatten()
	if flat == a {
		return scalar.Scalar{}, errNotImplemented("scalar_at", a.EncodingID())
	}
	return ScalarAt(flat, i)
}

// SliceProvider lets an encoding answer Slice in O(1) (the common case:
// every encoding in spec §4.3 slices without copying, by adjusting offsets).
type SliceProvider interface {
	SliceImpl(start, end int) (Array, error)
}

// Slice returns the logical sub-range [start, end) as a new array, without
// materializing any data (spec §4.6 slice).
func Slice(a Array, start, end int) (Array, error) {
	if start < 0 || end > a.Len() || start > end {
		return nil, errInvalidArgument("slice", "start/end out of range")
	}
	if p, ok := a.(SliceProvider); ok {
		return p.SliceImpl(start, end)
	}
	flat := a.Flatten()
	if flat == a {
		return nil, errNotImplemented("slice", a.EncodingID())
	}
	return Slice(flat, start, end)
}

// TakeProvider lets an encoding answer Take (random gather) directly, e.g.
// Dictionary can take against its codes without ever touching the values.
type TakeProvider interface {
	TakeImpl(indices []int) (Array, error)
}

// Take gathers the logical values at the given indices into a new array of
// the same length as indices (spec §4.6 take).
func Take(a Array, indices []int) (Array, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= a.Len() {
			return nil, errOutOfBounds("take", idx, a.Len())
		}
	}
	if p, ok := a.(TakeProvider); ok {
		return p.TakeImpl(indices)
	}
	flat := a.Flatten()
	if flat == a {
		return nil, errNotImplemented("take", a.EncodingID())
	}
	return Take(flat, indices)
}

// SearchBias selects which boundary search_sorted returns among equal keys.
type SearchBias uint8

const (
	// SearchLeft returns the first position where the key could be inserted
	// while keeping the array sorted (i.e. the first index not less than
	// the target).
	SearchLeft SearchBias = iota
	// SearchRight returns the last such position (the first index greater
	// than the target).
	SearchRight
)

// SearchSortedProvider lets a sorted-by-construction encoding (RunEnd,
// sorted Dict, FoR over a sorted column) binary search its own compact
// representation instead of flattening.
type SearchSortedProvider interface {
	SearchSortedImpl(target scalar.Scalar, bias SearchBias) (int, error)
}

// SearchSorted finds the insertion point of target in a (which must be
// sorted ascending per its IsSorted stat), honoring bias among duplicates
// (spec §4.6 search_sorted, supplemented per SPEC_FULL.md §4).
func SearchSorted(a Array, target scalar.Scalar, bias SearchBias) (int, error) {
	if p, ok := a.(SearchSortedProvider); ok {
		return p.SearchSortedImpl(target, bias)
	}
	flat := a.Flatten()
	if flat != a {
		return SearchSorted(flat, target, bias)
	}
	lo, hi := 0, a.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		v, err := ScalarAt(a, mid)
		if err != nil {
			return 0, err
		}
		var less bool
		if bias == SearchLeft {
			less = scalar.Less(v, target)
		} else {
			less = !scalar.Less(target, v)
		}
		if less {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// FillForwardProvider lets an encoding propagate last-valid-value directly
// (e.g. RunEnd can do it by rewriting run values, not scanning elements).
type FillForwardProvider interface {
	FillForwardImpl() (Array, error)
}

// FillForward replaces every null with the last preceding non-null value,
// leaving leading nulls untouched (spec supplemented feature, SPEC_FULL.md
// §4 "fill_forward as a first-class compute op"). A plain array with no
// FillForwardImpl is filled by one pass over its scalars rather than
// reporting NotImplemented.
func FillForward(a Array) (Array, error) {
	if p, ok := a.(FillForwardProvider); ok {
		return p.FillForwardImpl()
	}
	flat := a.Flatten()
	if flat != a {
		return FillForward(flat)
	}
	vals := make([]scalar.Scalar, a.Len())
	for i := range vals {
		s, err := ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		if !s.IsValid() && i > 0 && vals[i-1].IsValid() {
			s = vals[i-1]
		}
		vals[i] = s
	}
	return scalarsToArray(vals, a.DType()), nil
}

// PatchProvider lets an encoding apply a sparse patch without a full
// flatten/rebuild round trip (Sparse does this natively: it merges patch
// indices into its own exception list).
type PatchProvider interface {
	PatchImpl(indices []int, values Array) (Array, error)
}

// Patch overwrites the values at the given (ascending, deduplicated)
// indices with the corresponding values from the patch array, returning a
// new array of the same length and dtype as a (spec §4.6 patch).
func Patch(a Array, indices []int, values Array) (Array, error) {
	if len(indices) != values.Len() {
		return nil, errLengthMismatch("patch", "indices and values must have equal length")
	}
	for _, idx := range indices {
		if idx < 0 || idx >= a.Len() {
			return nil, errOutOfBounds("patch", idx, a.Len())
		}
	}
	if p, ok := a.(PatchProvider); ok {
		return p.PatchImpl(indices, values)
	}
	flat := a.Flatten()
	if flat == a {
		return nil, errNotImplemented("patch", a.EncodingID())
	}
	return Patch(flat, indices, values)
}

// SubtractScalarProvider lets an encoding fold a scalar subtraction into its
// own representation (FoR literally just rewrites its reference value).
type SubtractScalarProvider interface {
	SubtractScalarImpl(rhs scalar.Scalar) (Array, error)
}

// SubtractScalar computes a - rhs elementwise, preserving a's length and
// nullability (spec §4.6 subtract_scalar).
func SubtractScalar(a Array, rhs scalar.Scalar) (Array, error) {
	if p, ok := a.(SubtractScalarProvider); ok {
		return p.SubtractScalarImpl(rhs)
	}
	flat := a.Flatten()
	if flat == a {
		return nil, errNotImplemented("subtract_scalar", a.EncodingID())
	}
	return SubtractScalar(flat, rhs)
}
