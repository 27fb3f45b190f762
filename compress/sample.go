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
package compress

import (
	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
)

// Sample draws up to cfg.SampleCount windows of cfg.SampleSize consecutive
// elements, evenly spaced across a (sliced view of) the column, and
// concatenates them into one array - the same "scan a slice of the column
// to decide the engine before committing to a full build" shape as
// storage/analyzer.go's column statistics pass, which storage/shard.go's
// rebuild() runs ahead of the real scan/build phases.
//
// For columns no larger than one window, the whole column is the sample -
// there is nothing to save by sub-sampling.
func Sample(a array.Array, cfg Config) (array.Array, error) {
	n := a.Len()
	if n <= cfg.SampleSize {
		return a, nil
	}
	windows := cfg.SampleCount
	if windows < 1 {
		windows = 1
	}
	total := windows * cfg.SampleSize
	if total >= n {
		return a, nil
	}
	stride := n / windows
	parts := make([]array.Array, 0, windows)
	for w := 0; w < windows; w++ {
		start := w * stride
		end := start + cfg.SampleSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		sl, err := array.Slice(a, start, end)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sl)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return array.NewChunked(a.DType(), parts)
}

// materialize collects every logical value of a (assumed small, e.g. a
// sample) as a plain Go slice of float64, used by candidate scoring that
// needs arithmetic over the values rather than scalar.Scalar boxing.
func materializeFloat64(a array.Array) ([]float64, []bool, error) {
	n := a.Len()
	vals := make([]float64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		valid[i] = a.IsValid(i)
		if !valid[i] {
			continue
		}
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return nil, nil, err
		}
		if s.DType().Kind() == dtype.KindPrimitive {
			if s.DType().PType().IsFloat() {
				vals[i] = s.Float()
			} else if s.DType().PType().IsSigned() {
				vals[i] = float64(s.Int())
			} else {
				vals[i] = float64(s.Uint())
			}
		}
	}
	return vals, valid, nil
}

func materializeInt64(a array.Array) ([]int64, []bool, error) {
	n := a.Len()
	vals := make([]int64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		valid[i] = a.IsValid(i)
		if !valid[i] {
			continue
		}
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return nil, nil, err
		}
		if s.DType().PType().IsSigned() {
			vals[i] = s.Int()
		} else {
			vals[i] = int64(s.Uint())
		}
	}
	return vals, valid, nil
}
