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
	"math/bits"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
)

// Choice names the encoding the planner decided to apply at one cascade
// level, mirroring the set of things storage/storage-int.go's
// proposeCompression could hand back to rebuild() (here: many instead of
// one, since the planner considers every candidate up front rather than
// iterating storage objects one proposal at a time).
type Choice int

const (
	ChoicePlain Choice = iota
	ChoiceConstant
	ChoiceSparse
	ChoiceDict
	ChoiceRunEnd
	ChoiceForBitPacked
	ChoiceDelta
	ChoiceALP
	ChoiceRoaringBool
)

// sampleStats bundles the sample-derived signals every candidate check
// reads, computed once per planner invocation rather than per candidate.
type sampleStats struct {
	n          int
	nullCount  int
	distinct   int
	runCount   int
	isConstant bool
	minInt     int64
	maxInt     int64
	isIntLike  bool
	isSorted   bool
}

func analyzeSample(sample array.Array) sampleStats {
	st := sampleStats{n: sample.Len()}
	if st.n == 0 {
		return st
	}
	if v, ok := array.ComputeStat(sample, array.StatNullCount); ok {
		st.nullCount = int(v.Uint())
	}
	if v, ok := array.ComputeStat(sample, array.StatRunCount); ok {
		st.runCount = int(v.Uint())
	} else {
		st.runCount = st.n
	}
	if v, ok := array.ComputeStat(sample, array.StatIsConstant); ok {
		st.isConstant = v.Bool()
	}
	if v, ok := array.ComputeStat(sample, array.StatIsSorted); ok {
		st.isSorted = v.Bool()
	}

	kind := sample.DType().Kind()
	switch {
	case kind == dtype.KindPrimitive && !sample.DType().PType().IsFloat():
		st.isIntLike = true
		vals, valid, err := materializeInt64(sample)
		if err == nil {
			first := true
			distinctSet := map[int64]struct{}{}
			for i, v := range vals {
				if !valid[i] {
					continue
				}
				if first || v < st.minInt {
					st.minInt = v
				}
				if first || v > st.maxInt {
					st.maxInt = v
				}
				first = false
				distinctSet[v] = struct{}{}
			}
			st.distinct = len(distinctSet)
		}
	case kind == dtype.KindUtf8 || kind == dtype.KindBinary:
		distinctSet := map[string]struct{}{}
		for i := 0; i < sample.Len(); i++ {
			if !sample.IsValid(i) {
				continue
			}
			v, err := array.ScalarAt(sample, i)
			if err != nil {
				continue
			}
			if kind == dtype.KindUtf8 {
				distinctSet[v.Utf8()] = struct{}{}
			} else {
				distinctSet[string(v.Binary())] = struct{}{}
			}
		}
		st.distinct = len(distinctSet)
	}
	return st
}

// admitRunEnd mirrors the average-run-length signal storage/shard.go's
// rebuild() loop effectively measures by re-scanning after every proposed
// storage: average run length = n / distinct run count.
func admitRunEnd(st sampleStats, cfg Config) bool {
	if st.runCount == 0 || cfg.isDisabled(array.EncodingRunEnd) {
		return false
	}
	avg := float64(st.n) / float64(st.runCount)
	return avg >= cfg.REEAverageRunThreshold
}

// admitDict is admissible when the sample's distinct/total ratio clears
// the configured bound - a low-cardinality column is exactly what
// storage.go's dictionary-like string interning targets.
func admitDict(st sampleStats, distinctCount, n int, cfg Config) bool {
	if cfg.isDisabled(array.EncodingDict) || n == 0 {
		return false
	}
	return float64(distinctCount)/float64(n) <= cfg.DictMaxDistinctRatio
}

// admitForBitPacked mirrors storage/storage-int.go's proposeCompression
// path directly: scan min/max, then bits.Len64(max-min) is the packed bit
// width. Admissible whenever that width is narrower than the column's
// native ptype width.
func admitForBitPacked(st sampleStats, nativeBits int, cfg Config) (bitWidth int, ok bool) {
	if !st.isIntLike || cfg.isDisabled(array.EncodingBitPacked) {
		return 0, false
	}
	span := uint64(st.maxInt - st.minInt)
	w := bits.Len64(span)
	if w == 0 {
		w = 1
	}
	if w >= nativeBits {
		return 0, false
	}
	return w, true
}

// admitDelta is admissible for a null-free, sorted integer sample - nulls
// are excluded because DeltaArray's first logical position is assumed
// always valid (see array/delta.go), so a leading null would be
// misrepresented.
func admitDelta(st sampleStats, cfg Config) bool {
	return !cfg.isDisabled(array.EncodingDelta) && st.isIntLike && st.isSorted && st.nullCount == 0 && st.n > 1
}

func admitSparse(st sampleStats, cfg Config) bool {
	return !cfg.isDisabled(array.EncodingSparse) && st.distinct == 1 && st.n > 0 && st.nullCount < st.n
}

func admitConstant(st sampleStats, cfg Config) bool {
	return !cfg.isDisabled(array.EncodingConstant) && st.isConstant
}

func admitALP(sample array.Array, cfg Config) (exponent int, ok bool) {
	if cfg.isDisabled(array.EncodingALP) || sample.DType().Kind() != dtype.KindPrimitive || !sample.DType().PType().IsFloat() {
		return 0, false
	}
	vals, valid, err := materializeFloat64(sample)
	if err != nil {
		return 0, false
	}
	present := make([]float64, 0, len(vals))
	for i, v := range vals {
		if valid[i] {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return 0, false
	}
	e := array.ChooseALPExponent(present)
	return e, true
}

func admitRoaringBool(st sampleStats, trueCount int, cfg Config) bool {
	if cfg.isDisabled(array.EncodingRoaringBool) || st.n == 0 {
		return false
	}
	ratio := float64(trueCount) / float64(st.n)
	return ratio <= 0.1 || ratio >= 0.9
}
