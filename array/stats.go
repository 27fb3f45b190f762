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

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
)

// Stat enumerates every statistic recognized by the kernel (spec §4.4).
type Stat uint8

const (
	StatMin Stat = iota
	StatMax
	StatIsSorted
	StatIsStrictSorted
	StatIsConstant
	StatRunCount
	StatTrueCount
	StatNullCount
	StatBitWidthFreq
	StatTrailingZeroFreq
)

func (s Stat) String() string {
	switch s {
	case StatMin:
		return "Min"
	case StatMax:
		return "Max"
	case StatIsSorted:
		return "IsSorted"
	case StatIsStrictSorted:
		return "IsStrictSorted"
	case StatIsConstant:
		return "IsConstant"
	case StatRunCount:
		return "RunCount"
	case StatTrueCount:
		return "TrueCount"
	case StatNullCount:
		return "NullCount"
	case StatBitWidthFreq:
		return "BitWidthFreq"
	case StatTrailingZeroFreq:
		return "TrailingZeroFreq"
	default:
		return "Unknown"
	}
}

// StatsCache is the per-array lazily-populated stat map (spec §4.4, §6
// Chunk.ArrayNode.stats). It is safe for concurrent use: readers take the
// read lock, and a miss upgrades to the write lock on insert — the same
// "writers upgrade on insert" contract as the teacher's CacheManager
// (storage/cache.go), just scoped to one array instead of a process-wide
// memory budget.
type StatsCache struct {
	mu     sync.RWMutex
	values map[Stat]scalar.Scalar
}

func NewStatsCache() *StatsCache {
	return &StatsCache{values: make(map[Stat]scalar.Scalar)}
}

// Get returns a cached stat if present, without computing it.
func (c *StatsCache) Get(s Stat) (scalar.Scalar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[s]
	return v, ok
}

// Set installs a stat value. Stats are hints (spec §3 invariant 4): callers
// must only Set a value they have established is sound for the array's
// current contents.
func (c *StatsCache) Set(s Stat, v scalar.Scalar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[s] = v
}

// SetAll merges multiple stats at once, e.g. right after eagerly computing
// them at construction time (Constant does this).
func (c *StatsCache) SetAll(m map[Stat]scalar.Scalar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range m {
		c.values[k] = v
	}
}

// GetOrCompute returns the cached stat, or computes it via fn, caches, and
// returns it. fn returning (_, false) means the stat is not computable for
// this array (e.g. BitWidthFreq on a non-integer) and is not cached.
func (c *StatsCache) GetOrCompute(s Stat, fn func() (scalar.Scalar, bool)) (scalar.Scalar, bool) {
	if v, ok := c.Get(s); ok {
		return v, true
	}
	v, ok := fn()
	if !ok {
		return scalar.Scalar{}, false
	}
	c.Set(s, v)
	return v, true
}

// ComputeStat is the generic entry point compute code and the compressor
// use to request a stat from an array: it checks the cache, then asks the
// array's own (possibly specialized) implementation, falling back to
// flattening when the array does not implement StatProvider.
func ComputeStat(a Array, s Stat) (scalar.Scalar, bool) {
	if v, ok := a.Stats().Get(s); ok {
		return v, true
	}
	if sp, ok := a.(StatProvider); ok {
		if v, ok := sp.ComputeStatImpl(s); ok {
			a.Stats().Set(s, v)
			return v, true
		}
	}
	flat := a.Flatten()
	if flat == a {
		return defaultComputeStat(a, s)
	}
	return ComputeStat(flat, s)
}

// StatProvider lets an encoding shortcut specific stats cheaply (spec §4.4:
// "Constant/RunEnd/Dict/BitPacked shortcut many stats").
type StatProvider interface {
	ComputeStatImpl(s Stat) (scalar.Scalar, bool)
}

// defaultComputeStat is the fallback used once an array is already plain
// (Primitive/Bool/VarBin/Struct/Null) and didn't shortcut the stat itself:
// a linear scan via the public ScalarAt surface.
func defaultComputeStat(a Array, s Stat) (scalar.Scalar, bool) {
	n := a.Len()
	switch s {
	case StatNullCount:
		cnt := 0
		for i := 0; i < n; i++ {
			if !a.IsValid(i) {
				cnt++
			}
		}
		return scalar.NewUint(dtype.U64, uint64(cnt), dtype.NonNullable), true
	case StatMin, StatMax:
		if !isOrderable(a.DType()) {
			return scalar.Scalar{}, false
		}
		var best scalar.Scalar
		found := false
		for i := 0; i < n; i++ {
			if !a.IsValid(i) {
				continue
			}
			v, _ := ScalarAt(a, i)
			if !found {
				best, found = v, true
				continue
			}
			if (s == StatMin) == scalar.Less(v, best) {
				best = v
			}
		}
		if !found {
			return scalar.Scalar{}, false
		}
		return best, true
	case StatIsSorted, StatIsStrictSorted:
		if !isOrderable(a.DType()) {
			return scalar.Scalar{}, false
		}
		sorted, strict := true, true
		var prev scalar.Scalar
		has := false
		for i := 0; i < n; i++ {
			if !a.IsValid(i) {
				continue
			}
			v, _ := ScalarAt(a, i)
			if has {
				if scalar.Less(v, prev) {
					sorted, strict = false, false
					break
				}
				if scalar.Equal(v, prev) {
					strict = false
				}
			}
			prev, has = v, true
		}
		if s == StatIsSorted {
			return scalar.NewBool(sorted, dtype.NonNullable), true
		}
		return scalar.NewBool(sorted && strict, dtype.NonNullable), true
	case StatIsConstant:
		if n == 0 {
			return scalar.NewBool(true, dtype.NonNullable), true
		}
		first, _ := ScalarAt(a, 0)
		firstValid := a.IsValid(0)
		for i := 1; i < n; i++ {
			if a.IsValid(i) != firstValid {
				return scalar.NewBool(false, dtype.NonNullable), true
			}
			if firstValid {
				v, _ := ScalarAt(a, i)
				if !scalar.Equal(v, first) {
					return scalar.NewBool(false, dtype.NonNullable), true
				}
			}
		}
		return scalar.NewBool(true, dtype.NonNullable), true
	case StatTrueCount:
		if a.DType().Kind() != dtype.KindBool {
			return scalar.Scalar{}, false
		}
		cnt := 0
		for i := 0; i < n; i++ {
			if a.IsValid(i) && a.ScalarTrue(i) {
				cnt++
			}
		}
		return scalar.NewUint(dtype.U64, uint64(cnt), dtype.NonNullable), true
	case StatRunCount:
		if n == 0 {
			return scalar.NewUint(dtype.U64, 0, dtype.NonNullable), true
		}
		runs := uint64(1)
		prevValid := a.IsValid(0)
		var prev scalar.Scalar
		if prevValid {
			prev, _ = ScalarAt(a, 0)
		}
		for i := 1; i < n; i++ {
			v := a.IsValid(i)
			if v != prevValid {
				runs++
			} else if v {
				cur, _ := ScalarAt(a, i)
				if !scalar.Equal(cur, prev) {
					runs++
				}
				prev = cur
			}
			prevValid = v
		}
		return scalar.NewUint(dtype.U64, runs, dtype.NonNullable), true
	case StatBitWidthFreq, StatTrailingZeroFreq:
		if a.DType().Kind() != dtype.KindPrimitive || !a.DType().PType().IsInteger() {
			return scalar.Scalar{}, false
		}
		w := a.DType().PType().BitWidth()
		freq := make([]uint64, w+1)
		for i := 0; i < n; i++ {
			if !a.IsValid(i) {
				continue
			}
			v, _ := ScalarAt(a, i)
			var u uint64
			if a.DType().PType().IsSigned() {
				u = uint64(v.Int())
			} else {
				u = v.Uint()
			}
			if s == StatBitWidthFreq {
				freq[bitLen64(u)]++
			} else {
				freq[trailingZeros64(u, w)]++
			}
		}
		items := make([]scalar.Scalar, len(freq))
		for i, f := range freq {
			items[i] = scalar.NewUint(dtype.U64, f, dtype.NonNullable)
		}
		return scalar.NewList(dtype.Primitive(dtype.U64, dtype.NonNullable), items, dtype.NonNullable), true
	default:
		return scalar.Scalar{}, false
	}
}

func isOrderable(d dtype.DType) bool {
	switch d.Kind() {
	case dtype.KindPrimitive, dtype.KindDecimal, dtype.KindUtf8, dtype.KindBool:
		return true
	default:
		return false
	}
}

func bitLen64(u uint64) int {
	n := 0
	for u != 0 {
		n++
		u >>= 1
	}
	return n
}

func trailingZeros64(u uint64, width int) int {
	if u == 0 {
		return width
	}
	n := 0
	for u&1 == 0 {
		n++
		u >>= 1
	}
	return n
}
