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

// Plan records the encoding Propose chose for one array at one cascade
// level, plus the parameter that choice needs. Apply computes a fresh Plan
// for every array it is given and nothing accepts an existing Plan, so a
// later chunk of a column is sampled and decided on its own.
type Plan struct {
	Choice      Choice
	BitWidth    int // ChoiceForBitPacked
	ALPExponent int // ChoiceALP
}

// Propose samples a, checks the candidate encodings' admissibility rules
// against the sample in a fixed order (Constant, Sparse, then by kind:
// RoaringBool for non-nullable Bool; ALP for floats; RunEnd, Dict, Delta,
// FoR+BitPacked for integers; RunEnd, Dict for Utf8/Binary) and returns
// the Plan of the first that passes, or ChoicePlain. Candidates are not
// built or sized against the sample, and EncodingRef.Cost is not read.
func Propose(a array.Array, cfg Config) (Plan, error) {
	sample, err := Sample(a, cfg)
	if err != nil {
		return Plan{}, err
	}
	st := analyzeSample(sample)

	if admitConstant(st, cfg) {
		return Plan{Choice: ChoiceConstant}, nil
	}
	if admitSparse(st, cfg) {
		return Plan{Choice: ChoiceSparse}, nil
	}

	switch sample.DType().Kind() {
	case dtype.KindBool:
		trueCount := 0
		if v, ok := array.ComputeStat(sample, array.StatTrueCount); ok {
			trueCount = int(v.Uint())
		}
		if !sample.DType().IsNullable() && admitRoaringBool(st, trueCount, cfg) {
			return Plan{Choice: ChoiceRoaringBool}, nil
		}
	case dtype.KindPrimitive:
		if sample.DType().PType().IsFloat() {
			if e, ok := admitALP(sample, cfg); ok {
				return Plan{Choice: ChoiceALP, ALPExponent: e}, nil
			}
			break
		}
		if admitRunEnd(st, cfg) {
			return Plan{Choice: ChoiceRunEnd}, nil
		}
		if admitDict(st, st.distinct, st.n, cfg) {
			return Plan{Choice: ChoiceDict}, nil
		}
		if admitDelta(st, cfg) {
			return Plan{Choice: ChoiceDelta}, nil
		}
		if w, ok := admitForBitPacked(st, sample.DType().PType().BitWidth(), cfg); ok {
			return Plan{Choice: ChoiceForBitPacked, BitWidth: w}, nil
		}
	case dtype.KindUtf8, dtype.KindBinary:
		if admitRunEnd(st, cfg) {
			return Plan{Choice: ChoiceRunEnd}, nil
		}
		if admitDict(st, st.distinct, st.n, cfg) {
			return Plan{Choice: ChoiceDict}, nil
		}
	}

	return Plan{Choice: ChoicePlain}, nil
}
