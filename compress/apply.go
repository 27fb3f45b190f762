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
	"math"
	"math/bits"

	"github.com/google/btree"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

// Apply samples a, proposes a Plan, and builds the real cascading array for
// the full (non-sampled) column - the "build phase" half of
// storage/shard.go's rebuild(), which runs prepare/scan/proposeCompression
// against a sample-sized pass before committing to init/build against
// every row. Encodings that can themselves contain a compressible child
// (Delta's deltas, Dict's codes, RunEnd's values) recurse up to
// cfg.MaxDepth, the cascade depth bound SPEC_FULL.md §4.5 names.
func Apply(a array.Array, cfg Config) (array.Array, error) {
	return applyDepth(a, cfg, 0)
}

func applyDepth(a array.Array, cfg Config, depth int) (array.Array, error) {
	if depth >= cfg.MaxDepth {
		return a, nil
	}
	plan, err := Propose(a, cfg)
	if err != nil {
		return nil, err
	}
	switch plan.Choice {
	case ChoiceConstant:
		return applyConstant(a)
	case ChoiceSparse:
		return applySparse(a)
	case ChoiceRoaringBool:
		return applyRoaringBool(a)
	case ChoiceALP:
		return applyALP(a, plan.ALPExponent)
	case ChoiceDelta:
		return applyDelta(a, cfg, depth)
	case ChoiceRunEnd:
		return applyRunEnd(a, cfg, depth)
	case ChoiceDict:
		return applyDict(a, cfg, depth)
	case ChoiceForBitPacked:
		return applyForBitPacked(a)
	default:
		return a, nil
	}
}

func materializeScalars(a array.Array) ([]scalar.Scalar, error) {
	n := a.Len()
	out := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func applyConstant(a array.Array) (array.Array, error) {
	if a.Len() == 0 {
		return array.NewConstant(scalar.NullOf(a.DType()), 0), nil
	}
	v, err := array.ScalarAt(a, 0)
	if err != nil {
		return nil, err
	}
	return array.NewConstant(v, a.Len()), nil
}

// applySparse picks the single most common value in the column as the
// fill, storing every other position as a patch - mirrors
// storage/storage-sparse.go's StorageSparse, which keeps an explicit
// recids+values exception list alongside an implicit default.
func applySparse(a array.Array) (array.Array, error) {
	vals, err := materializeScalars(a)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	keyOf := func(s scalar.Scalar) string { return s.String() }
	best, bestCount := "", -1
	for _, v := range vals {
		k := keyOf(v)
		counts[k]++
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	var fill scalar.Scalar
	fillSet := false
	indices := make([]uint64, 0, len(vals)-bestCount)
	patchVals := make([]scalar.Scalar, 0, len(vals)-bestCount)
	for i, v := range vals {
		if !fillSet && keyOf(v) == best {
			fill = v
			fillSet = true
			continue
		}
		if fillSet && keyOf(v) == best {
			continue
		}
		indices = append(indices, uint64(i))
		patchVals = append(patchVals, v)
	}
	idxArr := array.NewPrimitive(dtype.Primitive(dtype.U64, dtype.NonNullable), vxbuffer.FromU64(indices), vxbuffer.MakeAllValid(len(indices)))
	valsArr := array.BuildFromScalars(patchVals, a.DType())
	return array.NewSparse(fill, idxArr, valsArr, a.Len())
}

func applyRoaringBool(a array.Array) (array.Array, error) {
	n := a.Len()
	vals := make([]bool, n)
	for i := 0; i < n; i++ {
		if a.IsValid(i) {
			vals[i] = a.ScalarTrue(i)
		}
	}
	return array.NewRoaringBoolFromSlice(vals), nil
}

// applyALP re-derives the exponent's round-trip set against the full
// column (the sample only picked the exponent) and patches the misses,
// the same encode-verify-patch shape ALPArray.ScalarAtImpl assumes on read.
func applyALP(a array.Array, exponent int) (array.Array, error) {
	n := a.Len()
	scale := math.Pow10(exponent)
	ints := make([]int64, n)
	valid := make([]bool, n)
	var patchIdx []uint64
	var patchVals []scalar.Scalar
	for i := 0; i < n; i++ {
		valid[i] = a.IsValid(i)
		if !valid[i] {
			continue
		}
		s, err := array.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		f := s.Float()
		scaled := math.Round(f * scale)
		ints[i] = int64(scaled)
		if scaled/scale != f || scaled > math.MaxInt64 || scaled < math.MinInt64 {
			patchIdx = append(patchIdx, uint64(i))
			patchVals = append(patchVals, s)
		}
	}
	intTyp := dtype.Primitive(dtype.I64, a.DType().Nullability())
	buf := vxbuffer.NewOwned(n * 8)
	for i, v := range ints {
		buf.AsI64()[i] = v
	}
	intsArr := array.NewPrimitive(intTyp, buf, a.LogicalValidity())
	idxArr := array.NewPrimitive(dtype.Primitive(dtype.U64, dtype.NonNullable), vxbuffer.FromU64(patchIdx), vxbuffer.MakeAllValid(len(patchIdx)))
	valsArr := array.BuildFromScalars(patchVals, a.DType())
	return array.NewALP(a.DType(), exponent, intsArr, idxArr, valsArr), nil
}

// applyDelta stores the first value plus successive differences, then
// recurses the compressor onto the deltas child - small deltas from a
// slowly-varying sorted column are themselves prime FoR/BitPacked
// candidates.
func applyDelta(a array.Array, cfg Config, depth int) (array.Array, error) {
	n := a.Len()
	intVals, _, err := materializeInt64(a)
	if err != nil {
		return nil, err
	}
	deltas := make([]int64, n-1)
	for i := 1; i < n; i++ {
		deltas[i-1] = intVals[i] - intVals[i-1]
	}
	buf := vxbuffer.NewOwned(len(deltas) * 8)
	for i, v := range deltas {
		buf.AsI64()[i] = v
	}
	deltasArr := array.NewPrimitive(dtype.Primitive(dtype.I64, dtype.NonNullable), buf, vxbuffer.MakeAllValid(len(deltas)))
	deltasCompressed, err := applyDepth(deltasArr, cfg, depth+1)
	if err != nil {
		return nil, err
	}
	return array.NewDelta(a.DType(), intVals[0], deltasCompressed), nil
}

// applyRunEnd collapses consecutive equal (validity-aware) values into
// runs, then recurses the compressor onto the much shorter values child -
// a run-compressed column's distinct value sequence is itself very often
// admissible for Dict or FoR.
func applyRunEnd(a array.Array, cfg Config, depth int) (array.Array, error) {
	n := a.Len()
	if n == 0 {
		ends := array.NewPrimitive(dtype.Primitive(dtype.U64, dtype.NonNullable), vxbuffer.FromU64(nil), vxbuffer.MakeAllValid(0))
		values := array.BuildFromScalars(nil, a.DType())
		return array.NewRunEnd(0, ends, values)
	}
	vals, err := materializeScalars(a)
	if err != nil {
		return nil, err
	}
	var ends []uint64
	var runVals []scalar.Scalar
	runStart := 0
	for i := 1; i <= n; i++ {
		if i < n && scalar.Equal(vals[i], vals[runStart]) {
			continue
		}
		ends = append(ends, uint64(i))
		runVals = append(runVals, vals[runStart])
		runStart = i
	}
	endsArr := array.NewPrimitive(dtype.Primitive(dtype.U64, dtype.NonNullable), vxbuffer.FromU64(ends), vxbuffer.MakeAllValid(len(ends)))
	valuesArr := array.BuildFromScalars(runVals, a.DType())
	valuesArr, err = applyDepth(valuesArr, cfg, depth+1)
	if err != nil {
		return nil, err
	}
	return array.NewRunEnd(n, endsArr, valuesArr)
}

// dictEntry is one distinct value tracked by the btree that drives applyDict's
// enumeration, ordered the same way storage/index.go orders indexPair entries
// in its deltaBtree - by a Less comparator rather than hashing.
type dictEntry struct {
	val scalar.Scalar
}

func dictEntryLess(i, j dictEntry) bool {
	if scalar.Equal(i.val, j.val) {
		return false
	}
	return scalar.Less(i.val, j.val)
}

// applyDict enumerates distinct values in sorted order via a btree (so two
// columns with the same value set get the same code assignment regardless of
// first-occurrence order), builds an unsigned codes column sized to the
// smallest ptype that holds the code range, and recurses the compressor onto
// the codes - almost always admissible for FoR/BitPacked afterwards since
// codes are dense small integers.
func applyDict(a array.Array, cfg Config, depth int) (array.Array, error) {
	n := a.Len()
	vals, err := materializeScalars(a)
	if err != nil {
		return nil, err
	}
	valid := make([]bool, n)
	tree := btree.NewG[dictEntry](8, dictEntryLess)
	for i, v := range vals {
		valid[i] = a.IsValid(i)
		if !valid[i] {
			continue
		}
		tree.ReplaceOrInsert(dictEntry{val: v})
	}
	order := make(map[string]int, tree.Len())
	var distinct []scalar.Scalar
	tree.Ascend(func(e dictEntry) bool {
		order[e.val.String()] = len(distinct)
		distinct = append(distinct, e.val)
		return true
	})
	codes := make([]uint64, n)
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		codes[i] = uint64(order[v.String()])
	}
	width := 1
	if len(distinct) > 1 {
		width = bits.Len64(uint64(len(distinct) - 1))
	}
	codesTyp := dtype.Primitive(codePType(width), a.DType().Nullability())
	codesArr := buildUnsignedPrimitive(codesTyp, codes, valid)
	codesArr, err = applyDepth(codesArr, cfg, depth+1)
	if err != nil {
		return nil, err
	}
	valuesArr := array.BuildFromScalars(distinct, a.DType().AsNonNullable())
	return array.NewDict(codesArr, valuesArr), nil
}

func codePType(bitWidth int) dtype.PType {
	switch {
	case bitWidth <= 8:
		return dtype.U8
	case bitWidth <= 16:
		return dtype.U16
	case bitWidth <= 32:
		return dtype.U32
	default:
		return dtype.U64
	}
}

func buildUnsignedPrimitive(typ dtype.DType, vals []uint64, valid []bool) *array.PrimitiveArray {
	n := len(vals)
	width := typ.PType().ByteWidth()
	buf := vxbuffer.NewOwned(n * width)
	for i, v := range vals {
		switch width {
		case 1:
			buf.AsU8()[i] = uint8(v)
		case 2:
			buf.AsU16()[i] = uint16(v)
		case 4:
			buf.AsU32()[i] = uint32(v)
		default:
			buf.AsU64()[i] = v
		}
	}
	validity := vxbuffer.MakeAllValid(n)
	if typ.IsNullable() {
		validity = vxbuffer.MakePerElement(&boolSliceView{vals: valid})
	}
	return array.NewPrimitive(typ, buf, validity)
}

// applyForBitPacked computes the exact min/max of the full column (the
// sample only estimated admissibility), folds the minimum into a
// frame-of-reference and bit-packs the residual - the identical
// scan-min-max-then-pack sequence storage/storage-int.go's
// prepare/scan/init/build phases run for every integer column,
// unconditionally rather than as one cascade option among several.
func applyForBitPacked(a array.Array) (array.Array, error) {
	n := a.Len()
	intVals, valid, err := materializeInt64(a)
	if err != nil {
		return nil, err
	}
	var min, max int64
	first := true
	for i, v := range intVals {
		if !valid[i] {
			continue
		}
		if first || v < min {
			min = v
		}
		if first || v > max {
			max = v
		}
		first = false
	}
	span := uint64(0)
	if !first {
		span = uint64(max - min)
	}
	width := bits.Len64(span)
	if width == 0 {
		width = 1
	}
	offsets := make([]uint64, n)
	for i, v := range intVals {
		if valid[i] {
			offsets[i] = uint64(v - min)
		}
	}
	unsignedTyp := dtype.Primitive(a.DType().PType().Unsigned(), a.DType().Nullability())
	packed := array.PackBitPacked(unsignedTyp, offsets, width, a.LogicalValidity())
	return array.NewFoR(a.DType(), min, packed), nil
}

// boolSliceView adapts a plain []bool to vxbuffer.BoolArrayLike, mirroring
// array's own internal helper of the same shape for validity masks built
// from freshly computed slices rather than an existing array.
type boolSliceView struct{ vals []bool }

func (v *boolSliceView) Len() int             { return len(v.vals) }
func (v *boolSliceView) IsValid(i int) bool   { return v.vals[i] }
func (v *boolSliceView) ScalarTrue(i int) bool { return v.vals[i] }
