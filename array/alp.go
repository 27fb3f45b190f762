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
	"math"
	"sort"

	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

func init() {
	RegisterEncoding(EncodingRef{ID: EncodingALP, Decode: decodeALP, Cost: 3})
}

// alpExponentLimit bounds the decimal exponent search the compressor does
// when picking e: 10^18 still fits comfortably in an int64 encoded value.
const alpExponentLimit = 18

// ALPArray is a simplified Adaptive Lossless floating-Point encoding (spec
// §4.3 ALP): every value is approximated as round(v * 10^exponent) stored
// as an integer child (itself eligible for FoR/BitPacked), with values that
// don't round-trip exactly recorded verbatim as patches — the same
// "encode, verify, patch the misses" shape as vortex's real ALP, collapsed
// here to a single shared exponent rather than ALP's per-vector (e,f) pair.
type ALPArray struct {
	statsMixin
	noBuffersT
	typ          dtype.DType // F32 or F64
	exponent     int
	ints         Array // signed primitive, Len() == this array's Len()
	patchIndices *PrimitiveArray
	patchValues  Array // float, same length as patchIndices
}

func NewALP(typ dtype.DType, exponent int, ints Array, patchIndices *PrimitiveArray, patchValues Array) *ALPArray {
	return &ALPArray{statsMixin: newStatsMixin(), typ: typ, exponent: exponent, ints: ints, patchIndices: patchIndices, patchValues: patchValues}
}

func decodeALP(length int, metadata []byte, children []Array, _ []vxbuffer.Buffer) (Array, error) {
	if len(children) != 3 {
		return nil, errInvalidArgument("decode", "alp array requires exactly three children: ints, patch indices, patch values")
	}
	if len(metadata) < 9 {
		return nil, errInvalidArgument("decode", "alp array metadata must encode ptype + exponent")
	}
	p := dtype.PType(metadata[0])
	exponent := int(int64(leU64(metadata[1:9])))
	idx, ok := children[1].(*PrimitiveArray)
	if !ok {
		return nil, errInvalidArgument("decode", "alp array's second child must be a primitive index array")
	}
	return NewALP(dtype.Primitive(p, children[0].DType().Nullability()), exponent, children[0], idx, children[2]), nil
}

func alpEncodeOne(v float64, exponent int) (int64, bool) {
	scaled := v * math.Pow10(exponent)
	if scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return 0, false
	}
	r := math.Round(scaled)
	back := r / math.Pow10(exponent)
	return int64(r), back == v
}

// ChooseALPExponent returns the exponent in [0,alpExponentLimit] under which
// the most values of vals round-trip exactly, taking the smallest such
// exponent on ties. No minimum share of exact values is required; the
// compressor calls it on the sample to fix ALP's exponent.
func ChooseALPExponent(vals []float64) int {
	best, bestHits := 0, -1
	for e := 0; e <= alpExponentLimit; e++ {
		hits := 0
		for _, v := range vals {
			if _, ok := alpEncodeOne(v, e); ok {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = e, hits
		}
	}
	return best
}

func (a *ALPArray) EncodingID() string { return EncodingALP }
func (a *ALPArray) DType() dtype.DType { return a.typ }
func (a *ALPArray) Len() int           { return a.ints.Len() }
func (a *ALPArray) IsEmpty() bool      { return a.ints.IsEmpty() }
func (a *ALPArray) NBytes() int64 {
	return a.ints.NBytes() + a.patchIndices.NBytes() + a.patchValues.NBytes() + 16
}
func (a *ALPArray) Metadata() EncodingMetadata {
	return alpMetadata{ptype: a.typ.PType(), exponent: a.exponent}
}

func (a *ALPArray) NumChildren() int { return 3 }
func (a *ALPArray) Child(i int) Array {
	switch i {
	case 0:
		return a.ints
	case 1:
		return a.patchIndices
	case 2:
		return a.patchValues
	default:
		panic("array: ALPArray has exactly three children")
	}
}

func (a *ALPArray) Accept(v Visitor) {
	v.VisitChild("ints", a.ints)
	v.VisitChild("patch_indices", a.patchIndices)
	v.VisitChild("patch_values", a.patchValues)
}

func (a *ALPArray) findPatch(i int) (int, bool) {
	n := a.patchIndices.Len()
	pos := sort.Search(n, func(k int) bool { return a.patchIndices.asUint(k) >= uint64(i) })
	if pos < n && a.patchIndices.asUint(pos) == uint64(i) {
		return pos, true
	}
	return 0, false
}

func (a *ALPArray) IsValid(i int) bool                 { return a.ints.IsValid(i) }
func (a *ALPArray) LogicalValidity() vxbuffer.Validity { return a.ints.LogicalValidity() }
func (a *ALPArray) ScalarTrue(i int) bool {
	v, err := ScalarAt(a, i)
	if err != nil {
		panic(err)
	}
	return v.Float() != 0
}

func (a *ALPArray) ScalarAtImpl(i int) (scalar.Scalar, error) {
	if pos, ok := a.findPatch(i); ok {
		return ScalarAt(a.patchValues, pos)
	}
	encoded, err := ScalarAt(a.ints, i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	f := float64(encoded.Int()) / math.Pow10(a.exponent)
	return scalar.NewFloat(a.typ.PType(), f, a.typ.Nullability()), nil
}

func (a *ALPArray) Flatten() Array {
	n := a.Len()
	width := a.typ.PType().ByteWidth()
	buf := vxbuffer.NewOwned(n * width)
	for i := 0; i < n; i++ {
		v, err := ScalarAt(a, i)
		if err != nil {
			panic(err)
		}
		if a.typ.PType() == dtype.F32 {
			buf.AsF32()[i] = float32(v.Float())
		} else {
			buf.AsF64()[i] = v.Float()
		}
	}
	return NewPrimitive(a.typ, buf, a.ints.LogicalValidity())
}

type alpMetadata struct {
	ptype    dtype.PType
	exponent int
}

func (alpMetadata) isEncodingMetadata() {}
