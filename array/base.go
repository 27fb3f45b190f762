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
	"github.com/vortexdb/vortex/dtype"
	"github.com/vortexdb/vortex/scalar"
	"github.com/vortexdb/vortex/vxbuffer"
)

// statsMixin gives every concrete encoding a StatsCache without repeating
// the field and the one-line accessor; it mirrors the way the teacher
// embeds a shared ColumnDataset into each StorageXxx value.
type statsMixin struct {
	stats *StatsCache
}

func newStatsMixin() statsMixin {
	return statsMixin{stats: NewStatsCache()}
}

func (m statsMixin) Stats() *StatsCache { return m.stats }

// noChildren/noBuffers are embedded by leaf-ish encodings that have none of
// one or the other, so they don't each repeat a trivial method.
type noChildren struct{}

func (noChildren) NumChildren() int   { return 0 }
func (noChildren) Child(int) Array    { panic("array: Child index out of range (0 children)") }

type noBuffersT struct{}

func (noBuffersT) NumBuffers() int        { return 0 }
func (noBuffersT) Buffer(int) vxbuffer.Buffer {
	panic("array: Buffer index out of range (0 buffers)")
}

// BuildFromScalars materializes a plain array from already-computed
// scalars of a single dtype - the entry point the compress package uses
// to turn distinct-value lists and run values back into arrays once it
// has decided on a cascade, without duplicating scalarsToArray's per-kind
// dispatch.
func BuildFromScalars(vals []scalar.Scalar, typ dtype.DType) Array {
	return scalarsToArray(vals, typ)
}
