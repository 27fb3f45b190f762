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
// Package compress implements the Vortex compressor: the sample-propose-
// apply loop that picks a cascading encoding for a column (spec §4.5).
//
// The shape follows storage/shard.go's rebuild(): scan a column, ask the
// current storage to proposeCompression(), and if it returns a replacement
// storage, redo the scan phase against the replacement until nil is
// returned ("we found the optimal storage format"). This package replaces
// "propose one storage at a time until settled" with "check fixed-order
// admissibility rules against a sample, then apply the first that passes,"
// but the scan/propose/apply phasing is the same.
package compress

// Config holds the compressor's tunables, following the small
// struct-of-settings-with-defaults shape of storage/settings.go's
// SettingsT (there wired into the SQL-facing env; here a plain value
// passed to Plan/Apply since this kernel has no scripting environment).
type Config struct {
	// SampleSize is how many consecutive elements make up one sample window.
	SampleSize int
	// SampleCount is how many windows are drawn when a column exceeds
	// SampleSize*SampleCount elements.
	SampleCount int
	// MaxDepth bounds how many cascading encoding layers the planner will
	// stack on top of each other (e.g. Dict over BitPacked over FoR).
	MaxDepth int
	// REEAverageRunThreshold is the minimum average run length (len /
	// distinct run count) a column's sample must exhibit before RunEnd is
	// considered admissible at all - mirrors the run-length signal
	// storage/shard.go's rebuild() effectively re-derives on every pass.
	REEAverageRunThreshold float64
	// DictMaxDistinctRatio bounds the distinct/total ratio (on the sample)
	// under which Dict is considered admissible.
	DictMaxDistinctRatio float64
	// Disabled lists encoding IDs (array.EncodingXxx) the planner must never
	// choose, e.g. to keep a column Arrow-compatible (spec §9).
	Disabled map[string]bool
}

// DefaultConfig mirrors storage/settings.go's single package-level Settings
// value: a concrete, immediately usable default rather than requiring every
// caller to fill in every field.
func DefaultConfig() Config {
	return Config{
		SampleSize:             128,
		SampleCount:            8,
		MaxDepth:               3,
		REEAverageRunThreshold: 2.0,
		DictMaxDistinctRatio:   0.5,
		Disabled:               map[string]bool{},
	}
}

func (c Config) isDisabled(encodingID string) bool {
	return c.Disabled != nil && c.Disabled[encodingID]
}
