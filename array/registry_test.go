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

import "testing"

func TestRegisteredEncodingsIncludesBuiltins(t *testing.T) {
	want := []string{
		EncodingNull, EncodingBool, EncodingPrimitive, EncodingVarBin,
		EncodingVarBinView, EncodingStruct, EncodingConstant, EncodingSparse,
		EncodingChunked, EncodingExtension, EncodingBitPacked, EncodingDelta,
		EncodingFoR, EncodingALP, EncodingDict, EncodingRunEnd, EncodingZigZag,
		EncodingRoaringBool, EncodingRoaringInt,
	}
	for _, id := range want {
		if _, ok := LookupEncoding(id); !ok {
			t.Errorf("LookupEncoding(%q) not found; builtin encodings must self-register via init()", id)
		}
	}
}

func TestLookupEncodingUnknown(t *testing.T) {
	if _, ok := LookupEncoding("vortex.not-a-real-encoding"); ok {
		t.Error("LookupEncoding should report false for an unregistered id")
	}
}

func TestRegisteredEncodingsOrderIsStable(t *testing.T) {
	a := RegisteredEncodings()
	b := RegisteredEncodings()
	if len(a) != len(b) {
		t.Fatalf("RegisteredEncodings length changed between calls: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("RegisteredEncodings order changed at index %d: %q vs %q", i, a[i], b[i])
		}
	}
}
