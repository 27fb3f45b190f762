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
	"strings"
	"testing"

	"github.com/vortexdb/vortex/dtype"
)

func TestIsNotImplementedDistinguishesKind(t *testing.T) {
	niErr := errNotImplemented("sum", "vortex.sparse")
	if !IsNotImplemented(niErr) {
		t.Error("IsNotImplemented should report true for a NotImplementedKind error")
	}

	oobErr := errOutOfBounds("at", 5, 3)
	if IsNotImplemented(oobErr) {
		t.Error("IsNotImplemented should report false for an OutOfBounds error")
	}

	if IsNotImplemented(nil) {
		t.Error("IsNotImplemented(nil) should be false")
	}
}

func TestVortexErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want []string // substrings that must appear
	}{
		{errOutOfBounds("at", 5, 3), []string{"at", "5", "3"}},
		{errMismatchedTypes("cast", dtype.Primitive(dtype.I64, dtype.NonNullable), dtype.Utf8(dtype.NonNullable)), []string{"cast", "i64", "utf8"}},
		{errNotImplemented("sum", "vortex.sparse"), []string{"sum", "vortex.sparse"}},
		{errInvalidArgument("build", "bad shape"), []string{"build", "bad shape"}},
	}
	for _, c := range cases {
		msg := c.err.Error()
		for _, want := range c.want {
			if !strings.Contains(msg, want) {
				t.Errorf("error message %q missing expected substring %q", msg, want)
			}
		}
	}
}
