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
package ipc

import (
	"fmt"

	"github.com/vortexdb/vortex/array"
)

// errInvalidSerde reports a malformed stream as array.InvalidSerde (spec
// §7), the same VortexError taxonomy every other package uses, rather than
// a package-local error type.
func errInvalidSerde(format string, args ...interface{}) error {
	return &array.VortexError{Kind: array.InvalidSerde, Op: "ipc", Message: fmt.Sprintf(format, args...)}
}
