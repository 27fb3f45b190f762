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
	"fmt"

	"github.com/vortexdb/vortex/dtype"
)

// ErrorKind enumerates the exhaustive error taxonomy of spec §7.
type ErrorKind uint8

const (
	OutOfBounds ErrorKind = iota
	LengthMismatch
	MismatchedTypes
	InvalidDType
	InvalidEncoding
	InvalidArgument
	InvalidSerde
	ComputeError
	NotImplementedKind
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case OutOfBounds:
		return "OutOfBounds"
	case LengthMismatch:
		return "LengthMismatch"
	case MismatchedTypes:
		return "MismatchedTypes"
	case InvalidDType:
		return "InvalidDType"
	case InvalidEncoding:
		return "InvalidEncoding"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidSerde:
		return "InvalidSerde"
	case ComputeError:
		return "ComputeError"
	case NotImplementedKind:
		return "NotImplemented"
	case IOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// VortexError is the single error type returned across every public compute
// and construction entry point. It always carries enough context to be
// actionable (spec §7: "errors carry the encoding id and the operation name
// where relevant").
type VortexError struct {
	Kind     ErrorKind
	Op       string
	Encoding string

	// OutOfBounds
	Index, Bound int

	// MismatchedTypes
	From, To dtype.DType

	Message string
}

func (e *VortexError) Error() string {
	switch e.Kind {
	case OutOfBounds:
		return fmt.Sprintf("vortex: %s: index %d out of bounds (len %d)", e.Op, e.Index, e.Bound)
	case MismatchedTypes:
		return fmt.Sprintf("vortex: %s: mismatched types: %s vs %s", e.Op, e.From, e.To)
	case NotImplementedKind:
		return fmt.Sprintf("vortex: %s: not implemented for encoding %q", e.Op, e.Encoding)
	default:
		if e.Message != "" {
			return fmt.Sprintf("vortex: %s: %s: %s", e.Op, e.Kind, e.Message)
		}
		return fmt.Sprintf("vortex: %s: %s", e.Op, e.Kind)
	}
}

func errOutOfBounds(op string, index, bound int) error {
	return &VortexError{Kind: OutOfBounds, Op: op, Index: index, Bound: bound}
}

func errNotImplemented(op, encodingID string) error {
	return &VortexError{Kind: NotImplementedKind, Op: op, Encoding: encodingID}
}

func errMismatchedTypes(op string, from, to dtype.DType) error {
	return &VortexError{Kind: MismatchedTypes, Op: op, From: from, To: to}
}

func errInvalidArgument(op, msg string) error {
	return &VortexError{Kind: InvalidArgument, Op: op, Message: msg}
}

func errLengthMismatch(op, msg string) error {
	return &VortexError{Kind: LengthMismatch, Op: op, Message: msg}
}

// IsNotImplemented reports whether err is the NotImplemented signal that
// triggers compute dispatch's flatten-and-retry path.
func IsNotImplemented(err error) bool {
	ve, ok := err.(*VortexError)
	return ok && ve.Kind == NotImplementedKind
}
