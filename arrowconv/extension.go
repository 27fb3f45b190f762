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
package arrowconv

import (
	"sync"

	"github.com/vortexdb/vortex/array"
	"github.com/vortexdb/vortex/dtype"
)

// ExtensionHandler lets an extension id opt out of the default "pass
// storage through unchanged" AsArrow/FromArrow behavior, the way spec §4.2's
// Extension contract describes ("id selects a handler that interprets
// metadata_bytes and provides as_arrow conversions"). Registration mirrors
// array.RegisterEncoding's append-only, init()-time pattern (array/registry.go)
// generalized from encoding ids to extension ids.
type ExtensionHandler interface {
	AsArrow(a *array.ExtensionArray) (ArrowArray, error)
	FromArrow(aa ArrowArray, typ dtype.DType) (array.Array, error)
}

var (
	handlersMu sync.RWMutex
	handlers   = map[string]ExtensionHandler{}
)

// RegisterExtensionHandler adds h under id. Call only from package init().
func RegisterExtensionHandler(id string, h ExtensionHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[id] = h
}

func lookupHandler(id string) (ExtensionHandler, bool) {
	handlersMu.RLock()
	defer handlersMu.RUnlock()
	h, ok := handlers[id]
	return h, ok
}

// TimeUnit is LocalDateTime's metadata payload (spec.md §4.2: "LocalDateTime
// with TimeUnit ∈ {S, Ms, Us, Ns} -> Arrow Timestamp without timezone").
type TimeUnit uint8

const (
	Seconds TimeUnit = iota
	Milliseconds
	Microseconds
	Nanoseconds
)

func (u TimeUnit) arrowTypeName() string {
	switch u {
	case Seconds:
		return "timestamp[s]"
	case Milliseconds:
		return "timestamp[ms]"
	case Microseconds:
		return "timestamp[us]"
	case Nanoseconds:
		return "timestamp[ns]"
	default:
		return "timestamp[?]"
	}
}

// ExtensionIDLocalDateTime is the id NewLocalDateTime tags its arrays with
// and the id localDateTimeHandler is registered under (spec.md §4.2's
// "e.g. LocalDateTime").
const ExtensionIDLocalDateTime = "vortex.localdatetime"

func init() {
	RegisterExtensionHandler(ExtensionIDLocalDateTime, localDateTimeHandler{})
}

// localDateTimeHandler exports a LocalDateTime extension (storage: a
// Primitive(I64) of epoch ticks at one of four resolutions named by the
// one-byte TimeUnit in the extension's metadata) as an Arrow Timestamp
// without a timezone: since the tick width and layout are already
// byte-identical between vortex's Primitive and Arrow's Timestamp, this is
// the storage child's own AsArrow output with the type name annotated.
type localDateTimeHandler struct{}

func (localDateTimeHandler) AsArrow(a *array.ExtensionArray) (ArrowArray, error) {
	storage, err := AsArrow(a.Child(0))
	if err != nil {
		return ArrowArray{}, err
	}
	unit := Seconds
	if meta := a.DType().ExtensionMetadata(); len(meta) >= 1 {
		unit = TimeUnit(meta[0])
	}
	storage.TypeName = unit.arrowTypeName()
	return storage, nil
}

func (localDateTimeHandler) FromArrow(aa ArrowArray, typ dtype.DType) (array.Array, error) {
	storage, err := FromArrow(aa, typ.ExtensionStorage())
	if err != nil {
		return nil, err
	}
	return array.NewExtension(ExtensionIDLocalDateTime, storage, typ.ExtensionMetadata(), typ.Nullability()), nil
}

// NewLocalDateTime builds a LocalDateTime extension array over an I64 tick
// storage array, tagging it with unit in the extension metadata byte.
func NewLocalDateTime(ticks array.Array, unit TimeUnit, n dtype.Nullability) *array.ExtensionArray {
	return array.NewExtension(ExtensionIDLocalDateTime, ticks, []byte{byte(unit)}, n)
}
