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
// Package blobstore persists whole IPC frames (spec GLOSSARY: "ArrayView -
// a non-owning array over an IPC frame") to a named-blob backend: local
// file, S3, or Ceph/RADOS. This generalizes the teacher's
// PersistenceEngine (storage/persistence.go), which persists one blob per
// (shard, column) plus a per-shard write-ahead log, down to the one
// operation an IPC frame actually needs: read/write/remove a named byte
// blob. The per-column/per-shard log-replay machinery
// (PersistenceLogfile/LogEntryInsert/LogEntryDelete) is SQL-table specific
// and has no Vortex-side equivalent - a frame is a complete, already
// self-describing IPC stream, not an incrementally replayed log - so it is
// not carried over; see DESIGN.md.
package blobstore

import "io"

// Store is the minimal interface every backend implements (spec §9's
// ambient persistence layer), mirroring the shape of
// storage.PersistenceEngine's ReadColumn/WriteColumn/RemoveColumn trio but
// addressed by one opaque key instead of a (shard, column) pair.
type Store interface {
	// ReadFrame opens key for reading. A missing key is reported through
	// the returned ErrorReader rather than a nil return, the same
	// "always return a ReadCloser" convention storage.ErrorReader
	// establishes, so callers never nil-check before Read.
	ReadFrame(key string) io.ReadCloser
	// WriteFrame opens key for writing, replacing any existing blob once
	// the returned WriteCloser is Closed.
	WriteFrame(key string) io.WriteCloser
	RemoveFrame(key string)
	// Remove deletes every frame under this store's namespace.
	Remove()
}

// ErrorReader reflects e on every Read, the same shape as
// storage.ErrorReader: a ReadCloser a caller can treat uniformly with a
// real one instead of nil-checking.
type ErrorReader struct{ Err error }

func (e ErrorReader) Read([]byte) (int, error) { return 0, e.Err }
func (e ErrorReader) Close() error             { return nil }
