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
package blobstore

import (
	"io"
	"os"
)

// FileStore persists frames under Path, one file per key, grounded
// directly on storage/persistence-files.go's FileStorage: no manifest, no
// key hashing beyond what the filesystem itself tolerates (a frame key is
// already a short fixed shard/column-style name chosen by the caller, not
// arbitrary user text the way a SQL column name could be).
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) ReadFrame(key string) io.ReadCloser {
	f, err := os.Open(s.Path + "/" + key)
	if err != nil {
		return ErrorReader{err}
	}
	return f
}

func (s *FileStore) WriteFrame(key string) io.WriteCloser {
	if err := os.MkdirAll(s.Path, 0750); err != nil {
		panic(err)
	}
	f, err := os.Create(s.Path + "/" + key)
	if err != nil {
		panic(err)
	}
	return f
}

func (s *FileStore) RemoveFrame(key string) {
	os.Remove(s.Path + "/" + key)
}

func (s *FileStore) Remove() {
	os.RemoveAll(s.Path)
}
