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
	"testing"
)

func TestFileStoreWriteReadRemove(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	w := s.WriteFrame("frame-a")
	if _, err := w.Write([]byte("hello vortex")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rc := s.ReadFrame("frame-a")
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello vortex" {
		t.Errorf("ReadFrame content = %q, want %q", got, "hello vortex")
	}

	s.RemoveFrame("frame-a")
	rc2 := s.ReadFrame("frame-a")
	if _, err := io.ReadAll(rc2); err == nil {
		t.Error("ReadFrame after RemoveFrame should fail")
	}
}

func TestFileStoreReadMissingFrame(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	rc := s.ReadFrame("does-not-exist")
	if _, err := io.ReadAll(rc); err == nil {
		t.Error("reading a missing frame should return an error, not succeed")
	}
}

func TestFileStoreRemoveDeletesEverything(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	w := s.WriteFrame("frame-b")
	w.Write([]byte("x"))
	w.Close()

	s.Remove()

	rc := s.ReadFrame("frame-b")
	if _, err := io.ReadAll(rc); err == nil {
		t.Error("ReadFrame after Remove() should fail")
	}
}
