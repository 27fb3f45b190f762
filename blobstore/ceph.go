//go:build ceph

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
	"bytes"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/ceph/go-ceph/rados"
)

// CephConfig mirrors storage.CephFactory's plain option struct.
type CephConfig struct {
	UserName    string
	ClusterName string
	ConfFile    string
	Pool        string
	Prefix      string
}

// CephStore persists frames as whole RADOS objects, adapted from
// storage.CephStorage: connection bring-up is unchanged, but (like
// S3Store) the append/segment/manifest log machinery is dropped since a
// frame is one atomic WriteFull, never appended to.
type CephStore struct {
	cfg    CephConfig
	prefix string

	mu     sync.Mutex
	conn   *rados.Conn
	ioctx  *rados.IOContext
	opened bool
}

func NewCephStore(cfg CephConfig) Store {
	return &CephStore{cfg: cfg, prefix: path.Join(strings.TrimSuffix(cfg.Prefix, "/"))}
}

func (s *CephStore) ensureOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return
	}

	conn, err := rados.NewConnWithClusterAndUser(s.cfg.ClusterName, s.cfg.UserName)
	if err != nil {
		panic(err)
	}
	if s.cfg.ConfFile != "" {
		if err := conn.ReadConfigFile(s.cfg.ConfFile); err != nil {
			panic(err)
		}
	} else {
		_ = conn.ReadDefaultConfigFile()
	}
	if err := conn.Connect(); err != nil {
		panic(err)
	}

	ioctx, err := conn.OpenIOContext(s.cfg.Pool)
	if err != nil {
		conn.Shutdown()
		panic(err)
	}

	s.conn = conn
	s.ioctx = ioctx
	s.opened = true
}

func (s *CephStore) obj(name string) string {
	return path.Join(s.prefix, name)
}

func (s *CephStore) ReadFrame(key string) io.ReadCloser {
	s.ensureOpen()
	obj := s.obj(key)
	stat, err := s.ioctx.Stat(obj)
	if err != nil {
		return ErrorReader{err}
	}
	data := make([]byte, stat.Size)
	n, err := s.ioctx.Read(obj, data, 0)
	if err != nil {
		return ErrorReader{err}
	}
	return io.NopCloser(bytes.NewReader(data[:n]))
}

type cephWriteCloser struct {
	s      *CephStore
	obj    string
	buf    bytes.Buffer
	closed bool
}

func (w *cephWriteCloser) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *cephWriteCloser) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.s.ioctx.WriteFull(w.obj, w.buf.Bytes())
}

func (s *CephStore) WriteFrame(key string) io.WriteCloser {
	s.ensureOpen()
	return &cephWriteCloser{s: s, obj: s.obj(key)}
}

func (s *CephStore) RemoveFrame(key string) {
	s.ensureOpen()
	_ = s.ioctx.Delete(s.obj(key))
}

func (s *CephStore) Remove() {
	// librados gives no efficient prefix enumeration without a maintained
	// manifest object; same limitation storage.CephStorage.Remove notes.
	panic("blobstore: CephStore.Remove not implemented: needs a manifest/index to enumerate objects")
}
