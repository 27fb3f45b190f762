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
// Package transport streams an ipc.Writer/ipc.Reader byte stream over a
// websocket connection, grounded on scm/network.go's
// HttpServer.ServeHTTP "websocket" callback: the same gorilla/websocket
// upgrade, the same panic-recovered read goroutine, generalized from a
// scheme-interpreter message callback to a plain io.Reader/io.Writer pair
// an ipc.Writer/ipc.Reader can run over directly.
package transport

import (
	"io"

	"github.com/gorilla/websocket"
)

// WriteSide wraps a websocket connection's outbound side as a single
// io.WriteCloser spanning one binary message - every byte an ipc.Writer
// produces for one stream (Context, every array's Schema/Chunk*/EndMarker)
// becomes one websocket message, framed by NextWriter/Close rather than by
// a second length prefix of our own.
func WriteSide(conn *websocket.Conn) (io.WriteCloser, error) {
	return conn.NextWriter(websocket.BinaryMessage)
}

// ReadSide blocks for the peer's next binary message and returns an
// io.Reader over its payload - io.EOF at the message boundary is exactly
// what ipc.Reader.ReadArray relies on to detect stream exhaustion.
func ReadSide(conn *websocket.Conn) (io.Reader, error) {
	_, r, err := conn.NextReader()
	return r, err
}

// lazyReader defers the blocking conn.NextReader() call until the first
// byte is actually requested, so opening a Stream never blocks on the
// peer's reply before the caller has had a chance to write its request.
type lazyReader struct {
	conn *websocket.Conn
	r    io.Reader
}

func (lr *lazyReader) Read(p []byte) (int, error) {
	if lr.r == nil {
		r, err := ReadSide(lr.conn)
		if err != nil {
			if isCleanClose(err) {
				return 0, io.EOF
			}
			return 0, err
		}
		lr.r = r
	}
	return lr.r.Read(p)
}

// isCleanClose reports whether err is a normal websocket shutdown rather
// than a transport failure, mirroring scm/network.go's
// websocket.IsCloseError(err, websocket.CloseNormalClosure, ...) check.
func isCleanClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
