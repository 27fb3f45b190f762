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
package transport

import (
	"io"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vortexdb/vortex/ipc"
)

// Stream is a client-side connection to a Serve endpoint: one websocket
// connection carrying exactly one ipc.Writer/ipc.Reader duplex stream.
type Stream struct {
	conn   *websocket.Conn
	wc     io.WriteCloser
	Writer *ipc.Writer
	Reader *ipc.Reader
}

// Dial opens a websocket connection to url and wraps it as a Stream ready
// for ipc.Writer.WriteContext / ipc.Reader.ReadContext.
func Dial(url string, header http.Header) (*Stream, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		return nil, err
	}

	w, err := WriteSide(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Stream{
		conn:   conn,
		wc:     w,
		Writer: ipc.NewWriter(w),
		Reader: ipc.NewReader(&lazyReader{conn: conn}),
	}, nil
}

// CloseWrite finalizes the outbound websocket message once the caller is
// done writing its Context/Schema/Chunk*/EndMarker sequence, the way
// serveConn's own writer.Close() finalizes the response side - the peer's
// NextReader only unblocks once this completes the message.
func (s *Stream) CloseWrite() error {
	return s.wc.Close()
}

// Close flushes the outbound websocket message (if not already closed)
// and tears down the connection.
func (s *Stream) Close() error {
	_ = s.wc.Close()
	return s.conn.Close()
}
