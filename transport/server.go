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
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"

	"github.com/vortexdb/vortex/ipc"
)

// upgrader mirrors scm/network.go's websocket.Upgrader verbatim: fixed
// 1024-byte buffers, origin checking left to the reverse proxy in front of
// memcp/vortex rather than to this package.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// logError is the transport package's stderr logging helper. memcp's
// scm/network.go calls a PrintError helper from the same defer-recover
// spots this package recovers in; its definition lives outside this
// retrieval pack, so this is written independently in that call idiom.
func logError(context string, r interface{}) {
	fmt.Fprintln(os.Stderr, "transport error in "+context+": ", r)
}

// StreamHandler is invoked once per accepted websocket connection with a
// Writer/Reader pair bound to that connection's single duplex stream.
type StreamHandler func(w *ipc.Writer, r *ipc.Reader)

// Serve upgrades r to a websocket connection and runs handler on it,
// recovering panics the way scm/network.go's "websocket" callback does so
// one bad stream cannot take the listener down.
func Serve(w http.ResponseWriter, r *http.Request, handler StreamHandler) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logError("websocket upgrade", err)
		return
	}
	go serveConn(conn, handler)
}

func serveConn(conn *websocket.Conn, handler StreamHandler) {
	defer func() {
		if r := recover(); r != nil {
			logError("websocket stream", r)
		}
		conn.Close()
	}()

	writer, err := WriteSide(conn)
	if err != nil {
		logError("websocket send", err)
		return
	}

	handler(ipc.NewWriter(writer), ipc.NewReader(&lazyReader{conn: conn}))
	writer.Close()
}
