package game

import (
	"time"

	"github.com/gorilla/websocket"
)

const pongWait = time.Minute

type websocketConn struct {
	socket *websocket.Conn
}

// NewWebsocketConn wraps a gorilla connection behind NetworkSession; pongs
// extend the read deadline so idle but healthy connections stay up.
func NewWebsocketConn(conn *websocket.Conn) NetworkSession {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &websocketConn{socket: conn}
}

func (wc *websocketConn) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *websocketConn) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConn) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConn) Close() {
	wc.socket.SetWriteDeadline(time.Now().Add(time.Second * 20))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	wc.socket.Close()
}
