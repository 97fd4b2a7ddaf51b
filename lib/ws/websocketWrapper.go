package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

type WebSocketConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	SetReadLimit(size int64)
}

type WebSocketWrapper struct {
	*websocket.Conn
}

func NewWebSocketWrapper(conn *websocket.Conn) WebSocketConn {
	return &WebSocketWrapper{Conn: conn}
}
