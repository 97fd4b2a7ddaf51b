package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Mock WebSocket connection implementing WebSocketConn interface.
// Inbound messages are scripted through the inbound channel; written
// messages are recorded for assertions.
type mockWebSocketConn struct {
	mu      sync.Mutex
	closed  bool
	inbound chan []byte
	written [][]byte
}

func (m *mockWebSocketConn) SetReadLimit(size int64) {}

func (m *mockWebSocketConn) ReadMessage() (messageType int, p []byte, err error) {
	message, ok := <-m.inbound
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return websocket.TextMessage, message, nil
}

func (m *mockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return websocket.ErrCloseSent
	}
	if messageType == websocket.TextMessage {
		m.written = append(m.written, data)
	}
	return nil
}

func (m *mockWebSocketConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

func (m *mockWebSocketConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func (m *mockWebSocketConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (m *mockWebSocketConn) SetPongHandler(h func(appData string) error) {}

func (m *mockWebSocketConn) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([][]byte, len(m.written))
	copy(copied, m.written)
	return copied
}

func newMockWebSocketConn() *mockWebSocketConn {
	return &mockWebSocketConn{
		inbound: make(chan []byte, 16),
	}
}

func NewMockWebSocketConn() WebSocketConn {
	return newMockWebSocketConn()
}
