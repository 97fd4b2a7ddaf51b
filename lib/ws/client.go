package ws

// Copyright 2013 The Gorilla WebSocket Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

import (
	"log"
	"net/http"
	"time"

	"github.com/slidedeck/slidedeck-go/lib/history"
	"github.com/slidedeck/slidedeck-go/lib/session"
	"go.uber.org/zap"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub
	// The websocket connection.
	Conn WebSocketConn
	// Buffered channel of outbound messages.
	Send         chan []byte
	DeckID       string
	ConnectionID string
	Handler      *DeckMessageHandler

	batcher  *history.Batcher
	teardown []func()
}

// readPump pumps messages from the websocket connection to the Hub.
//
// The application runs readPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) readPump(logger *zap.SugaredLogger) {
	defer func() {
		c.Handler.HandleDisconnect(c)
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debugw("unexpected socket close", "deckId", c.DeckID, "error", err)
			}
			break
		}
		c.Handler.HandleMessage(c, message)
	}
}

// writePump pumps messages from the Send channel to the websocket
// connection, keeping the peer alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) Leave() {
	c.Hub.Unregister <- c
}

// ServeWs handles websocket requests from the peer.
func ServeWs(w http.ResponseWriter, r *http.Request, deckID string, name string,
	token string, handler *DeckMessageHandler, logger *zap.SugaredLogger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	client := &Client{
		Hub:          handler.hub,
		Conn:         NewWebSocketWrapper(conn),
		Send:         make(chan []byte, 256),
		DeckID:       deckID,
		ConnectionID: session.NewConnectionID(),
		Handler:      handler,
	}
	client.Hub.Register <- client
	go client.writePump()

	if err := handler.HandleConnect(client, name, token); err != nil {
		logger.Errorw("error establishing deck session", "deckId", deckID, "error", err)
		client.Leave()
		return
	}
	client.readPump(logger)
}
