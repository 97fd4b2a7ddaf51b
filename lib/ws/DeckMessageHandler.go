package ws

import (
	"encoding/json"
	"sync"

	deck2 "github.com/slidedeck/slidedeck-go/lib/deck"
	"github.com/slidedeck/slidedeck-go/lib/history"
	deckModel "github.com/slidedeck/slidedeck-go/lib/models/deck"
	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
	"github.com/slidedeck/slidedeck-go/lib/presence"
	"github.com/slidedeck/slidedeck-go/lib/session"
	"github.com/slidedeck/slidedeck-go/lib/store"
	"go.uber.org/zap"
)

// deckFeed is one shared document subscription per deck, refcounted
// across the deck's connections. Every applied change is marshalled
// once and broadcast to the whole room.
type deckFeed struct {
	refs   int
	cancel func()
}

// DeckMessageHandler owns the collaboration state behind the socket
// endpoint: it resolves joining connections into sessions, dispatches
// their editing messages and fans document and presence changes back
// out through the hub.
type DeckMessageHandler struct {
	hub      *Hub
	store    store.Substrate
	editor   deck2.Editor
	registry *session.Registry
	resolver session.Resolver
	presence *presence.Broadcaster
	logger   *zap.SugaredLogger

	feedsMu sync.Mutex
	feeds   map[string]*deckFeed
}

func NewDeckMessageHandler(hub *Hub, substrate store.Substrate, logger *zap.SugaredLogger) *DeckMessageHandler {
	return &DeckMessageHandler{
		hub:      hub,
		store:    substrate,
		editor:   deck2.NewEditor(substrate, logger),
		registry: session.NewRegistry(),
		resolver: session.NewResolver(substrate, logger),
		presence: presence.NewBroadcaster(logger),
		logger:   logger,
	}
}

func (h *DeckMessageHandler) Editor() deck2.Editor {
	return h.editor
}

func (h *DeckMessageHandler) Registry() *session.Registry {
	return h.registry
}

// HandleConnect resolves the joining connection into a session and
// wires it into the deck's document and presence feeds. The first
// message the connection receives is its welcome with the resolved
// identity and the current document.
func (h *DeckMessageHandler) HandleConnect(c *Client, name string, token string) error {
	if _, err := h.editor.Bootstrap(c.DeckID); err != nil {
		return err
	}

	sess, err := h.resolver.Resolve(c.DeckID, c.ConnectionID, name, token)
	if err != nil {
		return err
	}

	snapshot, err := h.store.FetchSnapshot(c.DeckID)
	if err != nil {
		return err
	}

	h.registry.Join(c.DeckID, c.ConnectionID, sess)
	c.batcher = history.NewBatcher(h.store, c.DeckID)
	h.acquireFeed(c.DeckID)

	cancelPresence := h.presence.Subscribe(c.DeckID, func() {
		h.sendPeers(c)
	})
	c.teardown = append(c.teardown, cancelPresence)

	welcome, err := encodeEnvelope(MsgWelcome, WelcomeData{
		ConnectionID: c.ConnectionID,
		Session:      sess,
		Deck:         *snapshot,
	})
	if err != nil {
		return err
	}
	h.send(c, welcome)

	// Announcing ourselves also pushes the initial roster to us.
	h.presence.Publish(c.DeckID, c.ConnectionID, sess)
	h.logger.Infow("connection joined deck", "deckId", c.DeckID, "connectionId", c.ConnectionID, "role", sess.Role)
	return nil
}

// HandleDisconnect tears a connection down: dangling batches are
// flushed, the presence entry vanishes for the peers and the session
// is dropped.
func (h *DeckMessageHandler) HandleDisconnect(c *Client) {
	if c.batcher != nil {
		c.batcher.Close()
	}
	for _, cancel := range c.teardown {
		cancel()
	}
	c.teardown = nil
	h.presence.Clear(c.DeckID, c.ConnectionID)
	h.registry.Leave(c.DeckID, c.ConnectionID)
	h.releaseFeed(c.DeckID)
	h.logger.Infow("connection left deck", "deckId", c.DeckID, "connectionId", c.ConnectionID)
}

// HandleMessage dispatches one inbound message. Malformed messages and
// messages from unknown sessions are dropped; editor errors are
// substrate faults and only logged, the connection stays up.
func (h *DeckMessageHandler) HandleMessage(c *Client, raw []byte) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		h.logger.Debugw("dropping malformed message", "deckId", c.DeckID, "error", err)
		return
	}

	sess, ok := h.registry.Get(c.DeckID, c.ConnectionID)
	if !ok {
		return
	}

	var err error
	switch envelope.Type {
	case MsgPresence:
		err = h.handlePresence(c, envelope.Data)
	case MsgAddSlide:
		var data AddSlideData
		if err = json.Unmarshal(envelope.Data, &data); err == nil {
			position := deck2.InsertBelow
			if data.Position == string(deck2.InsertAbove) {
				position = deck2.InsertAbove
			}
			err = h.editor.AddSlide(sess, c.DeckID, position, data.ReferenceSlideID)
		}
	case MsgDeleteSlide:
		var data DeleteSlideData
		if err = json.Unmarshal(envelope.Data, &data); err == nil {
			err = h.editor.DeleteSlide(sess, c.DeckID, data.SlideID)
		}
	case MsgAddWidget:
		var data AddWidgetData
		if err = json.Unmarshal(envelope.Data, &data); err == nil {
			_, err = h.editor.AddWidget(sess, c.DeckID, data.SlideID, data.X, data.Y)
		}
	case MsgDeleteWidget:
		var data DeleteWidgetData
		if err = json.Unmarshal(envelope.Data, &data); err == nil {
			err = h.editor.DeleteWidget(sess, c.DeckID, data.SlideID, data.WidgetID)
		}
	case MsgUpdateWidget:
		var data UpdateWidgetData
		if err = json.Unmarshal(envelope.Data, &data); err == nil {
			err = h.editor.UpdateWidget(sess, c.DeckID, data.SlideID, data.WidgetID, data.Patch)
		}
	case MsgUndo:
		err = c.batcher.Undo()
	case MsgRedo:
		err = c.batcher.Redo()
	case MsgBatchStart:
		c.batcher.StartBatch()
	case MsgBatchEnd:
		c.batcher.EndBatch()
	default:
		h.logger.Debugw("dropping message of unknown type", "deckId", c.DeckID, "type", envelope.Type)
	}

	if err != nil {
		h.logger.Errorw("error handling message", "deckId", c.DeckID, "type", envelope.Type, "error", err)
	}
}

func (h *DeckMessageHandler) handlePresence(c *Client, data json.RawMessage) error {
	var update PresenceData
	if err := json.Unmarshal(data, &update); err != nil {
		return err
	}

	h.registry.Update(c.DeckID, c.ConnectionID, func(s *session2.Session) {
		s.Cursor = update.Cursor
		s.ActiveSlideID = update.ActiveSlideID
	})
	if sess, ok := h.registry.Get(c.DeckID, c.ConnectionID); ok {
		h.presence.Publish(c.DeckID, c.ConnectionID, sess)
	}
	return nil
}

func (h *DeckMessageHandler) sendPeers(c *Client) {
	payload, err := encodeEnvelope(MsgPeers, PeersData{
		Others: h.presence.Others(c.DeckID, c.ConnectionID),
	})
	if err != nil {
		h.logger.Errorw("error encoding peers", "deckId", c.DeckID, "error", err)
		return
	}
	h.send(c, payload)
}

// send delivers to one client without ever blocking the caller; a
// client that cannot keep up misses the update and catches up on the
// next one.
func (h *DeckMessageHandler) send(c *Client, payload []byte) {
	defer func() {
		// Send may already be closed when the hub dropped the client.
		recover()
	}()
	select {
	case c.Send <- payload:
	default:
	}
}

func (h *DeckMessageHandler) acquireFeed(deckID string) {
	h.feedsMu.Lock()
	defer h.feedsMu.Unlock()

	if h.feeds == nil {
		h.feeds = make(map[string]*deckFeed)
	}
	if feed, ok := h.feeds[deckID]; ok {
		feed.refs++
		return
	}

	cancel := h.store.Subscribe(deckID, func(snapshot deckModel.Deck) {
		payload, err := encodeEnvelope(MsgDeck, snapshot)
		if err != nil {
			h.logger.Errorw("error encoding deck snapshot", "deckId", deckID, "error", err)
			return
		}
		h.hub.Broadcast <- RoomMessage{DeckID: deckID, Data: payload}
	})
	h.feeds[deckID] = &deckFeed{refs: 1, cancel: cancel}
}

func (h *DeckMessageHandler) releaseFeed(deckID string) {
	h.feedsMu.Lock()
	defer h.feedsMu.Unlock()

	feed, ok := h.feeds[deckID]
	if !ok {
		return
	}
	feed.refs--
	if feed.refs <= 0 {
		feed.cancel()
		delete(h.feeds, deckID)
	}
}
