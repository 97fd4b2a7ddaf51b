package presence

import (
	"sync"

	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
	"go.uber.org/zap"
)

// Peer is one entry of a deck's presence roster as seen by another
// connection.
type Peer struct {
	ConnectionID string           `json:"connectionId"`
	Session      session2.Session `json:"presence"`
}

// Broadcaster keeps the live presence roster per deck and fans every
// change out to its subscribers. Updates are last-write-wins per
// connection; rapid cursor samples simply overwrite each other and
// there is no history of past presence states.
type Broadcaster struct {
	mu          sync.Mutex
	decks       map[string]map[string]session2.Session
	subscribers map[string]map[int]func()
	nextSubID   int
	logger      *zap.SugaredLogger
}

func NewBroadcaster(logger *zap.SugaredLogger) *Broadcaster {
	return &Broadcaster{
		decks:       make(map[string]map[string]session2.Session),
		subscribers: make(map[string]map[int]func()),
		logger:      logger,
	}
}

// Publish replaces the presence state of one connection and notifies
// the deck's subscribers.
func (b *Broadcaster) Publish(deckID string, connectionID string, sess session2.Session) {
	b.mu.Lock()
	roster, ok := b.decks[deckID]
	if !ok {
		roster = make(map[string]session2.Session)
		b.decks[deckID] = roster
	}
	roster[connectionID] = sess.Clone()
	callbacks := b.callbacksLocked(deckID)
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Clear drops a connection from the roster on disconnect and notifies
// the remaining subscribers so peers see the participant vanish.
func (b *Broadcaster) Clear(deckID string, connectionID string) {
	b.mu.Lock()
	roster, ok := b.decks[deckID]
	if ok {
		delete(roster, connectionID)
		if len(roster) == 0 {
			delete(b.decks, deckID)
		}
	}
	callbacks := b.callbacksLocked(deckID)
	b.mu.Unlock()

	if !ok {
		return
	}
	b.logger.Debugw("presence cleared", "deckId", deckID, "connectionId", connectionID)
	for _, fn := range callbacks {
		fn()
	}
}

// Others returns the roster excluding the given connection, the way
// each client wants to render its peers.
func (b *Broadcaster) Others(deckID string, connectionID string) []Peer {
	b.mu.Lock()
	defer b.mu.Unlock()

	roster := b.decks[deckID]
	peers := make([]Peer, 0, len(roster))
	for id, sess := range roster {
		if id == connectionID {
			continue
		}
		peers = append(peers, Peer{ConnectionID: id, Session: sess.Clone()})
	}
	return peers
}

// Subscribe registers a callback invoked after every roster change of
// the deck. The returned function unsubscribes.
func (b *Broadcaster) Subscribe(deckID string, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[deckID]
	if !ok {
		subs = make(map[int]func())
		b.subscribers[deckID] = subs
	}
	b.nextSubID++
	id := b.nextSubID
	subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers[deckID], id)
		if len(b.subscribers[deckID]) == 0 {
			delete(b.subscribers, deckID)
		}
	}
}

func (b *Broadcaster) callbacksLocked(deckID string) []func() {
	subs := b.subscribers[deckID]
	callbacks := make([]func(), 0, len(subs))
	for _, fn := range subs {
		callbacks = append(callbacks, fn)
	}
	return callbacks
}
