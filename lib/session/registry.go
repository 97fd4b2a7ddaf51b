package session

import (
	"sync"

	"github.com/google/uuid"
	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
)

// NewConnectionID mints the identity a connection carries for its
// lifetime. Connection ids also serve as the deck owner identity once
// a claim succeeds.
func NewConnectionID() string {
	return uuid.NewString()
}

// Registry tracks the live sessions of every deck. Sessions are
// created on join, mutated while connected and dropped on disconnect;
// nothing in here survives a process restart and nothing is persisted
// with the document.
type Registry struct {
	mu    sync.RWMutex
	decks map[string]map[string]session2.Session
}

func NewRegistry() *Registry {
	return &Registry{
		decks: make(map[string]map[string]session2.Session),
	}
}

func (r *Registry) Join(deckID string, connectionID string, sess session2.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connections, ok := r.decks[deckID]
	if !ok {
		connections = make(map[string]session2.Session)
		r.decks[deckID] = connections
	}
	connections[connectionID] = sess.Clone()
}

func (r *Registry) Get(deckID string, connectionID string) (session2.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.decks[deckID][connectionID]
	if !ok {
		return session2.Session{}, false
	}
	return sess.Clone(), true
}

// Update applies fn to the stored session under the registry lock and
// reports whether the session existed.
func (r *Registry) Update(deckID string, connectionID string, fn func(*session2.Session)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.decks[deckID][connectionID]
	if !ok {
		return false
	}
	fn(&sess)
	r.decks[deckID][connectionID] = sess
	return true
}

func (r *Registry) Leave(deckID string, connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.decks[deckID], connectionID)
	if len(r.decks[deckID]) == 0 {
		delete(r.decks, deckID)
	}
}

func (r *Registry) Count(deckID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.decks[deckID])
}

// Stats reports how many decks have live sessions and the total
// session count across all decks.
func (r *Registry) Stats() (decks int, connections int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, conns := range r.decks {
		decks++
		connections += len(conns)
	}
	return decks, connections
}
