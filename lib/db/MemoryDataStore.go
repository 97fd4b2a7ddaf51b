package db

import (
	"sort"
	"sync"

	"github.com/slidedeck/slidedeck-go/lib/models/deck"
)

type MemoryDataStore struct {
	mu    sync.RWMutex
	decks map[string]deck.Deck
}

func NewMemoryDataStore() *MemoryDataStore {
	return &MemoryDataStore{
		decks: make(map[string]deck.Deck),
	}
}

func (m *MemoryDataStore) LoadDeck(deckID string) (*deck.Deck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.decks[deckID]
	if !ok {
		return nil, ErrDeckNotFound
	}

	cloned := stored.Clone()
	return &cloned, nil
}

func (m *MemoryDataStore) SaveDeck(deckID string, d deck.Deck) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.decks[deckID] = d.Clone()
	return nil
}

func (m *MemoryDataStore) RemoveDeck(deckID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.decks, deckID)
	return nil
}

func (m *MemoryDataStore) ListDeckIDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.decks))
	for id := range m.decks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryDataStore) Close() error {
	return nil
}

var _ SnapshotStore = (*MemoryDataStore)(nil)
