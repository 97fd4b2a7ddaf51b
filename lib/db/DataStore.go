package db

import (
	"errors"

	"github.com/slidedeck/slidedeck-go/lib/models/deck"
)

var ErrDeckNotFound = errors.New("deck does not exist")

// SnapshotStore persists deck snapshots by deck id. It is the durable
// side of the substrate; the live document, its undo stacks and its
// change notifications stay in memory and are written through here.
type SnapshotStore interface {
	LoadDeck(deckID string) (*deck.Deck, error)
	SaveDeck(deckID string, d deck.Deck) error
	RemoveDeck(deckID string) error
	ListDeckIDs() ([]string, error)
	Close() error
}
