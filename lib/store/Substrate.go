package store

import (
	"errors"

	"github.com/slidedeck/slidedeck-go/lib/models/deck"
)

var (
	ErrDeckNotFound = errors.New("deck does not exist")
	ErrStoreClosed  = errors.New("store is closed")
)

// Substrate is the boundary to the shared-storage system the editor
// runs against. It serializes writes per document, notifies all
// subscribers of every applied change and owns the document-global
// undo/redo stacks. Replace operations are transactional: the new
// subtree value displaces the old one in a single step.
type Substrate interface {
	// EnsureDeck creates an empty deck (no owner, no slides) if none
	// exists yet and returns the current snapshot.
	EnsureDeck(deckID string) (*deck.Deck, error)

	// FetchSnapshot returns a copy of the latest document state.
	FetchSnapshot(deckID string) (*deck.Deck, error)

	// ReplaceSlides transactionally replaces the deck's slide list.
	ReplaceSlides(deckID string, slides []deck.Slide) error

	// ReplaceWidgets transactionally replaces the widget list of one
	// slide. Replacing widgets of a concurrently deleted slide is a
	// benign no-op.
	ReplaceWidgets(deckID string, slideID string, widgets []deck.Widget) error

	// ClaimOwner sets the deck owner to connectionID iff no owner is
	// assigned yet; first assignment wins. Returns whether the claim
	// succeeded.
	ClaimOwner(deckID string, connectionID string) (bool, error)

	// Subscribe registers a change callback invoked with a snapshot
	// after every applied change. The returned function unsubscribes.
	Subscribe(deckID string, fn func(deck.Deck)) func()

	// PauseHistory suspends creation of new undo entries; changes
	// applied while paused coalesce into a single entry pushed when
	// ResumeHistory is called. Pause/resume does not nest; the
	// HistoryBatcher layers depth counting on top.
	PauseHistory(deckID string)
	ResumeHistory(deckID string)

	// Undo and Redo are idempotent no-ops on an empty stack.
	Undo(deckID string) error
	Redo(deckID string) error
	CanUndo(deckID string) bool
	CanRedo(deckID string) bool
}
