package history

import (
	"sync"

	"github.com/slidedeck/slidedeck-go/lib/store"
)

// Batcher groups a contiguous interaction (a drag, a resize, a text
// editing session) into one undo step by keeping a batch depth over
// the substrate's pause/resume primitives. Nested StartBatch calls
// collapse into the outermost batch and EndBatch without an open
// batch is a no-op, so a click that never drags may call both safely.
type Batcher struct {
	mu     sync.Mutex
	depth  int
	store  store.Substrate
	deckID string
}

func NewBatcher(substrate store.Substrate, deckID string) *Batcher {
	return &Batcher{
		store:  substrate,
		deckID: deckID,
	}
}

func (b *Batcher) StartBatch() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.depth++
	if b.depth == 1 {
		b.store.PauseHistory(b.deckID)
	}
}

func (b *Batcher) EndBatch() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.depth == 0 {
		return
	}
	b.depth--
	if b.depth == 0 {
		b.store.ResumeHistory(b.deckID)
	}
}

// Close implicitly ends any open batch. Called on connection
// teardown; batches never outlive their connection.
func (b *Batcher) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.depth > 0 {
		b.depth = 0
		b.store.ResumeHistory(b.deckID)
	}
}

// Undo and redo operate on the document-global stack; they are not
// scoped to this connection.
func (b *Batcher) Undo() error {
	return b.store.Undo(b.deckID)
}

func (b *Batcher) Redo() error {
	return b.store.Redo(b.deckID)
}

// CanUndo and CanRedo gate UI affordances only; the underlying calls
// are no-ops on an empty stack either way.
func (b *Batcher) CanUndo() bool {
	return b.store.CanUndo(b.deckID)
}

func (b *Batcher) CanRedo() bool {
	return b.store.CanRedo(b.deckID)
}
