package store

import (
	"errors"
	"sync"

	"github.com/slidedeck/slidedeck-go/lib/db"
	"github.com/slidedeck/slidedeck-go/lib/models/deck"
	"go.uber.org/zap"
)

type patchKind int

const (
	patchSlides patchKind = iota
	patchWidgets
)

// patch records the before/after value of one replaced subtree, so it
// can be walked in either direction by undo and redo.
type patch struct {
	kind          patchKind
	slideID       string
	slidesBefore  []deck.Slide
	slidesAfter   []deck.Slide
	widgetsBefore []deck.Widget
	widgetsAfter  []deck.Widget
}

// historyEntry is one user-perceived undo step: a single unpaused
// mutation, or every mutation applied during one pause window.
type historyEntry struct {
	patches []patch
}

type liveDeck struct {
	doc     deck.Deck
	version int64

	undoStack []historyEntry
	redoStack []historyEntry
	paused    bool
	pending   []patch

	subscribers map[int]func(deck.Deck)
}

// MemoryStore is the in-process substrate implementation. All writes
// to a deck are serialized; snapshots handed out never alias the live
// document. Applied changes are written through to the configured
// SnapshotStore.
type MemoryStore struct {
	mu           sync.Mutex
	persistence  db.SnapshotStore
	logger       *zap.SugaredLogger
	historyLimit int
	decks        map[string]*liveDeck
	nextSubID    int
}

func NewMemoryStore(persistence db.SnapshotStore, historyLimit int, logger *zap.SugaredLogger) *MemoryStore {
	if historyLimit <= 0 {
		historyLimit = 100
	}
	return &MemoryStore{
		persistence:  persistence,
		logger:       logger,
		historyLimit: historyLimit,
		decks:        make(map[string]*liveDeck),
	}
}

func (m *MemoryStore) EnsureDeck(deckID string) (*deck.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, err := m.ensureLocked(deckID)
	if err != nil {
		return nil, err
	}

	snapshot := live.doc.Clone()
	return &snapshot, nil
}

// ensureLocked loads the deck from persistence or creates it. Caller
// holds m.mu.
func (m *MemoryStore) ensureLocked(deckID string) (*liveDeck, error) {
	if live, ok := m.decks[deckID]; ok {
		return live, nil
	}

	live := &liveDeck{
		subscribers: make(map[int]func(deck.Deck)),
	}

	persisted, err := m.persistence.LoadDeck(deckID)
	switch {
	case err == nil:
		live.doc = persisted.Clone()
	case errors.Is(err, db.ErrDeckNotFound):
		live.doc = deck.Deck{Slides: []deck.Slide{}}
		if err := m.persistence.SaveDeck(deckID, live.doc); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	m.decks[deckID] = live
	return live, nil
}

func (m *MemoryStore) FetchSnapshot(deckID string) (*deck.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, ok := m.decks[deckID]
	if !ok {
		return nil, ErrDeckNotFound
	}

	snapshot := live.doc.Clone()
	return &snapshot, nil
}

func (m *MemoryStore) Version(deckID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if live, ok := m.decks[deckID]; ok {
		return live.version
	}
	return 0
}

func (m *MemoryStore) ReplaceSlides(deckID string, slides []deck.Slide) error {
	m.mu.Lock()
	live, ok := m.decks[deckID]
	if !ok {
		m.mu.Unlock()
		return ErrDeckNotFound
	}

	before := live.doc.Slides
	after := cloneSlides(slides)
	live.doc.Slides = after

	m.recordLocked(live, patch{
		kind:         patchSlides,
		slidesBefore: before,
		slidesAfter:  cloneSlides(after),
	})

	return m.commitLocked(deckID, live)
}

func (m *MemoryStore) ReplaceWidgets(deckID string, slideID string, widgets []deck.Widget) error {
	m.mu.Lock()
	live, ok := m.decks[deckID]
	if !ok {
		m.mu.Unlock()
		return ErrDeckNotFound
	}

	idx := live.doc.FindSlide(slideID)
	if idx < 0 {
		// The slide was deleted underneath the writer; tolerate the
		// race and drop the write.
		m.mu.Unlock()
		return nil
	}

	before := live.doc.Slides[idx].Widgets
	after := cloneWidgets(widgets)
	live.doc.Slides[idx].Widgets = after

	m.recordLocked(live, patch{
		kind:          patchWidgets,
		slideID:       slideID,
		widgetsBefore: before,
		widgetsAfter:  cloneWidgets(after),
	})

	return m.commitLocked(deckID, live)
}

func (m *MemoryStore) ClaimOwner(deckID string, connectionID string) (bool, error) {
	m.mu.Lock()
	live, ok := m.decks[deckID]
	if !ok {
		m.mu.Unlock()
		return false, ErrDeckNotFound
	}

	if live.doc.OwnerID != nil {
		m.mu.Unlock()
		return false, nil
	}

	owner := connectionID
	live.doc.OwnerID = &owner

	// The ownership claim is a one-shot conditional write, not an
	// editing step; it never lands on the undo stack.
	if err := m.commitLocked(deckID, live); err != nil {
		return true, err
	}
	return true, nil
}

func (m *MemoryStore) Subscribe(deckID string, fn func(deck.Deck)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, err := m.ensureLocked(deckID)
	if err != nil {
		m.logger.Errorw("subscribe failed to load deck", "deckId", deckID, "error", err)
		return func() {}
	}

	m.nextSubID++
	id := m.nextSubID
	live.subscribers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(live.subscribers, id)
	}
}

func (m *MemoryStore) PauseHistory(deckID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, ok := m.decks[deckID]
	if !ok || live.paused {
		return
	}
	live.paused = true
	live.pending = nil
}

func (m *MemoryStore) ResumeHistory(deckID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, ok := m.decks[deckID]
	if !ok || !live.paused {
		return
	}
	live.paused = false
	if len(live.pending) > 0 {
		m.pushUndoLocked(live, historyEntry{patches: live.pending})
		live.pending = nil
	}
}

func (m *MemoryStore) Undo(deckID string) error {
	m.mu.Lock()
	live, ok := m.decks[deckID]
	if !ok || len(live.undoStack) == 0 {
		m.mu.Unlock()
		return nil
	}

	entry := live.undoStack[len(live.undoStack)-1]
	live.undoStack = live.undoStack[:len(live.undoStack)-1]

	for i := len(entry.patches) - 1; i >= 0; i-- {
		applyPatch(&live.doc, entry.patches[i], true)
	}
	live.redoStack = append(live.redoStack, entry)

	return m.commitLocked(deckID, live)
}

func (m *MemoryStore) Redo(deckID string) error {
	m.mu.Lock()
	live, ok := m.decks[deckID]
	if !ok || len(live.redoStack) == 0 {
		m.mu.Unlock()
		return nil
	}

	entry := live.redoStack[len(live.redoStack)-1]
	live.redoStack = live.redoStack[:len(live.redoStack)-1]

	for _, p := range entry.patches {
		applyPatch(&live.doc, p, false)
	}
	live.undoStack = append(live.undoStack, entry)

	return m.commitLocked(deckID, live)
}

func (m *MemoryStore) CanUndo(deckID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, ok := m.decks[deckID]
	return ok && len(live.undoStack) > 0
}

func (m *MemoryStore) CanRedo(deckID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	live, ok := m.decks[deckID]
	return ok && len(live.redoStack) > 0
}

// recordLocked routes a patch to the pending batch or straight onto
// the undo stack. Any fresh edit invalidates the redo stack.
func (m *MemoryStore) recordLocked(live *liveDeck, p patch) {
	live.redoStack = nil
	if live.paused {
		live.pending = append(live.pending, p)
		return
	}
	m.pushUndoLocked(live, historyEntry{patches: []patch{p}})
}

func (m *MemoryStore) pushUndoLocked(live *liveDeck, entry historyEntry) {
	live.undoStack = append(live.undoStack, entry)
	if len(live.undoStack) > m.historyLimit {
		live.undoStack = live.undoStack[len(live.undoStack)-m.historyLimit:]
	}
}

// commitLocked bumps the version, persists the document, releases the
// lock and notifies subscribers with a detached snapshot.
func (m *MemoryStore) commitLocked(deckID string, live *liveDeck) error {
	live.version++
	snapshot := live.doc.Clone()
	saveErr := m.persistence.SaveDeck(deckID, snapshot)

	subscribers := make([]func(deck.Deck), 0, len(live.subscribers))
	for _, fn := range live.subscribers {
		subscribers = append(subscribers, fn)
	}
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot.Clone())
	}

	if saveErr != nil {
		m.logger.Errorw("failed to persist deck snapshot", "deckId", deckID, "error", saveErr)
	}
	return saveErr
}

func applyPatch(doc *deck.Deck, p patch, reverse bool) {
	switch p.kind {
	case patchSlides:
		slides := p.slidesAfter
		if reverse {
			slides = p.slidesBefore
		}
		doc.Slides = cloneSlides(slides)
	case patchWidgets:
		idx := doc.FindSlide(p.slideID)
		if idx < 0 {
			// Slide gone; undoing its widget edits has nothing to
			// apply to.
			return
		}
		widgets := p.widgetsAfter
		if reverse {
			widgets = p.widgetsBefore
		}
		doc.Slides[idx].Widgets = cloneWidgets(widgets)
	}
}

func cloneSlides(slides []deck.Slide) []deck.Slide {
	cloned := make([]deck.Slide, len(slides))
	for i, s := range slides {
		cloned[i] = s.Clone()
	}
	return cloned
}

func cloneWidgets(widgets []deck.Widget) []deck.Widget {
	cloned := make([]deck.Widget, len(widgets))
	for i, w := range widgets {
		cloned[i] = w.Clone()
	}
	return cloned
}

var _ Substrate = (*MemoryStore)(nil)
