package store

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/slidedeck/slidedeck-go/lib/db"
	"github.com/slidedeck/slidedeck-go/lib/models/deck"
	"github.com/slidedeck/slidedeck-go/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	return NewMemoryStore(db.NewMemoryDataStore(), 100, utils.SetupLogger(true))
}

func TestEnsureDeckCreatesEmptyDocument(t *testing.T) {
	store := newTestStore(t)

	snapshot, err := store.EnsureDeck("abc123")
	require.NoError(t, err)
	assert.Nil(t, snapshot.OwnerID)
	assert.Empty(t, snapshot.Slides)
}

func TestEnsureDeckLoadsPersistedDocument(t *testing.T) {
	persistence := db.NewMemoryDataStore()
	owner := "conn-1"
	require.NoError(t, persistence.SaveDeck("abc123", deck.Deck{
		OwnerID: &owner,
		Slides:  []deck.Slide{deck.NewSlide("s1ab")},
	}))

	store := NewMemoryStore(persistence, 100, utils.SetupLogger(true))
	snapshot, err := store.EnsureDeck("abc123")
	require.NoError(t, err)
	require.NotNil(t, snapshot.OwnerID)
	assert.Equal(t, "conn-1", *snapshot.OwnerID)
	assert.Len(t, snapshot.Slides, 1)
}

func TestFetchSnapshotUnknownDeck(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FetchSnapshot("missing")
	require.ErrorIs(t, err, ErrDeckNotFound)
}

func TestReplaceSlidesIsObservable(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab")}))

	snapshot, err := store.FetchSnapshot("abc123")
	require.NoError(t, err)
	require.Len(t, snapshot.Slides, 1)
	assert.Equal(t, "s1ab", snapshot.Slides[0].ID)
}

func TestReplaceWidgetsOnDeletedSlideIsNoOp(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)
	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab")}))

	before, err := store.FetchSnapshot("abc123")
	require.NoError(t, err)

	require.NoError(t, store.ReplaceWidgets("abc123", "gone", []deck.Widget{deck.NewWidget("w1abc", 1, 2)}))

	after, err := store.FetchSnapshot("abc123")
	require.NoError(t, err)
	if diff := cmp.Diff(*before, *after); diff != "" {
		t.Errorf("document changed by widget write to deleted slide (-before +after):\n%s", diff)
	}
}

func TestClaimOwnerFirstWins(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	won, err := store.ClaimOwner("abc123", "conn-a")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.ClaimOwner("abc123", "conn-b")
	require.NoError(t, err)
	assert.False(t, won)

	snapshot, err := store.FetchSnapshot("abc123")
	require.NoError(t, err)
	require.NotNil(t, snapshot.OwnerID)
	assert.Equal(t, "conn-a", *snapshot.OwnerID)
}

func TestClaimOwnerConcurrent(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	const claimants = 8
	results := make([]bool, claimants)

	var wg sync.WaitGroup
	wg.Add(claimants)
	for i := 0; i < claimants; i++ {
		go func(index int) {
			defer wg.Done()
			won, claimErr := store.ClaimOwner("abc123", "conn-"+string(rune('a'+index)))
			assert.NoError(t, claimErr)
			results[index] = won
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, won := range results {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one claim must succeed")
}

func TestUndoRedoSingleMutation(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab")}))
	require.True(t, store.CanUndo("abc123"))
	require.False(t, store.CanRedo("abc123"))

	require.NoError(t, store.Undo("abc123"))
	snapshot, err := store.FetchSnapshot("abc123")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Slides)
	assert.True(t, store.CanRedo("abc123"))

	require.NoError(t, store.Redo("abc123"))
	snapshot, err = store.FetchSnapshot("abc123")
	require.NoError(t, err)
	assert.Len(t, snapshot.Slides, 1)
}

func TestUndoOnEmptyStackIsNoOp(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	before, err := store.FetchSnapshot("abc123")
	require.NoError(t, err)

	require.NoError(t, store.Undo("abc123"))
	require.NoError(t, store.Redo("abc123"))

	after, err := store.FetchSnapshot("abc123")
	require.NoError(t, err)
	if diff := cmp.Diff(*before, *after); diff != "" {
		t.Errorf("empty-stack undo/redo changed the document:\n%s", diff)
	}
}

func TestPausedMutationsCoalesceIntoOneUndoStep(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)
	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab")}))

	// A drag: many intermediate position samples under one pause.
	store.PauseHistory("abc123")
	for i := 1; i <= 5; i++ {
		w := deck.NewWidget("w1abc", float64(i*10), float64(i*10))
		require.NoError(t, store.ReplaceWidgets("abc123", "s1ab", []deck.Widget{w}))
	}
	store.ResumeHistory("abc123")

	snapshot, err := store.FetchSnapshot("abc123")
	require.NoError(t, err)
	require.Len(t, snapshot.Slides[0].Widgets, 1)
	assert.Equal(t, float64(50), snapshot.Slides[0].Widgets[0].X)

	// One undo reverts the whole drag, not one sample.
	require.NoError(t, store.Undo("abc123"))
	snapshot, err = store.FetchSnapshot("abc123")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Slides[0].Widgets)

	// The step before the drag is the slide creation.
	require.NoError(t, store.Undo("abc123"))
	snapshot, err = store.FetchSnapshot("abc123")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Slides)
}

func TestResumeWithoutChangesAddsNoEntry(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	store.PauseHistory("abc123")
	store.ResumeHistory("abc123")

	assert.False(t, store.CanUndo("abc123"))
}

func TestFreshEditClearsRedoStack(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab")}))
	require.NoError(t, store.Undo("abc123"))
	require.True(t, store.CanRedo("abc123"))

	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s2cd")}))
	assert.False(t, store.CanRedo("abc123"))
}

func TestHistoryLimitDropsOldestEntries(t *testing.T) {
	store := NewMemoryStore(db.NewMemoryDataStore(), 3, utils.SetupLogger(true))
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide(utils.NewSlideID())}))
	}

	undos := 0
	for store.CanUndo("abc123") {
		require.NoError(t, store.Undo("abc123"))
		undos++
	}
	assert.Equal(t, 3, undos)
}

func TestSubscribersSeeAppliedChanges(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []int
	unsubscribe := store.Subscribe("abc123", func(d deck.Deck) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, len(d.Slides))
	})

	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab")}))
	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab"), deck.NewSlide("s2cd")}))

	mu.Lock()
	assert.Equal(t, []int{1, 2}, seen)
	mu.Unlock()

	unsubscribe()
	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{}))

	mu.Lock()
	assert.Len(t, seen, 2, "unsubscribed callback must not fire")
	mu.Unlock()
}

func TestWritesAreWrittenThroughToPersistence(t *testing.T) {
	persistence := db.NewMemoryDataStore()
	store := NewMemoryStore(persistence, 100, utils.SetupLogger(true))
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab")}))

	persisted, err := persistence.LoadDeck("abc123")
	require.NoError(t, err)
	require.Len(t, persisted.Slides, 1)
	assert.Equal(t, "s1ab", persisted.Slides[0].ID)
}

func TestVersionAdvancesPerWrite(t *testing.T) {
	store := newTestStore(t)
	_, err := store.EnsureDeck("abc123")
	require.NoError(t, err)

	v0 := store.Version("abc123")
	require.NoError(t, store.ReplaceSlides("abc123", []deck.Slide{deck.NewSlide("s1ab")}))
	v1 := store.Version("abc123")
	assert.Greater(t, v1, v0)
}
