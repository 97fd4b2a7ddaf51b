package presence

import (
	"testing"

	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
	"github.com/slidedeck/slidedeck-go/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeckID = "abc123"

func newTestBroadcaster() *Broadcaster {
	return NewBroadcaster(utils.SetupLogger(true))
}

func TestOthersExcludesSelf(t *testing.T) {
	b := newTestBroadcaster()

	b.Publish(testDeckID, "conn-a", session2.Session{Name: "alice"})
	b.Publish(testDeckID, "conn-b", session2.Session{Name: "bob"})

	peers := b.Others(testDeckID, "conn-a")
	require.Len(t, peers, 1)
	assert.Equal(t, "conn-b", peers[0].ConnectionID)
	assert.Equal(t, "bob", peers[0].Session.Name)
}

func TestPublishIsLastWriteWins(t *testing.T) {
	b := newTestBroadcaster()

	slide := "s1ab"
	b.Publish(testDeckID, "conn-a", session2.Session{Name: "alice", Cursor: &session2.Point{X: 1, Y: 1}})
	b.Publish(testDeckID, "conn-a", session2.Session{Name: "alice", Cursor: &session2.Point{X: 9, Y: 4}, ActiveSlideID: &slide})

	peers := b.Others(testDeckID, "conn-b")
	require.Len(t, peers, 1)
	require.NotNil(t, peers[0].Session.Cursor)
	assert.Equal(t, float64(9), peers[0].Session.Cursor.X)
	require.NotNil(t, peers[0].Session.ActiveSlideID)
	assert.Equal(t, slide, *peers[0].Session.ActiveSlideID)
}

func TestClearRemovesParticipant(t *testing.T) {
	b := newTestBroadcaster()

	b.Publish(testDeckID, "conn-a", session2.Session{Name: "alice"})
	b.Publish(testDeckID, "conn-b", session2.Session{Name: "bob"})
	b.Clear(testDeckID, "conn-a")

	assert.Empty(t, b.Others(testDeckID, "conn-b"))
	assert.Len(t, b.Others(testDeckID, "conn-a"), 1)
}

func TestSubscribersAreNotifiedOnEveryChange(t *testing.T) {
	b := newTestBroadcaster()

	notified := 0
	unsubscribe := b.Subscribe(testDeckID, func() { notified++ })

	b.Publish(testDeckID, "conn-a", session2.Session{Name: "alice"})
	b.Publish(testDeckID, "conn-a", session2.Session{Name: "alice"})
	b.Clear(testDeckID, "conn-a")
	assert.Equal(t, 3, notified)

	unsubscribe()
	b.Publish(testDeckID, "conn-a", session2.Session{Name: "alice"})
	assert.Equal(t, 3, notified, "no notifications after unsubscribe")
}

func TestClearUnknownDeckNotifiesNobody(t *testing.T) {
	b := newTestBroadcaster()

	notified := 0
	b.Subscribe(testDeckID, func() { notified++ })
	b.Clear(testDeckID, "conn-a")

	assert.Zero(t, notified)
}

func TestPublishedSessionIsDetached(t *testing.T) {
	b := newTestBroadcaster()

	cursor := &session2.Point{X: 1, Y: 2}
	b.Publish(testDeckID, "conn-a", session2.Session{Name: "alice", Cursor: cursor})
	cursor.X = 99

	peers := b.Others(testDeckID, "conn-b")
	require.Len(t, peers, 1)
	assert.Equal(t, float64(1), peers[0].Session.Cursor.X)
}
