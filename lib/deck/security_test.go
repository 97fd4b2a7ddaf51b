package deck

import (
	"testing"

	"github.com/slidedeck/slidedeck-go/lib/invite"
	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
	"github.com/stretchr/testify/assert"
)

func TestCanEditSlide(t *testing.T) {
	security := NewSecurityManager()

	testCases := []struct {
		name    string
		sess    session2.Session
		slideID string
		want    bool
	}{
		{
			name:    "owner edits any slide",
			sess:    session2.Session{Role: session2.RoleOwner, Grant: invite.GrantSlides()},
			slideID: "s1ab",
			want:    true,
		},
		{
			name:    "owner edits slides that do not exist yet",
			sess:    session2.Session{Role: session2.RoleOwner},
			slideID: "not-created-yet",
			want:    true,
		},
		{
			name:    "editor with grant all",
			sess:    session2.Session{Role: session2.RoleEditor, Grant: invite.GrantAll()},
			slideID: "anything",
			want:    true,
		},
		{
			name:    "editor with slide in grant",
			sess:    session2.Session{Role: session2.RoleEditor, Grant: invite.GrantSlides("s1ab", "s2cd")},
			slideID: "s2cd",
			want:    true,
		},
		{
			name:    "editor with slide not in grant",
			sess:    session2.Session{Role: session2.RoleEditor, Grant: invite.GrantSlides("s1ab")},
			slideID: "s2cd",
			want:    false,
		},
		{
			name:    "editor with empty explicit grant",
			sess:    session2.Session{Role: session2.RoleEditor, Grant: invite.GrantSlides()},
			slideID: "s1ab",
			want:    false,
		},
		{
			name:    "unresolved role falls back to grant",
			sess:    session2.Session{Role: session2.RoleUnknown, Grant: invite.GrantSlides("s1ab")},
			slideID: "s1ab",
			want:    true,
		},
		{
			name:    "unresolved role with zero-value grant",
			sess:    session2.Session{},
			slideID: "s1ab",
			want:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, security.CanEditSlide(tc.sess, tc.slideID))
		})
	}
}

func TestCanEditDeckIsOwnerOnly(t *testing.T) {
	security := NewSecurityManager()

	assert.True(t, security.CanEditDeck(session2.Session{Role: session2.RoleOwner}))
	assert.False(t, security.CanEditDeck(session2.Session{Role: session2.RoleEditor, Grant: invite.GrantAll()}))
	assert.False(t, security.CanEditDeck(session2.Session{}))
}

func TestCanInviteMatchesCanEditDeck(t *testing.T) {
	security := NewSecurityManager()

	for _, role := range []session2.Role{session2.RoleOwner, session2.RoleEditor, session2.RoleUnknown} {
		sess := session2.Session{Role: role, Grant: invite.GrantAll()}
		assert.Equal(t, security.CanEditDeck(sess), security.CanInvite(sess))
	}
}
