package session

import (
	"github.com/slidedeck/slidedeck-go/lib/invite"
)

// Role of a connection within a deck. A session starts out with
// RoleUnknown until the ownership claim race resolves; every
// permission check treats an unresolved role as non-owner.
type Role string

const (
	RoleUnknown Role = ""
	RoleOwner   Role = "owner"
	RoleEditor  Role = "editor"
)

// Point is a cursor position on a slide surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Session is the ephemeral per-connection state. It is published over
// the presence channel and discarded on disconnect, never persisted
// with the document.
type Session struct {
	Name          string       `json:"name"`
	Color         string       `json:"color"`
	Role          Role         `json:"role"`
	Grant         invite.Grant `json:"-"`
	Cursor        *Point       `json:"cursor"`
	ActiveSlideID *string      `json:"activeSlideId"`
}

// Clone returns a copy that shares no pointers with the original, so
// a published session cannot be mutated by its publisher afterwards.
func (s Session) Clone() Session {
	cloned := s
	if s.Cursor != nil {
		cursor := *s.Cursor
		cloned.Cursor = &cursor
	}
	if s.ActiveSlideID != nil {
		active := *s.ActiveSlideID
		cloned.ActiveSlideID = &active
	}
	if s.Grant.Slides != nil {
		slides := make(map[string]struct{}, len(s.Grant.Slides))
		for id := range s.Grant.Slides {
			slides[id] = struct{}{}
		}
		cloned.Grant.Slides = slides
	}
	return cloned
}
