package invite

import (
	"encoding/base64"
	"sort"
	"strings"
)

// Grant is the set of slides a connection may mutate: either every
// slide ("all") or an explicit id set. The zero value is the most
// restrictive grant (an empty explicit set).
type Grant struct {
	All    bool
	Slides map[string]struct{}
}

func GrantAll() Grant {
	return Grant{All: true}
}

func GrantSlides(slideIDs ...string) Grant {
	slides := make(map[string]struct{}, len(slideIDs))
	for _, id := range slideIDs {
		slides[id] = struct{}{}
	}
	return Grant{Slides: slides}
}

// Contains reports whether the grant covers the given slide id. A
// grant never contains ids on its own authority when the role is
// owner; callers combine it with the role check.
func (g Grant) Contains(slideID string) bool {
	if g.All {
		return true
	}
	_, ok := g.Slides[slideID]
	return ok
}

func (g Grant) SlideIDs() []string {
	ids := make([]string, 0, len(g.Slides))
	for id := range g.Slides {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

const (
	allToken = "all"

	// emptyToken marks a grant covering no slides. It cannot collide
	// with a slide id (ids are base36) and keeps the encoded form
	// non-empty, since an empty token already means "all".
	emptyToken = "-"
)

// Encode turns a grant into a transport-safe token: the literal "all",
// the empty-set marker, or the comma-joined slide ids, base64-encoded
// for URL embedding.
func Encode(g Grant) string {
	if g.All {
		return base64.StdEncoding.EncodeToString([]byte(allToken))
	}
	if len(g.Slides) == 0 {
		return base64.StdEncoding.EncodeToString([]byte(emptyToken))
	}
	joined := strings.Join(g.SlideIDs(), ",")
	return base64.StdEncoding.EncodeToString([]byte(joined))
}

// Decode is the inverse of Encode and must never fail: an empty token
// or the literal "all" means an unrestricted grant, and a malformed
// token falls back to the most restrictive grant.
func Decode(token string) Grant {
	if token == "" || token == allToken {
		return GrantAll()
	}

	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return GrantSlides()
	}

	payload := string(decoded)
	switch payload {
	case allToken:
		return GrantAll()
	case emptyToken:
		return GrantSlides()
	}

	return GrantSlides(strings.Split(payload, ",")...)
}
