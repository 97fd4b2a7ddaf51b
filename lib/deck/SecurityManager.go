package deck

import (
	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
)

// SecurityManager derives edit rights from a connection's session.
// All checks are pure functions of the session value: no store reads,
// no side effects. An unresolved role counts as non-owner, so a
// session is governed solely by its grant until the claim race ends.
type SecurityManager struct{}

func NewSecurityManager() SecurityManager {
	return SecurityManager{}
}

// CanEditSlide reports whether the session may mutate widgets on the
// given slide. Owners may edit everything, including slides that do
// not exist yet.
func (s SecurityManager) CanEditSlide(sess session2.Session, slideID string) bool {
	if sess.Role == session2.RoleOwner {
		return true
	}
	return sess.Grant.Contains(slideID)
}

// CanEditDeck gates structural operations (adding and deleting
// slides); only the owner may perform them.
func (s SecurityManager) CanEditDeck(sess session2.Session) bool {
	return sess.Role == session2.RoleOwner
}

func (s SecurityManager) CanInvite(sess session2.Session) bool {
	return s.CanEditDeck(sess)
}
