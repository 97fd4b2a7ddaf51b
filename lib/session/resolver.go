package session

import (
	"github.com/slidedeck/slidedeck-go/lib/invite"
	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
	"github.com/slidedeck/slidedeck-go/lib/store"
	"github.com/slidedeck/slidedeck-go/lib/utils"
	"go.uber.org/zap"
)

// Resolver turns a join request into a resolved session: the grant
// comes from the invite token, the role from racing the deck's
// ownership claim. The winner becomes the owner and an owner's grant
// is always unrestricted, whatever the token said.
type Resolver struct {
	store  store.Substrate
	logger *zap.SugaredLogger
}

func NewResolver(substrate store.Substrate, logger *zap.SugaredLogger) Resolver {
	return Resolver{
		store:  substrate,
		logger: logger,
	}
}

func (r Resolver) Resolve(deckID string, connectionID string, name string, token string) (session2.Session, error) {
	sess := session2.Session{
		Name:  name,
		Color: utils.PickColor(name),
		Role:  session2.RoleUnknown,
		Grant: invite.Decode(token),
	}

	won, err := r.store.ClaimOwner(deckID, connectionID)
	if err != nil {
		// Unresolved sessions stay maximally restricted until the
		// substrate recovers.
		return sess, err
	}

	if won {
		sess.Role = session2.RoleOwner
		sess.Grant = invite.GrantAll()
		r.logger.Infow("connection claimed deck ownership", "deckId", deckID, "connectionId", connectionID)
	} else {
		sess.Role = session2.RoleEditor
	}

	return sess, nil
}
