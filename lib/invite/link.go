package invite

import (
	"fmt"
	"net/url"
)

const permissibleSlidesParam = "permissibleSlides"

// JoinLink builds the shareable invite URL for a deck.
func JoinLink(baseURL string, deckID string, g Grant) string {
	return link(baseURL, "join", deckID, Encode(g))
}

// DeckLink builds the editor URL a joined connection lands on. The
// owner's own link carries the literal "all" token.
func DeckLink(baseURL string, deckID string, g Grant) string {
	if g.All {
		return link(baseURL, "deck", deckID, allToken)
	}
	return link(baseURL, "deck", deckID, Encode(g))
}

func link(baseURL, prefix, deckID, token string) string {
	return fmt.Sprintf("%s/%s/%s?%s=%s",
		baseURL, prefix, url.PathEscape(deckID),
		permissibleSlidesParam, url.QueryEscape(token))
}
