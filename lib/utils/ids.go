package utils

import (
	"crypto/rand"
	"math/big"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ShortID returns a random base36 string of the given length, clamped
// to [2,11]. Short ids only need to be unique within their container
// (slides within a deck, widgets within a slide).
func ShortID(length int) string {
	if length < 2 {
		length = 2
	}
	if length > 11 {
		length = 11
	}

	max := big.NewInt(int64(len(base36Alphabet)))
	id := make([]byte, length)
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; a zeroed index still yields a valid id.
			n = big.NewInt(0)
		}
		id[i] = base36Alphabet[n.Int64()]
	}
	return string(id)
}

func NewDeckID() string {
	return ShortID(6)
}

func NewSlideID() string {
	return ShortID(4)
}

func NewWidgetID() string {
	return ShortID(5)
}
