package db

import (
	"errors"

	"github.com/rbhz/ankigen/app/deck"
)

// ErrNotFound is returned when object not found
var ErrNotFound error = errors.New("not found")

// Storage defines methods provided by card cache backends. Keys encode
// the generation settings so runs with different languages or modes
// never share entries.
type Storage interface {
	// Get returns cached card by key
	Get(key string) (deck.Card, error)
	// Save stores card under key
	Save(key string, card deck.Card) error
}
