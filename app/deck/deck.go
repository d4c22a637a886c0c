package deck

import (
	"encoding/base64"
	"math/rand"

	"github.com/google/uuid"
)

// Card holds a single study record: the word pair and one example
// sentence in each language. Missing data is an empty string, never nil.
type Card struct {
	SourceWord    string `json:"source_word"`
	TargetWord    string `json:"target_word"`
	SourceExample string `json:"source_example"`
	TargetExample string `json:"target_example"`
}

// Fields returns the card data in note-field order
func (c Card) Fields() []string {
	return []string{c.SourceWord, c.TargetWord, c.SourceExample, c.TargetExample}
}

// Deck is a named collection of cards destined for a single .apkg file
type Deck struct {
	Name           string
	SourceLanguage string
	TargetLanguage string
	Cards          []Card
}

// Add appends a card to the deck
func (d *Deck) Add(c Card) {
	d.Cards = append(d.Cards, c)
}

// NewDeck creates an empty deck for the given language pair
func NewDeck(name, sourceLanguage, targetLanguage string) *Deck {
	return &Deck{Name: name, SourceLanguage: sourceLanguage, TargetLanguage: targetLanguage}
}

// newID generates a random Anki object ID, same range as genanki uses
func newID() int64 {
	return rand.Int63n(1<<30) + 1
}

// newGUID generates new uuid and encodes it to base64
func newGUID() string {
	id := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(id[:])
}
