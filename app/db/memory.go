package db

import (
	"sync"

	"github.com/rbhz/ankigen/app/deck"
)

// InMemoryStorage implements card cache in process memory, used in tests
type InMemoryStorage struct {
	cards map[string]deck.Card
	mx    sync.RWMutex
}

func (s *InMemoryStorage) Get(key string) (deck.Card, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	card, ok := s.cards[key]
	if !ok {
		return deck.Card{}, ErrNotFound
	}
	return card, nil
}

func (s *InMemoryStorage) Save(key string, card deck.Card) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.cards[key] = card
	return nil
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{cards: make(map[string]deck.Card)}
}
