package db

import (
	"encoding/json"
	"fmt"

	"github.com/rbhz/ankigen/app/deck"

	bolt "go.etcd.io/bbolt"
)

const bucketCards = "Cards"

// BoltStorage implements card cache for BoltDB
type BoltStorage struct {
	db *bolt.DB
}

// Get cached card from database
func (b *BoltStorage) Get(key string) (deck.Card, error) {
	var card deck.Card
	found := false
	if err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketCards)).Get([]byte(key))
		if len(jdata) == 0 {
			return nil
		}
		if err := json.Unmarshal(jdata, &card); err != nil {
			return fmt.Errorf("failed to unmarshal card: %w", err)
		}
		found = true
		return nil
	}); err != nil {
		return deck.Card{}, err
	}
	if !found {
		return deck.Card{}, ErrNotFound
	}
	return card, nil
}

// Save card to database
func (b *BoltStorage) Save(key string, card deck.Card) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, err := json.Marshal(card)
		if err != nil {
			return fmt.Errorf("failed to marshal card: %w", err)
		}
		if err := tx.Bucket([]byte(bucketCards)).Put([]byte(key), jdata); err != nil {
			return fmt.Errorf("failed to put card: %w", err)
		}
		return nil
	})
}

// NewBoltStorage creates BoltStorage instance and initializes buckets
func NewBoltStorage(db *bolt.DB) (*BoltStorage, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCards))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltStorage{db: db}, nil
}
