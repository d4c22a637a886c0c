package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rbhz/ankigen/app/deck"

	"github.com/go-redis/redis/v8"
)

const prefixCard = "card:"

// RedisStorage implements card cache for Redis
type RedisStorage struct {
	db *redis.Client
}

// Get cached card from redis
func (s *RedisStorage) Get(key string) (deck.Card, error) {
	data, err := s.db.Get(context.Background(), prefixCard+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return deck.Card{}, ErrNotFound
		}
		return deck.Card{}, fmt.Errorf("fetching card: %w", err)
	}
	var card deck.Card
	if jerr := json.Unmarshal([]byte(data), &card); jerr != nil {
		return card, fmt.Errorf("unmarshal card: %w", jerr)
	}
	return card, nil
}

// Save card to redis
func (s *RedisStorage) Save(key string, card deck.Card) error {
	jdata, jerr := json.Marshal(card)
	if jerr != nil {
		return fmt.Errorf("marshal card: %w", jerr)
	}
	_, err := s.db.Set(context.Background(), prefixCard+key, string(jdata), 0).Result()
	if err != nil {
		return fmt.Errorf("saving card: %w", err)
	}
	return nil
}

// NewRedisStorage creates RedisStorage connected to the given URL
func NewRedisStorage(url string) (*RedisStorage, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(options)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStorage{db: client}, nil
}
