package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an untouched cart survives. Every save refreshes
// the clock, so only abandoned carts expire.
const DefaultTTL = 2 * time.Hour

// Store keeps one cart per table number in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(tableNumber string) string {
	return fmt.Sprintf("cart:%s", tableNumber)
}

// Get loads the cart for a table. A missing or expired key yields a fresh
// empty cart, never an error.
func (s *Store) Get(ctx context.Context, tableNumber string) (*Cart, error) {
	data, err := s.client.Get(ctx, s.key(tableNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(tableNumber), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	c := &Cart{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

// Save persists the cart and refreshes its TTL.
func (s *Store) Save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(c.TableNumber), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// TableNumbers lists the table numbers that currently have a stored cart.
func (s *Store) TableNumbers(ctx context.Context) ([]string, error) {
	var tables []string
	iter := s.client.Scan(ctx, 0, "cart:*", 100).Iterator()
	for iter.Next(ctx) {
		tables = append(tables, strings.TrimPrefix(iter.Val(), "cart:"))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan carts: %w", err)
	}
	return tables, nil
}

// Clear drops the table's cart. Called after a submission commits.
func (s *Store) Clear(ctx context.Context, tableNumber string) error {
	if err := s.client.Del(ctx, s.key(tableNumber)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
