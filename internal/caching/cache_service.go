package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tableside/internal/models"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const (
	availableMenuKey = "menu:available"
	analyticsKey     = "analytics:summary"
)

type CacheService interface {
	// Available-menu caching for the customer order-entry surface.
	GetAvailableMenu(ctx context.Context) ([]*models.MenuCategory, error)
	SetAvailableMenu(ctx context.Context, categories []*models.MenuCategory, ttl time.Duration) error
	InvalidateMenu(ctx context.Context) error

	// Analytics summary caching for the admin console.
	GetAnalyticsSummary(ctx context.Context) (map[string]interface{}, error)
	SetAnalyticsSummary(ctx context.Context, summary map[string]interface{}, ttl time.Duration) error

	// Generic string operations.
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService wraps a shared Redis client; the same client also
// backs cart sessions and the change-notification bus.
func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (s *redisCacheService) GetAvailableMenu(ctx context.Context) ([]*models.MenuCategory, error) {
	data, err := s.client.Get(ctx, availableMenuKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get menu cache: %w", err)
	}
	var categories []*models.MenuCategory
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("decode menu cache: %w", err)
	}
	return categories, nil
}

func (s *redisCacheService) SetAvailableMenu(ctx context.Context, categories []*models.MenuCategory, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("encode menu cache: %w", err)
	}
	return s.client.Set(ctx, availableMenuKey, data, ttl).Err()
}

func (s *redisCacheService) InvalidateMenu(ctx context.Context) error {
	return s.client.Del(ctx, availableMenuKey).Err()
}

func (s *redisCacheService) GetAnalyticsSummary(ctx context.Context) (map[string]interface{}, error) {
	data, err := s.client.Get(ctx, analyticsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get analytics cache: %w", err)
	}
	var summary map[string]interface{}
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode analytics cache: %w", err)
	}
	return summary, nil
}

func (s *redisCacheService) SetAnalyticsSummary(ctx context.Context, summary map[string]interface{}, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode analytics cache: %w", err)
	}
	return s.client.Set(ctx, analyticsKey, data, ttl).Err()
}

func (s *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return value, err
}

func (s *redisCacheService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
