// Package analytics computes the admin console's rolling service summary:
// order volume by status, completed revenue, and the best-selling items over
// the last day.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tableside/internal/caching"
	"tableside/internal/repositories"
)

const (
	summaryWindow = 24 * time.Hour
	summaryTTL    = 10 * time.Minute
	topItemLimit  = 5
)

type Service struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	cacheSvc      caching.CacheService
}

func NewService(orderRepo repositories.OrderRepository, orderItemRepo repositories.OrderItemRepository,
	cacheSvc caching.CacheService) *Service {
	return &Service{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cacheSvc:      cacheSvc,
	}
}

// Summary returns the cached rolling summary, computing and caching it on a
// miss.
func (s *Service) Summary(ctx context.Context) (map[string]interface{}, error) {
	summary, err := s.cacheSvc.GetAnalyticsSummary(ctx)
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, caching.ErrCacheMiss) {
		log.Printf("analytics cache read failed, recomputing: %v", err)
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the summary from the database and replaces the cached
// copy.
func (s *Service) Refresh(ctx context.Context) (map[string]interface{}, error) {
	since := time.Now().Add(-summaryWindow)

	statusCounts, err := s.orderRepo.CountByStatusSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	revenue, err := s.orderRepo.CompletedRevenueSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("sum completed revenue: %w", err)
	}
	topItems, err := s.orderItemRepo.TopItemsSince(ctx, since, topItemLimit)
	if err != nil {
		return nil, fmt.Errorf("rank top items: %w", err)
	}

	var totalOrders int
	for _, n := range statusCounts {
		totalOrders += n
	}

	summary := map[string]interface{}{
		"window_hours":      int(summaryWindow.Hours()),
		"total_orders":      totalOrders,
		"orders_by_status":  statusCounts,
		"completed_revenue": revenue,
		"top_items":         topItems,
		"refreshed_at":      time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.cacheSvc.SetAnalyticsSummary(ctx, summary, summaryTTL); err != nil {
		log.Printf("analytics cache write failed: %v", err)
	}
	return summary, nil
}
