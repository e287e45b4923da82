// Package events carries row-level change notifications between the API and
// connected kitchen screens. Events are a poke to re-fetch, never ground
// truth; the authoritative state is always what the next fetch returns.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChannelOrders receives an event for every order insert and status update.
const ChannelOrders = "orders"

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
)

// Event describes one change to a record collection.
type Event struct {
	Channel string    `json:"channel"`
	Action  string    `json:"action"`
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}

// Bus fans change notifications out to subscribers. Publishing is best-effort:
// a lost event costs one redundant fetch at worst, because subscribers also
// re-fetch on mount and on manual refresh.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, channel string) (<-chan Event, func())
}

type redisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) Bus {
	return &redisBus{client: client}
}

func (b *redisBus) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, event.Channel, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe opens a channel of decoded events. The returned cancel function
// closes the underlying subscription and, eventually, the channel.
func (b *redisBus) Subscribe(ctx context.Context, channel string) (<-chan Event, func()) {
	pubsub := b.client.Subscribe(ctx, channel)
	out := make(chan Event, 16)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("events: dropping undecodable payload on %s: %v", channel, err)
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			log.Printf("events: closing subscription on %s: %v", channel, err)
		}
	}
	return out, cancel
}
