package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mesa-reserve/internal/domain/schedule"
	"mesa-reserve/internal/pkg/errs"
	"mesa-reserve/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlotCache keeps the computed open-slot list for one table and date. Entries
// are invalidated on every write touching the table, so a short TTL is only a
// safety net.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

func slotKey(tableID uuid.UUID, date schedule.Date) string {
	return fmt.Sprintf("slots:%s:%s", tableID, date)
}

// Get returns the cached slots, or (nil, false, nil) on a miss. Cache errors
// are returned so callers can log and fall through to the source.
func (c *SlotCache) Get(ctx context.Context, tableID uuid.UUID, date schedule.Date) ([]queries.OpenSlot, bool, error) {
	raw, err := c.client.Get(ctx, slotKey(tableID, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(err, "failed to read slot cache")
	}

	var slots []queries.OpenSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false, errs.Wrap(err, "malformed slot cache entry")
	}
	return slots, true, nil
}

func (c *SlotCache) Set(ctx context.Context, tableID uuid.UUID, date schedule.Date, slots []queries.OpenSlot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return errs.Wrap(err, "failed to encode slot cache entry")
	}
	if err := c.client.Set(ctx, slotKey(tableID, date), raw, c.ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to write slot cache")
	}
	return nil
}

func (c *SlotCache) Invalidate(ctx context.Context, tableID uuid.UUID, date schedule.Date) error {
	if err := c.client.Del(ctx, slotKey(tableID, date)).Err(); err != nil {
		return errs.Wrap(err, "failed to invalidate slot cache")
	}
	return nil
}

// InvalidateTable drops every cached date of one table. Used when the whole
// calendar changes, such as a maintenance batch.
func (c *SlotCache) InvalidateTable(ctx context.Context, tableID uuid.UUID) error {
	pattern := fmt.Sprintf("slots:%s:*", tableID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errs.Wrap(err, "failed to invalidate slot cache")
		}
	}
	if err := iter.Err(); err != nil {
		return errs.Wrap(err, "failed to scan slot cache keys")
	}
	return nil
}
