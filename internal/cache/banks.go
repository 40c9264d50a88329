package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

const banksKey = "bankdesk:banks:all"

type cachedBank struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ManagerID *uuid.UUID `json:"managerId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// BankCache holds the full bank list in Redis as one JSON value.
type BankCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBankCache(client *redis.Client, ttl time.Duration) *BankCache {
	return &BankCache{client: client, ttl: ttl}
}

// Get reports ok=false on a cache miss.
func (c *BankCache) Get(ctx context.Context) ([]domain.Bank, bool, error) {
	raw, err := c.client.Get(ctx, banksKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("BankCache.Get: %w", err)
	}

	var cached []cachedBank
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("BankCache.Get: decode: %w", err)
	}

	banks := make([]domain.Bank, len(cached))
	for i, b := range cached {
		banks[i] = domain.Bank{ID: b.ID, Name: b.Name, ManagerID: b.ManagerID, CreatedAt: b.CreatedAt}
	}
	return banks, true, nil
}

func (c *BankCache) Set(ctx context.Context, banks []domain.Bank) error {
	cached := make([]cachedBank, len(banks))
	for i, b := range banks {
		cached[i] = cachedBank{ID: b.ID, Name: b.Name, ManagerID: b.ManagerID, CreatedAt: b.CreatedAt}
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("BankCache.Set: encode: %w", err)
	}
	if err := c.client.Set(ctx, banksKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("BankCache.Set: %w", err)
	}
	return nil
}

func (c *BankCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, banksKey).Err(); err != nil {
		return fmt.Errorf("BankCache.Invalidate: %w", err)
	}
	return nil
}
