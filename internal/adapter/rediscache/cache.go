// Package rediscache implements the short-lived search state cache on Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/merchkit/downloads-backend/internal/config"
	"github.com/merchkit/downloads-backend/internal/domain"
)

// stateKey is the fixed key holding the most recent search. One key is
// enough: the widget only ever needs to short-circuit the immediately
// repeated query, and the TTL bounds staleness.
const stateKey = "downloads:search:state"

// NewClient creates a Redis client from configuration and pings it for
// fail-fast validation.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// SearchStateCache stores the last search text and its results under a fixed
// key with a TTL. Concurrent writers race last-writer-wins, which is
// acceptable at this TTL.
type SearchStateCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New creates the cache. ttl must be positive; the handler treats everything
// here as best-effort.
func New(client redis.Cmdable, ttl time.Duration) *SearchStateCache {
	return &SearchStateCache{client: client, ttl: ttl}
}

// Get returns the cached state. A missing or expired key yields the zero
// state with no error; backend and decode failures are returned for the
// caller to log and treat as a miss.
func (c *SearchStateCache) Get(ctx context.Context) (domain.SearchState, error) {
	payload, err := c.client.Get(ctx, stateKey).Bytes()
	if err == redis.Nil {
		return domain.EmptySearchState(), nil
	}
	if err != nil {
		return domain.EmptySearchState(), fmt.Errorf("get search state: %w", err)
	}

	var state domain.SearchState
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.EmptySearchState(), fmt.Errorf("decode search state: %w", err)
	}
	if state.Results == nil {
		state.Results = []domain.ResultItem{}
	}

	return state, nil
}

// Set overwrites the cached state with the configured TTL.
func (c *SearchStateCache) Set(ctx context.Context, state domain.SearchState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode search state: %w", err)
	}

	if err := c.client.Set(ctx, stateKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set search state: %w", err)
	}

	return nil
}
