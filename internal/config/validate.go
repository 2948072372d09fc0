package config

import (
	"fmt"
	"strings"

	"github.com/merchkit/downloads-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Search.CacheTTL <= 0 {
		return fmt.Errorf("search.cache_ttl must be > 0 (got %v)", c.Search.CacheTTL)
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be > 0 (got %d)", c.Search.Limit)
	}

	if _, err := ParseStatusList(c.Search.PrivilegedStatusesRaw); err != nil {
		return fmt.Errorf("search.privileged_statuses: %w", err)
	}
	if _, err := ParseStatusList(c.Search.PublicStatusesRaw); err != nil {
		return fmt.Errorf("search.public_statuses: %w", err)
	}

	return nil
}

// PrivilegedStatuses returns the parsed privileged status list.
// Only valid after Validate has succeeded.
func (c *SearchConfig) PrivilegedStatuses() []domain.Status {
	statuses, _ := ParseStatusList(c.PrivilegedStatusesRaw)
	return statuses
}

// PublicStatuses returns the parsed public status list.
// Only valid after Validate has succeeded.
func (c *SearchConfig) PublicStatuses() []domain.Status {
	statuses, _ := ParseStatusList(c.PublicStatusesRaw)
	return statuses
}

// ParseStatusList parses a comma-separated list of product statuses
// (e.g. "published,draft"). An empty string returns a nil slice.
func ParseStatusList(raw string) ([]domain.Status, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	statuses := make([]domain.Status, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		status, ok := domain.ParseStatus(p)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", p)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}
