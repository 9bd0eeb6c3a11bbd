package permission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Snapshot is the cached effective-permission view for one admin.
type Snapshot struct {
	UserID      uint            `json:"user_id"`
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions"`
	Active      bool            `json:"active"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	AllowedIPs  []string        `json:"allowed_ips,omitempty"`
}

// Cache stores permission snapshots in Redis, keyed by user ID and by
// client IP. The rules engine does not own this cache; role-mutation
// services call Invalidate as a contract obligation after every
// create/update/delete of an AdminRole.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCache constructs a permission cache with the given snapshot TTL.
func NewCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "permission_cache").Logger(),
	}
}

func userKey(userID uint) string {
	return fmt.Sprintf("perm:user:%d", userID)
}

func ipKey(ip string) string {
	return fmt.Sprintf("perm:ip:%s", strings.TrimSpace(ip))
}

// Get returns the cached snapshot for a user, or nil on a miss.
func (c *Cache) Get(ctx context.Context, userID uint) (*Snapshot, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, userKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		c.logger.Warn().Err(err).Uint("user_id", userID).Msg("discarding corrupt permission snapshot")
		_ = c.client.Del(ctx, userKey(userID)).Err()
		return nil, nil
	}

	return &snapshot, nil
}

// Set stores a snapshot under the user key and under each allowed IP key.
func (c *Cache) Set(ctx context.Context, snapshot Snapshot) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, userKey(snapshot.UserID), payload, c.ttl).Err(); err != nil {
		return err
	}
	for _, ip := range snapshot.AllowedIPs {
		if strings.TrimSpace(ip) == "" {
			continue
		}
		if err := c.client.Set(ctx, ipKey(ip), payload, c.ttl).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Invalidate removes the user's snapshot and any IP-keyed copies. Cache
// eviction is best-effort: failures are logged and reported but callers
// must not fail the triggering mutation because of them.
func (c *Cache) Invalidate(ctx context.Context, userID uint, ips []string) error {
	if c == nil || c.client == nil {
		return nil
	}

	keys := make([]string, 0, len(ips)+1)
	keys = append(keys, userKey(userID))
	for _, ip := range ips {
		if strings.TrimSpace(ip) == "" {
			continue
		}
		keys = append(keys, ipKey(ip))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate permission cache")
		return err
	}

	return nil
}
