// cache — Redis-реализация storage.Sessions и storage.InsightCache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

type Redis struct {
	rdb    *redis.Client
	prefix string
}

// New создаёт клиент из URL (например, redis://:pass@host:6379/0).
// Пустой prefix -> "iso:".
func New(ctx context.Context, redisURL, prefix string) (*Redis, error) {
	if prefix == "" {
		prefix = "iso:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}

	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (c *Redis) revokedKey(jti string) string { return c.prefix + "revoked:" + jti }
func (c *Redis) insightKey(key string) string { return c.prefix + "insight:" + key }

// Revoke помечает jti отозванным до истечения срока токена.
func (c *Redis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	return c.rdb.Set(ctx, c.revokedKey(jti), "1", ttl).Err()
}

func (c *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Сводка хранится как Redis Hash: text, unavail (0/1), sources (JSON).
func (c *Redis) Insight(ctx context.Context, key string) (*models.MarketInsight, bool, error) {
	m, err := c.rdb.HGetAll(ctx, c.insightKey(key)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	in := &models.MarketInsight{
		Text:        m["text"],
		Unavailable: m["unavail"] == "1",
	}

	if raw := m["sources"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Sources); err != nil {
			return nil, false, fmt.Errorf("cache: decode sources: %w", err)
		}
	}

	return in, true, nil
}

func (c *Redis) SetInsight(ctx context.Context, key string, in *models.MarketInsight, ttl time.Duration) error {
	sources, err := json.Marshal(in.Sources)
	if err != nil {
		return fmt.Errorf("cache: encode sources: %w", err)
	}

	kv := map[string]string{
		"text":    in.Text,
		"unavail": boolTo01(in.Unavailable),
		"sources": string(sources),
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.insightKey(key), kv)
	pipe.Expire(ctx, c.insightKey(key), ttl)

	_, err = pipe.Exec(ctx)
	return err
}

// Ping — проверка готовности для /healthz.
func (c *Redis) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *Redis) Close() error { return c.rdb.Close() }

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}

var (
	_ storage.Sessions     = (*Redis)(nil)
	_ storage.InsightCache = (*Redis)(nil)
)
