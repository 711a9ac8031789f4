package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-iso-board/internal/models"
)

// Интеграционные тесты Redis-кэша (redis:7-alpine через testcontainers-go).
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/cache -v -race -count=1

func startRedis(t *testing.T) *Redis {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")

	r, err := New(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r
}

func TestNew_BadURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "://nope", "")
	require.Error(t, err)
}

func TestIntegration_Sessions(t *testing.T) {
	r := startRedis(t)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	ttl, err := r.rdb.TTL(ctx, r.revokedKey("jti-1")).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	// Уже истёкший токен не записывается.
	require.NoError(t, r.Revoke(ctx, "jti-2", 0))
	revoked, err = r.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestIntegration_Insights(t *testing.T) {
	r := startRedis(t)
	ctx := context.Background()

	_, ok, err := r.Insight(ctx, "rolex")
	require.NoError(t, err)
	require.False(t, ok)

	in := &models.MarketInsight{
		Text:    "Prices are stable.",
		Sources: []models.Source{{Title: "Chrono24", URI: "https://chrono24.com"}},
	}
	require.NoError(t, r.SetInsight(ctx, "rolex", in, time.Minute))

	got, ok, err := r.Insight(ctx, "rolex")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in.Text, got.Text)
	require.Equal(t, in.Sources, got.Sources)
	require.False(t, got.Unavailable)

	require.NoError(t, r.SetInsight(ctx, "short", &models.MarketInsight{Text: "x"}, 50*time.Millisecond))
	require.Eventually(t, func() bool {
		_, ok, err := r.Insight(ctx, "short")
		return err == nil && !ok
	}, 5*time.Second, 50*time.Millisecond)
}
