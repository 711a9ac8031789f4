package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// Интеграционные тесты пакета postgres:
// — поднимают PostgreSQL через testcontainers-go (postgres:16-alpine);
// — применяют migrations/1_init.up.sql;
// — проверяют пользователей (уникальность email/ника без учёта регистра, профиль)
//   и объявления (JOIN владельца, счётчики, комментарии, ставки, искатель, покупка, каскадное удаление).
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — internal/storage/postgres -> корень репозитория.
func repoRootFromThisFile() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

func readMigration(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(repoRootFromThisFile(), "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		ProviderType:     tc.ProviderDocker,
	})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// Порт слушается раньше, чем БД готова принимать запросы.
	var pool *pgxpool.Pool
	require.Eventually(t, func() bool {
		p, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return false
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return false
		}
		pool = p
		return true
	}, 30*time.Second, 500*time.Millisecond)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	return st, func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
}

func newUser(name, email string) *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		Name:         name,
		Role:         models.RoleMember,
		TrustScore:   20,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newListing(id string, owner models.UserRef, created time.Time) *models.Listing {
	return &models.Listing{
		ID:        id,
		Name:      "Rolex Submariner",
		Category:  models.CategoryWatches,
		Details:   "Any year",
		TopOffer:  9000,
		Owner:     owner,
		CreatedAt: created,
		Duration:  30,
	}
}

func TestIntegration_Users(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	u := newUser("Alice", "alice@example.com")
	require.NoError(t, st.SaveUser(ctx, u))

	// email и ник уникальны без учёта регистра.
	dup := newUser("Bob", "ALICE@example.com")
	require.ErrorIs(t, st.SaveUser(ctx, dup), storage.ErrAlreadyExists)
	dup = newUser("alice", "other@example.com")
	require.ErrorIs(t, st.SaveUser(ctx, dup), storage.ErrAlreadyExists)

	got, err := st.UserByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Nil(t, got.Passport)
	require.Empty(t, got.Socials)

	got.Socials = map[string]models.Social{"instagram": {Handle: "@alice", Verified: true}}
	got.TrustScore = models.ComputeTrust(got.Socials)
	got.Passport = &models.Passport{DOB: "1990-01-01", Origin: "LV", Sex: "F"}
	got.Role = models.RoleCollector
	got.Email = "changed@example.com"
	require.NoError(t, st.UpdateUser(ctx, got))

	again, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", again.Email)
	require.Equal(t, 40, again.TrustScore)
	require.Equal(t, models.RoleCollector, again.Role)
	require.True(t, again.Onboarded())
	require.True(t, again.Socials["instagram"].Verified)

	_, err = st.UserByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)

	missing := newUser("Ghost", "ghost@example.com")
	require.ErrorIs(t, st.UpdateUser(ctx, missing), storage.ErrNotFound)
}

func TestIntegration_Listings(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()
	ctx := context.Background()

	owner := newUser("Owner", "owner@example.com")
	require.NoError(t, st.SaveUser(ctx, owner))

	base := time.Now().UTC().Truncate(time.Microsecond)
	older := newListing("01OLDER", owner.Ref(), base.Add(-time.Hour))
	newer := newListing("01NEWER", owner.Ref(), base)
	require.NoError(t, st.CreateListing(ctx, older))
	require.NoError(t, st.CreateListing(ctx, newer))
	require.ErrorIs(t, st.CreateListing(ctx, newer), storage.ErrAlreadyExists)

	list, err := st.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "01NEWER", list[0].ID)

	byOwner, err := st.ListingsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, byOwner, 2)

	// Карточка владельца подтягивается из users.
	owner.TrustScore = 100
	require.NoError(t, st.UpdateUser(ctx, owner))
	got, err := st.ListingByID(ctx, "01NEWER")
	require.NoError(t, err)
	require.Equal(t, 100, got.Owner.TrustScore)

	for i := int64(1); i <= 3; i++ {
		n, err := st.IncrementUpvotes(ctx, "01NEWER")
		require.NoError(t, err)
		require.Equal(t, i, n)
	}

	author := models.UserRef{ID: uuid.New(), Name: "Commenter"}
	for i := 1; i <= 2; i++ {
		n, err := st.AppendComment(ctx, "01NEWER", models.Comment{
			ID: uuid.New(), Author: author, Text: fmt.Sprintf("c%d", i), Timestamp: base,
		})
		require.NoError(t, err)
		require.Equal(t, i, n)
	}

	require.NoError(t, st.UpdateTopOffer(ctx, "01NEWER", 12000))
	require.NoError(t, st.AppendBid(ctx, "01NEWER", models.Bid{
		ID: uuid.New(), Bidder: author, Price: 11000, Condition: "Mint", CreatedAt: base,
	}))
	require.NoError(t, st.SetFinder(ctx, "01NEWER", author))
	require.NoError(t, st.SetAcquired(ctx, "01NEWER", models.Acquisition{Price: 11000, HasBuyback: true, AcquiredAt: base}))

	got, err = st.ListingByID(ctx, "01NEWER")
	require.NoError(t, err)
	require.EqualValues(t, 3, got.Upvotes)
	require.Equal(t, 2, got.Comments)
	require.Len(t, got.CommentsList, 2)
	require.Equal(t, "c1", got.CommentsList[0].Text)
	require.EqualValues(t, 12000, got.TopOffer)
	require.Len(t, got.Bids, 1)
	require.Equal(t, "Mint", got.Bids[0].Condition)
	require.NotNil(t, got.Finder)
	require.Equal(t, author.ID, got.Finder.ID)
	require.NotNil(t, got.Acquired)
	require.True(t, got.Acquired.HasBuyback)

	_, err = st.IncrementUpvotes(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.AppendComment(ctx, "missing", models.Comment{ID: uuid.New(), Author: author, Text: "x", Timestamp: base})
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, st.AppendBid(ctx, "missing", models.Bid{ID: uuid.New(), Bidder: author, Price: 1, CreatedAt: base}), storage.ErrNotFound)
	require.ErrorIs(t, st.UpdateTopOffer(ctx, "missing", 1), storage.ErrNotFound)

	require.NoError(t, st.DeleteListing(ctx, "01NEWER"))
	_, err = st.ListingByID(ctx, "01NEWER")
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, st.DeleteListing(ctx, "01NEWER"), storage.ErrNotFound)
}

func TestIntegration_ContextDeadline(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := st.ListListings(ctx)
	require.Error(t, err)
}
