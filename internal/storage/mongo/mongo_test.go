package mongo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

const testTimeout = 10 * time.Second

// TestMain поднимает MongoDB один раз на пакет; адрес уходит в MONGO_URL.
// Каждый тест работает в собственной БД (см. mustNewMongo).
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("MONGO_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

func mustNewMongo(t *testing.T) *Mongo {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	base := strings.TrimSuffix(os.Getenv("MONGO_URL"), "/")
	dbName := "threads_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, config.MongoConfig{URL: base + "/" + dbName})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

func newThread(owner, counterparty uuid.UUID, listingID string) *models.Thread {
	now := time.Now().UTC().Truncate(time.Millisecond)
	t := &models.Thread{
		ID:          uuid.New(),
		OwnerID:     owner,
		ListingID:   listingID,
		Item:        "Rolex Submariner",
		Participant: models.Participant{ID: counterparty, Name: "Seller", Role: models.RoleFinder, TrustScore: 60},
		Status:      models.ThreadActive,
	}
	t.Append(models.Message{ID: uuid.New(), Sender: models.SenderThem, Text: "hi", Time: now})

	return t
}

func TestDatabaseFromURI(t *testing.T) {
	t.Parallel()

	require.Equal(t, "iso", databaseFromURI("mongodb://localhost:27017/iso"))
	require.Equal(t, defaultDBName, databaseFromURI("mongodb://localhost:27017"))
	require.Equal(t, defaultDBName, databaseFromURI("mongodb://localhost:27017/"))
}

func TestNextOrderKey_StrictlyIncreasing(t *testing.T) {
	t.Parallel()

	prev := nextOrderKey()
	for range 1000 {
		k := nextOrderKey()
		require.Greater(t, k, prev)
		prev = k
	}
}

func TestDocRoundTrip_PreservesThread(t *testing.T) {
	t.Parallel()

	th := newThread(uuid.New(), uuid.New(), "01LISTING")
	got, err := fromDoc(toDoc(th, 1))
	require.NoError(t, err)
	require.Equal(t, th.Key(), got.Key())
	require.Equal(t, th.Messages, got.Messages)
	require.Equal(t, 1, got.Unread)

	_, err = fromDoc(threadDoc{ID: "bad"})
	require.Error(t, err)
}

func TestIntegration_SaveAndFind(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	owner, other := uuid.New(), uuid.New()
	th := newThread(owner, other, "01LISTING")
	require.NoError(t, m.SaveThread(ctx, th))

	got, err := m.ThreadByKey(ctx, th.Key())
	require.NoError(t, err)
	require.Equal(t, th.ID, got.ID)
	require.Equal(t, "hi", got.LastMessage)
	require.Len(t, got.Messages, 1)

	got, err = m.ThreadByID(ctx, owner, th.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleFinder, got.Participant.Role)

	// Чужой ящик не видит переписку.
	_, err = m.ThreadByID(ctx, other, th.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Тот же ключ под новым ID — конфликт.
	dup := newThread(owner, other, "01LISTING")
	require.ErrorIs(t, m.SaveThread(ctx, dup), storage.ErrAlreadyExists)

	th.Status = models.ThreadDestroyed
	require.ErrorIs(t, m.SaveThread(ctx, th), storage.ErrInvalidArgument)
}

func TestIntegration_OrderAndStatus(t *testing.T) {
	m := mustNewMongo(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	owner := uuid.New()
	a := newThread(owner, uuid.New(), "01A")
	b := newThread(owner, uuid.New(), "01B")
	require.NoError(t, m.SaveThread(ctx, a))
	require.NoError(t, m.SaveThread(ctx, b))

	list, err := m.ListThreads(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, b.ID, list[0].ID)

	// Повторное сохранение поднимает переписку наверх.
	a.Append(models.Message{ID: uuid.New(), Sender: models.SenderMe, Text: "again", Time: time.Now().UTC()})
	require.NoError(t, m.SaveThread(ctx, a))
	list, err = m.ListThreads(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, a.ID, list[0].ID)

	// Смена статуса и прочтение не меняют порядок.
	require.NoError(t, m.UpdateThreadStatus(ctx, owner, b.ID, models.ThreadArchived))
	require.NoError(t, m.MarkThreadRead(ctx, owner, a.ID))
	list, err = m.ListThreads(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, a.ID, list[0].ID)
	require.Equal(t, 0, list[0].Unread)
	require.Equal(t, models.ThreadArchived, list[1].Status)

	require.ErrorIs(t, m.UpdateThreadStatus(ctx, owner, uuid.New(), models.ThreadArchived), storage.ErrNotFound)
	require.ErrorIs(t, m.UpdateThreadStatus(ctx, owner, a.ID, models.ThreadDestroyed), storage.ErrInvalidArgument)

	require.NoError(t, m.DeleteThread(ctx, owner, a.ID))
	require.ErrorIs(t, m.DeleteThread(ctx, owner, a.ID), storage.ErrNotFound)

	empty, err := m.ListThreads(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, empty)
}
