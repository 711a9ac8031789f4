package service

// Тесты сервисного слоя iso-board.
//
// Хранилище — memory.Storage (все контракты storage в памяти процесса),
// внешние коллабораторы (генератор, изображения, кэш сводок) — gomock-моки из /mocks.
// Время фиксировано через SetClock, поэтому сроки объявлений и токенов детерминированы.
//
//   go test ./internal/service -v -race -count=1

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage/memory"
)

// testNow — «текущее время» всех тестов пакета.
var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Images: config.ImagesConfig{
			MaxSizeBytes:        1 << 20,
			AllowedContentTypes: []string{"image/jpeg", "image/png"},
			Placeholder:         "https://placehold.co/600x400?text=No+Image",
		},
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			AccessTokenTTL: time.Hour,
			Issuer:         "iso-board",
			Audience:       []string{"iso-board"},
		},
		AI: config.AIConfig{
			Timeout:         time.Second,
			InsightsTTL:     time.Hour,
			DefaultCategory: "Collectibles",
		},
		Listings: config.ListingsConfig{
			DefaultDuration:    30,
			PinTrustAbove:      85,
			VerifiedTrustAbove: 80,
			DefaultTrust:       50,
		},
	}
}

// clock — управляемые часы для сервиса и хранилища.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestService — сервис поверх memory-хранилища с фиксированными часами.
func newTestService(t *testing.T) (*Service, *memory.Storage, *clock) {
	t.Helper()

	cfg := testConfig()
	st := memory.New(cfg.Images)
	clk := &clock{t: testNow}
	st.SetClock(clk.now)

	s := New(Stores{
		Listings: st,
		Users:    st,
		Threads:  st,
		Images:   st,
		Sessions: st,
		Drafts:   st,
	}, cfg)
	s.SetClock(clk.now)

	return s, st, clk
}

// seedUser сохраняет пользователя напрямую, минуя bcrypt.
func seedUser(t *testing.T, st *memory.Storage, name string, trust int) *models.User {
	t.Helper()

	id := uuid.New()
	u := &models.User{
		ID:         id,
		Email:      name + "@example.com",
		Name:       name,
		Avatar:     "https://i.pravatar.cc/150?u=" + id.String(),
		Role:       models.RoleMember,
		TrustScore: trust,
		Socials:    map[string]models.Social{},
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
	require.NoError(t, st.SaveUser(context.Background(), u))

	return u
}

// seedListing публикует объявление через сервис.
func seedListing(t *testing.T, s *Service, owner *models.User, name string, topOffer int64) *models.Listing {
	t.Helper()

	l, err := s.CreateListing(context.Background(), owner, CreateListingInput{
		Name:     name,
		Category: "Sneakers",
		Details:  "size 10",
		TopOffer: topOffer,
	})
	require.NoError(t, err)

	return l
}

// validProposal — предложение, проходящее все проверки содержимого.
func validProposal(price int64) ProposalInput {
	return ProposalInput{
		OfferPrice: price,
		Message:    "I have it, mint condition",
		Compliance: Compliance{Possession: true, OffPlatform: true, Identity: true},
		Condition:  "DS",
	}
}

func TestStripedLock_SameStripeNoDeadlock(t *testing.T) {
	var l stripedLock
	id := uuid.New()

	// Повтор ключа и разные ключи одной полосы берутся один раз.
	unlock := l.lock(id, id)
	unlock()

	done := make(chan struct{})
	go func() {
		u := l.lock(id)
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock was not released")
	}
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := newBroker()
	owner := uuid.New()

	ch, cancel := b.subscribe(owner)
	defer cancel()

	for range 32 {
		b.publish(models.ThreadEvent{OwnerID: owner, ThreadID: uuid.New()})
	}

	require.Len(t, ch, 16)

	cancel()
	cancel()

	n := 0
	for range ch {
		n++
	}
	require.Equal(t, 16, n)
}
