package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/mocks"
)

func TestAssistant(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Assistant(ctx, nil, " ")
	require.ErrorIs(t, err, ErrInvalidArgument)

	reply, err := s.Assistant(ctx, nil, "is PayPal G&S safe?")
	require.NoError(t, err)
	require.Equal(t, ChatUnavailableText, reply)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gen := mocks.NewMockGenerator(ctrl)
	s.SetGenerator(gen)

	gomock.InOrder(
		gen.EXPECT().Chat(gomock.Any(), gomock.Nil(), "hello").Return("Hi! How can I help?", nil),
		gen.EXPECT().Chat(gomock.Any(), gomock.Nil(), "hello").Return("", nil),
		gen.EXPECT().Chat(gomock.Any(), gomock.Nil(), "hello").Return("", errors.New("boom")),
	)

	reply, err = s.Assistant(ctx, nil, "hello")
	require.NoError(t, err)
	require.Equal(t, "Hi! How can I help?", reply)

	reply, err = s.Assistant(ctx, nil, "hello")
	require.NoError(t, err)
	require.Equal(t, ChatEmptyText, reply)

	reply, err = s.Assistant(ctx, nil, "hello")
	require.NoError(t, err)
	require.Equal(t, ChatFailedText, reply)
}

func TestMarketInsights_Unavailable(t *testing.T) {
	s, _, _ := newTestService(t)

	res, err := s.MarketInsights(context.Background(), "Rolex Submariner")
	require.NoError(t, err)
	require.True(t, res.Unavailable)
	require.Equal(t, InsightUnavailableText, res.Text)

	_, err = s.MarketInsights(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

// Удачная сводка кэшируется по названию без учёта регистра; сбой не кэшируется.
func TestMarketInsights_CachedByItem(t *testing.T) {
	s, st, _ := newTestService(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gen := mocks.NewMockGenerator(ctrl)
	s.SetGenerator(gen)
	s.SetInsightCache(st)

	want := &models.MarketInsight{
		Text:    "Resale sits around $12k.",
		Sources: []models.Source{{Title: "Chrono24", URI: "https://chrono24.com"}},
	}
	gen.EXPECT().MarketInsight(gomock.Any(), "Rolex Submariner").Return(want, nil).Times(1)

	got, err := s.MarketInsights(context.Background(), "Rolex Submariner")
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = s.MarketInsights(context.Background(), "  rolex submariner ")
	require.NoError(t, err)
	require.Equal(t, want.Text, got.Text)
	require.Equal(t, want.Sources, got.Sources)

	gen.EXPECT().MarketInsight(gomock.Any(), "Omega").Return(nil, errors.New("boom")).Times(2)
	for range 2 {
		got, err = s.MarketInsights(context.Background(), "Omega")
		require.NoError(t, err)
		require.True(t, got.Unavailable)
		require.Equal(t, InsightFailedText, got.Text)
	}
}

// Ошибка кэша не ломает сводку.
func TestMarketInsights_CacheFailure(t *testing.T) {
	s, _, _ := newTestService(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gen := mocks.NewMockGenerator(ctrl)
	cache := mocks.NewMockInsightCache(ctrl)
	s.SetGenerator(gen)
	s.SetInsightCache(cache)

	want := &models.MarketInsight{Text: "Prices are flat."}
	cache.EXPECT().Insight(gomock.Any(), "kaws").Return(nil, false, errors.New("redis down"))
	gen.EXPECT().MarketInsight(gomock.Any(), "Kaws").Return(want, nil)
	cache.EXPECT().SetInsight(gomock.Any(), "kaws", want, time.Hour).Return(errors.New("redis down"))

	got, err := s.MarketInsights(context.Background(), "Kaws")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestListingInsights(t *testing.T) {
	s, st, _ := newTestService(t)
	owner := seedUser(t, st, "owner", 40)
	l := seedListing(t, s, owner, "Omega Speedmaster", 4000)

	res, err := s.ListingInsights(context.Background(), l.ID)
	require.NoError(t, err)
	require.True(t, res.Unavailable)

	_, err = s.ListingInsights(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
