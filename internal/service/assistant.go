package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
	"github.com/pribylovaa/go-iso-board/internal/pkg/redact"
)

//go:generate mockgen -source=assistant.go -destination=../../mocks/mock_generator.go -package=mocks

// Generator — генеративная модель: свободный чат, рыночная сводка и извлечение черновика.
type Generator interface {
	Chat(ctx context.Context, history []models.ChatTurn, text string) (string, error)
	MarketInsight(ctx context.Context, item string) (*models.MarketInsight, error)
	ExtractDraft(ctx context.Context, history []models.ChatTurn, text string, image *models.ChatImage) (*models.DraftReply, error)
}

// Тексты, которые пользователь видит вместо ответа модели.
const (
	ChatUnavailableText    = "AI services are currently unavailable (Missing API Key)."
	ChatFailedText         = "I'm having trouble connecting right now."
	ChatEmptyText          = "I'm sorry, I couldn't process that."
	InsightUnavailableText = "Market insights unavailable (Missing API Key)."
	InsightFailedText      = "Unable to fetch market insights at this time."
	InsightEmptyText       = "Market insights unavailable."
	DraftFailedText        = "Sorry, I ran into an error. Please try manual entry."
	DraftEmptyText         = "I didn't catch that. Could you repeat?"
	DraftMissingNameText   = "What is the exact name of the item you are looking for?"
)

// Исходы AI-вызовов для метрик.
const (
	aiOK          = "ok"
	aiError       = "error"
	aiTimeout     = "timeout"
	aiUnavailable = "unavailable"
	aiCached      = "cached"
	aiStale       = "stale"
)

// Assistant отвечает на свободный вопрос. Сбой модели не ошибка: возвращается пометка.
func (s *Service) Assistant(ctx context.Context, history []models.ChatTurn, text string) (string, error) {
	const op = "service/assistant/Assistant"

	lg := log.From(ctx).With("op", op)

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	lg.Debug("chat request", "text", redact.Text(text, 64), "history", len(history))

	if s.gen == nil {
		s.metrics.AICall("chat", aiUnavailable)
		return ChatUnavailableText, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.AI.Timeout)
	defer cancel()

	reply, err := s.gen.Chat(callCtx, history, text)
	if err != nil {
		s.metrics.AICall("chat", aiOutcome(err))
		lg.Error("chat call failed", "err", err)
		return ChatFailedText, nil
	}

	s.metrics.AICall("chat", aiOK)

	if strings.TrimSpace(reply) == "" {
		return ChatEmptyText, nil
	}

	return reply, nil
}

// MarketInsights возвращает сводку по товару. Удачные ответы кэшируются на ai.insights_ttl.
func (s *Service) MarketInsights(ctx context.Context, item string) (*models.MarketInsight, error) {
	const op = "service/assistant/MarketInsights"

	item = strings.TrimSpace(item)
	if item == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	lg := log.From(ctx).With("op", op, "item", item)

	if s.gen == nil {
		s.metrics.AICall("insight", aiUnavailable)
		return &models.MarketInsight{Text: InsightUnavailableText, Unavailable: true}, nil
	}

	key := strings.ToLower(item)

	if s.insights != nil {
		cached, ok, err := s.insights.Insight(ctx, key)
		switch {
		case err != nil:
			lg.Warn("insight cache read failed", "err", err)
		case ok:
			s.metrics.AICall("insight", aiCached)
			return cached, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.AI.Timeout)
	defer cancel()

	res, err := s.gen.MarketInsight(callCtx, item)
	if err != nil {
		s.metrics.AICall("insight", aiOutcome(err))
		lg.Error("insight call failed", "err", err)
		return &models.MarketInsight{Text: InsightFailedText, Unavailable: true}, nil
	}

	s.metrics.AICall("insight", aiOK)

	if res == nil || strings.TrimSpace(res.Text) == "" {
		return &models.MarketInsight{Text: InsightEmptyText, Unavailable: true}, nil
	}

	if s.insights != nil {
		if err := s.insights.SetInsight(ctx, key, res, s.cfg.AI.InsightsTTL); err != nil {
			lg.Warn("insight cache write failed", "err", err)
		}
	}

	return res, nil
}

// ListingInsights — сводка по названию объявления.
func (s *Service) ListingInsights(ctx context.Context, listingID string) (*models.MarketInsight, error) {
	const op = "service/assistant/ListingInsights"

	lg := log.From(ctx).With("op", op, "listing_id", listingID)

	l, err := s.listings.ListingByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get listing failed"))
	}

	return s.MarketInsights(ctx, l.Name)
}

func aiOutcome(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return aiTimeout
	}

	return aiError
}
