package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/pribylovaa/go-iso-board/internal/models"
)

// Revoke помечает jti отозванным на ttl.
func (s *Storage) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "storage/memory/Revoke"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[jti] = s.now().Add(ttl)

	return nil
}

// IsRevoked — истёкшие записи удаляются при обращении.
func (s *Storage) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const op = "storage/memory/IsRevoked"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}

	if !s.now().Before(exp) {
		delete(s.revoked, jti)
		return false, nil
	}

	return true, nil
}

func (s *Storage) Insight(ctx context.Context, key string) (*models.MarketInsight, bool, error) {
	const op = "storage/memory/Insight"

	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.insights[key]
	if !ok {
		return nil, false, nil
	}

	if !s.now().Before(e.expiresAt) {
		delete(s.insights, key)
		return nil, false, nil
	}

	out := e.value
	out.Sources = slices.Clone(e.value.Sources)

	return &out, true, nil
}

func (s *Storage) SetInsight(ctx context.Context, key string, in *models.MarketInsight, ttl time.Duration) error {
	const op = "storage/memory/SetInsight"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := *in
	v.Sources = slices.Clone(in.Sources)
	s.insights[key] = insightEntry{value: v, expiresAt: s.now().Add(ttl)}

	return nil
}
