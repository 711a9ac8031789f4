package memory

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

func cloneUser(u *models.User) *models.User {
	out := *u
	out.Socials = maps.Clone(u.Socials)

	if u.Passport != nil {
		p := *u.Passport
		out.Passport = &p
	}

	return &out
}

func (s *Storage) SaveUser(ctx context.Context, u *models.User) error {
	const op = "storage/memory/SaveUser"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := s.usersByMail[email]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	if _, ok := s.users[u.ID]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	if s.nameTaken(u.Name, u.ID) {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	s.users[u.ID] = cloneUser(u)
	s.usersByMail[email] = u.ID

	return nil
}

func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage/memory/UserByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return cloneUser(u), nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage/memory/UserByEmail"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByMail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return cloneUser(s.users[id]), nil
}

func (s *Storage) UpdateUser(ctx context.Context, u *models.User) error {
	const op = "storage/memory/UpdateUser"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[u.ID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if s.nameTaken(u.Name, u.ID) {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	next := cloneUser(u)
	// email и хэш пароля через профиль не меняются.
	next.Email = cur.Email
	next.PasswordHash = cur.PasswordHash
	next.CreatedAt = cur.CreatedAt
	s.users[u.ID] = next

	return nil
}

// nameTaken — ник занят другим пользователем (без учёта регистра).
func (s *Storage) nameTaken(name string, except uuid.UUID) bool {
	for id, u := range s.users {
		if id != except && strings.EqualFold(u.Name, name) {
			return true
		}
	}

	return false
}
