package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// userColumns — единый порядок колонок для SELECT и scanUser.
const userColumns = `
id, email, password_hash, name, avatar, role, trust_score, socials, passport, created_at, updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u        models.User
		role     string
		socials  []byte
		passport []byte
	)

	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Avatar,
		&role,
		&u.TrustScore,
		&socials,
		&passport,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.Role = models.Role(role)

	if len(socials) > 0 {
		if err := json.Unmarshal(socials, &u.Socials); err != nil {
			return nil, fmt.Errorf("decode socials: %w", err)
		}
	}

	if len(passport) > 0 {
		var p models.Passport
		if err := json.Unmarshal(passport, &p); err != nil {
			return nil, fmt.Errorf("decode passport: %w", err)
		}
		u.Passport = &p
	}

	return &u, nil
}

// encodeProfile сериализует JSONB-поля пользователя.
func encodeProfile(u *models.User) (socials, passport []byte, err error) {
	s := u.Socials
	if s == nil {
		s = map[string]models.Social{}
	}

	socials, err = json.Marshal(s)
	if err != nil {
		return nil, nil, err
	}

	if u.Passport != nil {
		passport, err = json.Marshal(u.Passport)
		if err != nil {
			return nil, nil, err
		}
	}

	return socials, passport, nil
}

// SaveUser создаёт пользователя. Email и ник уникальны без учёта регистра (CITEXT).
func (s *Storage) SaveUser(ctx context.Context, u *models.User) error {
	const op = "storage/postgres/users/SaveUser"

	socials, passport, err := encodeProfile(u)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	q := `
	INSERT INTO users (id, email, password_hash, name, avatar, role, trust_score, socials, passport, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = s.db.Exec(ctx, q,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Avatar,
		string(u.Role),
		u.TrustScore,
		socials,
		passport,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return nil
}

func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage/postgres/users/UserByID"

	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage/postgres/users/UserByEmail"

	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.db.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// UpdateUser перезаписывает профиль. Email, хэш пароля и created_at не меняются.
func (s *Storage) UpdateUser(ctx context.Context, u *models.User) error {
	const op = "storage/postgres/users/UpdateUser"

	socials, passport, err := encodeProfile(u)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	q := `
	UPDATE users
	SET name = $2, avatar = $3, role = $4, trust_score = $5, socials = $6, passport = $7, updated_at = $8
	WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, q,
		u.ID,
		u.Name,
		u.Avatar,
		string(u.Role),
		u.TrustScore,
		socials,
		passport,
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
