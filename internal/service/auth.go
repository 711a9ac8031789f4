package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
	"github.com/pribylovaa/go-iso-board/internal/pkg/redact"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// handlePattern — допустимый ник: латиница, цифры, '_' и '.', 3–32 символа.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,32}$`)

// Session — результат входа: пользователь и его access-токен.
type Session struct {
	User  *models.User
	Token *Token
}

// ProfileUpdate — частичное изменение профиля; nil-поля не меняются.
type ProfileUpdate struct {
	Name    *string
	Avatar  *string
	Socials map[string]models.Social
}

// OnboardingInput — данные проверки личности, роль и соцсети.
type OnboardingInput struct {
	Passport models.Passport
	Role     string
	Socials  map[string]models.Social
}

// SignUp регистрирует пользователя и сразу выпускает токен.
func (s *Service) SignUp(ctx context.Context, email, password, username string) (*Session, error) {
	const op = "service/auth/SignUp"

	lg := log.From(ctx).With("op", op, "email", redact.Email(email))

	normEmail, err := validateEmail(email)
	if err != nil {
		lg.Warn("invalid email")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := validatePassword(password); err != nil {
		lg.Warn("weak password")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	name, err := normalizeHandle(username)
	if err != nil {
		lg.Warn("invalid username")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		lg.Error("hash password failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	now := s.now()
	id := uuid.New()
	u := &models.User{
		ID:           id,
		Email:        normEmail,
		PasswordHash: string(hash),
		Name:         name,
		Avatar:       "https://i.pravatar.cc/150?u=" + id.String(),
		Role:         models.RoleMember,
		TrustScore:   models.ComputeTrust(nil),
		Socials:      map[string]models.Social{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "save user failed"))
	}

	tok, err := s.generateAccessToken(ctx, u.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user signed up", "user_id", u.ID.String())

	return &Session{User: u, Token: tok}, nil
}

// SignIn — вход по email и паролю. Любая неудача -> ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	const op = "service/auth/SignIn"

	lg := log.From(ctx).With("op", op, "email", redact.Email(email))

	normEmail, err := validateEmail(email)
	if err != nil || password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	u, err := s.users.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("unknown email")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get user failed"))
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		lg.Warn("password mismatch", "user_id", u.ID.String())
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	tok, err := s.generateAccessToken(ctx, u.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Session{User: u, Token: tok}, nil
}

// SignOut отзывает токен до истечения его срока.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	const op = "service/auth/SignOut"

	lg := log.From(ctx).With("op", op)

	claims, uid, err := s.parseAccessToken(accessToken)
	if err != nil {
		lg.Warn("invalid token on sign out")
		return fmt.Errorf("%s: %w", op, err)
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, storageError(lg, err, "revoke token failed"))
	}

	lg.Info("user signed out", "user_id", uid.String())

	return nil
}

// CurrentUser возвращает владельца действующего токена.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "service/auth/CurrentUser"

	lg := log.From(ctx).With("op", op)

	claims, uid, err := s.parseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "check revocation failed"))
	}

	if revoked {
		lg.Warn("revoked token", "user_id", uid.String())
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	u, err := s.users.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("token of unknown user", "user_id", uid.String())
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get user failed"))
	}

	return u, nil
}

// UpdateProfile меняет ник, аватар и соцсети; доверие пересчитывается из соцсетей.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	const op = "service/auth/UpdateProfile"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	u, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get user failed"))
	}

	if upd.Name != nil {
		name, err := normalizeHandle(*upd.Name)
		if err != nil {
			lg.Warn("invalid username")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.Name = name
	}

	if upd.Avatar != nil {
		u.Avatar = strings.TrimSpace(*upd.Avatar)
	}

	if upd.Socials != nil {
		u.Socials = normalizeSocials(upd.Socials)
	}

	u.TrustScore = models.ComputeTrust(u.Socials)
	u.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "update user failed"))
	}

	return u, nil
}

// CompleteOnboarding фиксирует паспортные данные (один раз), роль и соцсети.
func (s *Service) CompleteOnboarding(ctx context.Context, userID uuid.UUID, in OnboardingInput) (*models.User, error) {
	const op = "service/auth/CompleteOnboarding"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	role, ok := models.ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		lg.Warn("invalid role", "role", in.Role)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	p := models.Passport{
		DOB:    strings.TrimSpace(in.Passport.DOB),
		Origin: strings.TrimSpace(in.Passport.Origin),
		Sex:    strings.TrimSpace(in.Passport.Sex),
	}
	if p.DOB == "" || p.Origin == "" || p.Sex == "" {
		lg.Warn("incomplete passport")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	u, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get user failed"))
	}

	if u.Onboarded() {
		lg.Warn("passport already set")
		return nil, fmt.Errorf("%s: %w", op, ErrConflict)
	}

	u.Passport = &p
	u.Role = role
	if in.Socials != nil {
		u.Socials = normalizeSocials(in.Socials)
	}
	u.TrustScore = models.ComputeTrust(u.Socials)
	u.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "update user failed"))
	}

	lg.Info("onboarding completed", "role", string(role), "trust", u.TrustScore)

	return u, nil
}

// normalizeSocials приводит ключи платформ к нижнему регистру и отбрасывает пустые хэндлы.
func normalizeSocials(in map[string]models.Social) map[string]models.Social {
	out := make(map[string]models.Social, len(in))
	for platform, soc := range in {
		platform = strings.ToLower(strings.TrimSpace(platform))
		soc.Handle = strings.TrimSpace(soc.Handle)
		if platform == "" || soc.Handle == "" {
			continue
		}
		out[platform] = soc
	}

	return out
}

// validateEmail проверяет формат и приводит email к нижнему регистру.
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", ErrInvalidArgument
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidArgument
	}

	return strings.ToLower(email), nil
}

// validatePassword: не короче 8 символов, хотя бы одна буква и одна цифра.
func validatePassword(pw string) error {
	if len([]rune(pw)) < 8 {
		return ErrInvalidArgument
	}

	var hasLetter, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return ErrInvalidArgument
	}

	return nil
}

// normalizeHandle убирает ведущий '@' и проверяет формат ника.
func normalizeHandle(raw string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if !handlePattern.MatchString(name) {
		return "", ErrInvalidArgument
	}

	return name, nil
}
