package models

import (
	"time"

	"github.com/google/uuid"
)

// Role выбирается пользователем при онбординге.
type Role string

const (
	RoleMember    Role = "Member"
	RoleCollector Role = "Collector"
	RoleFinder    Role = "Finder"
)

// ParseRole возвращает роль и признак того, что она допустима.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleMember, RoleCollector, RoleFinder:
		return Role(s), true
	default:
		return "", false
	}
}

// Social — привязанный аккаунт во внешней соцсети.
type Social struct {
	Handle   string
	Verified bool
	URL      string
}

// Passport — данные проверки личности; задаются один раз при онбординге.
type Passport struct {
	DOB    string
	Origin string
	Sex    string
}

// User — учётная запись площадки.
// TrustScore не хранится «как есть», а пересчитывается из Socials (см. ComputeTrust).
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Avatar       string
	Role         Role
	TrustScore   int
	Socials      map[string]Social
	Passport     *Passport
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref — проекция пользователя для денормализации в объявления, комментарии и ставки.
func (u *User) Ref() UserRef {
	return UserRef{
		ID:         u.ID,
		Name:       u.Name,
		Avatar:     u.Avatar,
		TrustScore: u.TrustScore,
	}
}

// Onboarded — пользователь прошёл проверку личности.
func (u *User) Onboarded() bool {
	return u.Passport != nil
}

// ComputeTrust: min(100, 20 + 20*verified).
func ComputeTrust(socials map[string]Social) int {
	verified := 0
	for _, s := range socials {
		if s.Verified {
			verified++
		}
	}

	return min(100, 20+20*verified)
}
