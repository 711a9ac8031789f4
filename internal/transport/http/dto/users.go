package dto

import (
	"time"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/service"
)

type Social struct {
	Handle   string `json:"handle"`
	Verified bool   `json:"verified"`
	URL      string `json:"url,omitempty"`
}

// User — собственный профиль (GET /me). Паспортные данные наружу не отдаются.
type User struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	Name       string            `json:"name"`
	Avatar     string            `json:"avatar"`
	Role       string            `json:"role"`
	TrustScore int               `json:"trust_score"`
	Socials    map[string]Social `json:"socials"`
	Onboarded  bool              `json:"onboarded"`
	CreatedAt  time.Time         `json:"created_at"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session — ответ sign-up/sign-in.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// UpdateProfileRequest — PATCH /me; отсутствующее поле не меняется.
type UpdateProfileRequest struct {
	Name    *string           `json:"name,omitempty"`
	Avatar  *string           `json:"avatar,omitempty"`
	Socials map[string]Social `json:"socials,omitempty"`
}

func (r UpdateProfileRequest) ToService() service.ProfileUpdate {
	return service.ProfileUpdate{
		Name:    r.Name,
		Avatar:  r.Avatar,
		Socials: socialsToModel(r.Socials),
	}
}

type Passport struct {
	DOB    string `json:"dob"`
	Origin string `json:"origin"`
	Sex    string `json:"sex"`
}

type OnboardingRequest struct {
	Passport Passport          `json:"passport"`
	Role     string            `json:"role"`
	Socials  map[string]Social `json:"socials,omitempty"`
}

func (r OnboardingRequest) ToService() service.OnboardingInput {
	return service.OnboardingInput{
		Passport: models.Passport{DOB: r.Passport.DOB, Origin: r.Passport.Origin, Sex: r.Passport.Sex},
		Role:     r.Role,
		Socials:  socialsToModel(r.Socials),
	}
}

func socialsToModel(in map[string]Social) map[string]models.Social {
	if in == nil {
		return nil
	}
	out := make(map[string]models.Social, len(in))
	for k, s := range in {
		out[k] = models.Social{Handle: s.Handle, Verified: s.Verified, URL: s.URL}
	}
	return out
}

func UserFromModel(u *models.User) User {
	socials := make(map[string]Social, len(u.Socials))
	for k, s := range u.Socials {
		socials[k] = Social{Handle: s.Handle, Verified: s.Verified, URL: s.URL}
	}

	return User{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Avatar:     u.Avatar,
		Role:       string(u.Role),
		TrustScore: u.TrustScore,
		Socials:    socials,
		Onboarded:  u.Onboarded(),
		CreatedAt:  u.CreatedAt,
	}
}

func SessionFromService(s *service.Session) Session {
	return Session{
		AccessToken: s.Token.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   s.Token.ExpiresAt,
		User:        UserFromModel(s.User),
	}
}
