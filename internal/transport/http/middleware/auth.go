package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
	"github.com/pribylovaa/go-iso-board/internal/service"
	apierrors "github.com/pribylovaa/go-iso-board/internal/transport/http/errors"
)

type (
	userKey  struct{}
	tokenKey struct{}
)

// Authenticator — проверка access-токена (service.Service).
type Authenticator interface {
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
}

// Auth разбирает "Authorization: Bearer <token>".
//   - заголовка нет -> запрос идёт дальше анонимно;
//   - токен невалиден/отозван -> 401 сразу, без вызова обработчика;
//   - иначе пользователь и токен кладутся в контекст, user_id — в логгер запроса.
func Auth(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			u, err := a.CurrentUser(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, u)
			ctx = context.WithValue(ctx, tokenKey{}, token)
			ctx = log.With(ctx, "user_id", u.ID.String())
			if st := stateFrom(ctx); st != nil {
				st.userID = u.ID.String()
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser отвечает 401, если Auth не положил пользователя в контекст.
func RequireUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFrom(r.Context()) == nil {
				apierrors.WriteError(w, r, service.ErrNotAuthenticated)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom возвращает аутентифицированного пользователя или nil.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}

// TokenFrom возвращает "сырой" access-токен запроса.
func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

func bearer(h string) (string, bool) {
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}
