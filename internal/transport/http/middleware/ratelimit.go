package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
	apierrors "github.com/pribylovaa/go-iso-board/internal/transport/http/errors"
)

// idleAfter — лимитер без запросов дольше этого срока удаляется при очередной чистке.
const idleAfter = 10 * time.Minute

// Limiter — token bucket на ключ (user_id аутентифицированного пользователя или IP).
type Limiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	buckets map[string]*bucket
	swept   time.Time
	now     func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLimiter — perMinute запросов в минуту с запасом burst на ключ.
func NewLimiter(perMinute, burst int) *Limiter {
	return &Limiter{
		every:   rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:   max(burst, 1),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow расходует один токен ключа.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.swept) > idleAfter {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > idleAfter {
				delete(l.buckets, k)
			}
		}
		l.swept = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now

	return b.lim.AllowN(now, 1)
}

// RateLimit отвечает 429, когда ключ исчерпал лимит.
// Ставится после Auth, чтобы ключом был пользователь, а не общий IP за NAT.
func RateLimit(l *Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !l.Allow(key) {
				log.From(r.Context()).Warn("rate limited", "key", key, "path", r.URL.Path)
				apierrors.WriteError(w, r, apierrors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if u := UserFrom(r.Context()); u != nil {
		return "user:" + u.ID.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
