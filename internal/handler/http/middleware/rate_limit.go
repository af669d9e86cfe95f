package middleware

import (
	"net/http"
	"sync"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

type UserRateLimiter struct {
	users map[string]*rate.Limiter
	mu    sync.Mutex
	r     rate.Limit // requests per second
	b     int        // burst
}

func NewUserRateLimiter(r rate.Limit, b int) *UserRateLimiter {
	return &UserRateLimiter{
		users: make(map[string]*rate.Limiter),
		r:     r,
		b:     b,
	}
}

func (l *UserRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.users[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.users[key] = limiter
	}

	return limiter
}

// RateLimitByUser throttles per principal. Anonymous requests pass through.
func RateLimitByUser(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewUserRateLimiter(r, b)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			p, ok := PrincipalFromContext(req.Context())
			if !ok {
				next.ServeHTTP(w, req)
				return
			}
			if !limiter.GetLimiter(p.UserID).Allow() {
				response.TooManyRequests(w, "Too many requests from this user")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
