package middleware

import (
	"errors"
	"net/http"

	"github.com/chatterbox-dev/chatterbox/internal/middleware/ratelimiter"
)

func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			if !rl.Allow(identity) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext identifies the caller for per-user rate limits.
// Possible if caller was authorized with previous middleware.
func GetUserIDFromContext(r *http.Request) (string, error) {
	identity := GetIdentityFromContext(r)
	if identity == nil {
		return "", errors.New("can't get user id")
	}
	return identity.UserId, nil
}
