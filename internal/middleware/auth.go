package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
)

// Key to store the authenticated identity in the request context
type key int

const UserClaimsKey key = 0

// Identity is what the auth collaborator vouches for: the subject id and the
// email it issued the session to. Profile data lives in the users table.
type Identity struct {
	UserId domain.UserId
	Email  string
}

// Auth verifies session tokens minted by the external auth provider.
type Auth struct {
	jwtKey []byte
}

func NewAuth(jwtKey string) *Auth {
	return &Auth{jwtKey: []byte(jwtKey)}
}

// NeedAuth returns middleware that requires a valid session token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.extractIdentity(r)
			if err != nil {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractIdentity pulls the token from the cookie, the Authorization header
// or (for EventSource clients, which cannot set headers) the token query
// parameter, then verifies it.
func (a *Auth) extractIdentity(r *http.Request) (*Identity, error) {
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	} else if token := r.URL.Query().Get("token"); token != "" {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidClaims
		}
		return a.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errInvalidClaims
	}
	email, _ := claims["email"].(string)

	return &Identity{UserId: sub, Email: email}, nil
}

var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// GetIdentityFromContext retrieves the authenticated identity from the context
func GetIdentityFromContext(r *http.Request) *Identity {
	identity, ok := r.Context().Value(UserClaimsKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}
