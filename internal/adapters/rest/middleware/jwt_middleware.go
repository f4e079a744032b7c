package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var (
	ErrMissingToken   = errors.New("missing authentication token")
	ErrInvalidToken   = errors.New("invalid authentication token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrMissingSubject = errors.New("missing subject in token")
	ErrMissingEmail   = errors.New("missing email in token")
)

type jwtContextKey string

const (
	JWTUserIDContextKey    jwtContextKey = "jwt_user_id"
	JWTUserEmailContextKey jwtContextKey = "jwt_email"
)

// JWTMiddleware validates bearer tokens against a JWKS endpoint and
// places the raw subject and email claims in the request context.
type JWTMiddleware struct {
	jwksEndpoint string
	issuer       string
	cache        *jwk.Cache
}

func NewJWTMiddleware(ctx context.Context, jwksEndpoint string, issuer string) (*JWTMiddleware, error) {
	// Create a cache with automatic refresh
	cache, err := jwk.NewCache(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	if err := cache.Register(ctx, jwksEndpoint); err != nil {
		return nil, fmt.Errorf("failed to register JWKS URL: %w", err)
	}

	// Perform initial fetch to validate the URL
	_, err = cache.Lookup(ctx, jwksEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch initial JWKS: %w", err)
	}

	return &JWTMiddleware{
		jwksEndpoint: jwksEndpoint,
		issuer:       issuer,
		cache:        cache,
	}, nil
}

func (m *JWTMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, ErrorCodeUnauthorized, ErrMissingToken.Error(), http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			WriteJSONError(w, ErrorCodeUnauthorized, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		keySet, err := m.cache.Lookup(r.Context(), m.jwksEndpoint)
		if err != nil {
			WriteJSONError(w, ErrorCodeInternalServerError, fmt.Sprintf("Failed to get JWKS: %v", err), http.StatusInternalServerError)
			return
		}

		token, err := jwt.ParseString(
			tokenString,
			jwt.WithKeySet(keySet),
			jwt.WithValidate(true),
			jwt.WithIssuer(m.issuer),
		)
		if err != nil {
			if strings.Contains(err.Error(), "exp not satisfied") || strings.Contains(err.Error(), "expired") {
				WriteJSONError(w, ErrorCodeTokenExpired, ErrTokenExpired.Error(), http.StatusUnauthorized)
				return
			}
			WriteJSONError(w, ErrorCodeInvalidToken, ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		var subject string
		if err := token.Get("sub", &subject); err != nil || subject == "" {
			WriteJSONError(w, ErrorCodeInvalidToken, ErrMissingSubject.Error(), http.StatusUnauthorized)
			return
		}

		var email string
		if err := token.Get("email", &email); err != nil || email == "" {
			WriteJSONError(w, ErrorCodeInvalidToken, ErrMissingEmail.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), JWTUserIDContextKey, subject)
		ctx = context.WithValue(ctx, JWTUserEmailContextKey, email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetJWTUserID extracts the raw subject claim set by JWT middleware
func GetJWTUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(JWTUserIDContextKey).(string)
	return userID, ok
}

// GetJWTUserEmail extracts the email claim set by JWT middleware
func GetJWTUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(JWTUserEmailContextKey).(string)
	return email, ok
}
