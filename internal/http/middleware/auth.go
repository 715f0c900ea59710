package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/princekumarofficial/courses-service/internal/utils/jwt"
	"github.com/princekumarofficial/courses-service/internal/utils/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

var (
	errMissingAuth   = errors.New("Authorization header required")
	errBadAuthFormat = errors.New("Invalid authorization header format")
	errInvalidToken  = errors.New("Invalid token")
)

// AuthMiddleware validates the bearer JWT and stores the user id in the
// request context.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				response.Fail(w, http.StatusUnauthorized, err.Error())
				return
			}

			userID, err := jwt.ExtractUserIDFromToken(token, jwtSecret)
			if err != nil {
				response.Fail(w, http.StatusUnauthorized, errInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errMissingAuth
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errBadAuthFormat
	}

	return strings.TrimSpace(token), nil
}

// WithUserID returns a context carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
