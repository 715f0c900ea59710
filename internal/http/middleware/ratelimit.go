package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/courses-service/internal/ratelimit"
	"github.com/princekumarofficial/courses-service/internal/utils/response"
)

const ActionVideoURL = "video_url"

type RateLimitConfig struct {
	limiters map[string]*ratelimit.TokenBucket
}

// NewRateLimitConfig configures per-user limits. videoURLPerMinute applies
// to signed URL requests.
func NewRateLimitConfig(redisClient *redis.Client, videoURLPerMinute int64) *RateLimitConfig {
	return &RateLimitConfig{
		limiters: map[string]*ratelimit.TokenBucket{
			ActionVideoURL: ratelimit.NewTokenBucket(redisClient, videoURLPerMinute, videoURLPerMinute),
		},
	}
}

func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// auth middleware runs first
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.Fail(w, http.StatusUnauthorized, "user not authenticated")
				return
			}

			limiter, exists := rlc.limiters[action]
			if !exists {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, err := limiter.Take(r.Context(), userID, action)
			if err != nil {
				// fail open on Redis errors
				slog.Warn("Rate limit check failed, allowing request",
					slog.String("action", action), slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limiter.Capacity(), 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(limiter.Window().Seconds())))

			if !allowed {
				response.Fail(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitedHandler wraps a handler with rate limiting for a specific action
func (rlc *RateLimitConfig) RateLimitedHandler(action string, handler http.HandlerFunc) http.Handler {
	return rlc.RateLimitMiddleware(action)(handler)
}
