package cache

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/courses-service/internal/utils/response"
)

// CacheStats represents cache health as seen from the service
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	CourseKeys     []string `json:"course_keys_sample"`
	StatsCached    bool     `json:"stats_cached"`
	KeyCount       int      `json:"total_keys"`
}

// GetCacheStats returns cache statistics
// @Summary Cache statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response "Cache stats retrieved"
// @Security BearerAuth
// @Router /admin/cache/stats [get]
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{RedisConnected: true}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		keys, _, err := redisClient.Scan(ctx, 0, "course:*", 10).Result()
		if err == nil {
			stats.CourseKeys = keys
		}

		if n, err := redisClient.Exists(ctx, CourseStatsKey).Result(); err == nil {
			stats.StatsCached = n > 0
		}

		if size, err := redisClient.DBSize(ctx).Result(); err == nil {
			stats.KeyCount = int(size)
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}
