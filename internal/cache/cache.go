package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/types"
)

// CacheService wraps storage with Redis caching. Redis failures fall back
// to storage.
type CacheService struct {
	storage.Storage
	redis *redis.Client
}

var _ storage.Storage = (*CacheService)(nil)

// NewCacheService creates a new cache service
func NewCacheService(storage storage.Storage, redisClient *redis.Client) *CacheService {
	return &CacheService{
		Storage: storage,
		redis:   redisClient,
	}
}

// Cache key patterns
const (
	CourseKey      = "course:%s"     // course:courseID
	CourseListKey  = "courses:all"
	CourseStatsKey = "stats:courses" // hash courseID -> json CourseStats
)

// Cache durations
const (
	CourseCacheDuration     = 10 * time.Minute
	CourseListCacheDuration = time.Minute
	StatsCacheDuration      = 2 * time.Minute
)

// GetCourseByID returns the cached course or loads it from storage.
func (c *CacheService) GetCourseByID(ctx context.Context, id string) (types.Course, error) {
	key := fmt.Sprintf(CourseKey, id)

	var course types.Course
	if c.get(ctx, key, &course) {
		return course, nil
	}

	course, err := c.Storage.GetCourseByID(ctx, id)
	if err != nil {
		return course, err
	}

	c.set(ctx, key, course, CourseCacheDuration)
	return course, nil
}

// ListCourses returns the cached catalog or loads it from storage.
func (c *CacheService) ListCourses(ctx context.Context) ([]types.Course, error) {
	var courses []types.Course
	if c.get(ctx, CourseListKey, &courses) {
		return courses, nil
	}

	courses, err := c.Storage.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	c.set(ctx, CourseListKey, courses, CourseListCacheDuration)
	return courses, nil
}

// StoreCourseStats replaces the cached per-course access counts.
func (c *CacheService) StoreCourseStats(ctx context.Context, stats []types.CourseStats) error {
	values := make(map[string]interface{}, len(stats))
	for _, s := range stats {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		values[s.CourseID] = data
	}

	pipe := c.redis.TxPipeline()
	pipe.Del(ctx, CourseStatsKey)
	if len(values) > 0 {
		pipe.HSet(ctx, CourseStatsKey, values)
	}
	pipe.Expire(ctx, CourseStatsKey, StatsCacheDuration)
	_, err := pipe.Exec(ctx)
	return err
}

// GetCourseStats returns the cached access counts for a course. A course
// with no recorded accesses yields zero counts. When Redis is unavailable
// the counts are computed from storage.
func (c *CacheService) GetCourseStats(ctx context.Context, courseID string) (types.CourseStats, error) {
	stats := types.CourseStats{CourseID: courseID}

	raw, err := c.redis.HGet(ctx, CourseStatsKey, courseID).Result()
	if err == redis.Nil {
		return stats, nil
	}
	if err != nil {
		slog.Warn("Course stats cache read failed, counting from storage",
			slog.String("course_id", courseID),
			slog.String("error", err.Error()))
		return c.countCourseStats(ctx, courseID)
	}

	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return c.countCourseStats(ctx, courseID)
	}
	return stats, nil
}

func (c *CacheService) countCourseStats(ctx context.Context, courseID string) (types.CourseStats, error) {
	all, err := c.Storage.CountAccessEventsByCourse(ctx, time.Now().Add(-storage.StatsWindow))
	if err != nil {
		return types.CourseStats{CourseID: courseID}, err
	}
	for _, s := range all {
		if s.CourseID == courseID {
			return s, nil
		}
	}
	return types.CourseStats{CourseID: courseID}, nil
}

func (c *CacheService) get(ctx context.Context, key string, dst interface{}) bool {
	cached, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	return json.Unmarshal([]byte(cached), dst) == nil
}

func (c *CacheService) set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
