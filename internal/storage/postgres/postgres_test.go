package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/courses-service/internal/config"
	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL and resets the tables.
func openTestDB(t *testing.T) *Postgres {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pg, err := Open(dsn)
	require.NoError(t, err)
	_, err = pg.Db.Exec(`TRUNCATE video_logs, courses, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	t.Cleanup(func() { pg.Close() })
	return pg
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.PQSQL{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "courses", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=courses sslmode=disable", dsn)
}

func TestSeedAndReadCourses(t *testing.T) {
	pg := openTestDB(t)
	ctx := context.Background()

	n, err := pg.SeedCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = pg.SeedCourses(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	courses, err := pg.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 3)
	assert.Equal(t, "Math 101", courses[0].Title)

	course, err := pg.GetCourseByID(ctx, courses[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "bunny_physics_intro", course.VideoID)

	_, err = pg.GetCourseByID(ctx, "9999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = pg.GetCourseByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAppendAndCountAccessEvents(t *testing.T) {
	pg := openTestDB(t)
	ctx := context.Background()

	_, err := pg.SeedCourses(ctx)
	require.NoError(t, err)
	userID, err := pg.CreateUser("viewer@example.com", "hash")
	require.NoError(t, err)

	now := time.Now()
	for _, uid := range []string{userID, userID, ""} {
		require.NoError(t, pg.AppendAccessEvent(ctx, types.AccessEvent{
			ID:         uuid.NewString(),
			CourseID:   "1",
			UserID:     uid,
			AccessedAt: now,
		}))
	}

	err = pg.AppendAccessEvent(ctx, types.AccessEvent{ID: uuid.NewString(), CourseID: "42", AccessedAt: now})
	assert.Error(t, err)

	stats, err := pg.CountAccessEventsByCourse(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, types.CourseStats{CourseID: "1", Accesses: 3, UniqueUsers: 1}, stats[0])
}
