package storage

import (
	"context"
	"errors"
	"time"

	"github.com/princekumarofficial/courses-service/internal/types"
)

var ErrNotFound = errors.New("not found")

type CourseReader interface {
	GetCourseByID(ctx context.Context, id string) (types.Course, error)
	ListCourses(ctx context.Context) ([]types.Course, error)
}

// AccessEventAppender is the write side of the video access log. It has no
// update or delete counterpart.
type AccessEventAppender interface {
	AppendAccessEvent(ctx context.Context, event types.AccessEvent) error
}

// StatsWindow is how far back course access counts reach.
const StatsWindow = 24 * time.Hour

type AccessStats interface {
	CountAccessEventsByCourse(ctx context.Context, since time.Time) ([]types.CourseStats, error)
}

type UserStore interface {
	CreateUser(email, password string) (string, error)
	GetUserByEmail(email string) (string, string, error)
}

type Storage interface {
	CourseReader
	AccessEventAppender
	AccessStats
	UserStore
}
