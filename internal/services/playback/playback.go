// Package playback hands out signed video URLs for courses and records each
// request in the access log.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/courses-service/internal/metrics"
	"github.com/princekumarofficial/courses-service/internal/services/video"
	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/types"
	"github.com/princekumarofficial/courses-service/internal/utils/besteffort"
)

// DefaultLogTimeout bounds how long an access-log write may hold up a response.
const DefaultLogTimeout = 2 * time.Second

// URLSigner is satisfied by *video.Signer.
type URLSigner interface {
	GenerateDefault(contentID string) (video.SignedURL, error)
}

type Service struct {
	events     storage.AccessEventAppender
	signer     URLSigner
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
	logTimeout time.Duration
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogTimeout(d time.Duration) Option {
	return func(s *Service) { s.logTimeout = d }
}

func NewService(events storage.AccessEventAppender, signer URLSigner, opts ...Option) *Service {
	s := &Service{
		events:     events,
		signer:     signer,
		logger:     slog.Default(),
		now:        time.Now,
		logTimeout: DefaultLogTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestURL logs the access and returns a freshly signed URL for the
// course video. userID is empty for anonymous callers. Only a signer error
// can make it fail; access-log failures are reported and dropped.
func (s *Service) RequestURL(ctx context.Context, course types.Course, userID string) (types.VideoURLResponse, error) {
	s.recordAccess(ctx, course, userID)

	signed, err := s.signer.GenerateDefault(course.VideoID)
	if err != nil {
		s.metrics.SignedURLFailed()
		return types.VideoURLResponse{}, fmt.Errorf("sign video url for course %s: %w", course.ID, err)
	}

	s.metrics.SignedURLIssued()
	return types.VideoURLResponse{URL: signed.String()}, nil
}

func (s *Service) recordAccess(ctx context.Context, course types.Course, userID string) {
	if s.events == nil {
		return
	}

	event := types.AccessEvent{
		ID:         uuid.NewString(),
		CourseID:   course.ID,
		UserID:     userID,
		AccessedAt: s.now(),
	}

	logFailure := besteffort.LogSink(s.logger, "Failed to log video access",
		slog.String("course_id", course.ID),
		slog.String("user_id", userID),
	)

	besteffort.Attempt(func() error {
		// a cancelled request must not drop the log row
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.logTimeout)
		defer cancel()
		return s.events.AppendAccessEvent(writeCtx, event)
	}, func(err error) {
		s.metrics.AccessLogFailed()
		logFailure(err)
	})
}
