package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/courses-service/internal/cache"
	"github.com/princekumarofficial/courses-service/internal/config"
	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/storage/postgres"
	"github.com/princekumarofficial/courses-service/internal/types"
)

type StatsPublisher interface {
	StoreCourseStats(ctx context.Context, stats []types.CourseStats) error
}

type StatsWorker struct {
	source    storage.AccessStats
	publisher StatsPublisher
	interval  time.Duration
	window    time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewStatsWorker(source storage.AccessStats, publisher StatsPublisher, interval time.Duration) *StatsWorker {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &StatsWorker{
		source:    source,
		publisher: publisher,
		interval:  interval,
		window:    storage.StatsWindow,
		now:       time.Now,
		logger:    logger,
	}
}

func (sw *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	sw.logger.Info("Access stats worker started",
		"interval", sw.interval.String(),
		"window", sw.window.String())

	// Run once immediately on startup
	sw.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			sw.logger.Info("Access stats worker shutting down")
			return
		case <-ticker.C:
			sw.refresh(ctx)
		}
	}
}

// refresh publishes the current counts. Failures are logged and the next
// tick retries.
func (sw *StatsWorker) refresh(ctx context.Context) {
	startTime := time.Now()

	stats, err := sw.source.CountAccessEventsByCourse(ctx, sw.now().Add(-sw.window))
	if err != nil {
		sw.logger.Error("Failed to count access events",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return
	}

	if err := sw.publisher.StoreCourseStats(ctx, stats); err != nil {
		sw.logger.Error("Failed to publish course stats",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return
	}

	duration := time.Since(startTime)

	sw.logger.Info("Refreshed course stats",
		"courses", len(stats),
		"duration_ms", duration.Milliseconds())
}

func main() {
	// Load config
	cfg := config.MustLoad()

	// Initialize database connection
	pg, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer pg.Close()
	slog.Info("Connected to Postgres database")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	worker := NewStatsWorker(pg, cache.NewCacheService(pg, redisClient), time.Minute)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	worker.Start(ctx)

	slog.Info("Access stats worker stopped")
}
