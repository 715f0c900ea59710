// @title Courses Service API
// @version 1.0
// @description Course catalog with signed Bunny Stream playback URLs.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

//go:generate swag init -g cmd/courses-service/main.go -d ../../ -o ../../docs

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/princekumarofficial/courses-service/docs"
	"github.com/princekumarofficial/courses-service/internal/cache"
	"github.com/princekumarofficial/courses-service/internal/config"
	"github.com/princekumarofficial/courses-service/internal/http/handlers/courses"
	"github.com/princekumarofficial/courses-service/internal/http/handlers/users"
	"github.com/princekumarofficial/courses-service/internal/http/handlers/video"
	"github.com/princekumarofficial/courses-service/internal/http/middleware"
	"github.com/princekumarofficial/courses-service/internal/metrics"
	"github.com/princekumarofficial/courses-service/internal/services/playback"
	videosvc "github.com/princekumarofficial/courses-service/internal/services/video"
	"github.com/princekumarofficial/courses-service/internal/storage/postgres"
)

func main() {
	// load config
	cfg := config.MustLoad()

	// signing credentials are checked before anything else is opened
	signer, err := videosvc.NewSigner(cfg.Bunny.Video(),
		videosvc.WithDefaultLifetime(cfg.Bunny.URLLifetimeSeconds))
	if err != nil {
		log.Fatal("Failed to configure video signer: ", err)
	}

	// database setup
	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer storage.Close()
	slog.Info("Connected to Postgres database")

	if cfg.Seed {
		n, err := storage.SeedCourses(context.Background())
		if err != nil {
			log.Fatal("Failed to seed courses:", err)
		}
		slog.Info("Seeded courses", slog.Int("count", n))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		slog.Warn("Redis unavailable, serving from Postgres", slog.String("error", err.Error()))
	} else {
		slog.Info("Connected to Redis", slog.String("address", cfg.Redis.Address))
	}

	cached := cache.NewCacheService(storage, redisClient)
	m := metrics.New(prometheus.DefaultRegisterer)
	playbackSvc := playback.NewService(storage, signer, playback.WithMetrics(m))
	rateLimit := middleware.NewRateLimitConfig(redisClient, cfg.RateLimit.VideoURLPerMinute)
	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	// setup router
	router := http.NewServeMux()

	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	router.Handle("GET /metrics", promhttp.Handler())
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	router.Handle("POST /signup", m.Instrument("signup", users.SignUp(storage)))
	router.Handle("POST /login", m.Instrument("login", users.Login(storage, cfg.JWTSecret)))

	router.Handle("GET /courses", m.Instrument("courses_list", auth(courses.List(cached))))
	router.Handle("GET /courses/{id}", m.Instrument("courses_show", auth(courses.Show(cached))))
	router.Handle("GET /courses/{id}/stats", m.Instrument("courses_stats", auth(courses.Stats(cached, cached))))

	router.Handle("GET /video/{courseId}/url", m.Instrument("video_url",
		auth(rateLimit.RateLimitedHandler(middleware.ActionVideoURL, video.SignedURL(cached, playbackSvc)))))

	router.Handle("GET /admin/cache/stats", auth(cache.GetCacheStats(redisClient)))

	server := http.Server{
		Addr:              cfg.HTTPServer.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
