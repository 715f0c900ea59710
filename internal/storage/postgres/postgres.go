package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/princekumarofficial/courses-service/internal/config"
	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/types"
)

type Postgres struct {
	Db *sql.DB
}

var _ storage.Storage = (*Postgres)(nil)

func DSN(cfg config.PQSQL) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	return Open(DSN(cfg.PGSQL))
}

// Open connects to dsn, pings it and creates missing tables.
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	pg := &Postgres{Db: db}
	if err := pg.CreateTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}

func (p *Postgres) CreateTables() error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS courses (
			id SERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			video_id VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS video_logs (
			id UUID PRIMARY KEY,
			course_id INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			accessed_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`CREATE INDEX IF NOT EXISTS video_logs_course_id_idx ON video_logs (course_id);`,
		`CREATE INDEX IF NOT EXISTS video_logs_user_id_idx ON video_logs (user_id);`,
		`CREATE INDEX IF NOT EXISTS video_logs_accessed_at_idx ON video_logs (accessed_at);`,
		`CREATE INDEX IF NOT EXISTS video_logs_user_course_idx ON video_logs (user_id, course_id);`,
	}

	for _, q := range queries {
		if _, err := p.Db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

// demoCourses mirrors the catalog the service ships with in development.
var demoCourses = []types.Course{
	{Title: "Math 101", Description: "Introduction to Mathematics", VideoID: "3de51679-9398-4ce3-a9f7-9c52be1f2eb5"},
	{Title: "Physics Intro", Description: "Basic Physics Concepts", VideoID: "bunny_physics_intro"},
	{Title: "Chemistry Basics", Description: "Fundamental Chemistry Principles", VideoID: "bunny_chem_basics"},
}

// SeedCourses inserts the demo catalog when the courses table is empty and
// returns the number of rows inserted.
func (p *Postgres) SeedCourses(ctx context.Context) (int, error) {
	var count int
	if err := p.Db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := p.Db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, c := range demoCourses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO courses (title, description, video_id) VALUES ($1, $2, $3)`,
			c.Title, c.Description, c.VideoID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	slog.Info("Seeded demo courses", slog.Int("count", len(demoCourses)))
	return len(demoCourses), nil
}

func (p *Postgres) GetCourseByID(ctx context.Context, id string) (types.Course, error) {
	var course types.Course

	courseID, err := strconv.Atoi(id)
	if err != nil {
		return course, storage.ErrNotFound
	}

	var numericID int
	query := `
	SELECT id, title, description, video_id, created_at FROM courses WHERE id = $1
	`
	err = p.Db.QueryRowContext(ctx, query, courseID).
		Scan(&numericID, &course.Title, &course.Description, &course.VideoID, &course.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return course, storage.ErrNotFound
	}
	if err != nil {
		return course, err
	}

	course.ID = strconv.Itoa(numericID)
	return course, nil
}

func (p *Postgres) ListCourses(ctx context.Context) ([]types.Course, error) {
	rows, err := p.Db.QueryContext(ctx, `
	SELECT id, title, description, video_id, created_at FROM courses ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []types.Course{}
	for rows.Next() {
		var c types.Course
		var id int
		if err := rows.Scan(&id, &c.Title, &c.Description, &c.VideoID, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ID = strconv.Itoa(id)
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

func (p *Postgres) AppendAccessEvent(ctx context.Context, event types.AccessEvent) error {
	var userID sql.NullInt64
	if event.UserID != "" {
		id, err := strconv.ParseInt(event.UserID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", event.UserID, err)
		}
		userID = sql.NullInt64{Int64: id, Valid: true}
	}

	_, err := p.Db.ExecContext(ctx, `
	INSERT INTO video_logs (id, course_id, user_id, accessed_at)
	VALUES ($1, $2, $3, $4)
	`, event.ID, event.CourseID, userID, event.AccessedAt.UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("append access event: unknown course or user: %w", err)
		}
		return fmt.Errorf("append access event: %w", err)
	}

	return nil
}

func (p *Postgres) CountAccessEventsByCourse(ctx context.Context, since time.Time) ([]types.CourseStats, error) {
	rows, err := p.Db.QueryContext(ctx, `
	SELECT course_id, COUNT(*), COUNT(DISTINCT user_id)
	FROM video_logs
	WHERE accessed_at >= $1
	GROUP BY course_id
	ORDER BY course_id
	`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []types.CourseStats
	for rows.Next() {
		var s types.CourseStats
		var courseID int
		if err := rows.Scan(&courseID, &s.Accesses, &s.UniqueUsers); err != nil {
			return nil, err
		}
		s.CourseID = strconv.Itoa(courseID)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (p *Postgres) CreateUser(email, password string) (string, error) {
	var userID int
	query := `
	INSERT INTO users (email, password)
	VALUES ($1, $2)
	RETURNING id
	`

	err := p.Db.QueryRow(query, email, password).Scan(&userID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", userID), nil
}

func (p *Postgres) GetUserByEmail(email string) (string, string, error) {
	var userID int
	var hashedPassword string
	query := `
	SELECT id, password FROM users WHERE email = $1
	`

	err := p.Db.QueryRow(query, email).Scan(&userID, &hashedPassword)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", storage.ErrNotFound
	}
	if err != nil {
		return "", "", err
	}

	return fmt.Sprintf("%d", userID), hashedPassword, nil
}
