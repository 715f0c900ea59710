package courses

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/types"
	"github.com/princekumarofficial/courses-service/internal/utils/response"
)

// StatsReader serves the access counts refreshed by the stats worker.
type StatsReader interface {
	GetCourseStats(ctx context.Context, courseID string) (types.CourseStats, error)
}

// List handles the course catalog endpoint
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {object} response.Response "Courses fetched successfully"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /courses [get]
func List(courses storage.CourseReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := courses.ListCourses(r.Context())
		if err != nil {
			slog.Error("Failed to list courses", slog.String("error", err.Error()))
			response.Internal(w)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Courses fetched successfully", list))
	}
}

// Show handles a single course
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Response "Course fetched successfully"
// @Failure 404 {object} response.Response "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [get]
func Show(courses storage.CourseReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, ok := Lookup(w, r, courses, r.PathValue("id"))
		if !ok {
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Course fetched successfully", course))
	}
}

// Stats returns recent access counts for a course
// @Summary Course access statistics (last 24h)
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} types.CourseStats
// @Failure 404 {object} response.Response "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/stats [get]
func Stats(courses storage.CourseReader, stats StatsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, ok := Lookup(w, r, courses, r.PathValue("id"))
		if !ok {
			return
		}

		s, err := stats.GetCourseStats(r.Context(), course.ID)
		if err != nil {
			slog.Error("Failed to read course stats", slog.String("course_id", course.ID), slog.String("error", err.Error()))
			response.Internal(w)
			return
		}

		response.WriteJSON(w, http.StatusOK, s)
	}
}

// Lookup resolves a course by id, writing 400/404/500 on failure.
func Lookup(w http.ResponseWriter, r *http.Request, courses storage.CourseReader, id string) (types.Course, bool) {
	if id == "" {
		response.Fail(w, http.StatusBadRequest, "course ID is required")
		return types.Course{}, false
	}

	course, err := courses.GetCourseByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		response.Fail(w, http.StatusNotFound, "course not found")
		return types.Course{}, false
	}
	if err != nil {
		slog.Error("Failed to load course", slog.String("course_id", id), slog.String("error", err.Error()))
		response.Internal(w)
		return types.Course{}, false
	}

	return course, true
}
