package video

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/princekumarofficial/courses-service/internal/http/handlers/courses"
	"github.com/princekumarofficial/courses-service/internal/http/middleware"
	videosvc "github.com/princekumarofficial/courses-service/internal/services/video"
	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/types"
	"github.com/princekumarofficial/courses-service/internal/utils/response"
)

// URLRequester is satisfied by *playback.Service.
type URLRequester interface {
	RequestURL(ctx context.Context, course types.Course, userID string) (types.VideoURLResponse, error)
}

// SignedURL returns a short-lived playback URL for a course video
// @Summary Get a signed video URL
// @Description Records the access and returns a Bunny Stream embed URL valid for two minutes
// @Tags video
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} types.VideoURLResponse
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Course not found"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /video/{courseId}/url [get]
func SignedURL(store storage.CourseReader, svc URLRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, ok := courses.Lookup(w, r, store, r.PathValue("courseId"))
		if !ok {
			return
		}

		// empty for anonymous access
		userID, _ := middleware.GetUserIDFromContext(r.Context())

		resp, err := svc.RequestURL(r.Context(), course, userID)
		if err != nil {
			msg := "Failed to generate signed video URL"
			if videosvc.IsConfigError(err) {
				msg = "Video signer misconfigured"
			}
			slog.Error(msg,
				slog.String("course_id", course.ID),
				slog.String("error", err.Error()))
			response.Internal(w)
			return
		}

		response.WriteJSON(w, http.StatusOK, resp)
	}
}
