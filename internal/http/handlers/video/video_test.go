package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/princekumarofficial/courses-service/internal/http/middleware"
	"github.com/princekumarofficial/courses-service/internal/services/playback"
	videosvc "github.com/princekumarofficial/courses-service/internal/services/video"
	"github.com/princekumarofficial/courses-service/internal/storage"
	"github.com/princekumarofficial/courses-service/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type oneCourse struct{ course types.Course }

func (o oneCourse) GetCourseByID(ctx context.Context, id string) (types.Course, error) {
	if id != o.course.ID {
		return types.Course{}, storage.ErrNotFound
	}
	return o.course, nil
}

func (o oneCourse) ListCourses(ctx context.Context) ([]types.Course, error) {
	return []types.Course{o.course}, nil
}

type eventLog struct {
	err    error
	events []types.AccessEvent
}

func (e *eventLog) AppendAccessEvent(ctx context.Context, ev types.AccessEvent) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, ev)
	return nil
}

var store = oneCourse{course: types.Course{ID: "1", Title: "Math 101", VideoID: "vid-42"}}

func newService(t *testing.T, log *eventLog) *playback.Service {
	t.Helper()
	signer, err := videosvc.NewSigner(videosvc.Config{
		LibraryID:        "lib1",
		SigningKey:       "secret",
		DeliveryEndpoint: "https://cdn.example/embed",
	}, videosvc.WithClock(func() time.Time { return time.Unix(1000, 0) }))
	require.NoError(t, err)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return playback.NewService(log, signer, playback.WithLogger(quiet))
}

func request(h http.HandlerFunc, courseID, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/video/"+courseID+"/url", nil)
	req.SetPathValue("courseId", courseID)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeURL(t *testing.T, rec *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	var body types.VideoURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	u, err := url.Parse(body.URL)
	require.NoError(t, err)
	return u
}

func TestSignedURL_OK(t *testing.T) {
	log := &eventLog{}
	rec := request(SignedURL(store, newService(t, log)), "1", "12")

	require.Equal(t, http.StatusOK, rec.Code)
	u := decodeURL(t, rec)
	assert.Equal(t, "cdn.example", u.Host)
	assert.Equal(t, "/embed/lib1/vid-42", u.Path)
	assert.Equal(t, "1120", u.Query().Get("expires"))
	assert.Len(t, u.Query().Get("token"), 64)

	require.Len(t, log.events, 1)
	assert.Equal(t, "12", log.events[0].UserID)
}

func TestSignedURL_LogFailureInvisible(t *testing.T) {
	good := request(SignedURL(store, newService(t, &eventLog{})), "1", "12")
	bad := request(SignedURL(store, newService(t, &eventLog{err: errors.New("table missing")})), "1", "12")

	require.Equal(t, http.StatusOK, bad.Code)
	assert.Equal(t, good.Body.String(), bad.Body.String())
}

func TestSignedURL_UnknownCourse(t *testing.T) {
	log := &eventLog{}
	rec := request(SignedURL(store, newService(t, log)), "2", "12")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, log.events)
}

type brokenRequester struct{ err error }

func (b brokenRequester) RequestURL(context.Context, types.Course, string) (types.VideoURLResponse, error) {
	if b.err == nil {
		return types.VideoURLResponse{}, videosvc.ErrNotConfigured
	}
	return types.VideoURLResponse{}, b.err
}

func TestSignedURL_SignerFailureIs500(t *testing.T) {
	rec := request(SignedURL(store, brokenRequester{}), "1", "12")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "url\":")
	assert.NotContains(t, rec.Body.String(), "bunny")
}

func TestSignedURL_LogsConfigErrorsSeparately(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	request(SignedURL(store, brokenRequester{err: videosvc.ErrInvalidLifetime}), "1", "12")
	assert.Contains(t, buf.String(), `"msg":"Video signer misconfigured"`)

	buf.Reset()
	request(SignedURL(store, brokenRequester{err: videosvc.ErrEmptyContentID}), "1", "12")
	assert.Contains(t, buf.String(), `"msg":"Failed to generate signed video URL"`)
}
