package types

import "time"

// Course is a catalog entry whose video lives on Bunny Stream.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoID     string    `json:"video_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccessEvent is one row of the append-only video access log. UserID is
// empty for unauthenticated access.
type AccessEvent struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	UserID     string    `json:"user_id,omitempty"`
	AccessedAt time.Time `json:"accessed_at"`
}

// CourseStats summarises access events for a course over a window.
type CourseStats struct {
	CourseID    string `json:"course_id"`
	Accesses    int64  `json:"accesses"`
	UniqueUsers int64  `json:"unique_users"`
}

// VideoURLResponse is the body of GET /video/{courseId}/url.
type VideoURLResponse struct {
	URL string `json:"url"`
}
