package video

import "errors"

var (
	// ErrNotConfigured is returned when a Bunny credential is missing. It is
	// an operator error and is never retried.
	ErrNotConfigured = errors.New("video: bunny.net credentials not configured")

	// ErrInvalidLifetime is returned for a non-positive URL lifetime.
	ErrInvalidLifetime = errors.New("video: url lifetime must be positive")

	ErrEmptyContentID = errors.New("video: content id is required")

	ErrInvalidToken = errors.New("video: invalid token")
	ErrExpired      = errors.New("video: signed url has expired")
)

// IsConfigError reports whether err stems from signer configuration rather
// than from the request.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrInvalidLifetime)
}
