// Package besteffort runs side actions whose failure must not reach the caller.
package besteffort

import (
	"fmt"
	"log/slog"
)

// Sink receives the failure of a best-effort action.
type Sink func(err error)

// Attempt runs action and reports whether it succeeded. Errors and panics
// are handed to sink and swallowed.
func Attempt(action func() error, sink Sink) bool {
	_, ok := AttemptValue(func() (struct{}, error) {
		return struct{}{}, action()
	}, sink)
	return ok
}

// AttemptValue is Attempt for actions that produce a value. On failure the
// zero value is returned.
func AttemptValue[T any](action func() (T, error), sink Sink) (result T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result, ok = zero, false
			report(sink, fmt.Errorf("panic: %v", r))
		}
	}()

	v, err := action()
	if err != nil {
		report(sink, err)
		var zero T
		return zero, false
	}
	return v, true
}

func report(sink Sink, err error) {
	if sink == nil {
		return
	}
	// a faulty sink must not undo the isolation
	defer func() { _ = recover() }()
	sink(err)
}

// LogSink writes failures to logger at error level.
func LogSink(logger *slog.Logger, msg string, attrs ...slog.Attr) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error) {
		args := make([]any, 0, len(attrs)+1)
		for _, a := range attrs {
			args = append(args, a)
		}
		args = append(args, slog.String("error", err.Error()))
		logger.Error(msg, args...)
	}
}
