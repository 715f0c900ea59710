package besteffort

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttempt_Success(t *testing.T) {
	called := false
	ok := Attempt(func() error { return nil }, func(error) { called = true })

	assert.True(t, ok)
	assert.False(t, called)
}

func TestAttempt_ErrorGoesToSink(t *testing.T) {
	boom := errors.New("boom")
	var got error

	ok := Attempt(func() error { return boom }, func(err error) { got = err })

	assert.False(t, ok)
	assert.ErrorIs(t, got, boom)
}

func TestAttempt_RecoversPanic(t *testing.T) {
	var got error

	ok := Attempt(func() error { panic("db gone") }, func(err error) { got = err })

	assert.False(t, ok)
	require.Error(t, got)
	assert.Contains(t, got.Error(), "db gone")
}

func TestAttempt_NilAndPanickingSink(t *testing.T) {
	assert.NotPanics(t, func() {
		Attempt(func() error { return errors.New("x") }, nil)
		Attempt(func() error { return errors.New("x") }, func(error) { panic("sink") })
	})
}

func TestAttemptValue(t *testing.T) {
	v, ok := AttemptValue(func() (int, error) { return 7, nil }, nil)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = AttemptValue(func() (int, error) { return 7, errors.New("nope") }, nil)
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	sink := LogSink(logger, "failed to log video access", slog.String("course_id", "3"))
	sink(errors.New("insert failed"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "failed to log video access", record["msg"])
	assert.Equal(t, "3", record["course_id"])
	assert.Equal(t, "insert failed", record["error"])
}
