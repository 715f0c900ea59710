package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SignedURLIssued()
	m.SignedURLIssued()
	m.SignedURLFailed()
	m.AccessLogFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SignedURLs.WithLabelValues("issued")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignedURLs.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessLogFailures))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SignedURLIssued()
		m.SignedURLFailed()
		m.AccessLogFailed()
	})
}

func TestInstrument(t *testing.T) {
	m := New(prometheus.NewRegistry())
	h := m.Instrument("teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("teapot", "GET", "418")))
}
