package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStageAndRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveStage("caesar", 3*time.Millisecond, -3.25)
	m.ObserveStage("caesar", time.Millisecond, -2.5)
	m.ObserveRun("ok")
	m.ObserveRun("ok")
	m.ObserveRun("binary")

	assert.Equal(t, -2.5, testutil.ToFloat64(m.stageFitness.WithLabelValues("caesar")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("binary")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage("substitution", time.Second, -3)
		m.ObserveRun("ok")
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRun("ok")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `breaker_runs_total{outcome="ok"} 1`)
}
