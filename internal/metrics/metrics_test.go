package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.ObserveRequest(PipelineText, StatusSuccess)
	m.ObserveRequest(PipelineText, StatusSuccess)
	m.ObserveRequest(PipelineAudio, StatusError)
	m.CleanupFailed()

	require.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(PipelineText, StatusSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(PipelineAudio, StatusError)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.cleanupFailures))

	m.ObserveInference("transcribe", "runtime", 300*time.Millisecond)
	m.ObserveProcessing(PipelineAudio, time.Second)
	m.ObserveUpload(1024)
	require.Equal(t, 1, testutil.CollectAndCount(m.inferenceDuration))
	require.Equal(t, 1, testutil.CollectAndCount(m.processingDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	require.NotPanics(t, func() {
		m.ObserveRequest(PipelineText, StatusSuccess)
		m.ObserveProcessing(PipelineText, time.Second)
		m.ObserveInference("translate", "runtime", time.Second)
		m.ObserveUpload(10)
		m.CleanupFailed()
	})
	require.Nil(t, m.Registry())
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest(PipelineAudio, StatusSuccess)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "vietrans_requests_total")
	require.Contains(t, string(body), "go_goroutines")
}
