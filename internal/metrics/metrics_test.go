package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return pb.GetCounter().GetValue()
}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	assert.NotNil(t, m.AnalysisRequests)
	assert.NotNil(t, m.AnalysisDuration)
	assert.NotNil(t, m.StaleResolutions)
	assert.NotNil(t, m.CopyActions)
	assert.NotNil(t, m.HTTPRequests)

	// A second instance uses its own registry and must not panic
	assert.NotNil(t, NewMetrics())
}

func TestRecorders(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest("success", 2*time.Second)
	m.ObserveRequest("success", time.Second)
	m.ObserveRequest("application_error", time.Second)
	m.StaleDiscarded()
	m.CopyPerformed()
	m.CopyPerformed()

	assert.Equal(t, 2.0, counterValue(t, m.AnalysisRequests.WithLabelValues("success")))
	assert.Equal(t, 1.0, counterValue(t, m.AnalysisRequests.WithLabelValues("application_error")))
	assert.Equal(t, 1.0, counterValue(t, m.StaleResolutions))
	assert.Equal(t, 2.0, counterValue(t, m.CopyActions))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("success", time.Second)
	m.StaleDiscarded()
	m.CopyPerformed()
	assert.Equal(t, http.DefaultTransport, m.InstrumentTransport(nil))
}

func TestInstrumentTransport(t *testing.T) {
	m := NewMetrics()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := &http.Client{Transport: m.InstrumentTransport(nil)}
	resp, err := client.Post(server.URL, "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, 1.0, counterValue(t, m.HTTPRequests.WithLabelValues("418", "post")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.CopyPerformed()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), "designtutor_copy_actions_total 1")
}
