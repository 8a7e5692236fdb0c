package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "designtutor"

// Metrics holds the client-side instrumentation of the analysis cycle
type Metrics struct {
	registry *prometheus.Registry

	AnalysisRequests *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	StaleResolutions prometheus.Counter
	CopyActions      prometheus.Counter

	// Transport-level metrics of the analysis HTTP client
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	InFlight     prometheus.Gauge
}

// NewMetrics creates the metrics on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.AnalysisRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_requests_total",
			Help:      "Total number of analysis requests by outcome",
		},
		[]string{"outcome"},
	)

	m.AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of analysis requests in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	m.StaleResolutions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_resolutions_total",
			Help:      "Analysis resolutions discarded because a newer upload superseded them",
		},
	)

	m.CopyActions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copy_actions_total",
			Help:      "Code blocks copied to the clipboard",
		},
	)

	m.HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_requests_total",
			Help:      "HTTP requests sent to the analysis service",
		},
		[]string{"code", "method"},
	)

	m.HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_client_request_duration_seconds",
			Help:      "Duration of HTTP requests sent to the analysis service",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_client_in_flight_requests",
			Help:      "HTTP requests to the analysis service currently in flight",
		},
	)

	m.registry.MustRegister(
		m.AnalysisRequests,
		m.AnalysisDuration,
		m.StaleResolutions,
		m.CopyActions,
		m.HTTPRequests,
		m.HTTPDuration,
		m.InFlight,
	)

	return m
}

// ObserveRequest records a finished analysis request
func (m *Metrics) ObserveRequest(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisRequests.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// StaleDiscarded records a discarded resolution
func (m *Metrics) StaleDiscarded() {
	if m == nil {
		return
	}
	m.StaleResolutions.Inc()
}

// CopyPerformed records a copy action
func (m *Metrics) CopyPerformed() {
	if m == nil {
		return
	}
	m.CopyActions.Inc()
}

// InstrumentTransport wraps next with request counting and timing
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if m == nil {
		return next
	}
	return promhttp.InstrumentRoundTripperInFlight(m.InFlight,
		promhttp.InstrumentRoundTripperCounter(m.HTTPRequests,
			promhttp.InstrumentRoundTripperDuration(m.HTTPDuration, next)))
}

// Registry returns the registry holding these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
