package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"TrendSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Analysis outcomes.
const (
	OutcomeAvailable   = "available"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics holds all Prometheus metrics of the scanner.
type Metrics struct {
	ScansTotal     prometheus.Counter
	AnalysesTotal  *prometheus.CounterVec // labels: timeframe, outcome
	FetchFailures  *prometheus.CounterVec // labels: timeframe
	Transitions    *prometheus.CounterVec // labels: action
	ScanDuration   prometheus.Histogram
	LastScanUnixTs prometheus.Gauge
}

// NewMetrics creates the scanner metrics and registers them with reg.
// A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendsentinel_scans_total",
			Help: "Total portfolio scans completed",
		}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_analyses_total",
			Help: "Symbol timeframe analyses by outcome",
		}, []string{"timeframe", "outcome"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_fetch_failures_total",
			Help: "Bar fetches that failed after all retries",
		}, []string{"timeframe"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendsentinel_transitions_total",
			Help: "Total trend transitions into Buy or Sell",
		}, []string{"action"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trendsentinel_scan_duration_seconds",
			Help:    "Wall time of one portfolio scan",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		LastScanUnixTs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trendsentinel_last_scan_timestamp_seconds",
			Help: "Unix time of the last completed scan",
		}),
	}

	reg.MustRegister(
		m.ScansTotal,
		m.AnalysesTotal,
		m.FetchFailures,
		m.Transitions,
		m.ScanDuration,
		m.LastScanUnixTs,
	)
	return m
}

// ObserveAnalysis counts one analysis outcome.
func (m *Metrics) ObserveAnalysis(tf model.Timeframe, outcome string) {
	m.AnalysesTotal.WithLabelValues(tf.String(), outcome).Inc()
}

// ObserveFetchFailure counts a fetch that failed after all retries.
func (m *Metrics) ObserveFetchFailure(tf model.Timeframe) {
	m.FetchFailures.WithLabelValues(tf.String()).Inc()
}

// ObserveScan records a finished report.
func (m *Metrics) ObserveScan(report *model.Report) {
	m.ScansTotal.Inc()
	m.ScanDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	m.LastScanUnixTs.Set(float64(report.FinishedAt.Unix()))
	for _, tr := range report.Transitions {
		m.Transitions.WithLabelValues(tr.To.String()).Inc()
	}
}

// HealthStatus tracks the outcome of the last scan for /healthz.
type HealthStatus struct {
	mu        sync.RWMutex
	StartedAt time.Time
	LastScan  time.Time
	LastRunID string
	LastError string
}

// NewHealthStatus creates a HealthStatus starting now.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

// SetScan records the latest scan result.
func (h *HealthStatus) SetScan(runID string, at time.Time, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastScan = at
	h.LastRunID = runID
	h.LastError = ""
	if err != nil {
		h.LastError = err.Error()
	}
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := struct {
		Status    string `json:"status"`
		Uptime    string `json:"uptime"`
		LastScan  string `json:"last_scan,omitempty"`
		LastRunID string `json:"last_run_id,omitempty"`
		LastError string `json:"last_error,omitempty"`
	}{
		Status:    "healthy",
		Uptime:    time.Since(h.StartedAt).Round(time.Second).String(),
		LastRunID: h.LastRunID,
		LastError: h.LastError,
	}
	if !h.LastScan.IsZero() {
		status.LastScan = h.LastScan.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.LastError != "" {
		status.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr   string
	srv    *http.Server
	logger zerolog.Logger
}

// NewServer creates a metrics and health server. gatherer serves /metrics;
// nil uses the default gatherer.
func NewServer(addr string, gatherer prometheus.Gatherer, health *HealthStatus, logger zerolog.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", health)

	return &Server{
		addr:   addr,
		logger: logger.With().Str("component", "metrics").Logger(),
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("metrics server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
