package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TrendSentinel/internal/model"

	"github.com/peterldowns/testy/assert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveScan(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	m.ObserveScan(&model.Report{
		StartedAt:  at.Add(-3 * time.Second),
		FinishedAt: at,
		Transitions: []model.Transition{
			{Symbol: "AAPL", To: model.Buy},
			{Symbol: "MSFT", To: model.Buy},
			{Symbol: "TSLA", To: model.Sell},
		},
	})
	m.ObserveAnalysis(model.Daily, OutcomeAvailable)
	m.ObserveAnalysis(model.Daily, OutcomeAvailable)
	m.ObserveAnalysis(model.Hourly, OutcomeError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("Buy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("Sell")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("Daily", OutcomeAvailable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("Hourly", OutcomeError)))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.LastScanUnixTs))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ScanDuration))
}

func TestHealthStatus(t *testing.T) {
	h := NewHealthStatus()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"status":"healthy"`))

	h.SetScan("run-1", time.Now(), errors.New("telegram unreachable"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "telegram unreachable"))
}
