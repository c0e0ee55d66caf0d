package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TrendSentinel/internal/model"

	"github.com/peterldowns/testy/assert"
)

const yahooChartJSON = `{"chart":{"result":[{"meta":{"symbol":"^GSPC"},
"timestamp":[1736121600,1736208000,1736294400],
"indicators":{"quote":[{
"open":[100.0,null,102.0],
"high":[101.5,null,103.0],
"low":[99.5,null,101.0],
"close":[101.0,null,102.5],
"volume":[1200,null,900]}]}}],"error":null}}`

func TestYahooFetchBars(t *testing.T) {
	var gotPath, gotInterval, gotPeriod1 string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		gotPeriod1 = r.URL.Query().Get("period1")
		w.Write([]byte(yahooChartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "", time.Second)
	start := time.Unix(1736000000, 0)
	bars, err := f.FetchBars(context.Background(), "SPX500", model.Daily, start, start.AddDate(0, 0, 7))
	assert.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Equal(t, "1d", gotInterval)
	assert.Equal(t, "1736000000", gotPeriod1)

	// The null row is skipped.
	assert.Equal(t, 2, len(bars))
	assert.Equal(t, time.Unix(1736121600, 0).UTC(), bars[0].Time)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 102.5, bars[1].Close)
	assert.Equal(t, 900.0, bars[1].Volume)
}

func TestYahooErrors(t *testing.T) {
	_, err := ParseYahooChart([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	assert.Error(t, err)

	_, err = ParseYahooChart([]byte(`{"chart":{"result":[{"timestamp":[]}],"error":null}}`))
	assert.Error(t, err)

	_, err = ParseYahooChart([]byte(`not json`))
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "", time.Second)
	_, err = f.FetchBars(context.Background(), "AAPL", model.Hourly, time.Now().Add(-time.Hour), time.Now())
	assert.Error(t, err)
}

func TestRESTFetchBarsWeeklyFallback(t *testing.T) {
	// Daily bars Thursday, Friday and the following Monday.
	daily := `[{"timestamp":1741219200,"open":10,"high":12,"low":9,"close":11,"volume":100},
{"timestamp":1741305600,"open":11,"high":14,"low":10,"close":13,"volume":150},
{"timestamp":1741564800,"open":13,"high":13.5,"low":8,"close":9,"volume":200}]`

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/v1/bars" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("interval") {
		case "1d":
			w.Write([]byte(daily))
		default:
			http.Error(w, "unsupported interval", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", time.Second)
	start := time.Unix(1741000000, 0)

	bars, err := f.FetchBars(context.Background(), "AAPL", model.Daily, start, start.AddDate(0, 0, 10))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(bars))
	assert.Equal(t, "Bearer secret", gotAuth)

	weekly, err := f.FetchBars(context.Background(), "AAPL", model.Weekly, start, start.AddDate(0, 0, 10))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(weekly))
	assert.Equal(t, 14.0, weekly[0].High)
	assert.Equal(t, 250.0, weekly[0].Volume)

	// Ensure only weekly requests fall back.
	_, err = f.FetchBars(context.Background(), "AAPL", model.Hourly, start, start.AddDate(0, 0, 1))
	assert.Error(t, err)
}

func TestParseBarsJSON(t *testing.T) {
	_, err := ParseBarsJSON([]byte(`{"bars":[]}`))
	assert.Error(t, err)

	_, err = ParseBarsJSON([]byte(`[{"open":1}]`))
	assert.Error(t, err)

	bars, err := ParseBarsJSON([]byte(`[]`))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(bars))
}
