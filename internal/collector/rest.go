package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"TrendSentinel/internal/model"

	"github.com/tidwall/gjson"
)

// RESTFetcher implements Fetcher against a generic bars REST API returning
// [{"timestamp":..,"open":..,"high":..,"low":..,"close":..,"volume":..}].
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// Ensure the RESTFetcher implements the Fetcher interface.
var _ Fetcher = (*RESTFetcher)(nil)

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// FetchBars fetches bars for the timeframe. When the API cannot serve weekly
// bars, daily bars over the same window are aggregated into weeks.
func (f *RESTFetcher) FetchBars(ctx context.Context, symbol string, tf model.Timeframe, start, end time.Time) ([]model.Bar, error) {
	bars, err := f.fetchBars(ctx, symbol, tf, start, end)
	if err == nil || tf != model.Weekly {
		return bars, err
	}

	daily, dailyErr := f.fetchBars(ctx, symbol, model.Daily, start, end)
	if dailyErr != nil {
		return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
	}
	return AggregateDailyToWeekly(daily), nil
}

func (f *RESTFetcher) fetchBars(ctx context.Context, symbol string, tf model.Timeframe, start, end time.Time) ([]model.Bar, error) {
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("interval", string(tf))
	params.Add("start", unixString(start))
	params.Add("end", unixString(end))
	endpoint := fmt.Sprintf("%s/api/v1/bars?%s", f.BaseURL, params.Encode())

	header := http.Header{}
	if f.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.APIKey)
	}

	body, err := getBody(ctx, f.Client, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars for %s: %w", tf, symbol, err)
	}
	return ParseBarsJSON(body)
}

// ParseBarsJSON parses a JSON array of bars with unix second timestamps.
func ParseBarsJSON(body []byte) ([]model.Bar, error) {
	data := gjson.ParseBytes(body)
	if !data.IsArray() {
		return nil, fmt.Errorf("decode bars: expected a json array")
	}

	rows := data.Array()
	bars := make([]model.Bar, 0, len(rows))
	for idx := range rows {
		ts := rows[idx].Get("timestamp")
		if !ts.Exists() {
			return nil, fmt.Errorf("decode bars: row %d has no timestamp", idx)
		}
		bars = append(bars, model.Bar{
			Time:   time.Unix(ts.Int(), 0).UTC(),
			Open:   rows[idx].Get("open").Float(),
			High:   rows[idx].Get("high").Float(),
			Low:    rows[idx].Get("low").Float(),
			Close:  rows[idx].Get("close").Float(),
			Volume: rows[idx].Get("volume").Float(),
		})
	}
	return bars, nil
}

func unixString(t time.Time) string {
	return fmt.Sprintf("%d", t.Unix())
}
