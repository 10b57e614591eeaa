package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/athtracker/athtracker-backend/internal/yahoo"
)

// ChartPoint is one daily close of a mock chart. A nil Close encodes the
// null entries Yahoo emits for days without a trade.
type ChartPoint struct {
	Date  time.Time
	Close *float64
}

// Close returns a point with a closing price.
func Close(date time.Time, price float64) ChartPoint {
	return ChartPoint{Date: date, Close: &price}
}

// NullClose returns a point whose close is null.
func NullClose(date time.Time) ChartPoint {
	return ChartPoint{Date: date}
}

// CreateMockYahooResponse creates a chart response with the given live quote
// and daily closes.
func CreateMockYahooResponse(symbol string, marketPrice float64, marketTime time.Time, points ...ChartPoint) yahoo.Response {
	timestamps := make([]int64, len(points))
	closes := make([]*float64, len(points))
	for i, p := range points {
		timestamps[i] = p.Date.Unix()
		closes[i] = p.Close
	}
	unix := marketTime.Unix()

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:             symbol,
						RegularMarketPrice: &marketPrice,
						RegularMarketTime:  &unix,
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{{Close: closes}},
					},
				},
			},
		},
	}
}

// CreateMockYahooErrorResponse creates a mock Yahoo response with an error.
// Useful for testing error handling scenarios.
func CreateMockYahooErrorResponse(code, description string) yahoo.Response {
	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{},
			Error:  &yahoo.Error{Code: code, Description: description},
		},
	}
}

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// History answers date-range queries, Recent answers named-range queries.
type MockYahooClient struct {
	History    yahoo.Response
	HistoryErr error
	Recent     yahoo.Response
	RecentErr  error

	mu           sync.Mutex
	HistoryCalls int
	RecentCalls  int
	LastStart    time.Time
	LastRange    yahoo.Range
}

var _ yahoo.Client = (*MockYahooClient)(nil)

func (m *MockYahooClient) QueryYahooSymbolByDateRange(_ context.Context, _ string, startDate, _ time.Time) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HistoryCalls++
	m.LastStart = startDate
	if m.HistoryErr != nil {
		return yahoo.Response{}, m.HistoryErr
	}
	return m.History, nil
}

func (m *MockYahooClient) QueryYahooSymbolByRange(_ context.Context, _ string, rng yahoo.Range) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecentCalls++
	m.LastRange = rng
	if m.RecentErr != nil {
		return yahoo.Response{}, m.RecentErr
	}
	return m.Recent, nil
}

// YahooCharts maps a symbol to the responses a fake Yahoo server returns for
// it: History for period1/period2 queries, Recent for range queries.
type YahooCharts map[string]struct {
	History yahoo.Response
	Recent  yahoo.Response
}

// NewYahooServer starts an httptest server speaking the chart API for the
// given symbols. Unknown symbols get a 404 with a Yahoo error body.
func NewYahooServer(t *testing.T, charts YahooCharts) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		w.Header().Set("Content-Type", "application/json")

		chart, ok := charts[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			//nolint:errcheck // test server
			json.NewEncoder(w).Encode(CreateMockYahooErrorResponse("Not Found", "No data found, symbol may be delisted"))
			return
		}

		resp := chart.History
		if r.URL.Query().Get("range") != "" {
			resp = chart.Recent
		}
		//nolint:errcheck // test server
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}
