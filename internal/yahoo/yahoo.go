package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// DefaultTimeout bounds every single chart request.
const DefaultTimeout = 10 * time.Second

// Client is the subset of FinanceClient the adapter depends on.
type Client interface {
	QueryYahooSymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error)
	QueryYahooSymbolByRange(ctx context.Context, symbol string, rng Range) (Response, error)
}

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
// It wraps an HTTP client and provides convenient methods for querying daily
// price charts.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

var _ Client = (*FinanceClient)(nil)

// NewFinanceClient creates a new Yahoo Finance client.
// Every request issued by the client carries its own timeout, so one slow
// chart never eats into the budget of the next one.
//
// Parameters:
//   - baseURL: Yahoo host, DefaultBaseURL when empty
//   - timeout: per-request ceiling, DefaultTimeout when zero
//
// Returns:
//   - *FinanceClient: A new client instance ready for use
func NewFinanceClient(baseURL string, timeout time.Duration) *FinanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &FinanceClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
	}
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
// This function extracts the daily close series and the live quote metadata
// from the Yahoo response format.
//
// The function performs validation to ensure:
//   - A chart result is present
//   - Close price data, when present, matches the timestamp array length
//
// Null closes are kept as invalid entries so callers can skip them without
// shifting dates.
//
// Parameters:
//   - yahooResult: Raw response from Yahoo Finance API
//
// Returns:
//   - PriceChart: Structured chart with indicators and metadata
//   - error: ErrUpstreamData if data is missing or arrays have mismatched lengths
func ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no chart result", apperrors.ErrUpstreamData)
	}
	result := yahooResult.Chart.Result[0]

	var closes []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	if len(closes) != 0 && len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("%w: mismatched data lengths", apperrors.ErrUpstreamData)
	}

	indicators := make([]Indicators, len(closes))
	for i, c := range closes {
		indicators[i].Date = time.Unix(result.Timestamp[i], 0).UTC()
		if c != nil {
			indicators[i].PriceClose = decimal.NewNullDecimal(decimal.NewFromFloat(*c))
		}
	}

	chart := PriceChart{
		Symbol:     result.Meta.Symbol,
		Indicators: indicators,
	}
	if result.Meta.RegularMarketPrice != nil {
		chart.MarketPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*result.Meta.RegularMarketPrice))
	}
	if result.Meta.RegularMarketTime != nil {
		chart.MarketTime = time.Unix(*result.Meta.RegularMarketTime, 0).UTC()
	}
	return chart, nil
}

// QueryYahooSymbolByRange fetches daily price data for a named window such as
// "1mo" or "max". The window is resolved by Yahoo relative to the current
// trading day, which makes it the freshest view of recent closes.
//
// Parameters:
//   - ctx: Request context
//   - symbol: Ticker symbol (e.g., "AAPL", "GC=F")
//   - rng: Named chart range
//
// Returns:
//   - Response: Raw API response containing price data
//   - error: If the HTTP request fails, API returns an error, or no results found
func (c *FinanceClient) QueryYahooSymbolByRange(ctx context.Context, symbol string, rng Range) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", c.baseURL, url.PathEscape(symbol), rng)
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrUpstreamData, symbol)
	}

	return result, nil
}

// QueryYahooSymbolByDateRange fetches daily price data for a symbol within a specific date range.
// This method is used for the long history scan, from the asset's start date
// up to now.
//
// The method uses Yahoo Finance's period-based query format with Unix timestamps,
// providing precise control over the requested date range.
//
// Parameters:
//   - ctx: Request context
//   - symbol: Ticker symbol (e.g., "AAPL", "MSFT")
//   - startDate: Beginning of date range (inclusive)
//   - endDate: End of date range (inclusive)
//
// Returns:
//   - Response: Raw API response containing price data for the range
//   - error: If the HTTP request fails, API returns an error, or no results found
func (c *FinanceClient) QueryYahooSymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		url.PathEscape(symbol),
		startDate.Unix(),
		endDate.Unix(),
	)
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrUpstreamData, symbol)
	}

	return result, nil
}

// queryYahoo is an internal helper that executes HTTP requests to Yahoo Finance API.
// This method handles the common logic for making requests, reading responses,
// parsing JSON, and checking for API errors.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
//
// Transport failures and non-2xx statuses are reported as ErrNetwork;
// undecodable bodies and chart errors as ErrUpstreamData.
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return Response{}, fmt.Errorf("%w: unexpected status code: %d", apperrors.ErrNetwork, resp.StatusCode)
		}
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrUpstreamData, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("%w: yahoo error: %s: %s", apperrors.ErrUpstreamData, response.Chart.Error.Code, response.Chart.Error.Description)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return Response{}, fmt.Errorf("%w: unexpected status code: %d", apperrors.ErrNetwork, resp.StatusCode)
	}

	return response, nil
}
