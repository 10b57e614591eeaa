package yahoo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Range is a named chart window accepted by the Yahoo Finance chart API.
type Range string

const Range1mo Range = "1mo"

// Response represents the raw JSON response structure from Yahoo Finance API.
// This type maps directly to the Yahoo Finance chart API response format,
// containing nested structures for metadata, timestamps, and price indicators.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata and the live market price
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays, entries may be null
//   - Chart.Error: Optional error object from Yahoo API
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level "chart" object of a Yahoo response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns instead of a result,
// e.g. {"code":"Not Found","description":"No data found, symbol may be delisted"}.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds one symbol's chart.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta carries the symbol metadata. RegularMarketPrice and RegularMarketTime
// describe the live quote and are independent of the daily series.
type Meta struct {
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	RegularMarketTime  *int64   `json:"regularMarketTime"`
}

// IndicatorsContainer wraps the quote arrays.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds the daily close array; the other OHLCV arrays are not read.
// Yahoo emits null for days without a trade,
// hence the pointer elements.
type Quote struct {
	Close []*float64 `json:"close"`
}

// PriceChart represents a parsed and structured price chart from Yahoo Finance.
// This is the application's internal representation after parsing the raw Response.
//
// The chart contains:
//   - Symbol: the ticker Yahoo resolved
//   - Live quote: the regular market price and its observation time, when present
//   - Indicators: A time-series array of daily closing prices
type PriceChart struct {
	Symbol string

	MarketPrice decimal.NullDecimal
	MarketTime  time.Time

	Indicators []Indicators
}

// Indicators represents a single day's closing price for a financial instrument.
//
// Fields:
//   - Date: Trading date as reported by Yahoo, in UTC
//   - PriceClose: Closing price for the day; invalid when Yahoo reported null
type Indicators struct {
	Date       time.Time
	PriceClose decimal.NullDecimal
}
