package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind selects the upstream adapter that services an asset.
type SourceKind string

const (
	SourceYahoo     SourceKind = "yahoo"
	SourceCoinGecko SourceKind = "coingecko"
)

// DefaultStartDate is the oldest date requested from history-based sources
// when an asset does not declare its own start_date.
var DefaultStartDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Asset is one entry of the catalog. The descriptor fields are read from the
// catalog and drive the refresh; the price fields are written back by a
// successful refresh and left untouched by a failed one.
//
// JSON keys follow the catalog file format:
//   - name: upstream query key (ticker or coin symbol)
//   - api_source: "yahoo" or "coingecko"
//   - start_date: optional YYYY-MM-DD lower bound for history queries
//
// Keys the struct does not know are kept in Extra. A record decoded from
// JSON is written back with its original key order and, for every field
// that did not change, its original bytes (see asset_json.go).
type Asset struct {
	Symbol       string     `json:"name"`
	Source       SourceKind `json:"api_source"`
	Label        string     `json:"label"`
	FriendlyName string     `json:"friendlyName,omitempty"`
	Category     string     `json:"category,omitempty"`
	Sector       string     `json:"sector,omitempty"`
	Link         string     `json:"link,omitempty"`
	StartDate    string     `json:"start_date,omitempty"`

	CurrentPrice     decimal.Decimal `json:"currentPrice"`
	CurrentPriceDate *time.Time      `json:"currentPriceDate,omitempty"`
	ATH              decimal.Decimal `json:"ath"`
	ATHDate          *time.Time      `json:"athDate"`
	Cheap            bool            `json:"cheap"`
	PercentBelow     decimal.Decimal `json:"percentBelow"`

	Extra map[string]json.RawMessage `json:"-"`

	// quoted is set by WithQuote; the price fields are then always written.
	quoted bool
	// keys, raw and decoded describe the JSON object the asset was read
	// from: its key order, its values and the fields as first decoded.
	keys    []string
	raw     map[string]json.RawMessage
	decoded *Asset
}

// HistoryStart returns the oldest date to request from a history source.
// Unparseable or empty start dates fall back to DefaultStartDate.
func (a Asset) HistoryStart() time.Time {
	if a.StartDate == "" {
		return DefaultStartDate
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, a.StartDate); err == nil {
			return t.UTC()
		}
	}
	return DefaultStartDate
}

// WithQuote returns a copy of the asset enriched with a fresh quote.
// The receiver is not modified so the original stays available as the
// stale fallback.
func (a Asset) WithQuote(q Quote) Asset {
	enriched := a
	enriched.quoted = true
	observed := q.CurrentPriceDate
	enriched.CurrentPrice = q.CurrentPrice
	enriched.CurrentPriceDate = &observed
	enriched.ATH = q.ATH
	enriched.ATHDate = q.ATHDate
	enriched.Cheap = q.CurrentPrice.LessThan(q.ATH)
	enriched.PercentBelow = PercentBelow(q.CurrentPrice, q.ATH)
	if q.Label != "" {
		enriched.Label = q.Label
	}
	return enriched
}

// PercentBelow returns how far price sits under ath, in percent.
// A non-positive ath yields zero.
func PercentBelow(price, ath decimal.Decimal) decimal.Decimal {
	if !ath.IsPositive() {
		return decimal.Zero
	}
	return ath.Sub(price).Div(ath).Mul(decimal.NewFromInt(100))
}
