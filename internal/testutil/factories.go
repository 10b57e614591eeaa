package testutil

import (
	"time"

	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/shopspring/decimal"
)

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	// Simple creation with defaults (a Yahoo equity)
//	asset := testutil.NewAsset().Build()
//
//	// Customized asset
//	asset := testutil.NewAsset().
//	    WithSymbol("BTC").
//	    WithSource(model.SourceCoinGecko).
//	    WithPrices(60000, 69000).
//	    Build()
type AssetBuilder struct {
	asset model.Asset
}

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset() *AssetBuilder {
	return &AssetBuilder{asset: model.Asset{
		Symbol:       "TEST",
		Source:       model.SourceYahoo,
		Label:        "Test Inc.",
		FriendlyName: "Test",
		Category:     "Stock",
		Sector:       "Technology",
		Link:         "https://example.com/test",
	}}
}

func (b *AssetBuilder) WithSymbol(symbol string) *AssetBuilder {
	b.asset.Symbol = symbol
	return b
}

func (b *AssetBuilder) WithSource(source model.SourceKind) *AssetBuilder {
	b.asset.Source = source
	return b
}

func (b *AssetBuilder) WithLabel(label string) *AssetBuilder {
	b.asset.Label = label
	return b
}

func (b *AssetBuilder) WithStartDate(date string) *AssetBuilder {
	b.asset.StartDate = date
	return b
}

// WithPrices sets previously stored price fields, as a catalog entry that
// was refreshed before would carry.
func (b *AssetBuilder) WithPrices(current, ath float64) *AssetBuilder {
	observed := Day(2024, time.January, 2)
	athDate := Day(2021, time.November, 10)
	b.asset.CurrentPrice = decimal.NewFromFloat(current)
	b.asset.CurrentPriceDate = &observed
	b.asset.ATH = decimal.NewFromFloat(ath)
	b.asset.ATHDate = &athDate
	b.asset.Cheap = b.asset.CurrentPrice.LessThan(b.asset.ATH)
	b.asset.PercentBelow = model.PercentBelow(b.asset.CurrentPrice, b.asset.ATH)
	return b
}

func (b *AssetBuilder) Build() model.Asset {
	return b.asset
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
