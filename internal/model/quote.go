package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is what a source adapter resolves for one asset: the live price and
// the authoritative all-time high.
type Quote struct {
	CurrentPrice     decimal.Decimal
	CurrentPriceDate time.Time
	ATH              decimal.Decimal
	// ATHDate is nil when no historical price point could be resolved.
	ATHDate *time.Time
	// Label is the upstream canonical name. Empty keeps the catalog label.
	Label string
}
