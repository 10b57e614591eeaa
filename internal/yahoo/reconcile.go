package yahoo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Peak is the highest close found in one chart window.
// Date is nil when the window held no usable close.
type Peak struct {
	Price decimal.Decimal
	Date  *time.Time
}

// Found reports whether the peak comes from an actual price point.
func (p Peak) Found() bool { return p.Date != nil }

// noPeak sits below any real price so the first close always replaces it.
var noPeak = Peak{Price: decimal.NewFromInt(-1)}

// FindPeak scans the daily closes of a chart and returns the maximum with the
// date of its first occurrence. Null closes are skipped. The comparison is
// strictly greater-than, so the earliest of equal closes is retained.
func FindPeak(chart PriceChart) Peak {
	peak := noPeak
	for _, ind := range chart.Indicators {
		if !ind.PriceClose.Valid {
			continue
		}
		if ind.PriceClose.Decimal.GreaterThan(peak.Price) {
			date := ind.Date
			peak = Peak{Price: ind.PriceClose.Decimal, Date: &date}
		}
	}
	return peak
}

// Reconcile merges the candidate all-time highs into one, in this order:
//  1. the long history peak;
//  2. the recent window peak, only if strictly greater;
//  3. the live price, if greater than or equal to what is left, dated at
//     its observation time.
//
// The long history lags the market by a few weeks, which is why the recent
// window and the live price are folded in. The result is never below the
// live price.
func Reconcile(history, recent Peak, livePrice decimal.Decimal, liveTime time.Time) Peak {
	ath := history
	if recent.Price.GreaterThan(ath.Price) {
		ath = recent
	}
	if livePrice.GreaterThanOrEqual(ath.Price) {
		observed := liveTime
		ath = Peak{Price: livePrice, Date: &observed}
	}
	return ath
}
