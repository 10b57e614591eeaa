package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
)

// RecentRange is the short window queried next to the long history. The long
// history endpoint lags by about three weeks and can miss a fresh peak.
const RecentRange = Range1mo

// Adapter resolves equities, ETFs and commodities from Yahoo Finance charts.
// It reconciles the all-time high locally from two chart windows and the
// live price.
type Adapter struct {
	client Client
	now    func() time.Time
}

// NewAdapter creates a Yahoo adapter on top of a chart client.
func NewAdapter(client Client) *Adapter {
	return &Adapter{client: client, now: time.Now}
}

// Fetch queries the long history and the recent window for the asset's symbol
// and returns the live price with the reconciled all-time high. A failure of
// either query fails the whole asset.
func (a *Adapter) Fetch(ctx context.Context, asset model.Asset) (model.Quote, error) {
	history, err := a.window(ctx, asset, func(ctx context.Context) (Response, error) {
		return a.client.QueryYahooSymbolByDateRange(ctx, asset.Symbol, asset.HistoryStart(), a.now())
	})
	if err != nil {
		return model.Quote{}, fmt.Errorf("history window: %w", err)
	}

	recent, err := a.window(ctx, asset, func(ctx context.Context) (Response, error) {
		return a.client.QueryYahooSymbolByRange(ctx, asset.Symbol, RecentRange)
	})
	if err != nil {
		return model.Quote{}, fmt.Errorf("recent window: %w", err)
	}

	// The live quote is read from metadata, never from the daily series.
	if !history.MarketPrice.Valid || history.MarketTime.IsZero() {
		return model.Quote{}, fmt.Errorf("%w: no regular market price for %s", apperrors.ErrUpstreamData, asset.Symbol)
	}

	ath := Reconcile(FindPeak(history), FindPeak(recent), history.MarketPrice.Decimal, history.MarketTime)

	return model.Quote{
		CurrentPrice:     history.MarketPrice.Decimal,
		CurrentPriceDate: history.MarketTime,
		ATH:              ath.Price,
		ATHDate:          ath.Date,
	}, nil
}

func (a *Adapter) window(ctx context.Context, asset model.Asset, query func(context.Context) (Response, error)) (PriceChart, error) {
	resp, err := query(ctx)
	if err != nil {
		return PriceChart{}, err
	}
	chart, err := ParseChart(resp)
	if err != nil {
		return PriceChart{}, fmt.Errorf("%s: %w", asset.Symbol, err)
	}
	return chart, nil
}
