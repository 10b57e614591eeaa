package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/athtracker/athtracker-backend/internal/testutil"
)

func TestEngine_Refresh(t *testing.T) {
	athDate := testutil.Day(2021, time.November, 10)

	coin := FetcherFunc(func(_ context.Context, a model.Asset) (model.Quote, error) {
		return model.Quote{
			CurrentPrice:     decimal.NewFromInt(60000),
			CurrentPriceDate: time.Now(),
			ATH:              decimal.NewFromInt(69000),
			ATHDate:          &athDate,
			Label:            "Bitcoin",
		}, nil
	})
	equity := FetcherFunc(func(_ context.Context, a model.Asset) (model.Quote, error) {
		if a.Symbol == "DOWN" {
			return model.Quote{}, errors.New("upstream down")
		}
		return fixedQuote(100), nil
	})

	t.Run("dispatches by source and counts outcomes", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger()
		engine := NewEngine(
			WithAdapter(model.SourceCoinGecko, coin),
			WithAdapter(model.SourceYahoo, equity),
			WithLogger(logger),
		)

		assets := []model.Asset{
			testutil.NewAsset().WithSymbol("BTC").WithSource(model.SourceCoinGecko).Build(),
			testutil.NewAsset().WithSymbol("SPY").Build(),
			testutil.NewAsset().WithSymbol("DOWN").WithPrices(10, 20).Build(),
		}
		report := engine.Refresh(context.Background(), assets)

		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", report.RunID.String())
		require.Len(t, report.Assets, 3)
		assert.Equal(t, 2, report.Refreshed)
		assert.Equal(t, 1, report.Stale)
		assert.False(t, report.FinishedAt.Before(report.StartedAt))

		for _, a := range report.Assets {
			switch a.Symbol {
			case "BTC":
				assert.Equal(t, "Bitcoin", a.Label)
				assert.Equal(t, "69000", a.ATH.String())
			case "DOWN":
				assert.Equal(t, assets[2], a)
			}
			assert.True(t, a.ATH.GreaterThanOrEqual(a.CurrentPrice), "%s: ath %s below price %s", a.Symbol, a.ATH, a.CurrentPrice)
		}
	})

	t.Run("unknown source passes through unchanged", func(t *testing.T) {
		logger, hook := testutil.NewTestLogger()
		engine := NewEngine(WithAdapter(model.SourceYahoo, equity), WithLogger(logger))

		odd := testutil.NewAsset().WithSymbol("ODD").WithSource("bloomberg").WithPrices(1, 2).Build()
		report := engine.Refresh(context.Background(), []model.Asset{odd})

		require.Len(t, report.Assets, 1)
		assert.Equal(t, odd, report.Assets[0])
		assert.Equal(t, 1, report.Stale)

		var warned bool
		for _, e := range hook.AllEntries() {
			if e.Message == "failed to fetch, using stale data" {
				warned = true
				err, _ := e.Data["error"].(error)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			}
		}
		assert.True(t, warned)
	})

	t.Run("asset without a name is never fetched", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger()
		called := false
		engine := NewEngine(WithAdapter(model.SourceYahoo, FetcherFunc(func(context.Context, model.Asset) (model.Quote, error) {
			called = true
			return fixedQuote(1), nil
		})), WithLogger(logger))

		blank := testutil.NewAsset().WithSymbol("").Build()
		report := engine.Refresh(context.Background(), []model.Asset{blank})

		assert.False(t, called)
		assert.Equal(t, []model.Asset{blank}, report.Assets)
	})

	t.Run("engine without adapters returns the input", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger()
		assets := []model.Asset{testutil.NewAsset().Build()}

		report := NewEngine(WithLogger(logger)).Refresh(context.Background(), assets)
		assert.Equal(t, assets, report.Assets)
	})

	t.Run("concurrency option", func(t *testing.T) {
		assert.Equal(t, DefaultConcurrency, NewEngine().concurrency)
		assert.Equal(t, DefaultConcurrency, NewEngine(WithConcurrency(-2)).concurrency)
		assert.Equal(t, 8, NewEngine(WithConcurrency(8)).concurrency)
	})

	t.Run("log entries carry the run id", func(t *testing.T) {
		logger, hook := testutil.NewTestLogger()
		report := NewEngine(WithAdapter(model.SourceYahoo, equity), WithLogger(logger)).
			Refresh(context.Background(), []model.Asset{testutil.NewAsset().Build()})

		require.NotEmpty(t, hook.AllEntries())
		for _, e := range hook.AllEntries() {
			assert.Equal(t, report.RunID.String(), e.Data["run_id"], e.Message)
		}
	})
}
