package yahoo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/testutil"
	"github.com/athtracker/athtracker-backend/internal/yahoo"
)

func TestAdapter_Fetch(t *testing.T) {
	d2020 := testutil.Day(2020, time.June, 1)
	d2021 := testutil.Day(2021, time.June, 1)
	live := time.Date(2024, time.May, 6, 20, 0, 0, 0, time.UTC)

	asset := testutil.NewAsset().WithSymbol("SPY").Build()

	t.Run("equal peaks keep the earlier date", func(t *testing.T) {
		client := &testutil.MockYahooClient{
			History: testutil.CreateMockYahooResponse("SPY", 90, live, testutil.Close(d2020, 100)),
			Recent:  testutil.CreateMockYahooResponse("SPY", 90, live, testutil.Close(d2021, 100)),
		}

		quote, err := yahoo.NewAdapter(client).Fetch(context.Background(), asset)
		require.NoError(t, err)

		assert.Equal(t, "90", quote.CurrentPrice.String())
		assert.True(t, quote.CurrentPriceDate.Equal(live))
		assert.Equal(t, "100", quote.ATH.String())
		require.NotNil(t, quote.ATHDate)
		assert.True(t, quote.ATHDate.Equal(d2020))
	})

	t.Run("live price above history becomes the high", func(t *testing.T) {
		client := &testutil.MockYahooClient{
			History: testutil.CreateMockYahooResponse("SPY", 95, live, testutil.Close(d2020, 90)),
			Recent:  testutil.CreateMockYahooResponse("SPY", 95, live),
		}

		quote, err := yahoo.NewAdapter(client).Fetch(context.Background(), asset)
		require.NoError(t, err)

		assert.Equal(t, "95", quote.ATH.String())
		require.NotNil(t, quote.ATHDate)
		assert.True(t, quote.ATHDate.Equal(live))
	})

	t.Run("queries both windows once from the asset start date", func(t *testing.T) {
		client := &testutil.MockYahooClient{
			History: testutil.CreateMockYahooResponse("SPY", 1, live),
			Recent:  testutil.CreateMockYahooResponse("SPY", 1, live),
		}

		_, err := yahoo.NewAdapter(client).Fetch(context.Background(), testutil.NewAsset().WithStartDate("2012-03-04").Build())
		require.NoError(t, err)

		assert.Equal(t, 1, client.HistoryCalls)
		assert.Equal(t, 1, client.RecentCalls)
		assert.True(t, client.LastStart.Equal(testutil.Day(2012, time.March, 4)))
		assert.Equal(t, yahoo.RecentRange, client.LastRange)
	})

	t.Run("fails when the history window fails", func(t *testing.T) {
		client := &testutil.MockYahooClient{
			HistoryErr: fmt.Errorf("%w: connection reset", apperrors.ErrNetwork),
			Recent:     testutil.CreateMockYahooResponse("SPY", 1, live),
		}

		_, err := yahoo.NewAdapter(client).Fetch(context.Background(), asset)
		assert.ErrorIs(t, err, apperrors.ErrNetwork)
		assert.Equal(t, 0, client.RecentCalls)
	})

	t.Run("fails when the recent window fails", func(t *testing.T) {
		client := &testutil.MockYahooClient{
			History:   testutil.CreateMockYahooResponse("SPY", 1, live),
			RecentErr: fmt.Errorf("%w: timeout", apperrors.ErrNetwork),
		}

		_, err := yahoo.NewAdapter(client).Fetch(context.Background(), asset)
		assert.ErrorIs(t, err, apperrors.ErrNetwork)
	})

	t.Run("fails without a live market price", func(t *testing.T) {
		history := testutil.CreateMockYahooResponse("SPY", 1, live, testutil.Close(d2020, 100))
		history.Chart.Result[0].Meta.RegularMarketPrice = nil
		client := &testutil.MockYahooClient{
			History: history,
			Recent:  testutil.CreateMockYahooResponse("SPY", 1, live),
		}

		_, err := yahoo.NewAdapter(client).Fetch(context.Background(), asset)
		assert.ErrorIs(t, err, apperrors.ErrUpstreamData)
	})

	t.Run("works end to end over http", func(t *testing.T) {
		server := testutil.NewYahooServer(t, testutil.YahooCharts{
			"GC=F": {
				History: testutil.CreateMockYahooResponse("GC=F", 2300, live, testutil.Close(d2020, 2060), testutil.NullClose(d2021)),
				Recent:  testutil.CreateMockYahooResponse("GC=F", 2300, live, testutil.Close(d2021, 2400)),
			},
		})
		adapter := yahoo.NewAdapter(yahoo.NewFinanceClient(server.URL, time.Second))

		quote, err := adapter.Fetch(context.Background(), testutil.NewAsset().WithSymbol("GC=F").Build())
		require.NoError(t, err)

		assert.Equal(t, "2400", quote.ATH.String())
		assert.True(t, quote.ATHDate.Equal(d2021))
		assert.True(t, quote.ATH.GreaterThanOrEqual(quote.CurrentPrice))
	})
}
