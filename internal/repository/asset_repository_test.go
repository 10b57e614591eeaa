package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/athtracker/athtracker-backend/internal/testutil"
)

func TestAssetRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table loads as empty slice", func(t *testing.T) {
		repo := NewAssetRepository(testutil.SetupTestDB(t))

		assets, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, assets)
		assert.Empty(t, assets)
	})

	t.Run("round trips the catalog in order", func(t *testing.T) {
		repo := NewAssetRepository(testutil.SetupTestDB(t))

		in := []model.Asset{
			testutil.NewAsset().WithSymbol("SPY").WithPrices(510.25, 523.07).Build(),
			testutil.NewAsset().WithSymbol("BTC").WithSource(model.SourceCoinGecko).WithStartDate("2015-01-01").Build(),
			testutil.NewAsset().WithSymbol("AAPL").WithPrices(182.4, 199.62).Build(),
		}
		require.NoError(t, repo.Save(ctx, in))

		out, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, out, 3)

		for i := range in {
			assert.Equal(t, in[i].Symbol, out[i].Symbol)
			assert.Equal(t, in[i].Source, out[i].Source)
			assert.Equal(t, in[i].StartDate, out[i].StartDate)
			assert.True(t, in[i].CurrentPrice.Equal(out[i].CurrentPrice), "%s price", in[i].Symbol)
			assert.True(t, in[i].ATH.Equal(out[i].ATH), "%s ath", in[i].Symbol)
			assert.True(t, in[i].PercentBelow.Equal(out[i].PercentBelow), "%s percent", in[i].Symbol)
			assert.Equal(t, in[i].Cheap, out[i].Cheap)
		}

		require.NotNil(t, out[0].ATHDate)
		assert.True(t, out[0].ATHDate.Equal(*in[0].ATHDate))
		assert.Nil(t, out[1].ATHDate)
		assert.Nil(t, out[1].CurrentPriceDate)
	})

	t.Run("keeps keys without a column", func(t *testing.T) {
		repo := NewAssetRepository(testutil.SetupTestDB(t))

		asset := testutil.NewAsset().WithSymbol("SPY").Build()
		asset.Extra = map[string]json.RawMessage{"notes": json.RawMessage(`"S&P tracker"`)}
		require.NoError(t, repo.Save(ctx, []model.Asset{asset, testutil.NewAsset().WithSymbol("BTC").Build()}))

		out, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, `"S&P tracker"`, string(out[0].Extra["notes"]))
		assert.Nil(t, out[1].Extra)
	})

	t.Run("save replaces previous rows", func(t *testing.T) {
		repo := NewAssetRepository(testutil.SetupTestDB(t))

		require.NoError(t, repo.Save(ctx, []model.Asset{
			testutil.NewAsset().WithSymbol("A").Build(),
			testutil.NewAsset().WithSymbol("B").Build(),
		}))
		require.NoError(t, repo.Save(ctx, []model.Asset{
			testutil.NewAsset().WithSymbol("C").Build(),
		}))

		out, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "C", out[0].Symbol)
	})

	t.Run("duplicate symbols are kept", func(t *testing.T) {
		repo := NewAssetRepository(testutil.SetupTestDB(t))

		dup := testutil.NewAsset().WithSymbol("DUP").Build()
		require.NoError(t, repo.Save(ctx, []model.Asset{dup, dup}))

		out, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("closed database reports a load failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := NewAssetRepository(db)
		db.Close()

		_, err := repo.Load(ctx)
		assert.ErrorIs(t, err, apperrors.ErrFailedToLoadCatalog)
	})
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-05-06T20:00:00Z", want: time.Date(2024, 5, 6, 20, 0, 0, 0, time.UTC)},
		{in: "2024-05-06T20:00:00.123Z", want: time.Date(2024, 5, 6, 20, 0, 0, 123000000, time.UTC)},
		{in: "2024-05-06", want: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
		})
	}
}
