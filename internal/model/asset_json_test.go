package model

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encode mirrors how the catalog file is written: no HTML escaping.
func encode(t *testing.T, v any) string {
	t.Helper()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(v))
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func TestAsset_JSONPreservesRecord(t *testing.T) {
	const record = `{"name":"SPY","api_source":"yahoo","label":"S&P 500","currentPriceDate":"2024-05-06T20:00:00.000Z","notes":"hand maintained"}`

	t.Run("unchanged record is written back verbatim", func(t *testing.T) {
		var asset Asset
		require.NoError(t, json.Unmarshal([]byte(record), &asset))

		assert.Equal(t, json.RawMessage(`"hand maintained"`), asset.Extra["notes"])
		assert.Equal(t, record, encode(t, asset))
	})

	t.Run("copies keep the original bytes", func(t *testing.T) {
		var asset Asset
		require.NoError(t, json.Unmarshal([]byte(record), &asset))

		stale := asset
		assert.Equal(t, record, encode(t, stale))
	})

	t.Run("refreshed record keeps order and unknown keys", func(t *testing.T) {
		var asset Asset
		require.NoError(t, json.Unmarshal([]byte(record), &asset))

		athDate := time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC)
		refreshed := asset.WithQuote(Quote{
			CurrentPrice:     decimal.NewFromInt(500),
			CurrentPriceDate: time.Date(2024, 5, 7, 20, 0, 0, 0, time.UTC),
			ATH:              decimal.NewFromInt(523),
			ATHDate:          &athDate,
		})

		want := `{"name":"SPY","api_source":"yahoo","label":"S&P 500",` +
			`"currentPriceDate":"2024-05-07T20:00:00Z","notes":"hand maintained",` +
			`"currentPrice":500,"ath":523,"athDate":"2024-03-28T00:00:00Z","cheap":true,` +
			`"percentBelow":` + refreshed.PercentBelow.String() + `}`
		assert.Equal(t, want, encode(t, refreshed))
	})

	t.Run("edited descriptor field is re-encoded", func(t *testing.T) {
		var asset Asset
		require.NoError(t, json.Unmarshal([]byte(`{"name":"X","api_source":"yahoo","label":"old","ath":1.50}`), &asset))

		asset.Label = "new"
		assert.Equal(t, `{"name":"X","api_source":"yahoo","label":"new","ath":1.50}`, encode(t, asset))
	})

	t.Run("record built in code writes known keys in order", func(t *testing.T) {
		asset := Asset{Symbol: "BTC", Source: SourceCoinGecko, Label: "Bitcoin", Extra: map[string]json.RawMessage{"rank": json.RawMessage("1")}}
		assert.Equal(t, `{"name":"BTC","api_source":"coingecko","label":"Bitcoin","rank":1}`, encode(t, asset))
	})

	t.Run("rejects non-object records", func(t *testing.T) {
		var asset Asset
		assert.Error(t, json.Unmarshal([]byte(`["SPY"]`), &asset))
	})
}
