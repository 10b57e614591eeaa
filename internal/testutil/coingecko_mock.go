package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// Coin is the fixture a fake CoinGecko server serves for one coin id.
type Coin struct {
	Name          string
	Price         float64
	LastUpdatedAt int64 // zero omits last_updated_at
	ATH           float64
	ATHDate       time.Time
}

// NewCoinGeckoServer starts an httptest server answering /simple/price and
// /coins/markets for the given coin ids. Unknown ids produce an empty object
// and an empty array, as CoinGecko does.
func NewCoinGeckoServer(t *testing.T, coins map[string]Coin) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/simple/price", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("ids")
		resp := map[string]map[string]any{}
		if c, ok := coins[id]; ok {
			entry := map[string]any{"usd": c.Price}
			if c.LastUpdatedAt != 0 {
				entry["last_updated_at"] = c.LastUpdatedAt
			}
			resp[id] = entry
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // test server
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/coins/markets", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("ids")
		resp := []map[string]any{}
		if c, ok := coins[id]; ok {
			resp = append(resp, map[string]any{
				"id":            id,
				"name":          c.Name,
				"current_price": c.Price,
				"ath":           c.ATH,
				"ath_date":      c.ATHDate.Format(time.RFC3339Nano),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // test server
		json.NewEncoder(w).Encode(resp)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
