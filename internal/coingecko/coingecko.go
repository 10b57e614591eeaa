package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTimeout = 10 * time.Second
)

// coinIDs maps tickers whose CoinGecko id is not simply the lower-cased symbol.
var coinIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
}

// CoinID maps a catalog symbol to a CoinGecko coin id. Unknown symbols are
// lower-cased as a best effort.
func CoinID(symbol string) string {
	if id, ok := coinIDs[symbol]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Adapter resolves cryptocurrencies from CoinGecko. The all-time high is taken
// as CoinGecko reports it; no local reconciliation happens on this path.
type Adapter struct {
	BaseURL string
	Client  *http.Client

	now func() time.Time
}

// NewAdapter creates a CoinGecko adapter. Each request carries its own timeout.
func NewAdapter(baseURL string, timeout time.Duration) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

type simplePrice struct {
	USD           *float64 `json:"usd"`
	LastUpdatedAt *int64   `json:"last_updated_at"`
}

type market struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	ATH     *float64   `json:"ath"`
	ATHDate *time.Time `json:"ath_date"`
}

// Fetch returns the current price from /simple/price and the all-time high,
// its date and the coin's display name from /coins/markets.
func (c *Adapter) Fetch(ctx context.Context, asset model.Asset) (model.Quote, error) {
	id := CoinID(asset.Symbol)

	price, err := c.fetchPrice(ctx, id)
	if err != nil {
		return model.Quote{}, err
	}

	m, err := c.fetchMarket(ctx, id)
	if err != nil {
		return model.Quote{}, err
	}

	observed := c.now().UTC()
	if price.LastUpdatedAt != nil {
		observed = time.Unix(*price.LastUpdatedAt, 0).UTC()
	}

	return model.Quote{
		CurrentPrice:     decimal.NewFromFloat(*price.USD),
		CurrentPriceDate: observed,
		ATH:              decimal.NewFromFloat(*m.ATH),
		ATHDate:          m.ATHDate,
		Label:            m.Name,
	}, nil
}

func (c *Adapter) fetchPrice(ctx context.Context, id string) (simplePrice, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_last_updated_at=true",
		c.BaseURL, url.QueryEscape(id))

	var result map[string]simplePrice
	if err := c.get(ctx, endpoint, &result); err != nil {
		return simplePrice{}, err
	}

	price, ok := result[id]
	if !ok || price.USD == nil {
		return simplePrice{}, fmt.Errorf("%w: price not found for coin %s", apperrors.ErrUpstreamData, id)
	}
	return price, nil
}

func (c *Adapter) fetchMarket(ctx context.Context, id string) (market, error) {
	endpoint := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s", c.BaseURL, url.QueryEscape(id))

	var results []market
	if err := c.get(ctx, endpoint, &results); err != nil {
		return market{}, err
	}

	if len(results) == 0 {
		return market{}, fmt.Errorf("%w: no market entry for coin %s", apperrors.ErrUpstreamData, id)
	}
	if results[0].ATH == nil {
		return market{}, fmt.Errorf("%w: no ath for coin %s", apperrors.ErrUpstreamData, id)
	}
	return results[0], nil
}

func (c *Adapter) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to fetch %s: %v", apperrors.ErrNetwork, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code: %d", apperrors.ErrNetwork, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", apperrors.ErrUpstreamData, err)
	}
	return nil
}
