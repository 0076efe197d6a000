package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/quanghm/coindex/internal/errors"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider resolves prices from the CoinGecko simple-price endpoint
// (no API key required). The asset id is the CoinGecko coin id, e.g.
// "bitcoin" or "ethereum"; callers pass it lower-cased.
type CoinGeckoProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewCoinGeckoProvider creates a provider against the public CoinGecko API.
func NewCoinGeckoProvider() *CoinGeckoProvider {
	return &CoinGeckoProvider{
		baseURL:    coinGeckoBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *CoinGeckoProvider) Lookup(ctx context.Context, id string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", p.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("coingecko status %d", resp.StatusCode)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, err
	}
	// A 200 without the requested id means the id is unknown, not that the
	// provider failed.
	m, ok := payload[id]
	if !ok {
		return decimal.Zero, &apperrors.ErrPriceNotFound{Asset: id}
	}
	v, ok := m["usd"]
	if !ok {
		return decimal.Zero, &apperrors.ErrPriceNotFound{Asset: id}
	}
	return decimal.NewFromFloat(v), nil
}
