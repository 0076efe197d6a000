package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/quanghm/coindex/internal/errors"
	"github.com/quanghm/coindex/internal/models"
)

type stubPortfolio struct {
	wallets []*models.Wallet
	err     error
}

func (s *stubPortfolio) Load(ctx context.Context, owner string) error { return s.err }

func (s *stubPortfolio) Wallets(ctx context.Context, owner string) ([]*models.Wallet, error) {
	return s.wallets, s.err
}

func (s *stubPortfolio) AddWallet(ctx context.Context, owner, name string) (*models.Wallet, error) {
	if s.err != nil {
		return nil, s.err
	}
	w := &models.Wallet{ID: "w-1", Name: name}
	s.wallets = append(s.wallets, w)
	return w, nil
}

func (s *stubPortfolio) DeleteWallet(ctx context.Context, owner, walletID string) error {
	return s.err
}

func (s *stubPortfolio) AddAsset(ctx context.Context, owner, walletID, name, amountText string) (*models.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	amount, err := models.ParseAmount(amountText)
	if err != nil {
		return nil, err
	}
	return &models.Asset{ID: "a-1", WalletID: walletID, Name: name, Amount: amount}, nil
}

func (s *stubPortfolio) DeleteAsset(ctx context.Context, owner, walletID, assetID string) error {
	return s.err
}

type stubPrices struct {
	table map[string]decimal.Decimal
	err   error
}

func (s *stubPrices) Warm(ctx context.Context) error { return nil }

func (s *stubPrices) FetchPrice(ctx context.Context, name string) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	price, ok := s.table[models.PriceKey(name)]
	if !ok {
		return decimal.Zero, &apperrors.ErrPriceNotFound{Asset: name}
	}
	return price, nil
}

func (s *stubPrices) GetPrice(name string) (decimal.Decimal, bool) {
	price, ok := s.table[models.PriceKey(name)]
	return price, ok
}

func (s *stubPrices) Entries() []*models.AssetPrice {
	entries := make([]*models.AssetPrice, 0, len(s.table))
	for name, price := range s.table {
		entries = append(entries, &models.AssetPrice{Name: name, PriceUSD: price})
	}
	return entries
}

func newRouter(portfolio *stubPortfolio, prices *stubPrices) *mux.Router {
	logger := zap.NewNop()
	wh := NewWalletHandler(portfolio, logger)
	ph := NewPriceHandler(prices, logger)
	pf := NewPortfolioHandler(portfolio, prices, logger)

	r := mux.NewRouter()
	r.HandleFunc("/api/wallets", wh.HandleList).Methods("GET")
	r.HandleFunc("/api/wallets", wh.HandleCreate).Methods("POST")
	r.HandleFunc("/api/wallets/{id}", wh.HandleDelete).Methods("DELETE")
	r.HandleFunc("/api/wallets/{id}/assets", wh.HandleCreateAsset).Methods("POST")
	r.HandleFunc("/api/wallets/{id}/assets/{assetId}", wh.HandleDeleteAsset).Methods("DELETE")
	r.HandleFunc("/api/prices", ph.HandleList).Methods("GET")
	r.HandleFunc("/api/prices/{name}/fetch", ph.HandleFetch).Methods("POST")
	r.HandleFunc("/api/portfolio/summary", pf.HandleSummary).Methods("GET")
	r.HandleFunc("/api/portfolio/export", pf.HandleExport).Methods("GET")
	return r
}

func TestCreateWalletReturnsCreated(t *testing.T) {
	router := newRouter(&stubPortfolio{}, &stubPrices{})

	body := bytes.NewBufferString(`{"name":"Binance"}`)
	req := httptest.NewRequest("POST", "/api/wallets", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var wallet models.Wallet
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&wallet))
	require.Equal(t, "Binance", wallet.Name)
	require.NotEmpty(t, wallet.ID)
}

func TestCreateWalletRejectsValidationError(t *testing.T) {
	portfolio := &stubPortfolio{err: &apperrors.ErrValidation{Field: "name", Message: "name is required"}}
	router := newRouter(portfolio, &stubPrices{})

	req := httptest.NewRequest("POST", "/api/wallets", bytes.NewBufferString(`{"name":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAssetRejectsBadAmount(t *testing.T) {
	router := newRouter(&stubPortfolio{}, &stubPrices{})

	req := httptest.NewRequest("POST", "/api/wallets/w-1/assets", bytes.NewBufferString(`{"name":"btc","amount":"-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchPriceUnknownAssetReturnsNotFound(t *testing.T) {
	router := newRouter(&stubPortfolio{}, &stubPrices{table: map[string]decimal.Decimal{}})

	req := httptest.NewRequest("POST", "/api/prices/nonsense/fetch", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetchPriceUpstreamFailureReturnsBadGateway(t *testing.T) {
	prices := &stubPrices{err: &apperrors.ErrFetch{Asset: "bitcoin", Err: context.DeadlineExceeded}}
	router := newRouter(&stubPortfolio{}, prices)

	req := httptest.NewRequest("POST", "/api/prices/bitcoin/fetch", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSummaryAggregatesAcrossWallets(t *testing.T) {
	portfolio := &stubPortfolio{wallets: []*models.Wallet{
		{ID: "w-1", Name: "Binance", Assets: []*models.Asset{
			{ID: "a-1", WalletID: "w-1", Name: "bitcoin", Amount: decimal.NewFromInt(2)},
		}},
		{ID: "w-2", Name: "Ledger", Assets: []*models.Asset{
			{ID: "a-2", WalletID: "w-2", Name: "Bitcoin", Amount: decimal.NewFromInt(1)},
		}},
	}}
	prices := &stubPrices{table: map[string]decimal.Decimal{"bitcoin": decimal.NewFromInt(50000)}}
	router := newRouter(portfolio, prices)

	req := httptest.NewRequest("GET", "/api/portfolio/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.PortfolioSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	require.Len(t, summary.Rows, 1)
	require.True(t, summary.Rows[0].Amount.Equal(decimal.NewFromInt(3)))
	require.True(t, summary.TotalValue.Equal(decimal.NewFromInt(150000)))
}

func TestExportSetsDownloadHeaders(t *testing.T) {
	router := newRouter(&stubPortfolio{}, &stubPrices{})

	req := httptest.NewRequest("GET", "/api/portfolio/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "crypto-portfolio.xlsx")
	require.NotZero(t, rec.Body.Len())
}
