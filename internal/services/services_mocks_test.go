package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/quanghm/coindex/internal/errors"
	"github.com/quanghm/coindex/internal/models"
)

// ---- Mocks for the repository and provider used in unit tests ----

type mockRepository struct {
	mu sync.Mutex

	wallets map[string]*models.Wallet
	assets  map[string]*models.Asset
	prices  map[string]*models.AssetPrice

	createWalletCalls int
	createAssetCalls  int
	upsertCalls       int

	failCreateWallet bool
	failCreateAsset  bool
	failDeleteWallet bool
	failListAssets   bool
	failUpsert       bool

	nextID int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		wallets: make(map[string]*models.Wallet),
		assets:  make(map[string]*models.Asset),
		prices:  make(map[string]*models.AssetPrice),
	}
}

func (m *mockRepository) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s_%d", prefix, m.nextID)
}

func (m *mockRepository) ListWallets(_ context.Context, owner string) ([]*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Wallet
	for _, w := range m.wallets {
		if w.Owner == owner {
			copied := *w
			copied.Assets = nil
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) ListAssets(_ context.Context, walletID string) ([]*models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failListAssets {
		return nil, fmt.Errorf("list assets failed")
	}
	var out []*models.Asset
	for _, a := range m.assets {
		if a.WalletID == walletID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) CreateWallet(_ context.Context, name, owner string) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createWalletCalls++
	if m.failCreateWallet {
		return nil, fmt.Errorf("create wallet failed")
	}
	w := &models.Wallet{ID: m.id("w"), Name: name, Owner: owner, Assets: []*models.Asset{}}
	m.wallets[w.ID] = w
	copied := *w
	return &copied, nil
}

func (m *mockRepository) DeleteWallet(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDeleteWallet {
		return fmt.Errorf("delete wallet failed")
	}
	if _, ok := m.wallets[id]; !ok {
		return fmt.Errorf("wallet %s not found", id)
	}
	for aid, a := range m.assets {
		if a.WalletID == id {
			delete(m.assets, aid)
		}
	}
	delete(m.wallets, id)
	return nil
}

func (m *mockRepository) CreateAsset(_ context.Context, walletID, name string, amount decimal.Decimal) (*models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createAssetCalls++
	if m.failCreateAsset {
		return nil, fmt.Errorf("create asset failed")
	}
	a := &models.Asset{ID: m.id("a"), WalletID: walletID, Name: name, Amount: amount}
	m.assets[a.ID] = a
	copied := *a
	return &copied, nil
}

func (m *mockRepository) DeleteAsset(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[id]; !ok {
		return fmt.Errorf("asset %s not found", id)
	}
	delete(m.assets, id)
	return nil
}

func (m *mockRepository) GetPriceCache(_ context.Context) ([]*models.AssetPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AssetPrice
	for _, p := range m.prices {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockRepository) UpsertPrice(_ context.Context, name string, price decimal.Decimal, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.failUpsert {
		return fmt.Errorf("upsert failed")
	}
	key := models.PriceKey(name)
	m.prices[key] = &models.AssetPrice{Name: key, PriceUSD: price, UpdatedAt: updatedAt}
	return nil
}

// mockProvider answers lookups from a fixed table, counting calls. A nil
// entry simulates not-found; err simulates a transport failure.
type mockProvider struct {
	mu      sync.Mutex
	table   map[string]decimal.Decimal
	err     error
	calls   int
	block   chan struct{} // when non-nil, Lookup waits until closed
	started chan struct{} // when non-nil, receives one send per Lookup entry
}

func (p *mockProvider) Lookup(_ context.Context, id string) (decimal.Decimal, error) {
	p.mu.Lock()
	p.calls++
	started := p.started
	block := p.block
	p.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if p.err != nil {
		return decimal.Zero, p.err
	}
	price, ok := p.table[id]
	if !ok {
		return decimal.Zero, &apperrors.ErrPriceNotFound{Asset: id}
	}
	return price, nil
}

func (p *mockProvider) lookupCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
