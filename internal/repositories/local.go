package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanghm/coindex/internal/models"
)

// localState is the on-disk layout of the local store: one serialized record
// holding wallets with embedded assets plus the name-to-price cache.
type localState struct {
	Wallets     []*models.Wallet           `json:"wallets"`
	AssetPrices map[string]decimal.Decimal `json:"assetPrices"`
}

// localRepository is the single-process backend. The whole state lives in
// memory and is rewritten to one JSON file after every mutation. A missing or
// malformed state file is treated as empty state, not a failure.
type localRepository struct {
	path string

	mu    sync.Mutex
	state localState
}

// NewLocalRepository loads the state file at path (if any) and returns a
// repository persisting to it.
func NewLocalRepository(path string) (PortfolioRepository, error) {
	r := &localRepository{
		path:  path,
		state: localState{AssetPrices: make(map[string]decimal.Decimal)},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var loaded localState
	if err := json.Unmarshal(data, &loaded); err != nil {
		// Unreadable state starts over empty rather than failing startup.
		return r, nil
	}
	if loaded.AssetPrices == nil {
		loaded.AssetPrices = make(map[string]decimal.Decimal)
	}
	for _, w := range loaded.Wallets {
		if w.Assets == nil {
			w.Assets = []*models.Asset{}
		}
	}
	r.state = loaded
	return r, nil
}

// flush writes the state file. Called with the mutex held. The write goes to
// a temp file first so a crash mid-write cannot corrupt the previous state.
func (r *localRepository) flush() error {
	data, err := json.MarshalIndent(&r.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (r *localRepository) ListWallets(_ context.Context, _ string) ([]*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallets := make([]*models.Wallet, 0, len(r.state.Wallets))
	for _, w := range r.state.Wallets {
		copied := *w
		copied.Assets = nil
		wallets = append(wallets, &copied)
	}
	return wallets, nil
}

func (r *localRepository) ListAssets(_ context.Context, walletID string) ([]*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.findWallet(walletID)
	if w == nil {
		return nil, fmt.Errorf("wallet %s not found", walletID)
	}
	assets := make([]*models.Asset, 0, len(w.Assets))
	for _, a := range w.Assets {
		copied := *a
		assets = append(assets, &copied)
	}
	return assets, nil
}

func (r *localRepository) CreateWallet(_ context.Context, name, _ string) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	w := &models.Wallet{
		ID:        uuid.NewString(),
		Name:      name,
		Assets:    []*models.Asset{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.state.Wallets = append(r.state.Wallets, w)
	if err := r.flush(); err != nil {
		r.state.Wallets = r.state.Wallets[:len(r.state.Wallets)-1]
		return nil, err
	}

	copied := *w
	copied.Assets = []*models.Asset{}
	return &copied, nil
}

func (r *localRepository) DeleteWallet(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, w := range r.state.Wallets {
		if w.ID == id {
			removed := r.state.Wallets[i]
			r.state.Wallets = append(r.state.Wallets[:i], r.state.Wallets[i+1:]...)
			if err := r.flush(); err != nil {
				r.state.Wallets = append(r.state.Wallets[:i], append([]*models.Wallet{removed}, r.state.Wallets[i:]...)...)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("wallet %s not found", id)
}

func (r *localRepository) CreateAsset(_ context.Context, walletID, name string, amount decimal.Decimal) (*models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.findWallet(walletID)
	if w == nil {
		return nil, fmt.Errorf("wallet %s not found", walletID)
	}

	now := time.Now()
	a := &models.Asset{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Name:      name,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	w.Assets = append(w.Assets, a)
	if err := r.flush(); err != nil {
		w.Assets = w.Assets[:len(w.Assets)-1]
		return nil, err
	}

	copied := *a
	return &copied, nil
}

func (r *localRepository) DeleteAsset(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.state.Wallets {
		for i, a := range w.Assets {
			if a.ID == id {
				removed := w.Assets[i]
				w.Assets = append(w.Assets[:i], w.Assets[i+1:]...)
				if err := r.flush(); err != nil {
					w.Assets = append(w.Assets[:i], append([]*models.Asset{removed}, w.Assets[i:]...)...)
					return err
				}
				return nil
			}
		}
	}
	return fmt.Errorf("asset %s not found", id)
}

func (r *localRepository) GetPriceCache(_ context.Context) ([]*models.AssetPrice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prices := make([]*models.AssetPrice, 0, len(r.state.AssetPrices))
	for name, price := range r.state.AssetPrices {
		prices = append(prices, &models.AssetPrice{Name: name, PriceUSD: price})
	}
	return prices, nil
}

func (r *localRepository) UpsertPrice(_ context.Context, name string, price decimal.Decimal, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.PriceKey(name)
	prev, existed := r.state.AssetPrices[key]
	r.state.AssetPrices[key] = price
	if err := r.flush(); err != nil {
		if existed {
			r.state.AssetPrices[key] = prev
		} else {
			delete(r.state.AssetPrices, key)
		}
		return err
	}
	return nil
}

func (r *localRepository) findWallet(id string) *models.Wallet {
	for _, w := range r.state.Wallets {
		if w.ID == id {
			return w
		}
	}
	return nil
}
