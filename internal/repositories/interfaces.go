// Package repositories defines the persistence backend for the portfolio
// engine. Two implementations conform: a local single-process store backed by
// one JSON state file, and a remote identity-scoped store backed by Postgres.
// The portfolio service is written once against the interface and is oblivious
// to which variant is active.
package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quanghm/coindex/internal/models"
)

// PortfolioRepository is the durable storage contract for wallets, assets,
// and cached prices. Owner scopes wallet-level calls to a principal under the
// remote backend; the local backend ignores it.
type PortfolioRepository interface {
	// ListWallets returns all wallets for the owner, without assets.
	ListWallets(ctx context.Context, owner string) ([]*models.Wallet, error)

	// ListAssets returns all assets belonging to one wallet.
	ListAssets(ctx context.Context, walletID string) ([]*models.Asset, error)

	// CreateWallet persists a new empty wallet and returns it with its
	// assigned identifier.
	CreateWallet(ctx context.Context, name, owner string) (*models.Wallet, error)

	// DeleteWallet removes a wallet and cascades to its assets, children
	// before parent.
	DeleteWallet(ctx context.Context, id string) error

	// CreateAsset persists a new asset scoped to the wallet and returns it
	// with its assigned identifier.
	CreateAsset(ctx context.Context, walletID, name string, amount decimal.Decimal) (*models.Asset, error)

	// DeleteAsset removes a single asset.
	DeleteAsset(ctx context.Context, id string) error

	// GetPriceCache returns every cached price entry.
	GetPriceCache(ctx context.Context) ([]*models.AssetPrice, error)

	// UpsertPrice writes a price keyed by the lower-cased asset name. The
	// write succeeds whether or not a prior entry exists; on conflict the
	// value and timestamp are overwritten (last writer wins).
	UpsertPrice(ctx context.Context, name string, price decimal.Decimal, updatedAt time.Time) error
}
