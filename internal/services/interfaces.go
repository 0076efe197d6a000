package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/quanghm/coindex/internal/models"
)

// PortfolioService is the in-memory authoritative view of wallets and assets
// for the current session. Every mutation round-trips through the persistence
// backend before memory is advanced; on failure the in-memory state is left
// unchanged. Owner is the principal id under the remote backend and the empty
// string under the local backend.
type PortfolioService interface {
	// Load fetches all wallets for the owner and then their assets, one
	// query per wallet. A failure in any single fetch fails the whole load.
	Load(ctx context.Context, owner string) error
	// Wallets returns a snapshot of the owner's wallet collection.
	Wallets(ctx context.Context, owner string) ([]*models.Wallet, error)
	AddWallet(ctx context.Context, owner, name string) (*models.Wallet, error)
	DeleteWallet(ctx context.Context, owner, walletID string) error
	AddAsset(ctx context.Context, owner, walletID, name, amountText string) (*models.Asset, error)
	DeleteAsset(ctx context.Context, owner, walletID, assetID string) error
}

// PriceService owns the unit-price cache and orchestrates external lookups.
// Concurrent fetches for the same asset name collapse into one request; price
// lookups never block portfolio mutations.
type PriceService interface {
	// Warm populates the in-memory cache from the backend. Called once at
	// startup.
	Warm(ctx context.Context) error
	// FetchPrice looks the asset up with the external provider and, when a
	// price is present, upserts it into the cache.
	FetchPrice(ctx context.Context, name string) (decimal.Decimal, error)
	PriceLookup
	// Entries returns every cached entry.
	Entries() []*models.AssetPrice
}

// PriceLookup resolves a cached unit price for an asset name,
// case-insensitively. Exact key match only, no fuzzy matching.
type PriceLookup interface {
	GetPrice(name string) (decimal.Decimal, bool)
}

// PriceProvider is the external market-price lookup: one asset, quoted in
// USD, keyed by the provider's lower-cased asset id. A provider response
// without an entry for the id is reported as *errors.ErrPriceNotFound.
type PriceProvider interface {
	Lookup(ctx context.Context, id string) (decimal.Decimal, error)
}
