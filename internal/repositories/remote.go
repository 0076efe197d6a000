package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quanghm/coindex/internal/models"
)

// remoteRepository is the multi-device backend over a shared SQL store.
// Wallet-level calls are scoped to the owning principal. Single-row writes
// rely on the store's row-level atomicity; the cascade delete is ordered
// children before parent because there is no cross-row transaction guarantee
// required of the store itself.
type remoteRepository struct {
	db *gorm.DB
}

// NewRemoteRepository migrates the schema and returns a repository over db.
func NewRemoteRepository(db *gorm.DB) (PortfolioRepository, error) {
	if err := db.AutoMigrate(&models.Wallet{}, &models.Asset{}, &models.AssetPrice{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &remoteRepository{db: db}, nil
}

func (r *remoteRepository) ListWallets(ctx context.Context, owner string) ([]*models.Wallet, error) {
	var wallets []models.Wallet
	if err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at").
		Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	result := make([]*models.Wallet, len(wallets))
	for i := range wallets {
		result[i] = &wallets[i]
	}
	return result, nil
}

func (r *remoteRepository) ListAssets(ctx context.Context, walletID string) ([]*models.Asset, error) {
	var assets []models.Asset
	if err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at").
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	result := make([]*models.Asset, len(assets))
	for i := range assets {
		result[i] = &assets[i]
	}
	return result, nil
}

func (r *remoteRepository) CreateWallet(ctx context.Context, name, owner string) (*models.Wallet, error) {
	now := time.Now()
	w := &models.Wallet{
		ID:        uuid.NewString(),
		Name:      name,
		Owner:     owner,
		Assets:    []*models.Asset{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return w, nil
}

func (r *remoteRepository) DeleteWallet(ctx context.Context, id string) error {
	// Children first: if the second step fails the worst case is an empty
	// wallet row, never orphaned assets.
	if err := r.db.WithContext(ctx).
		Where("wallet_id = ?", id).
		Delete(&models.Asset{}).Error; err != nil {
		return fmt.Errorf("failed to delete wallet assets: %w", err)
	}

	result := r.db.WithContext(ctx).Delete(&models.Wallet{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("wallet not found: %s", id)
	}
	return nil
}

func (r *remoteRepository) CreateAsset(ctx context.Context, walletID, name string, amount decimal.Decimal) (*models.Asset, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check wallet: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("wallet not found: %s", walletID)
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
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return a, nil
}

func (r *remoteRepository) DeleteAsset(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Asset{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete asset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("asset not found: %s", id)
	}
	return nil
}

func (r *remoteRepository) GetPriceCache(ctx context.Context) ([]*models.AssetPrice, error) {
	var prices []models.AssetPrice
	if err := r.db.WithContext(ctx).Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("failed to load price cache: %w", err)
	}

	result := make([]*models.AssetPrice, len(prices))
	for i := range prices {
		result[i] = &prices[i]
	}
	return result, nil
}

func (r *remoteRepository) UpsertPrice(ctx context.Context, name string, price decimal.Decimal, updatedAt time.Time) error {
	entry := &models.AssetPrice{
		Name:      models.PriceKey(name),
		PriceUSD:  price,
		UpdatedAt: updatedAt,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"price_usd", "updated_at"}),
		}).
		Create(entry).Error; err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}
	return nil
}
