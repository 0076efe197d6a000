package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/quanghm/coindex/internal/errors"
)

// AssetPrice is a cached live unit price for an asset in the quote currency
// (USD). The cache holds at most one entry per distinct asset name: Name is
// stored lower-cased so differently-cased spellings collapse onto one row.
// UpdatedAt resolves upsert conflicts last-writer-wins under the remote
// backend; the local backend does not persist it.
type AssetPrice struct {
	Name      string          `json:"name" gorm:"primaryKey;column:name;type:varchar(255)"`
	PriceUSD  decimal.Decimal `json:"price_usd" gorm:"column:price_usd;type:decimal(30,18);not null"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"column:updated_at;not null"`
}

// TableName returns the table name for the AssetPrice model
func (AssetPrice) TableName() string {
	return "asset_prices"
}

// Validate validates the cached price data
func (p *AssetPrice) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &apperrors.ErrValidation{Field: "name", Message: "asset name is required"}
	}
	if p.PriceUSD.IsNegative() {
		return &apperrors.ErrValidation{Field: "price_usd", Message: "price cannot be negative"}
	}
	return nil
}

// PriceKey normalizes an asset name to its cache key.
func PriceKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
