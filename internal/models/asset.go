package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/quanghm/coindex/internal/errors"
)

// Asset is a named fungible holding with a quantity, scoped to one wallet.
// The name must be a CoinGecko id (e.g. "bitcoin", "ethereum") for a live
// price to resolve; matching against the price cache is case-insensitive.
type Asset struct {
	ID       string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	WalletID string          `json:"wallet_id" gorm:"column:wallet_id;type:varchar(255);not null;index"`
	Name     string          `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Amount   decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(30,18);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}

// Validate validates the asset data. Zero and negative amounts are rejected,
// never stored.
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &apperrors.ErrValidation{Field: "name", Message: "asset name is required"}
	}
	if !a.Amount.IsPositive() {
		return &apperrors.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}
	return nil
}

// ParseAmount parses user-supplied amount text into a decimal. The empty
// string, unparseable text, and non-positive values are all rejected.
func ParseAmount(text string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return decimal.Zero, &apperrors.ErrValidation{Field: "amount", Message: "amount is required"}
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, &apperrors.ErrValidation{Field: "amount", Message: "amount must be a number"}
	}
	if !amount.IsPositive() {
		return decimal.Zero, &apperrors.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}
	return amount, nil
}
