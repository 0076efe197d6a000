package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/quanghm/coindex/internal/errors"
)

// Wallet is a named container of assets (a wallet or an exchange account).
// It is a grouping device only; the name carries no semantics beyond display
// and, under the remote backend, ownership scoping.
type Wallet struct {
	ID    string `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	Name  string `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Owner string `json:"-" gorm:"column:owner;type:varchar(255);index"`

	// Assets is populated by the portfolio store, not by the ORM.
	Assets []*Asset `json:"assets" gorm:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for the Wallet model
func (Wallet) TableName() string {
	return "wallets"
}

// Validate validates the wallet data
func (w *Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return &apperrors.ErrValidation{Field: "name", Message: "wallet name is required"}
	}
	return nil
}

// AmountOf sums the amounts of all assets in the wallet matching the given
// name, case-insensitively.
func (w *Wallet) AmountOf(name string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range w.Assets {
		if strings.EqualFold(a.Name, name) {
			total = total.Add(a.Amount)
		}
	}
	return total
}
