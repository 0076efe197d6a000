package models

import (
	"github.com/shopspring/decimal"
)

// SummaryRow aggregates one asset name across all wallets with its resolved
// valuation. Derived, never persisted. Price and Value are nil when no price
// has been fetched for the asset; such rows contribute zero to the total.
type SummaryRow struct {
	Name   string           `json:"name"`
	Amount decimal.Decimal  `json:"amount"`
	Price  *decimal.Decimal `json:"price,omitempty"`
	Value  *decimal.Decimal `json:"value,omitempty"`
}

// PortfolioSummary is the full aggregation of a portfolio snapshot.
type PortfolioSummary struct {
	Rows       []SummaryRow    `json:"rows"`
	TotalValue decimal.Decimal `json:"total_value"`
}
