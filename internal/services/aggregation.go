package services

import (
	"github.com/shopspring/decimal"

	"github.com/quanghm/coindex/internal/models"
)

// Summarize maps the wallet collection and the price cache into one row per
// distinct asset name plus a total valuation. It is a pure function of the
// multiset of (name, amount) pairs and the cache contents: wallet and asset
// ordering only affect row order (first occurrence wins), never the numbers.
// Rows without a resolved price carry nil price and value and contribute
// zero to the total.
func Summarize(wallets []*models.Wallet, prices PriceLookup) *models.PortfolioSummary {
	totals := make(map[string]decimal.Decimal)
	displayNames := make(map[string]string)
	var order []string

	for _, w := range wallets {
		for _, a := range w.Assets {
			key := models.PriceKey(a.Name)
			if _, seen := totals[key]; !seen {
				order = append(order, key)
				displayNames[key] = a.Name
			}
			totals[key] = totals[key].Add(a.Amount)
		}
	}

	summary := &models.PortfolioSummary{
		Rows:       make([]models.SummaryRow, 0, len(order)),
		TotalValue: decimal.Zero,
	}
	for _, key := range order {
		row := models.SummaryRow{
			Name:   displayNames[key],
			Amount: totals[key],
		}
		if price, ok := prices.GetPrice(key); ok {
			value := totals[key].Mul(price)
			row.Price = &price
			row.Value = &value
			summary.TotalValue = summary.TotalValue.Add(value)
		}
		summary.Rows = append(summary.Rows, row)
	}
	return summary
}

// PriceMap is a PriceLookup over a plain map keyed by asset name. Keys are
// normalized on construction so lookups stay case-insensitive.
type PriceMap map[string]decimal.Decimal

// NewPriceMap builds a PriceMap from arbitrary-cased names.
func NewPriceMap(prices map[string]decimal.Decimal) PriceMap {
	m := make(PriceMap, len(prices))
	for name, price := range prices {
		m[models.PriceKey(name)] = price
	}
	return m
}

func (m PriceMap) GetPrice(name string) (decimal.Decimal, bool) {
	price, ok := m[models.PriceKey(name)]
	return price, ok
}
