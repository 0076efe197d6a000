package services

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/quanghm/coindex/internal/models"
)

func sampleWallets() []*models.Wallet {
	return []*models.Wallet{
		walletWith("Binance", asset("bitcoin", 1.5)),
		walletWith("Ledger", asset("bitcoin", 0.5), asset("ethereum", 10)),
	}
}

func TestBuildSummaryTable(t *testing.T) {
	prices := NewPriceMap(map[string]decimal.Decimal{
		"bitcoin": decimal.NewFromInt(60000),
	})
	summary := Summarize(sampleWallets(), prices)

	table := BuildSummaryTable(summary)
	require.Equal(t, [][]string{
		{"Asset", "Total Amount", "Live Price (USD)", "Value (USD)"},
		{"bitcoin", "2", "60000", "120000"},
		{"ethereum", "10", "Not fetched", "N/A"},
		{"Total", "", "", "120000"},
	}, table)
}

func TestBuildDetailTable(t *testing.T) {
	table := BuildDetailTable(sampleWallets())
	require.Equal(t, [][]string{
		{"Wallet/Exchange", "Asset", "Amount"},
		{"Binance", "bitcoin", "1.5"},
		{"Ledger", "bitcoin", "0.5"},
		{"Ledger", "ethereum", "10"},
	}, table)
}

func TestWriteWorkbookRoundTrip(t *testing.T) {
	prices := NewPriceMap(map[string]decimal.Decimal{
		"bitcoin":  decimal.NewFromInt(60000),
		"ethereum": decimal.NewFromInt(3000),
	})
	wallets := sampleWallets()
	summaryTable := BuildSummaryTable(Summarize(wallets, prices))
	detailTable := BuildDetailTable(wallets)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, summaryTable, detailTable))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.ElementsMatch(t, []string{SummarySheetName, DetailSheetName}, f.GetSheetList())

	rows, err := f.GetRows(SummarySheetName)
	require.NoError(t, err)
	require.Equal(t, summaryTable, rows)

	rows, err = f.GetRows(DetailSheetName)
	require.NoError(t, err)
	require.Equal(t, detailTable, rows)
}
