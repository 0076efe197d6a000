package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/quanghm/coindex/internal/models"
)

// Sheet names and the download filename of the exported workbook.
const (
	SummarySheetName = "Portfolio Summary"
	DetailSheetName  = "Detailed Holdings"
	ExportFileName   = "crypto-portfolio.xlsx"
)

// Placeholders for rows whose price was never fetched.
const (
	priceNotFetched = "Not fetched"
	valueNA         = "N/A"
)

// BuildSummaryTable renders the aggregation into a flat table: header row,
// one row per summary entry, and a trailing total row.
func BuildSummaryTable(summary *models.PortfolioSummary) [][]string {
	rows := make([][]string, 0, len(summary.Rows)+2)
	rows = append(rows, []string{"Asset", "Total Amount", "Live Price (USD)", "Value (USD)"})
	for _, r := range summary.Rows {
		price := priceNotFetched
		value := valueNA
		if r.Price != nil {
			price = r.Price.String()
		}
		if r.Value != nil {
			value = r.Value.String()
		}
		rows = append(rows, []string{r.Name, r.Amount.String(), price, value})
	}
	rows = append(rows, []string{"Total", "", "", summary.TotalValue.String()})
	return rows
}

// BuildDetailTable renders the raw holdings into a flat table: header row
// plus one row per (wallet, asset) pair in wallet-then-asset order.
func BuildDetailTable(wallets []*models.Wallet) [][]string {
	rows := [][]string{{"Wallet/Exchange", "Asset", "Amount"}}
	for _, w := range wallets {
		for _, a := range w.Assets {
			rows = append(rows, []string{w.Name, a.Name, a.Amount.String()})
		}
	}
	return rows
}

// WriteWorkbook serializes the two tables into a single xlsx workbook with
// the two named sheets and writes it to w.
func WriteWorkbook(w io.Writer, summary, detail [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SummarySheetName)
	if _, err := f.NewSheet(DetailSheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeSheet(f, SummarySheetName, summary); err != nil {
		return err
	}
	if err := writeSheet(f, DetailSheetName, detail); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, cell := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", name, err)
			}
		}
	}
	return nil
}
