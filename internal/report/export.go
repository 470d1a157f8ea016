package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/investnyou-bot/internal/domain/entities"
)

const (
	sheetHoldings     = "Holdings"
	sheetTransactions = "Transactions"
)

var (
	holdingsHeader     = []interface{}{"Symbol", "Shares", "Average cost", "Current price", "Value", "Gain/loss", "Gain/loss %"}
	transactionsHeader = []interface{}{"Date", "Type", "Symbol", "Shares", "Price", "Total"}
)

// PortfolioWorkbook writes holdings and the transaction log to an XLSX file.
func PortfolioWorkbook(p entities.Portfolio, txs []entities.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetHoldings)
	if _, err := f.NewSheet(sheetTransactions); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}

	if err := writeRow(f, sheetHoldings, 1, holdingsHeader); err != nil {
		return nil, err
	}
	row := 2
	for _, h := range p.Holdings {
		price := h.CurrentPrice
		if !price.IsPositive() {
			price = h.AverageCost
		}
		values := []interface{}{
			h.Symbol,
			h.Shares.InexactFloat64(),
			h.AverageCost.Round(2).InexactFloat64(),
			price.Round(2).InexactFloat64(),
			h.CurrentValue().Round(2).InexactFloat64(),
			h.GainLoss().Round(2).InexactFloat64(),
			h.GainLossPercent().Round(2).InexactFloat64(),
		}
		if err := writeRow(f, sheetHoldings, row, values); err != nil {
			return nil, err
		}
		row++
	}

	row++
	if err := writeRow(f, sheetHoldings, row, []interface{}{"Cash", p.Balance.Round(2).InexactFloat64()}); err != nil {
		return nil, err
	}
	if err := writeRow(f, sheetHoldings, row+1, []interface{}{"Total", p.TotalValue().Round(2).InexactFloat64()}); err != nil {
		return nil, err
	}

	if err := writeRow(f, sheetTransactions, 1, transactionsHeader); err != nil {
		return nil, err
	}
	for i, tx := range txs {
		date := ""
		if !tx.CreatedAt.IsZero() {
			date = tx.CreatedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			date,
			tx.Type,
			tx.Symbol,
			tx.Shares.InexactFloat64(),
			tx.Price.Round(2).InexactFloat64(),
			tx.Total.Round(2).InexactFloat64(),
		}
		if err := writeRow(f, sheetTransactions, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
