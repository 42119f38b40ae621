// Package xlsxexport renders the billing register as an XLSX workbook.
package xlsxexport

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"urbill/internal/port"
)

const sheetName = "Billing Register"

var headers = []string{
	"Document Type",
	"Document Number",
	"Date",
	"Client Name",
	"Business Name",
	"Status",
	"Subtotal",
	"Discount",
	"Tax",
	"Grand Total",
	"Amount Paid",
	"Balance Due",
}

// Write renders rows as a single-sheet workbook and writes it to w. Amount
// columns are written as numbers so spreadsheet formulas work on them.
func Write(w io.Writer, rows []port.RegisterRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("xlsxexport: creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsxexport: deleting default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDDDDD"}},
	})
	if err != nil {
		return fmt.Errorf("xlsxexport: creating header style: %w", err)
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("xlsxexport: writing header: %w", err)
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", endHeader, headerStyle); err != nil {
		return fmt.Errorf("xlsxexport: styling header: %w", err)
	}

	for i, row := range rows {
		rowNum := i + 2
		values := []interface{}{
			string(row.DocType),
			row.DocumentNumber,
			row.DocumentDate.Format(time.DateOnly),
			row.ClientName,
			row.BusinessName,
			row.Status,
			amountCell(row.Subtotal),
			amountCell(row.DiscountAmount),
			amountCell(row.TaxAmount),
			amountCell(row.GrandTotal),
			amountCell(row.AmountPaid),
			amountCell(row.BalanceDue),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("xlsxexport: writing row %d: %w", rowNum, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "F", 22); err != nil {
		return fmt.Errorf("xlsxexport: setting column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "G", "L", 14); err != nil {
		return fmt.Errorf("xlsxexport: setting column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsxexport: writing workbook: %w", err)
	}
	return nil
}

// amountCell parses a fixed-point amount string into a float for the cell,
// falling back to the raw string when it does not parse.
func amountCell(s string) interface{} {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}
