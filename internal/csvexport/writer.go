// Package csvexport streams the billing register as CSV.
package csvexport

import (
	"encoding/csv"
	"io"
	"time"

	"urbill/internal/port"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
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

// Writer wraps csv.Writer for exporting the billing register.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRows converts register rows to CSV records and writes them.
func (w *Writer) WriteRows(rows []port.RegisterRow) error {
	for i := range rows {
		if err := w.csv.Write(rowToRecord(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func rowToRecord(r *port.RegisterRow) []string {
	return []string{
		string(r.DocType),
		r.DocumentNumber,
		r.DocumentDate.Format(time.DateOnly),
		r.ClientName,
		r.BusinessName,
		r.Status,
		r.Subtotal,
		r.DiscountAmount,
		r.TaxAmount,
		r.GrandTotal,
		r.AmountPaid,
		r.BalanceDue,
	}
}
