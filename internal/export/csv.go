// Package export turns stored invoices into files for use outside the tool: a CSV
// history, a printable HTML invoice, and rows appended to a Google Sheet.
package export

import (
	"fmt"
	"io"
	"strings"

	"billing/internal/money"
	"billing/pkg/models"
)

// CSVHeader lists the exported columns in order.
var CSVHeader = []string{
	"Invoice Number",
	"Date",
	"Customer Name",
	"Customer Email",
	"Billing Type",
	"Subtotal",
	"Tax",
	"Discount",
	"Total",
}

// Row returns the exported fields of one invoice. Amounts carry exactly two
// decimals; absent tax and discount amounts read as 0.00.
func Row(inv models.Invoice) []string {
	return []string{
		inv.InvoiceNumber,
		inv.IssueDate.String(),
		inv.Customer.Name,
		inv.Customer.Email,
		string(inv.BillingType),
		money.Format(inv.Subtotal),
		money.Format(inv.TaxAmount),
		money.Format(inv.DiscountAmount),
		money.Format(inv.Total),
	}
}

// WriteCSV writes the header line followed by one line per invoice. The header
// is written bare; every field of a data line is double-quoted with embedded
// quotes doubled, whether or not it needs quoting. Every line, the last one
// included, ends with a newline so the file is a well-formed text file.
func WriteCSV(w io.Writer, invoices []models.Invoice) error {
	const op = "export.WriteCSV"

	if _, err := io.WriteString(w, strings.Join(CSVHeader, ",")+"\n"); err != nil {
		return fmt.Errorf("%s: write header: %w", op, err)
	}
	for _, inv := range invoices {
		if _, err := io.WriteString(w, quoteRow(Row(inv))+"\n"); err != nil {
			return fmt.Errorf("%s: write %s: %w", op, inv.InvoiceNumber, err)
		}
	}
	return nil
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
