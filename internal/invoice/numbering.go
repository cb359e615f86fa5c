package invoice

import (
	"fmt"
	"strings"
	"time"

	"billing/internal/calc"
	"billing/pkg/models"
)

// NumberPrefix returns the invoice number prefix for the year and month of now,
// e.g. "INV-2401-" for January 2024.
func NumberPrefix(now time.Time) string {
	return "INV-" + now.Format("0601") + "-"
}

// NextInvoiceNumber returns the next sequential number for the month of now.
// Numbers carrying the current prefix contribute the leading digits of their
// suffix; a suffix without digits counts as 0. The sequence starts at 0001 for
// a month with no invoices yet. Nothing is reserved: two callers reading the
// same collection get the same number.
func NextInvoiceNumber(invoices []models.Invoice, now time.Time) string {
	prefix := NumberPrefix(now)

	maxNumber := 0
	for _, inv := range invoices {
		if !strings.HasPrefix(inv.InvoiceNumber, prefix) {
			continue
		}
		if n := calc.ParseCount(strings.TrimPrefix(inv.InvoiceNumber, prefix)); n > maxNumber {
			maxNumber = n
		}
	}

	return fmt.Sprintf("%s%04d", prefix, maxNumber+1)
}
