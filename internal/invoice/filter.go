package invoice

import (
	"sort"
	"strings"

	"billing/pkg/models"
)

// Filter narrows an invoice list. Zero values match everything.
type Filter struct {
	// Type keeps only invoices of this billing type.
	Type models.BillingType

	// Search matches case-insensitively against the invoice number, customer
	// name and customer email.
	Search string
}

// Match reports whether inv passes the filter.
func (f Filter) Match(inv models.Invoice) bool {
	if f.Type != "" && inv.BillingType != f.Type {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(inv.InvoiceNumber), term) ||
		strings.Contains(strings.ToLower(inv.Customer.Name), term) ||
		(inv.Customer.Email != "" && strings.Contains(strings.ToLower(inv.Customer.Email), term))
}

// Apply returns the invoices that pass the filter, keeping their order.
func (f Filter) Apply(invoices []models.Invoice) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if f.Match(inv) {
			out = append(out, inv)
		}
	}
	return out
}

// SortRecent orders invoices by creation time, newest first.
func SortRecent(invoices []models.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
}
