// Package report folds the invoice collection into read-only aggregates for the
// dashboard, analytics and history views. Every fold sums the stored invoice
// totals; item-level amounts are never recomputed here.
package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"billing/pkg/models"
)

// ErrUnknownOption is returned when a bucket, range or sort key is not recognised.
var ErrUnknownOption = errors.New("unknown report option")

// TypeTotal is the sum and count of the invoices of one billing type.
type TypeTotal struct {
	Type  models.BillingType `json:"type"`
	Label string             `json:"label"`
	Total float64            `json:"total"`
	Count int                `json:"count"`
}

// ByBillingType folds invoices per billing type, always returning hotel, grocery
// and custom in that order. Invoices with an unknown billing type are skipped.
func ByBillingType(invoices []models.Invoice) []TypeTotal {
	out := make([]TypeTotal, len(models.BillingTypes))
	index := make(map[models.BillingType]int, len(models.BillingTypes))
	for i, t := range models.BillingTypes {
		out[i] = TypeTotal{Type: t, Label: t.Label()}
		index[t] = i
	}
	for _, inv := range invoices {
		i, ok := index[inv.BillingType]
		if !ok {
			continue
		}
		out[i].Total += inv.Total
		out[i].Count++
	}
	return out
}

// SortBy selects the ranking of TopCustomers.
type SortBy string

const (
	SortByAmount SortBy = "amount"
	SortByCount  SortBy = "count"
)

// ParseSortBy parses "amount" or "count".
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortByAmount, "":
		return SortByAmount, nil
	case SortByCount:
		return SortByCount, nil
	}
	return "", fmt.Errorf("%w: sort %q (want amount or count)", ErrUnknownOption, s)
}

// DefaultTopCustomers is the number of customers TopCustomers keeps by default.
const DefaultTopCustomers = 10

// CustomerTotal is the spend of one customer.
type CustomerTotal struct {
	Name         string  `json:"name"`
	Email        string  `json:"email,omitempty"`
	TotalSpent   float64 `json:"totalSpent"`
	InvoiceCount int     `json:"invoiceCount"`
}

// TopCustomers groups invoices by customer email, or by name when the email is
// empty, and returns the n best customers ranked by sortBy. Name and email are
// taken from the first invoice seen for a customer; ties keep that order. A
// non-positive n means DefaultTopCustomers.
func TopCustomers(invoices []models.Invoice, sortBy SortBy, n int) []CustomerTotal {
	if n <= 0 {
		n = DefaultTopCustomers
	}

	var order []string
	byKey := make(map[string]*CustomerTotal)
	for _, inv := range invoices {
		key := inv.Customer.Email
		if key == "" {
			key = inv.Customer.Name
		}
		c, ok := byKey[key]
		if !ok {
			c = &CustomerTotal{Name: inv.Customer.Name, Email: inv.Customer.Email}
			byKey[key] = c
			order = append(order, key)
		}
		c.TotalSpent += inv.Total
		c.InvoiceCount++
	}

	out := make([]CustomerTotal, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if sortBy == SortByCount {
			return out[i].InvoiceCount > out[j].InvoiceCount
		}
		return out[i].TotalSpent > out[j].TotalSpent
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func errUnknown(what, value, want string) error {
	return fmt.Errorf("%w: %s %q (want %s)", ErrUnknownOption, what, value, want)
}
