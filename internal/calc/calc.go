// Package calc derives invoice amounts from line items and percentages.
//
// All functions are pure and idempotent, so callers may invoke them on every edit.
// Nothing here rounds: amounts keep full floating point precision and are rounded
// to two decimals only when presented (see package money). Totals are always
// recomputed from item-level data instead of adjusting a previous result.
package calc

import (
	"math"

	"billing/pkg/models"
)

// Totals holds every derived amount of an invoice.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"taxAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
}

// ItemAmount returns quantity * unitPrice. Negative inputs are not rejected.
func ItemAmount(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// Subtotal sums the item amounts; it is 0 for no items.
func Subtotal(items []models.InvoiceItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount
	}
	return sum
}

// TaxAmount returns subtotal * taxPercent / 100.
func TaxAmount(subtotal, taxPercent float64) float64 {
	return subtotal * taxPercent / 100
}

// DiscountAmount returns subtotal * discountPercent / 100.
func DiscountAmount(subtotal, discountPercent float64) float64 {
	return subtotal * discountPercent / 100
}

// Total returns subtotal + taxAmount - discountAmount. The result is not floored
// at zero; a discount above 100% yields a negative total.
func Total(subtotal, taxAmount, discountAmount float64) float64 {
	return subtotal + taxAmount - discountAmount
}

// RecomputeItems returns a copy of items with every amount re-derived from
// quantity and unit price.
func RecomputeItems(items []models.InvoiceItem) []models.InvoiceItem {
	out := make([]models.InvoiceItem, len(items))
	for i, item := range items {
		item.Amount = ItemAmount(item.Quantity, item.UnitPrice)
		out[i] = item
	}
	return out
}

// Compute derives all totals from the items, re-deriving item amounts first.
func Compute(items []models.InvoiceItem, taxPercent, discountPercent float64) Totals {
	subtotal := Subtotal(RecomputeItems(items))
	tax := TaxAmount(subtotal, taxPercent)
	discount := DiscountAmount(subtotal, discountPercent)
	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		Total:          Total(subtotal, tax, discount),
	}
}

// Apply re-derives item amounts and totals of inv in place.
func Apply(inv *models.Invoice) {
	inv.Items = RecomputeItems(inv.Items)
	t := Compute(inv.Items, inv.Tax, inv.Discount)
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.DiscountAmount = t.DiscountAmount
	inv.Total = t.Total
}

// Nights returns the number of nights between checkIn and checkOut, rounded up to
// whole days. When either date is missing or checkOut is not after checkIn the
// previous value is returned unchanged.
func Nights(checkIn, checkOut models.Date, previous int) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return previous
	}
	days := int(math.Ceil(checkOut.Sub(checkIn.Time).Hours() / 24))
	if days <= 0 {
		return previous
	}
	return days
}
