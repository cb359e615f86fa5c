package invoice

import (
	"time"

	"github.com/google/uuid"
	"billing/internal/billing"
	"billing/internal/calc"
	"billing/pkg/models"
)

// Draft is an invoice being edited. Item amounts and totals are derived again on
// every edit; Invoice produces the record handed to Service.Create or Update.
type Draft struct {
	ID              string // set when editing a stored invoice
	InvoiceNumber   string
	IssueDate       models.Date
	DueDate         *models.Date
	Customer        models.Customer
	Items           []models.InvoiceItem
	TaxPercent      float64
	DiscountPercent float64
	Notes           string
	Paid            *bool

	Billing *billing.Session
}

// NewDraft starts an empty draft issued today.
func NewDraft(number string, now time.Time) *Draft {
	return &Draft{
		InvoiceNumber: number,
		IssueDate:     models.NewDate(now),
		Items:         []models.InvoiceItem{},
		Billing:       billing.NewSession(now),
	}
}

// DraftFrom opens a stored invoice for editing.
func DraftFrom(inv models.Invoice, now time.Time) *Draft {
	c := inv.Clone()
	return &Draft{
		ID:              c.ID,
		InvoiceNumber:   c.InvoiceNumber,
		IssueDate:       c.IssueDate,
		DueDate:         c.DueDate,
		Customer:        c.Customer,
		Items:           calc.RecomputeItems(c.Items),
		TaxPercent:      c.Tax,
		DiscountPercent: c.Discount,
		Notes:           c.Notes,
		Paid:            c.Paid,
		Billing:         billing.SessionFrom(c.BillingType, c.BillingDetails, now),
	}
}

// AddItem appends an item with quantity 1 and returns its index.
func (d *Draft) AddItem(name string, unitPrice float64) int {
	d.Items = append(d.Items, models.InvoiceItem{
		ID:        uuid.NewString(),
		Name:      name,
		Quantity:  1,
		UnitPrice: unitPrice,
		Amount:    calc.ItemAmount(1, unitPrice),
	})
	return len(d.Items) - 1
}

// RemoveItem removes the item at index i.
func (d *Draft) RemoveItem(i int) bool {
	if i < 0 || i >= len(d.Items) {
		return false
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
	return true
}

// SetItemName renames the item at index i.
func (d *Draft) SetItemName(i int, name string) bool {
	if i < 0 || i >= len(d.Items) {
		return false
	}
	d.Items[i].Name = name
	return true
}

// SetItemQuantityText sets the quantity from form text (unparsable text is 0)
// and re-derives the item amount.
func (d *Draft) SetItemQuantityText(i int, text string) bool {
	if i < 0 || i >= len(d.Items) {
		return false
	}
	d.Items[i].Quantity = calc.ParseNumber(text)
	d.Items[i].Amount = calc.ItemAmount(d.Items[i].Quantity, d.Items[i].UnitPrice)
	return true
}

// SetItemUnitPriceText sets the unit price from form text and re-derives the item amount.
func (d *Draft) SetItemUnitPriceText(i int, text string) bool {
	if i < 0 || i >= len(d.Items) {
		return false
	}
	d.Items[i].UnitPrice = calc.ParseNumber(text)
	d.Items[i].Amount = calc.ItemAmount(d.Items[i].Quantity, d.Items[i].UnitPrice)
	return true
}

// SetTaxText sets the tax percentage from form text.
func (d *Draft) SetTaxText(text string) {
	d.TaxPercent = calc.ParseNumber(text)
}

// SetDiscountText sets the discount percentage from form text.
func (d *Draft) SetDiscountText(text string) {
	d.DiscountPercent = calc.ParseNumber(text)
}

// Totals derives the current totals from the items.
func (d *Draft) Totals() calc.Totals {
	return calc.Compute(d.Items, d.TaxPercent, d.DiscountPercent)
}

// Invoice assembles the record to persist, attaching the billing details of the
// selected billing type.
func (d *Draft) Invoice() models.Invoice {
	items := calc.RecomputeItems(d.Items)
	totals := calc.Compute(items, d.TaxPercent, d.DiscountPercent)

	inv := models.Invoice{
		ID:             d.ID,
		InvoiceNumber:  d.InvoiceNumber,
		IssueDate:      d.IssueDate,
		Customer:       d.Customer,
		Items:          items,
		Subtotal:       totals.Subtotal,
		Tax:            d.TaxPercent,
		TaxAmount:      totals.TaxAmount,
		Discount:       d.DiscountPercent,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		BillingType:    d.Billing.Selected(),
		BillingDetails: d.Billing.Attached(),
		Notes:          d.Notes,
	}
	if d.DueDate != nil {
		due := *d.DueDate
		inv.DueDate = &due
	}
	if d.Paid != nil {
		paid := *d.Paid
		inv.Paid = &paid
	}
	return inv
}

// Validate checks the draft as it would be saved.
func (d *Draft) Validate() error {
	return Validate(d.Invoice())
}
