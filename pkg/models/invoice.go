package models

import (
	"encoding/json"
	"time"
)

// Invoice is a persisted invoice record. Derived fields (item amounts, Subtotal,
// TaxAmount, DiscountAmount, Total) are always recomputed from the items and
// percentages before the record is stored.
type Invoice struct {
	// Identity
	ID            string `json:"id"`            // Opaque, assigned at creation
	InvoiceNumber string `json:"invoiceNumber"` // Human-facing number, e.g. INV-2401-0001

	// Dates
	IssueDate Date  `json:"issueDate"`
	DueDate   *Date `json:"dueDate,omitempty"`

	Customer Customer      `json:"customer"`
	Items    []InvoiceItem `json:"items"`

	// Amounts; Tax and Discount are percentages of Subtotal
	Subtotal       float64 `json:"subtotal"`
	Tax            float64 `json:"tax"`
	TaxAmount      float64 `json:"taxAmount"`
	Discount       float64 `json:"discount"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`

	BillingType    BillingType    `json:"billingType"`
	BillingDetails BillingDetails `json:"billingDetails,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Paid      *bool     `json:"paid,omitempty"`
}

// Customer is embedded in an invoice; it has no identity of its own.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// InvoiceItem is one line of an invoice. Quantity is a count or a weight
// depending on the billing type.
type InvoiceItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// UnmarshalJSON decodes billingDetails according to billingType.
func (inv *Invoice) UnmarshalJSON(data []byte) error {
	type alias Invoice
	aux := struct {
		*alias
		BillingDetails json.RawMessage `json:"billingDetails,omitempty"`
	}{alias: (*alias)(inv)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	details, err := DecodeBillingDetails(inv.BillingType, aux.BillingDetails)
	if err != nil {
		return err
	}
	inv.BillingDetails = details
	return nil
}

// Clone returns a deep copy of the invoice.
func (inv Invoice) Clone() Invoice {
	c := inv
	c.Items = append([]InvoiceItem(nil), inv.Items...)
	c.BillingDetails = CloneBillingDetails(inv.BillingDetails)
	if inv.DueDate != nil {
		d := *inv.DueDate
		c.DueDate = &d
	}
	if inv.Paid != nil {
		p := *inv.Paid
		c.Paid = &p
	}
	return c
}

// IsPaid reports the optional paid flag, false when unset.
func (inv Invoice) IsPaid() bool {
	return inv.Paid != nil && *inv.Paid
}
