package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"billing/internal/billing"
	"billing/internal/calc"
	"billing/pkg/models"
)

// Number is a float that decodes from a JSON number or, leniently, from a string
// the way form input is read: unparsable text becomes 0.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(calc.ParseNumber(s))
		return nil
	}
	*n = Number(calc.ParseNumber(string(data)))
	return nil
}

// DraftFile is the on-disk form of an invoice draft. Like an editing session it
// carries all three billing variants; BillingType selects the attached one.
type DraftFile struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	IssueDate     models.Date     `json:"issueDate"`
	DueDate       models.Date     `json:"dueDate"`
	Customer      models.Customer `json:"customer"`
	Items         []DraftItem     `json:"items"`
	Tax           Number          `json:"tax"`
	Discount      Number          `json:"discount"`
	BillingType   string          `json:"billingType"`
	Hotel         json.RawMessage `json:"hotel,omitempty"`
	Grocery       json.RawMessage `json:"grocery,omitempty"`
	Custom        json.RawMessage `json:"custom,omitempty"`
	Notes         string          `json:"notes"`
	Paid          *bool           `json:"paid,omitempty"`
}

// DraftItem is one item line of a DraftFile.
type DraftItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Quantity    Number `json:"quantity"`
	UnitPrice   Number `json:"unitPrice"`
	Description string `json:"description"`
}

// ParseDraftFile decodes a DraftFile into a Draft. The selected billing variant is
// decoded strictly; the others leniently, so a half-filled variant that is not
// being used does not block saving.
func ParseDraftFile(data []byte, now time.Time) (*Draft, error) {
	var f DraftFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, NewValidationError("draft", nil, fmt.Sprintf("malformed draft: %v", err))
	}
	return f.Draft(now)
}

// ParseUpdateFile decodes a DraftFile that replaces stored. Fields the file leaves
// out fall back to the stored invoice: an absent issue date keeps the stored date
// and an item without an id takes the id of the stored item at the same position.
func ParseUpdateFile(data []byte, stored models.Invoice, now time.Time) (*Draft, error) {
	var f DraftFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, NewValidationError("draft", nil, fmt.Sprintf("malformed draft: %v", err))
	}
	if f.IssueDate.IsZero() {
		f.IssueDate = stored.IssueDate
	}
	for i := range f.Items {
		if f.Items[i].ID == "" && i < len(stored.Items) {
			f.Items[i].ID = stored.Items[i].ID
		}
	}

	d, err := f.Draft(now)
	if err != nil {
		return nil, err
	}
	d.ID = stored.ID
	return d, nil
}

// Draft converts the file into an editing session.
func (f DraftFile) Draft(now time.Time) (*Draft, error) {
	d := NewDraft(f.InvoiceNumber, now)
	if !f.IssueDate.IsZero() {
		d.IssueDate = f.IssueDate
	}
	if !f.DueDate.IsZero() {
		due := f.DueDate
		d.DueDate = &due
	}
	d.Customer = f.Customer
	d.TaxPercent = float64(f.Tax)
	d.DiscountPercent = float64(f.Discount)
	d.Notes = f.Notes
	d.Paid = f.Paid

	for _, it := range f.Items {
		item := models.InvoiceItem{
			ID:          it.ID,
			Name:        it.Name,
			Quantity:    float64(it.Quantity),
			UnitPrice:   float64(it.UnitPrice),
			Description: it.Description,
		}
		item.Amount = calc.ItemAmount(item.Quantity, item.UnitPrice)
		d.Items = append(d.Items, item)
	}

	selected := models.BillingHotel
	if f.BillingType != "" {
		t, err := models.ParseBillingType(f.BillingType)
		if err != nil {
			return nil, NewValidationError("billingType", f.BillingType, err.Error())
		}
		selected = t
	}

	variants := map[models.BillingType]json.RawMessage{
		models.BillingHotel:   f.Hotel,
		models.BillingGrocery: f.Grocery,
		models.BillingCustom:  f.Custom,
	}
	for _, t := range models.BillingTypes {
		raw := variants[t]
		var (
			details models.BillingDetails
			err     error
		)
		if t == selected {
			details, err = billing.Decode(t, raw)
		} else if len(bytes.TrimSpace(raw)) > 0 {
			details, err = models.DecodeBillingDetails(t, raw)
		}
		if err != nil {
			return nil, &ValidationError{Field: string(t), Message: err.Error(), Err: err}
		}
		switch v := details.(type) {
		case *models.HotelDetails:
			d.Billing.Hotel = *v
		case *models.GroceryDetails:
			d.Billing.Grocery = *v
		case *models.CustomDetails:
			d.Billing.Custom = *v
		}
	}
	if err := d.Billing.Select(selected); err != nil {
		return nil, &ValidationError{Field: "billingType", Value: selected, Message: err.Error(), Err: err}
	}

	return d, nil
}
