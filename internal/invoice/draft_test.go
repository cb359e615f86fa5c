package invoice_test

import (
	"errors"
	"testing"
	"time"

	"billing/internal/billing"
	"billing/internal/invoice"
	"billing/internal/store"
	"billing/pkg/models"
)

var editTime = time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

func TestDraftDerivesAmountsOnEdit(t *testing.T) {
	d := invoice.NewDraft("INV-2403-0001", editTime)
	i := d.AddItem("Apples", 120)

	if !d.SetItemQuantityText(i, "1.5") {
		t.Fatalf("expected item %d to exist", i)
	}
	if d.Items[i].Amount != 180 {
		t.Fatalf("expected amount 180, got %v", d.Items[i].Amount)
	}

	d.SetItemUnitPriceText(i, "abc")
	if d.Items[i].UnitPrice != 0 || d.Items[i].Amount != 0 {
		t.Fatalf("expected unparsable price to read as 0, got %+v", d.Items[i])
	}

	d.SetItemUnitPriceText(i, "100")
	d.SetTaxText("18")
	d.SetDiscountText("")
	totals := d.Totals()
	if totals.Subtotal != 150 || totals.TaxAmount != 27 || totals.DiscountAmount != 0 || totals.Total != 177 {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	if d.SetItemName(5, "ghost") || d.RemoveItem(-1) {
		t.Fatalf("expected out of range edits to be rejected")
	}
}

func TestDraftAttachesSelectedVariantOnly(t *testing.T) {
	d := invoice.NewDraft("INV-2403-0001", editTime)
	d.Customer.Name = "Asha"
	d.AddItem("Room", 2500)
	d.Billing.SetRoomNumber("204")
	d.Billing.SetWeightBased(true)

	inv := d.Invoice()
	hotel, ok := inv.BillingDetails.(*models.HotelDetails)
	if !ok {
		t.Fatalf("expected hotel details attached, got %#v", inv.BillingDetails)
	}
	if hotel.Nights != 1 || hotel.CheckIn.String() != "2024-03-05" || hotel.CheckOut.String() != "2024-03-06" {
		t.Fatalf("expected one night from today, got %+v", hotel)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}

	if err := d.Billing.Select(models.BillingGrocery); err != nil {
		t.Fatalf("select: %v", err)
	}
	inv = d.Invoice()
	grocery, ok := inv.BillingDetails.(*models.GroceryDetails)
	if !ok || !grocery.IsWeightBased {
		t.Fatalf("expected weight-based grocery details, got %#v", inv.BillingDetails)
	}
	if d.Billing.Hotel.RoomNumber != "204" {
		t.Fatalf("expected hotel values kept after switching type")
	}
}

func TestDraftFromStoredInvoice(t *testing.T) {
	stored := models.Invoice{
		ID:            "a",
		InvoiceNumber: "INV-2402-0007",
		IssueDate:     models.NewDate(editTime),
		Customer:      models.Customer{Name: "Ravi"},
		Items:         []models.InvoiceItem{{ID: "i", Name: "Design", Quantity: 2, UnitPrice: 50, Amount: 1}},
		Tax:           10,
		BillingType:   models.BillingCustom,
		BillingDetails: &models.CustomDetails{CustomFields: []models.CustomField{
			{Key: "Project", Value: "Logo"},
		}},
	}

	d := invoice.DraftFrom(stored, editTime)
	if d.ID != "a" || d.Billing.Selected() != models.BillingCustom {
		t.Fatalf("expected stored identity and type, got %s %s", d.ID, d.Billing.Selected())
	}
	if d.Items[0].Amount != 100 {
		t.Fatalf("expected amount re-derived to 100, got %v", d.Items[0].Amount)
	}

	d.Billing.UpdateCustomField(0, "Project", "Banner")
	if stored.BillingDetails.(*models.CustomDetails).CustomFields[0].Value != "Logo" {
		t.Fatalf("expected editing the draft to leave the stored invoice untouched")
	}
	if d.Invoice().Total != 110 {
		t.Fatalf("expected total 110, got %v", d.Invoice().Total)
	}
}

func TestParseDraftFile(t *testing.T) {
	data := []byte(`{
		"customer": {"name": "Meera", "email": "meera@example.com"},
		"items": [{"name": "Tomatoes", "quantity": "1.25", "unitPrice": 80}],
		"tax": "5",
		"billingType": "grocery",
		"grocery": {"isWeightBased": true},
		"hotel": {"roomNumber": 12}
	}`)

	_, err := invoice.ParseDraftFile(data, editTime)
	if !errors.Is(err, invoice.ErrValidation) {
		t.Fatalf("expected malformed unselected variant to be rejected, got %v", err)
	}

	data = []byte(`{
		"customer": {"name": "Meera"},
		"items": [{"name": "Tomatoes", "quantity": "1.25", "unitPrice": 80}],
		"tax": "5",
		"billingType": "grocery",
		"grocery": {"isWeightBased": true}
	}`)
	d, err := invoice.ParseDraftFile(data, editTime)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.IssueDate.String() != "2024-03-05" {
		t.Fatalf("expected issue date defaulted to today, got %s", d.IssueDate)
	}
	if d.Billing.QuantityUnit() != "kg" {
		t.Fatalf("expected kg unit for weight-based grocery, got %s", d.Billing.QuantityUnit())
	}
	if total := d.Invoice().Total; total != 105 {
		t.Fatalf("expected total 105, got %v", total)
	}
}

func TestParseDraftFileRejectsBadSelectedVariant(t *testing.T) {
	data := []byte(`{"customer":{"name":"A"},"billingType":"hotel",
		"hotel":{"roomNumber":"1","checkIn":"2024-03-05","checkOut":"2024-03-07","services":"spa"}}`)

	_, err := invoice.ParseDraftFile(data, editTime)
	if !errors.Is(err, billing.ErrInvalidDetails) {
		t.Fatalf("expected invalid details error, got %v", err)
	}

	_, err = invoice.ParseDraftFile([]byte(`{"billingType":"rental"}`), editTime)
	if !errors.Is(err, invoice.ErrValidation) {
		t.Fatalf("expected unknown billing type to be rejected, got %v", err)
	}
}

func TestDraftFileKeepsEnteredNights(t *testing.T) {
	data := []byte(`{"customer":{"name":"Asha"},
		"items":[{"name":"Room","quantity":5,"unitPrice":2000}],
		"billingType":"hotel",
		"hotel":{"roomNumber":"12","checkIn":"2024-01-01","checkOut":"2024-01-04","nights":5}}`)

	d, err := invoice.ParseDraftFile(data, editTime)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Billing.Hotel.Nights != 5 {
		t.Fatalf("expected entered nights 5, got %d", d.Billing.Hotel.Nights)
	}

	svc, _ := newService(t, store.NewMemoryStore())
	created, err := svc.Create(d.Invoice())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if nights := created.BillingDetails.(*models.HotelDetails).Nights; nights != 5 {
		t.Fatalf("expected stored nights 5, got %d", nights)
	}
}

func TestParseUpdateFileFallsBackToStored(t *testing.T) {
	stored := models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-2402-0003",
		IssueDate:     mustDate(t, "2024-02-14"),
		Items: []models.InvoiceItem{
			{ID: "item-a", Name: "Rice", Quantity: 1, UnitPrice: 50, Amount: 50},
		},
	}
	data := []byte(`{"customer":{"name":"Ravi"},
		"items":[{"name":"Rice","quantity":2,"unitPrice":50},{"name":"Dal","quantity":1,"unitPrice":90}],
		"billingType":"grocery"}`)

	d, err := invoice.ParseUpdateFile(data, stored, editTime)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.ID != "inv-1" {
		t.Fatalf("expected draft bound to inv-1, got %q", d.ID)
	}
	if d.IssueDate.String() != "2024-02-14" {
		t.Fatalf("expected stored issue date 2024-02-14, got %s", d.IssueDate)
	}
	if d.Items[0].ID != "item-a" || d.Items[1].ID != "" {
		t.Fatalf("expected first item to keep item-a and the new item to stay unassigned, got %+v", d.Items)
	}

	data = []byte(`{"issueDate":"2024-02-20","customer":{"name":"Ravi"},
		"items":[{"id":"item-z","name":"Rice","quantity":2,"unitPrice":50}],"billingType":"grocery"}`)
	d, err = invoice.ParseUpdateFile(data, stored, editTime)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.IssueDate.String() != "2024-02-20" || d.Items[0].ID != "item-z" {
		t.Fatalf("expected explicit issue date and item id to win, got %s %+v", d.IssueDate, d.Items)
	}
}

func TestFilterAndSort(t *testing.T) {
	at := func(h int) time.Time { return editTime.Add(time.Duration(h) * time.Hour) }
	invoices := []models.Invoice{
		{ID: "1", InvoiceNumber: "INV-2403-0001", Customer: models.Customer{Name: "Asha"}, BillingType: models.BillingHotel, CreatedAt: at(1)},
		{ID: "2", InvoiceNumber: "INV-2403-0002", Customer: models.Customer{Name: "Ravi", Email: "ravi@shop.in"}, BillingType: models.BillingGrocery, CreatedAt: at(3)},
		{ID: "3", InvoiceNumber: "INV-2403-0003", Customer: models.Customer{Name: "Meera"}, BillingType: models.BillingGrocery, CreatedAt: at(2)},
	}

	got := invoice.Filter{Type: models.BillingGrocery}.Apply(invoices)
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("expected grocery invoices in stored order, got %+v", got)
	}
	if got := (invoice.Filter{Search: "SHOP.IN"}).Apply(invoices); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected email search to match invoice 2, got %+v", got)
	}
	if got := (invoice.Filter{Search: "0001"}).Apply(invoices); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected number search to match invoice 1, got %+v", got)
	}

	invoice.SortRecent(invoices)
	if invoices[0].ID != "2" || invoices[1].ID != "3" || invoices[2].ID != "1" {
		t.Fatalf("expected newest first, got %s %s %s", invoices[0].ID, invoices[1].ID, invoices[2].ID)
	}
}
