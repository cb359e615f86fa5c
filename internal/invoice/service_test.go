package invoice_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"billing/internal/billing"
	"billing/internal/invoice"
	"billing/internal/store"
	"billing/pkg/models"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func newService(t *testing.T, st store.Store) (*invoice.Service, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)}
	return invoice.NewService(st,
		invoice.WithClock(c.now),
		invoice.WithIDGenerator(sequentialIDs()),
	), c
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return d
}

func groceryDraft(t *testing.T, customer string, items ...models.InvoiceItem) models.Invoice {
	t.Helper()
	return models.Invoice{
		IssueDate:      mustDate(t, "2024-01-10"),
		Customer:       models.Customer{Name: customer, Email: "buyer@example.com"},
		Items:          items,
		Tax:            10,
		Discount:       5,
		BillingType:    models.BillingGrocery,
		BillingDetails: &models.GroceryDetails{IsWeightBased: true},
	}
}

func TestCreateAssignsIdentityAndTotals(t *testing.T) {
	svc, _ := newService(t, store.NewMemoryStore())

	created, err := svc.Create(groceryDraft(t, "Asha",
		models.InvoiceItem{Name: "Rice", Quantity: 2.5, UnitPrice: 40, Amount: 1},
		models.InvoiceItem{Name: "Oil", Quantity: 1, UnitPrice: 150},
	))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID == "" || created.InvoiceNumber != "INV-2401-0001" {
		t.Fatalf("expected id and number assigned, got %q %q", created.ID, created.InvoiceNumber)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected equal timestamps on creation, got %v and %v", created.CreatedAt, created.UpdatedAt)
	}
	if created.Items[0].Amount != 100 {
		t.Fatalf("expected item amount re-derived to 100, got %v", created.Items[0].Amount)
	}
	if created.Items[0].ID == "" || created.Items[1].ID == "" {
		t.Fatalf("expected item identifiers assigned")
	}
	if created.Subtotal != 250 || created.TaxAmount != 25 || created.DiscountAmount != 12.5 || created.Total != 262.5 {
		t.Fatalf("unexpected totals: %+v", created)
	}
}

func TestCreateThenListRoundTrip(t *testing.T) {
	svc, _ := newService(t, store.NewMemoryStore())

	created, err := svc.Create(groceryDraft(t, "Asha", models.InvoiceItem{Name: "Rice", Quantity: 2, UnitPrice: 40}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	invoices, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices))
	}
	if !reflect.DeepEqual(invoices[0], created) {
		t.Fatalf("expected stored record to equal the returned one\nstored:   %+v\nreturned: %+v", invoices[0], created)
	}
}

func TestCreateRejectsInvalidDrafts(t *testing.T) {
	svc, _ := newService(t, store.NewMemoryStore())

	cases := map[string]models.Invoice{
		"customer.name": groceryDraft(t, "", models.InvoiceItem{Name: "Rice", Quantity: 1, UnitPrice: 1}),
		"items":         groceryDraft(t, "Asha"),
	}
	hotel := groceryDraft(t, "Asha", models.InvoiceItem{Name: "Room", Quantity: 1, UnitPrice: 1})
	hotel.BillingType = models.BillingHotel
	hotel.BillingDetails = &models.HotelDetails{CheckIn: mustDate(t, "2024-01-01"), CheckOut: mustDate(t, "2024-01-02"), Nights: 1}
	cases["billingDetails.roomNumber"] = hotel

	for field, draft := range cases {
		_, err := svc.Create(draft)
		if !errors.Is(err, invoice.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
		var vErr *invoice.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != field {
			t.Fatalf("expected field %s, got %v", field, err)
		}
	}

	invoices, _ := svc.List()
	if len(invoices) != 0 {
		t.Fatalf("expected nothing persisted, got %d invoices", len(invoices))
	}

	_, err := svc.Create(hotel)
	if !errors.Is(err, billing.ErrInvalidDetails) {
		t.Fatalf("expected billing detail error to be matchable, got %v", err)
	}
}

func TestUpdateUnknownInvoiceFails(t *testing.T) {
	svc, _ := newService(t, store.NewMemoryStore())

	draft := groceryDraft(t, "Asha", models.InvoiceItem{Name: "Rice", Quantity: 1, UnitPrice: 1})
	draft.ID = "missing"
	_, err := svc.Update(draft)
	if !errors.Is(err, invoice.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var invErr *invoice.InvoiceError
	if !errors.As(err, &invErr) || invErr.InvoiceID != "missing" {
		t.Fatalf("expected InvoiceError carrying the id, got %v", err)
	}
}

func TestUpdateRefreshesUpdatedAtOnly(t *testing.T) {
	svc, _ := newService(t, store.NewMemoryStore())

	created, err := svc.Create(groceryDraft(t, "Asha", models.InvoiceItem{Name: "Rice", Quantity: 1, UnitPrice: 10}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := created.Clone()
	edit.Items[0].Quantity = 3
	edit.CreatedAt = time.Time{}
	updated, err := svc.Update(edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected createdAt kept, got %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updatedAt refreshed, got %v", updated.UpdatedAt)
	}
	if updated.Items[0].Amount != 30 || updated.Total != 31.5 {
		t.Fatalf("expected amounts re-derived, got item %v total %v", updated.Items[0].Amount, updated.Total)
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Total != updated.Total {
		t.Fatalf("expected stored total %v, got %v", updated.Total, got.Total)
	}
}

func TestDeleteUnknownIsNoOp(t *testing.T) {
	st := store.NewMemoryStore()
	svc, _ := newService(t, st)

	if _, err := svc.Create(groceryDraft(t, "Asha", models.InvoiceItem{Name: "Rice", Quantity: 1, UnitPrice: 1})); err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _, _ := st.Get(store.InvoicesKey)

	if err := svc.Delete("missing"); err != nil {
		t.Fatalf("expected delete of unknown id to succeed, got %v", err)
	}
	after, _, _ := st.Get(store.InvoicesKey)
	if before != after {
		t.Fatalf("expected collection unchanged")
	}
}

func TestDeleteRemovesInvoice(t *testing.T) {
	svc, _ := newService(t, store.NewMemoryStore())

	first, _ := svc.Create(groceryDraft(t, "Asha", models.InvoiceItem{Name: "Rice", Quantity: 1, UnitPrice: 1}))
	second, _ := svc.Create(groceryDraft(t, "Ravi", models.InvoiceItem{Name: "Dal", Quantity: 1, UnitPrice: 1}))

	if err := svc.Delete(first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	invoices, _ := svc.List()
	if len(invoices) != 1 || invoices[0].ID != second.ID {
		t.Fatalf("expected only the second invoice left, got %+v", invoices)
	}
	if _, err := svc.Get(first.ID); !errors.Is(err, invoice.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestNextNumberFollowsStoredInvoices(t *testing.T) {
	svc, _ := newService(t, store.NewMemoryStore())

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(groceryDraft(t, "Asha", models.InvoiceItem{Name: "Rice", Quantity: 1, UnitPrice: 1})); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	next, err := svc.NextNumber()
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if next != "INV-2401-0003" {
		t.Fatalf("expected INV-2401-0003, got %s", next)
	}
}

func TestListToleratesAbsentOptionalFields(t *testing.T) {
	st := store.NewMemoryStore()
	raw := `[{"id":"a","invoiceNumber":"INV-2401-0001","issueDate":"2024-01-02",
		"customer":{"name":"Asha"},"items":[{"id":"i","name":"Rice","quantity":1,"unitPrice":5,"amount":5}],
		"subtotal":5,"total":5,"billingType":"custom","createdAt":"2024-01-02T10:00:00.000Z","updatedAt":"2024-01-02T10:00:00.000Z"}]`
	if err := st.Set(store.InvoicesKey, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc, _ := newService(t, st)

	invoices, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	custom, ok := invoices[0].BillingDetails.(*models.CustomDetails)
	if !ok || len(custom.CustomFields) != 0 {
		t.Fatalf("expected empty custom details, got %#v", invoices[0].BillingDetails)
	}
	if invoices[0].TaxAmount != 0 || invoices[0].DueDate != nil || invoices[0].Paid != nil {
		t.Fatalf("expected zero values for absent fields, got %+v", invoices[0])
	}
}

func TestListKeepsUnknownBillingType(t *testing.T) {
	st := store.NewMemoryStore()
	raw := `[{"id":"a","invoiceNumber":"INV-2401-0001","issueDate":"2024-01-02","customer":{"name":"Asha"},
		"items":[],"total":40,"billingType":"spa","billingDetails":{"therapist":"Lina"},
		"createdAt":"2024-01-02T10:00:00Z","updatedAt":"2024-01-02T10:00:00Z"},
		{"id":"b","invoiceNumber":"INV-2401-0002","issueDate":"2024-01-03","customer":{"name":"Ravi"},
		"items":[],"total":5,"billingType":"grocery","createdAt":"2024-01-03T10:00:00Z","updatedAt":"2024-01-03T10:00:00Z"}]`
	if err := st.Set(store.InvoicesKey, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc, _ := newService(t, st)

	invoices, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(invoices) != 2 || invoices[0].BillingType != "spa" {
		t.Fatalf("expected both invoices, got %+v", invoices)
	}

	if _, err := svc.Create(groceryDraft(t, "Meera", models.InvoiceItem{Name: "Rice", Quantity: 1, UnitPrice: 10})); err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, _, _ := st.Get(store.InvoicesKey)
	if !strings.Contains(stored, `"billingDetails":{"therapist":"Lina"}`) {
		t.Fatalf("expected unknown billing details written back unchanged, got %s", stored)
	}
}

func TestCorruptCollection(t *testing.T) {
	st := store.NewMemoryStore()
	_ = st.Set(store.InvoicesKey, "{not json")
	svc, _ := newService(t, st)

	if _, err := svc.List(); !errors.Is(err, invoice.ErrCorruptCollection) {
		t.Fatalf("expected ErrCorruptCollection, got %v", err)
	}
}

type failingStore struct{ store.Store }

func (failingStore) Set(key, value string) error {
	return &store.StoreError{Op: "Set", Key: key, Err: errors.New("disk full")}
}

func TestStorageFailureSurfaces(t *testing.T) {
	svc, _ := newService(t, failingStore{store.NewMemoryStore()})

	_, err := svc.Create(groceryDraft(t, "Asha", models.InvoiceItem{Name: "Rice", Quantity: 1, UnitPrice: 1}))
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

func TestVerifyFixesDriftedAmounts(t *testing.T) {
	st := store.NewMemoryStore()
	raw := `[{"id":"a","invoiceNumber":"INV-2401-0001","issueDate":"2024-01-02",
		"customer":{"name":"Asha"},"items":[{"id":"i","name":"Rice","quantity":2,"unitPrice":5,"amount":9}],
		"subtotal":9,"tax":0,"taxAmount":0,"discount":0,"discountAmount":0,"total":9,"billingType":"grocery",
		"billingDetails":{"isWeightBased":false},"createdAt":"2024-01-02T10:00:00Z","updatedAt":"2024-01-02T10:00:00Z"}]`
	_ = st.Set(store.InvoicesKey, raw)
	svc, _ := newService(t, st)

	results, err := svc.Verify(false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(results) != 1 || !results[0].HasDiscrepancy || len(results[0].Warnings) != 3 {
		t.Fatalf("expected item, subtotal and total warnings, got %+v", results)
	}

	if _, err := svc.Verify(true); err != nil {
		t.Fatalf("verify fix: %v", err)
	}
	inv, _ := svc.Get("a")
	if inv.Items[0].Amount != 10 || inv.Total != 10 {
		t.Fatalf("expected corrected amounts, got %+v", inv)
	}
	results, _ = svc.Verify(false)
	if results[0].HasDiscrepancy {
		t.Fatalf("expected no discrepancy after fix, got %+v", results[0])
	}
}
