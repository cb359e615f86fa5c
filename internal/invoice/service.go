// Package invoice manages the invoice lifecycle over the record store: numbering,
// validation, creation, full-record updates, deletion, and reconciliation of the
// stored derived amounts.
//
// The whole collection is read and written as one serialized list per operation,
// so an operation either replaces the stored collection or leaves it untouched.
package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"billing/internal/billing"
	"billing/internal/calc"
	"billing/internal/logger"
	"billing/internal/store"
	"billing/pkg/models"
)

// Service is the invoice lifecycle manager.
type Service struct {
	store store.Store
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for timestamps and numbering.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator sets the identifier source for invoices and items.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates an invoice service over the given record store.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   time.Now,
		newID: uuid.NewString,
		log:   logger.WithComponent("invoice"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

// List returns every stored invoice in stored order.
func (s *Service) List() ([]models.Invoice, error) {
	invoices, err := s.load("List")
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// Get returns the invoice with the given identifier.
func (s *Service) Get(id string) (models.Invoice, error) {
	const op = "Get"

	invoices, err := s.load(op)
	if err != nil {
		return models.Invoice{}, err
	}
	if i := indexOf(invoices, id); i >= 0 {
		return invoices[i], nil
	}
	return models.Invoice{}, &InvoiceError{Op: op, Err: ErrNotFound, InvoiceID: id}
}

// NextNumber returns the next invoice number for the current month.
func (s *Service) NextNumber() (string, error) {
	invoices, err := s.load("NextNumber")
	if err != nil {
		return "", err
	}
	return NextInvoiceNumber(invoices, s.now()), nil
}

// Create validates the draft, re-derives its amounts, assigns a fresh identifier
// and equal creation and update timestamps, and appends it to the collection.
// Any ID or timestamps on the draft are ignored. A draft without an invoice
// number gets the next number for the current month.
func (s *Service) Create(draft models.Invoice) (models.Invoice, error) {
	const op = "Create"

	if err := Validate(draft); err != nil {
		return models.Invoice{}, WrapInvoiceError(op, err, "")
	}

	invoices, err := s.load(op)
	if err != nil {
		return models.Invoice{}, err
	}

	inv := draft.Clone()
	s.prepare(&inv)
	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		inv.InvoiceNumber = NextInvoiceNumber(invoices, s.now())
	}
	ts := s.timestamp()
	inv.ID = s.newID()
	inv.CreatedAt = ts
	inv.UpdatedAt = ts

	invoices = append(invoices, inv)
	if err := s.save(op, invoices); err != nil {
		return models.Invoice{}, err
	}

	log := logger.WithInvoice("invoice", inv.ID, inv.InvoiceNumber)
	log.Info().
		Str("billing_type", string(inv.BillingType)).
		Str("customer", inv.Customer.Name).
		Int("items", len(inv.Items)).
		Float64("total", inv.Total).
		Msg("Invoice created")

	return inv.Clone(), nil
}

// Update overwrites the stored invoice with the same identifier, refreshing its
// update timestamp. The creation timestamp of the stored record is kept. It fails
// with ErrNotFound when no invoice has that identifier.
func (s *Service) Update(inv models.Invoice) (models.Invoice, error) {
	const op = "Update"

	invoices, err := s.load(op)
	if err != nil {
		return models.Invoice{}, err
	}

	i := indexOf(invoices, inv.ID)
	if i < 0 {
		s.log.Warn().Str("invoice_id", inv.ID).Msg("Update of unknown invoice")
		return models.Invoice{}, &InvoiceError{Op: op, Err: ErrNotFound, InvoiceID: inv.ID}
	}

	if err := Validate(inv); err != nil {
		return models.Invoice{}, WrapInvoiceError(op, err, "")
	}

	updated := inv.Clone()
	s.prepare(&updated)
	if strings.TrimSpace(updated.InvoiceNumber) == "" {
		updated.InvoiceNumber = invoices[i].InvoiceNumber
	}
	updated.CreatedAt = invoices[i].CreatedAt
	updated.UpdatedAt = s.timestamp()
	invoices[i] = updated

	if err := s.save(op, invoices); err != nil {
		return models.Invoice{}, err
	}

	log := logger.WithInvoice("invoice", updated.ID, updated.InvoiceNumber)
	log.Info().
		Float64("total", updated.Total).
		Msg("Invoice updated")

	return updated.Clone(), nil
}

// Delete removes every invoice with the given identifier. Deleting an unknown
// identifier is a no-op, unlike Update.
func (s *Service) Delete(id string) error {
	const op = "Delete"

	invoices, err := s.load(op)
	if err != nil {
		return err
	}

	kept := invoices[:0]
	for _, inv := range invoices {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}

	removed := len(invoices) - len(kept)
	if removed == 0 {
		s.log.Debug().Str("invoice_id", id).Msg("Delete of unknown invoice ignored")
		return nil
	}
	if err := s.save(op, kept); err != nil {
		return err
	}

	s.log.Info().
		Str("invoice_id", id).
		Int("removed", removed).
		Msg("Invoice deleted")
	return nil
}

// Verify reconciles every stored invoice. With fix set, invoices with
// discrepancies are rewritten with their recomputed amounts.
func (s *Service) Verify(fix bool) ([]ReconcileResult, error) {
	const op = "Verify"

	invoices, err := s.load(op)
	if err != nil {
		return nil, err
	}

	r := NewReconciler()
	results := make([]ReconcileResult, 0, len(invoices))
	changed := false
	for i, inv := range invoices {
		result := r.Reconcile(inv)
		results = append(results, result)
		if fix && result.HasDiscrepancy {
			invoices[i] = result.Corrected
			changed = true
		}
	}

	if changed {
		if err := s.save(op, invoices); err != nil {
			return nil, err
		}
		s.log.Info().Msg("Stored invoice amounts corrected")
	}
	return results, nil
}

// prepare assigns missing item identifiers and re-derives every amount.
func (s *Service) prepare(inv *models.Invoice) {
	for i := range inv.Items {
		if inv.Items[i].ID == "" {
			inv.Items[i].ID = s.newID()
		}
	}
	calc.Apply(inv)
}

// Validate checks the fields an invoice needs before it can be stored: a customer
// name, at least one item, an issue date and billing details matching the billing type.
func Validate(inv models.Invoice) error {
	if strings.TrimSpace(inv.Customer.Name) == "" {
		return NewValidationError("customer.name", inv.Customer.Name, "customer name is required")
	}
	if len(inv.Items) == 0 {
		return NewValidationError("items", len(inv.Items), "at least one item is required")
	}
	if inv.IssueDate.IsZero() {
		return NewValidationError("issueDate", "", "issue date is required")
	}
	if err := billing.Validate(inv.BillingType, inv.BillingDetails); err != nil {
		field := "billingDetails"
		var detailsErr *billing.DetailsError
		if errors.As(err, &detailsErr) {
			if detailsErr.Field == "billingType" {
				field = "billingType"
			} else if detailsErr.Field != "billingDetails" {
				field = "billingDetails." + detailsErr.Field
			}
			return &ValidationError{Field: field, Value: detailsErr.Value, Message: detailsErr.Message, Err: err}
		}
		return &ValidationError{Field: field, Message: err.Error(), Err: err}
	}
	return nil
}

func indexOf(invoices []models.Invoice, id string) int {
	for i, inv := range invoices {
		if inv.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) load(op string) ([]models.Invoice, error) {
	raw, ok, err := s.store.Get(store.InvoicesKey)
	if err != nil {
		return nil, NewInvoiceError(op, err, "read invoices")
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []models.Invoice{}, nil
	}

	var invoices []models.Invoice
	if err := json.Unmarshal([]byte(raw), &invoices); err != nil {
		s.log.Error().Err(err).Msg("Failed to decode stored invoices")
		return nil, NewInvoiceError(op, fmt.Errorf("%w: %v", ErrCorruptCollection, err), "")
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	return invoices, nil
}

func (s *Service) save(op string, invoices []models.Invoice) error {
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	data, err := json.Marshal(invoices)
	if err != nil {
		return NewInvoiceError(op, err, "encode invoices")
	}
	if err := s.store.Set(store.InvoicesKey, string(data)); err != nil {
		s.log.Error().Err(err).Msg("Failed to write invoices")
		return NewInvoiceError(op, err, "write invoices")
	}
	return nil
}
