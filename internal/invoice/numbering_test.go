package invoice

import (
	"testing"
	"time"

	"billing/pkg/models"
)

func numbers(nums ...string) []models.Invoice {
	out := make([]models.Invoice, len(nums))
	for i, n := range nums {
		out[i] = models.Invoice{InvoiceNumber: n}
	}
	return out
}

func TestNextInvoiceNumber(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	existing := numbers("INV-2401-0001", "INV-2401-0003")

	if got := NextInvoiceNumber(existing, jan); got != "INV-2401-0004" {
		t.Fatalf("expected INV-2401-0004, got %s", got)
	}
	if got := NextInvoiceNumber(existing, feb); got != "INV-2402-0001" {
		t.Fatalf("expected INV-2402-0001, got %s", got)
	}
	if got := NextInvoiceNumber(nil, jan); got != "INV-2401-0001" {
		t.Fatalf("expected INV-2401-0001, got %s", got)
	}
}

func TestNextInvoiceNumberIgnoresMalformedSuffix(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	existing := numbers("INV-2401-0002", "INV-2401-abc", "INV-2401-", "INV-2312-0042", "inv-2401-0009")

	if got := NextInvoiceNumber(existing, jan); got != "INV-2401-0003" {
		t.Fatalf("expected INV-2401-0003, got %s", got)
	}
}

func TestNextInvoiceNumberBeyondPadding(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := NextInvoiceNumber(numbers("INV-2401-9999"), jan); got != "INV-2401-10000" {
		t.Fatalf("expected INV-2401-10000, got %s", got)
	}
}

func TestNextInvoiceNumberIsPure(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	existing := numbers("INV-2401-0007")
	first := NextInvoiceNumber(existing, jan)
	second := NextInvoiceNumber(existing, jan)
	if first != second || len(existing) != 1 {
		t.Fatalf("expected repeatable result without side effects, got %s and %s", first, second)
	}
}
