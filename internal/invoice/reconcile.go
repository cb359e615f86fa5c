package invoice

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"billing/internal/calc"
	"billing/internal/logger"
	"billing/pkg/models"
)

// amountTolerance is half a cent; smaller differences are float noise.
const amountTolerance = 0.005

// Reconciler compares stored derived amounts with a fresh recomputation.
type Reconciler struct {
	log zerolog.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{
		log: logger.WithComponent("reconcile"),
	}
}

// ReconcileResult contains the corrected invoice and any warnings
type ReconcileResult struct {
	InvoiceID      string         `json:"invoiceId"`
	InvoiceNumber  string         `json:"invoiceNumber"`
	Corrected      models.Invoice `json:"-"`
	Warnings       []string       `json:"warnings"`
	HasDiscrepancy bool           `json:"hasDiscrepancy"`
	MaxDiscrepancy float64        `json:"maxDiscrepancyPct"`
}

// Reconcile checks every item amount and every invoice total of inv against the
// values derived from quantities, unit prices and percentages. Corrected holds
// inv with all derived amounts recomputed.
func (r *Reconciler) Reconcile(inv models.Invoice) ReconcileResult {
	result := ReconcileResult{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Corrected:     inv.Clone(),
		Warnings:      []string{},
	}
	calc.Apply(&result.Corrected)

	for i, item := range inv.Items {
		r.compare(&result, fmt.Sprintf("item %d (%s) amount", i+1, item.Name), item.Amount, result.Corrected.Items[i].Amount)
	}
	r.compare(&result, "subtotal", inv.Subtotal, result.Corrected.Subtotal)
	r.compare(&result, "tax amount", inv.TaxAmount, result.Corrected.TaxAmount)
	r.compare(&result, "discount amount", inv.DiscountAmount, result.Corrected.DiscountAmount)
	r.compare(&result, "total", inv.Total, result.Corrected.Total)

	// Nights entered by hand may legitimately differ from the dates; report only.
	if hotel, ok := inv.BillingDetails.(*models.HotelDetails); ok {
		if derived := calc.Nights(hotel.CheckIn, hotel.CheckOut, hotel.Nights); derived != hotel.Nights {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("hotel nights %d differ from the %d nights between check-in and check-out", hotel.Nights, derived))
		}
	}

	if result.HasDiscrepancy {
		r.log.Warn().
			Str("invoice_id", inv.ID).
			Str("invoice_number", inv.InvoiceNumber).
			Float64("max_discrepancy_pct", result.MaxDiscrepancy).
			Strs("warnings", result.Warnings).
			Msg("Stored amounts differ from recomputation")
	} else {
		r.log.Debug().
			Str("invoice_id", inv.ID).
			Msg("Stored amounts consistent")
	}

	return result
}

func (r *Reconciler) compare(result *ReconcileResult, label string, stored, derived float64) {
	if math.Abs(stored-derived) <= amountTolerance {
		return
	}

	discrepancy := calculateDiscrepancy(stored, derived)
	if discrepancy > result.MaxDiscrepancy {
		result.MaxDiscrepancy = discrepancy
	}
	result.HasDiscrepancy = true
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("%s: stored=%.2f, recomputed=%.2f (%.1f%% difference)", label, stored, derived, discrepancy))
}

// calculateDiscrepancy returns the percentage difference between two amounts
func calculateDiscrepancy(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	if a == 0 || b == 0 {
		return 100 // One is zero, other is not
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) / larger * 100
}
