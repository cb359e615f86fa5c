package report

import (
	"sort"
	"time"

	"billing/internal/money"
	"billing/pkg/models"
)

// RecentInvoices is the number of invoices listed on the dashboard.
const RecentInvoices = 5

// Dashboard is the dashboard overview.
type Dashboard struct {
	InvoiceCount int                `json:"invoiceCount"`
	Revenue      float64            `json:"revenue"`
	Average      float64            `json:"average"`
	MostUsedType models.BillingType `json:"mostUsedType,omitempty"`
	ByType       []TypeTotal        `json:"byType"`
	Recent       []models.Invoice   `json:"recent"`
}

// Summary builds the dashboard overview. The most used billing type is the one
// with the most invoices, the earlier type in hotel, grocery, custom order on a
// tie, and empty when there are no invoices. Recent lists the newest invoices by
// creation time.
func Summary(invoices []models.Invoice) Dashboard {
	s := Dashboard{
		InvoiceCount: len(invoices),
		ByType:       ByBillingType(invoices),
		Recent:       []models.Invoice{},
	}
	for _, inv := range invoices {
		s.Revenue += inv.Total
	}
	s.Average = money.Average(s.Revenue, s.InvoiceCount)

	best := 0
	for _, tt := range s.ByType {
		if tt.Count > best {
			best = tt.Count
			s.MostUsedType = tt.Type
		}
	}

	recent := append([]models.Invoice(nil), invoices...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > RecentInvoices {
		recent = recent[:RecentInvoices]
	}
	s.Recent = append(s.Recent, recent...)
	return s
}

// Range is a history window.
type Range string

const (
	Last30Days   Range = "last_30_days"
	Last3Months  Range = "last_3_months"
	Last6Months  Range = "last_6_months"
	LastYear     Range = "last_year"
	AllTime      Range = "all_time"
	DefaultRange       = Last3Months
)

// ParseRange parses one of the history ranges; empty means DefaultRange.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case "":
		return DefaultRange, nil
	case Last30Days, Last3Months, Last6Months, LastYear, AllTime:
		return r, nil
	}
	return "", errUnknown("range", s, "last_30_days, last_3_months, last_6_months, last_year or all_time")
}

// HistoryReport is the invoice history of a range grouped by month.
type HistoryReport struct {
	Range         Range       `json:"range"`
	Since         *time.Time  `json:"since,omitempty"`
	Months        []Point     `json:"months"`
	ByType        []TypeTotal `json:"byType"`
	TotalRevenue  float64     `json:"totalRevenue"`
	TotalInvoices int         `json:"totalInvoices"`
}

// History filters invoices to those issued strictly after the start of rng and
// strictly before now, then groups them by issue month (only months that have
// invoices, oldest first) and by billing type. AllTime keeps every invoice.
func History(invoices []models.Invoice, rng Range, now time.Time) (HistoryReport, error) {
	h := HistoryReport{Range: rng, Months: []Point{}}

	var since time.Time
	switch rng {
	case Last30Days:
		since = models.NewDate(now).AddDate(0, 0, -30)
	case Last3Months:
		since = now.AddDate(0, -3, 0)
	case Last6Months:
		since = now.AddDate(0, -6, 0)
	case LastYear:
		since = now.AddDate(0, -12, 0)
	case AllTime:
	default:
		return HistoryReport{}, errUnknown("range", string(rng), "a history range")
	}

	filtered := invoices
	if rng != AllTime {
		h.Since = &since
		filtered = make([]models.Invoice, 0, len(invoices))
		for _, inv := range invoices {
			d := inv.IssueDate.Time
			if d.After(since) && d.Before(now) {
				filtered = append(filtered, inv)
			}
		}
	}

	months := make(map[string]int)
	for _, inv := range filtered {
		start := bucketStart(Monthly, inv.IssueDate.Time)
		key, label := bucketKey(Monthly, start)
		i, ok := months[key]
		if !ok {
			i = len(h.Months)
			months[key] = i
			h.Months = append(h.Months, Point{Key: key, Label: label, Start: models.Date{Time: start}})
		}
		h.Months[i].Total += inv.Total
		h.Months[i].Count++
		h.TotalRevenue += inv.Total
		h.TotalInvoices++
	}
	sort.Slice(h.Months, func(i, j int) bool {
		return h.Months[i].Start.Before(h.Months[j].Start.Time)
	})

	h.ByType = ByBillingType(filtered)
	return h, nil
}
