package report

import (
	"fmt"
	"strings"
	"time"

	"billing/pkg/models"
)

// Bucket is the granularity of a timeline.
type Bucket string

const (
	Daily   Bucket = "day"
	Weekly  Bucket = "week"
	Monthly Bucket = "month"
	Yearly  Bucket = "year"
)

// lookback is the number of buckets a timeline covers, ending at the current one.
var lookback = map[Bucket]int{
	Daily:   30,
	Weekly:  12,
	Monthly: 12,
	Yearly:  5,
}

// ParseBucket accepts day, week, month or year, with or without an -ly suffix.
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return Daily, nil
	case "week", "weekly":
		return Weekly, nil
	case "month", "monthly", "":
		return Monthly, nil
	case "year", "yearly":
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: bucket %q (want day, week, month or year)", ErrUnknownOption, s)
}

// Point is one bucket of a timeline.
type Point struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Start models.Date `json:"start"`
	Total float64     `json:"total"`
	Count int         `json:"count"`
}

// Timeline sums invoice totals by issue date into the buckets of the lookback
// window ending at now: the last 30 days, 12 ISO weeks, 12 months or 5 years.
// Every bucket of the window is present, zero when empty, oldest first.
// Invoices outside the window are ignored.
func Timeline(invoices []models.Invoice, bucket Bucket, now time.Time) ([]Point, error) {
	n, ok := lookback[bucket]
	if !ok {
		return nil, fmt.Errorf("%w: bucket %q", ErrUnknownOption, bucket)
	}

	current := bucketStart(bucket, models.NewDate(now).Time)
	points := make([]Point, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		start := step(bucket, current, i-(n-1))
		key, label := bucketKey(bucket, start)
		points[i] = Point{Key: key, Label: label, Start: models.Date{Time: start}}
		index[key] = i
	}

	for _, inv := range invoices {
		if inv.IssueDate.IsZero() {
			continue
		}
		key, _ := bucketKey(bucket, bucketStart(bucket, inv.IssueDate.Time))
		if i, ok := index[key]; ok {
			points[i].Total += inv.Total
			points[i].Count++
		}
	}
	return points, nil
}

// bucketStart truncates a UTC midnight date to the first day of its bucket.
// Weeks start on Monday.
func bucketStart(bucket Bucket, d time.Time) time.Time {
	switch bucket {
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// step moves a bucket start by k buckets.
func step(bucket Bucket, start time.Time, k int) time.Time {
	switch bucket {
	case Weekly:
		return start.AddDate(0, 0, 7*k)
	case Monthly:
		return start.AddDate(0, k, 0)
	case Yearly:
		return start.AddDate(k, 0, 0)
	default:
		return start.AddDate(0, 0, k)
	}
}

func bucketKey(bucket Bucket, start time.Time) (key, label string) {
	switch bucket {
	case Weekly:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), fmt.Sprintf("Week %d", week)
	case Monthly:
		return start.Format("2006-01"), start.Format("Jan 2006")
	case Yearly:
		return start.Format("2006"), start.Format("2006")
	default:
		return start.Format("2006-01-02"), start.Format("Jan 02")
	}
}
