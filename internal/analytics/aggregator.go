// Package analytics derives category and monthly spending totals from
// expense snapshots. Both entry points are pure functions: they never touch
// storage and produce identical output for identical input.
package analytics

import (
	"sort"
	"time"

	"spendwise/internal/core"
)

// CategoryTotals maps a category to its summed spend in cents.
type CategoryTotals map[core.Category]int64

// MonthTotals is the per-category breakdown for one calendar month.
type MonthTotals struct {
	Month  string // "YYYY-MM"
	Totals CategoryTotals
}

// MonthKey formats t's calendar month as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Totals sums amounts grouped by category over expenses whose date falls in
// [start, end). A zero start or end leaves that bound open. Categories with
// zero spend are omitted, so the sum over the result always equals the sum of
// raw amounts in the window.
func Totals(expenses []core.Expense, start, end time.Time) CategoryTotals {
	totals := make(CategoryTotals)
	for _, e := range expenses {
		if !start.IsZero() && e.Date.Before(start) {
			continue
		}
		if !end.IsZero() && !e.Date.Before(end) {
			continue
		}
		totals[e.Category] += e.Amount.Cents
	}
	return totals
}

// MonthWindow returns the [start, end) window covering the calendar month
// containing t, in t's location.
func MonthWindow(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// Monthly groups all expenses by calendar month, then by category within
// each month. Months are returned in chronological order, one entry per
// distinct month present in the input.
func Monthly(expenses []core.Expense) []MonthTotals {
	byMonth := make(map[string]CategoryTotals)
	for _, e := range expenses {
		key := MonthKey(e.Date)
		if byMonth[key] == nil {
			byMonth[key] = make(CategoryTotals)
		}
		byMonth[key][e.Category] += e.Amount.Cents
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months) // "YYYY-MM" sorts chronologically

	out := make([]MonthTotals, 0, len(months))
	for _, m := range months {
		out = append(out, MonthTotals{Month: m, Totals: byMonth[m]})
	}
	return out
}

// Sum adds up every category total.
func (t CategoryTotals) Sum() int64 {
	var total int64
	for _, cents := range t {
		total += cents
	}
	return total
}
