package analytics

import (
	"testing"
	"time"

	"spendwise/internal/core"
)

func exp(desc string, cents int64, cat core.Category, date time.Time) core.Expense {
	return core.Expense{
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Category:    cat,
		Date:        date,
	}
}

func TestTotalsWindowAndConservation(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		exp("groceries", 1500, core.Food, jan),
		exp("coffee", 450, core.Food, jan.AddDate(0, 0, 3)),
		exp("bus pass", 2000, core.Transportation, jan),
		exp("cinema", 1200, core.Entertainment, feb), // outside the window
	}

	start, end := MonthWindow(jan)
	totals := Totals(expenses, start, end)

	if got := totals[core.Food]; got != 1950 {
		t.Errorf("Food total = %d, want 1950", got)
	}
	if got := totals[core.Transportation]; got != 2000 {
		t.Errorf("Transportation total = %d, want 2000", got)
	}
	if _, ok := totals[core.Entertainment]; ok {
		t.Error("February expense leaked into January window")
	}
	if _, ok := totals[core.Shopping]; ok {
		t.Error("zero-spend category should be omitted")
	}

	// Conservation: sum over category totals equals sum of raw amounts in
	// the window.
	var raw int64
	for _, e := range expenses {
		if !e.Date.Before(start) && e.Date.Before(end) {
			raw += e.Amount.Cents
		}
	}
	if totals.Sum() != raw {
		t.Fatalf("conservation violated: totals %d, raw %d", totals.Sum(), raw)
	}
}

func TestTotalsWindowIsHalfOpen(t *testing.T) {
	edge := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	expenses := []core.Expense{exp("bill", 100, core.Utilities, edge)}

	start, end := MonthWindow(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if got := Totals(expenses, start, end).Sum(); got != 0 {
		t.Fatalf("end boundary must be exclusive, got %d", got)
	}
	start, end = MonthWindow(edge)
	if got := Totals(expenses, start, end).Sum(); got != 100 {
		t.Fatalf("start boundary must be inclusive, got %d", got)
	}
}

func TestMonthlyChronologicalNoDuplicates(t *testing.T) {
	expenses := []core.Expense{
		exp("march", 300, core.Food, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		exp("january", 100, core.Food, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
		exp("february", 200, core.Shopping, time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)),
		exp("january again", 150, core.Utilities, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
	}

	months := Monthly(expenses)
	want := []string{"2024-01", "2024-02", "2024-03"}
	if len(months) != len(want) {
		t.Fatalf("got %d months, want %d", len(months), len(want))
	}
	for i, m := range months {
		if m.Month != want[i] {
			t.Errorf("months[%d] = %q, want %q", i, m.Month, want[i])
		}
	}
	if got := months[0].Totals.Sum(); got != 250 {
		t.Errorf("January total = %d, want 250", got)
	}
}

func TestMonthlyEmptyInput(t *testing.T) {
	if got := Monthly(nil); len(got) != 0 {
		t.Fatalf("expected no months, got %v", got)
	}
}

func TestAggregatorIdempotent(t *testing.T) {
	expenses := []core.Expense{
		exp("a", 100, core.Food, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		exp("b", 200, core.Shopping, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	first := Monthly(expenses)
	second := Monthly(expenses)
	if len(first) != len(second) {
		t.Fatal("repeated calls differ in length")
	}
	for i := range first {
		if first[i].Month != second[i].Month || first[i].Totals.Sum() != second[i].Totals.Sum() {
			t.Fatalf("repeated calls differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
