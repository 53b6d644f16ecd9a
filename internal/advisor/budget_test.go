package advisor

import (
	"testing"

	"spendwise/internal/analytics"
	"spendwise/internal/core"
)

func TestSuggestionsOrderAndSummary(t *testing.T) {
	got := Suggestions(300000, analytics.CategoryTotals{}) // 3000.00 salary

	if len(got) != len(core.Categories)+1 {
		t.Fatalf("got %d suggestions, want %d", len(got), len(core.Categories)+1)
	}
	for i, cat := range core.Categories {
		if got[i].Category != string(cat) {
			t.Errorf("suggestion[%d] = %q, want %q", i, got[i].Category, cat)
		}
	}
	summary := got[len(got)-1]
	if summary.Category != "Monthly Summary" {
		t.Fatalf("last entry = %q, want Monthly Summary", summary.Category)
	}
	if summary.BudgetLimit != 3000 {
		t.Errorf("summary limit = %v, want salary 3000", summary.BudgetLimit)
	}
}

func TestSuggestionsLimitsFollowAllocations(t *testing.T) {
	got := Suggestions(100000, analytics.CategoryTotals{}) // 1000.00 salary

	wantLimits := map[string]float64{
		"Food":           200,
		"Transportation": 100,
		"Entertainment":  100,
		"Utilities":      100,
		"Healthcare":     100,
		"Shopping":       100,
		"Other":          300,
	}
	for _, s := range got[:len(got)-1] {
		if s.BudgetLimit != wantLimits[s.Category] {
			t.Errorf("%s limit = %v, want %v", s.Category, s.BudgetLimit, wantLimits[s.Category])
		}
	}
}

func TestSuggestionsStatuses(t *testing.T) {
	totals := analytics.CategoryTotals{
		core.Food:           25000, // 250 > 200 limit: over
		core.Transportation: 9000,  // 90 >= 80% of 100: near
		core.Utilities:      1000,  // 10 of 100: under
	}
	got := Suggestions(100000, totals)

	byCategory := make(map[string]core.BudgetSuggestion)
	for _, s := range got {
		byCategory[s.Category] = s
	}

	if s := byCategory["Food"]; s.Status != core.StatusOver {
		t.Errorf("Food status = %q, want over", s.Status)
	}
	if s := byCategory["Transportation"]; s.Status != core.StatusNear {
		t.Errorf("Transportation status = %q, want near", s.Status)
	}
	if s := byCategory["Utilities"]; s.Status != core.StatusUnder {
		t.Errorf("Utilities status = %q, want under", s.Status)
	}
	if s := byCategory["Shopping"]; s.Status != core.StatusUnder {
		t.Errorf("zero-spend Shopping status = %q, want under", s.Status)
	}
}

func TestZeroSalaryMakesSpendingOver(t *testing.T) {
	totals := analytics.CategoryTotals{
		core.Food:     450,
		core.Shopping: 10000,
	}
	got := Suggestions(0, totals)

	for _, s := range got[:len(got)-1] {
		if s.BudgetLimit != 0 {
			t.Errorf("%s limit = %v, want 0 with no salary", s.Category, s.BudgetLimit)
		}
		if s.CurrentSpending > 0 && s.Status != core.StatusOver {
			t.Errorf("%s status = %q, want over with zero salary", s.Category, s.Status)
		}
		if s.CurrentSpending == 0 && s.Status != core.StatusUnder {
			t.Errorf("%s status = %q, want under with no spending", s.Category, s.Status)
		}
	}
}

func TestAllocationsSumToOne(t *testing.T) {
	var sum float64
	for _, a := range allocations {
		sum += a.Fraction
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("allocation fractions sum to %v, want 1.0", sum)
	}
}
