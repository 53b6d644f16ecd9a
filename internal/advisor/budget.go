// Package advisor derives per-category budget suggestions from the monthly
// salary and current-month spending totals.
package advisor

import (
	"fmt"

	"spendwise/internal/analytics"
	"spendwise/internal/core"
)

// allocations is the fixed share of monthly salary budgeted per category.
// Declaration order drives output order; the fractions sum to 1.0.
var allocations = []struct {
	Category core.Category
	Fraction float64
}{
	{core.Food, 0.20},
	{core.Transportation, 0.10},
	{core.Entertainment, 0.10},
	{core.Utilities, 0.10},
	{core.Healthcare, 0.10},
	{core.Shopping, 0.10},
	{core.Other, 0.30},
}

// nearThreshold is the fraction of the limit at which spending is flagged
// as approaching the budget.
const nearThreshold = 0.8

// summaryCategory labels the synthetic trailing entry.
const summaryCategory = "Monthly Summary"

// Suggestions evaluates current-month spending against salary-derived
// limits, one entry per category in allocation order plus a trailing
// monthly summary. A zero salary is not an error: every limit is 0 and any
// category with spending resolves to over.
func Suggestions(monthlySalaryCents int64, current analytics.CategoryTotals) []core.BudgetSuggestion {
	salary := core.Money{Cents: monthlySalaryCents}.Float()

	out := make([]core.BudgetSuggestion, 0, len(allocations)+1)
	var totalSpent, totalLimit float64
	for _, alloc := range allocations {
		limit := salary * alloc.Fraction
		spent := core.Money{Cents: current[alloc.Category]}.Float()
		totalSpent += spent
		totalLimit += limit

		status := classify(spent, limit)
		out = append(out, core.BudgetSuggestion{
			Category:        string(alloc.Category),
			CurrentSpending: spent,
			BudgetLimit:     limit,
			Status:          status,
			Suggestion:      advice(string(alloc.Category), spent, limit, status),
		})
	}

	summaryStatus := classify(totalSpent, totalLimit)
	out = append(out, core.BudgetSuggestion{
		Category:        summaryCategory,
		CurrentSpending: totalSpent,
		BudgetLimit:     salary,
		Status:          summaryStatus,
		Suggestion: fmt.Sprintf("Total spent: %.2f | Remaining: %.2f",
			totalSpent, salary-totalSpent),
	})
	return out
}

// classify applies the three-way status rule. With a zero limit any
// positive spending is over budget.
func classify(spent, limit float64) core.BudgetStatus {
	switch {
	case spent > limit:
		return core.StatusOver
	case spent >= nearThreshold*limit && spent > 0:
		return core.StatusNear
	default:
		return core.StatusUnder
	}
}

func advice(category string, spent, limit float64, status core.BudgetStatus) string {
	switch status {
	case core.StatusOver:
		return fmt.Sprintf("You've exceeded your %s budget by %.2f. Consider reducing expenses.", category, spent-limit)
	case core.StatusNear:
		return fmt.Sprintf("You're close to your %s limit: %.2f of %.2f used. Be careful!", category, spent, limit)
	default:
		return fmt.Sprintf("You're doing great! %.2f of your %s budget remains.", limit-spent, category)
	}
}
