package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is one of the fixed expense classification labels.
type Category string

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Utilities      Category = "Utilities"
	Healthcare     Category = "Healthcare"
	Shopping       Category = "Shopping"
	Other          Category = "Other"
)

// Categories lists every valid category in declaration order. The order
// matters: the keyword categorizer resolves ties by iterating this slice.
var Categories = []Category{
	Food,
	Transportation,
	Entertainment,
	Utilities,
	Healthcare,
	Shopping,
	Other,
}

// ParseCategory maps free text to a Category. Anything that is not a member
// of the fixed set clamps to Other.
func ParseCategory(s string) Category {
	c := Category(strings.TrimSpace(s))
	for _, known := range Categories {
		if c == known {
			return known
		}
	}
	return Other
}

// Valid reports whether c is a member of the fixed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type (
	Money struct {
		Cents int64
	}

	// Expense is a single recorded spend. Immutable once stored.
	Expense struct {
		ID          int64
		Description string
		Amount      Money
		Category    Category
		Date        time.Time
		Confidence  float64
		CreatedAt   time.Time
	}
)

// Categorization sources.
const (
	SourceModel   = "model"
	SourceKeyword = "keyword"
)

// CategorizationResult is the outcome of classifying a description.
// Transient, never persisted.
type CategorizationResult struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Source     string   `json:"source"`
}

// BudgetStatus is the three-way classification of spending against a limit.
type BudgetStatus string

const (
	StatusUnder BudgetStatus = "under"
	StatusNear  BudgetStatus = "near"
	StatusOver  BudgetStatus = "over"
)

// BudgetSuggestion is a per-category budget evaluation, plus one synthetic
// "Monthly Summary" entry appended by the advisor.
type BudgetSuggestion struct {
	Category        string       `json:"category"`
	CurrentSpending float64      `json:"current_spending"`
	BudgetLimit     float64      `json:"budget_limit"`
	Status          BudgetStatus `json:"status"`
	Suggestion      string       `json:"suggestion"`
}

// PredictionResult is the naive next-month spending forecast.
// PredictedAmount 0 is the documented sentinel for insufficient data.
type PredictionResult struct {
	PredictedAmount float64 `json:"predicted_amount"`
	Confidence      string  `json:"confidence"`
	Trend           string  `json:"trend"`
}

// Prediction confidence labels and trends.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"

	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// ErrValidation marks input errors callers should report as bad requests.
// The specific sentinels below all wrap it.
var (
	ErrValidation       = errors.New("invalid input")
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrValidation)
	ErrNegativeSalary   = fmt.Errorf("%w: salary cannot be negative", ErrValidation)
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, e.Category)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}
