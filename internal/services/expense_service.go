package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"spendwise/internal/advisor"
	"spendwise/internal/amqp"
	"spendwise/internal/analytics"
	"spendwise/internal/classify"
	"spendwise/internal/core"
	"spendwise/internal/predict"
	"spendwise/internal/storage"
)

// ExpenseService orchestrates expense operations across SQLite, the
// categorizer and AMQP.
type ExpenseService struct {
	storage     *storage.SQLiteRepository
	amqpClient  *amqp.Client
	categorizer *classify.Categorizer
}

func NewExpenseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, categorizer *classify.Categorizer) *ExpenseService {
	return &ExpenseService{
		storage:     storage,
		amqpClient:  amqpClient,
		categorizer: categorizer,
	}
}

// CreateExpense validates and saves an expense, auto-categorizing it when no
// category was supplied, then publishes a created notification.
func (s *ExpenseService) CreateExpense(ctx context.Context, description string, amount float64, category string, date time.Time) (core.Expense, error) {
	money, err := core.MoneyFromFloat(amount)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Description: description,
		Amount:      money,
		Date:        date,
	}
	if category != "" {
		e.Category = core.ParseCategory(category)
		e.Confidence = 1.0
	} else {
		result := s.categorizer.Categorize(description)
		e.Category = result.Category
		e.Confidence = result.Confidence
	}

	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	id, err := s.storage.InsertExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	// Publish async notification (non-blocking)
	if err := s.publishCreatedMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish created message",
			"id", id, "error", err)
		// Don't fail the request - expense is saved locally
	}

	return e, nil
}

// Categorize runs the categorizer without persisting anything.
func (s *ExpenseService) Categorize(description string) core.CategorizationResult {
	return s.categorizer.Categorize(description)
}

// ModelReady reports whether the trained model is serving predictions.
func (s *ExpenseService) ModelReady() bool {
	return s.categorizer.Ready()
}

func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx)
}

func (s *ExpenseService) GetSalary(ctx context.Context) (int64, error) {
	return s.storage.GetSalary(ctx)
}

// SetSalary stores the monthly salary. Zero is valid: budget limits collapse
// to 0 and any spending reports as over.
func (s *ExpenseService) SetSalary(ctx context.Context, amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: invalid salary", core.ErrValidation)
	}
	if amount < 0 {
		return 0, core.ErrNegativeSalary
	}
	cents := int64(math.Round(amount * 100))
	if err := s.storage.SetSalary(ctx, cents); err != nil {
		return 0, err
	}
	return cents, nil
}

// CategoryTotals aggregates all stored expenses by category.
func (s *ExpenseService) CategoryTotals(ctx context.Context) (analytics.CategoryTotals, error) {
	expenses, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return analytics.Totals(expenses, time.Time{}, time.Time{}), nil
}

// MonthlyTotals aggregates all stored expenses into chronological month buckets.
func (s *ExpenseService) MonthlyTotals(ctx context.Context) ([]analytics.MonthTotals, error) {
	expenses, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return analytics.Monthly(expenses), nil
}

// BudgetSuggestions compares the current calendar month against salary-derived
// budget limits.
func (s *ExpenseService) BudgetSuggestions(ctx context.Context, now time.Time) ([]core.BudgetSuggestion, error) {
	salary, err := s.storage.GetSalary(ctx)
	if err != nil {
		return nil, fmt.Errorf("get salary: %w", err)
	}
	expenses, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	start, end := analytics.MonthWindow(now)
	current := analytics.Totals(expenses, start, end)
	return advisor.Suggestions(salary, current), nil
}

// PredictNextMonth forecasts next month's total spending from month history.
func (s *ExpenseService) PredictNextMonth(ctx context.Context) (core.PredictionResult, error) {
	monthly, err := s.MonthlyTotals(ctx)
	if err != nil {
		return core.PredictionResult{}, err
	}
	return predict.NextMonth(monthly), nil
}

func (s *ExpenseService) publishCreatedMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping created message")
		return nil
	}

	return s.amqpClient.PublishExpenseCreated(ctx, id)
}

// Close closes both storage and AMQP connections
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
