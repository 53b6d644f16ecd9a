// Package worker learns merchant to category mappings from stored expenses.
// It consumes expense created notifications, extracts the merchant token from
// the description and upserts the mapping, which the categorizer then
// consults ahead of both the keyword table and the trained model.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/classify"
	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// learnMinConfidence gates which expenses teach mappings. Manual entries
// carry 1.0 and learned rematches 0.85; plain keyword guesses at 0.6 must not
// reinforce themselves.
const learnMinConfidence = 0.85

// MerchantWorker turns stored expenses into merchant category mappings.
type MerchantWorker struct {
	storage *storage.SQLiteRepository
	lookup  *CachedMerchantLookup
}

func NewMerchantWorker(storage *storage.SQLiteRepository, lookup *CachedMerchantLookup) *MerchantWorker {
	return &MerchantWorker{
		storage: storage,
		lookup:  lookup,
	}
}

// HandleCreatedMessage processes a single expense created message from AMQP
func (w *MerchantWorker) HandleCreatedMessage(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	expense, err := w.storage.GetExpense(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	if !w.learn(ctx, expense) {
		return nil
	}

	if w.lookup != nil {
		if err := w.lookup.Refresh(ctx); err != nil {
			slog.WarnContext(ctx, "Failed to refresh merchant lookup", "error", err)
		}
	}
	return nil
}

// Scan replays every stored expense through the learning rule. Upserts are
// idempotent, so running it at startup and on a timer recovers from missed
// AMQP messages at no cost beyond one table scan.
func (w *MerchantWorker) Scan(ctx context.Context) error {
	expenses, err := w.storage.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("list expenses for scan: %w", err)
	}

	learned := 0
	for _, e := range expenses {
		if w.learn(ctx, e) {
			learned++
		}
	}

	if w.lookup != nil {
		if err := w.lookup.Refresh(ctx); err != nil {
			slog.WarnContext(ctx, "Failed to refresh merchant lookup", "error", err)
		}
	}

	slog.InfoContext(ctx, "Merchant scan completed",
		"expenses", len(expenses),
		"learned", learned)
	return nil
}

// learn applies the learning rule to one expense and reports whether a
// mapping was written.
func (w *MerchantWorker) learn(ctx context.Context, e core.Expense) bool {
	if e.Confidence < learnMinConfidence || e.Category == core.Other {
		return false
	}

	token, ok := classify.MerchantToken(e.Description)
	if !ok {
		return false
	}

	if err := w.storage.UpsertMerchantCategory(ctx, token, e.Category); err != nil {
		slog.ErrorContext(ctx, "Failed to upsert merchant mapping",
			"merchant", token,
			"category", e.Category,
			"error", err)
		return false
	}

	slog.DebugContext(ctx, "Learned merchant mapping",
		"merchant", token,
		"category", e.Category)
	return true
}
