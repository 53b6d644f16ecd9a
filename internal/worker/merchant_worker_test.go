package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

func newTestWorker(t *testing.T) (*MerchantWorker, *storage.SQLiteRepository, *CachedMerchantLookup) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "spendwise.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	lookup := NewCachedMerchantLookup(repo)
	return NewMerchantWorker(repo, lookup), repo, lookup
}

func insertExpense(t *testing.T, repo *storage.SQLiteRepository, description string, category core.Category, confidence float64) {
	t.Helper()
	_, err := repo.InsertExpense(context.Background(), core.Expense{
		Description: description,
		Amount:      core.Money{Cents: 1000},
		Category:    category,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Confidence:  confidence,
	})
	if err != nil {
		t.Fatalf("InsertExpense: %v", err)
	}
}

func TestScan_LearnsHighConfidenceOnly(t *testing.T) {
	w, repo, lookup := newTestWorker(t)
	ctx := context.Background()

	insertExpense(t, repo, "starbucks coffee", core.Food, 1.0)
	insertExpense(t, repo, "random thing", core.Shopping, 0.6) // keyword guess, skipped
	insertExpense(t, repo, "mystery charge", core.Other, 1.0)  // Other never learned

	if err := w.Scan(ctx); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if cat, ok := lookup.Lookup("starbucks"); !ok || cat != core.Food {
		t.Errorf("starbucks lookup = %q, %v; want Food, true", cat, ok)
	}
	if _, ok := lookup.Lookup("random"); ok {
		t.Error("low confidence expense must not teach a mapping")
	}
	if _, ok := lookup.Lookup("mystery"); ok {
		t.Error("Other category must not teach a mapping")
	}
	if lookup.Size() != 1 {
		t.Errorf("lookup size = %d, want 1", lookup.Size())
	}
}

func TestScan_SkipsStopWordTokens(t *testing.T) {
	w, repo, lookup := newTestWorker(t)

	// "the" is a stop word and "gym" keeps the mapping pointed at the merchant
	insertExpense(t, repo, "the gym membership", core.Healthcare, 1.0)

	if err := w.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if _, ok := lookup.Lookup("the"); ok {
		t.Error("stop words must never become merchant tokens")
	}
	if cat, ok := lookup.Lookup("gym"); !ok || cat != core.Healthcare {
		t.Errorf("gym lookup = %q, %v; want Healthcare, true", cat, ok)
	}
}

func TestCachedMerchantLookup_Refresh(t *testing.T) {
	_, repo, lookup := newTestWorker(t)
	ctx := context.Background()

	if _, ok := lookup.Lookup("uber"); ok {
		t.Fatal("empty lookup should miss")
	}

	if err := repo.UpsertMerchantCategory(ctx, "uber", core.Transportation); err != nil {
		t.Fatalf("UpsertMerchantCategory: %v", err)
	}
	if err := lookup.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if cat, ok := lookup.Lookup("uber"); !ok || cat != core.Transportation {
		t.Errorf("uber lookup = %q, %v; want Transportation, true", cat, ok)
	}
}
