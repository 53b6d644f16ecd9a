package worker

import (
	"context"
	"fmt"
	"sync"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// CachedMerchantLookup is an in-memory snapshot of the merchant_categories
// table. It satisfies classify.MerchantLookup and is safe for concurrent use:
// Lookup takes a read lock, Refresh swaps the whole map under a write lock.
type CachedMerchantLookup struct {
	storage *storage.SQLiteRepository

	mu       sync.RWMutex
	mappings map[string]core.Category
}

func NewCachedMerchantLookup(storage *storage.SQLiteRepository) *CachedMerchantLookup {
	return &CachedMerchantLookup{
		storage:  storage,
		mappings: make(map[string]core.Category),
	}
}

// Lookup resolves a normalized merchant token against the current snapshot.
func (l *CachedMerchantLookup) Lookup(token string) (core.Category, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cat, ok := l.mappings[token]
	return cat, ok
}

// Refresh reloads the snapshot from storage.
func (l *CachedMerchantLookup) Refresh(ctx context.Context) error {
	mappings, err := l.storage.ListMerchantCategories(ctx)
	if err != nil {
		return fmt.Errorf("list merchant categories: %w", err)
	}

	l.mu.Lock()
	l.mappings = mappings
	l.mu.Unlock()
	return nil
}

// Size returns the number of cached mappings.
func (l *CachedMerchantLookup) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.mappings)
}
