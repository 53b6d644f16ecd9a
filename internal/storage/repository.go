// Package storage is the persistence collaborator: a single local SQLite
// store holding expenses, the monthly salary scalar, and learned
// merchant-to-category mappings. Schema is managed through embedded
// migrations; callers receive core types, never rows.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendwise/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is how expense dates are stored; lexicographic order matches
// chronological order.
const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertExpense persists a new expense and returns its assigned id.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (description, amount_cents, category, date, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Description, e.Amount.Cents, string(e.Category), e.Date.Format(dateLayout),
		e.Confidence, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return id, nil
}

// ListExpenses returns every stored expense in date order (ties broken by
// insertion order). The result is a read snapshot for the aggregator.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, category, date, confidence, created_at
		 FROM expenses ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// GetExpense retrieves a single expense by id.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, description, amount_cents, category, date, confidence, created_at
		 FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e        core.Expense
		category string
		date     string
	)
	if err := row.Scan(&e.ID, &e.Description, &e.Amount.Cents, &category, &date, &e.Confidence, &e.CreatedAt); err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Category = core.ParseCategory(category)
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense date %q: %w", date, err)
	}
	e.Date = parsed
	return e, nil
}

// GetSalary reads the current monthly salary in cents. Defaults to 0 when
// never set.
func (r *SQLiteRepository) GetSalary(ctx context.Context) (int64, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_salary_cents FROM user_salary WHERE id = 1`).Scan(&cents)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get salary: %w", err)
	}
	return cents, nil
}

// SetSalary overwrites the monthly salary. Last write wins; no history is
// kept.
func (r *SQLiteRepository) SetSalary(ctx context.Context, cents int64) error {
	if cents < 0 {
		return core.ErrNegativeSalary
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_salary (id, monthly_salary_cents) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET monthly_salary_cents = excluded.monthly_salary_cents`,
		cents)
	if err != nil {
		return fmt.Errorf("set salary: %w", err)
	}
	slog.InfoContext(ctx, "Monthly salary updated", "salary_cents", cents)
	return nil
}

// UpsertMerchantCategory records (or reinforces) a learned merchant token
// to category mapping.
func (r *SQLiteRepository) UpsertMerchantCategory(ctx context.Context, merchant string, category core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO merchant_categories (merchant, category, hits, updated_at)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT(merchant) DO UPDATE SET
		   category = excluded.category,
		   hits = merchant_categories.hits + 1,
		   updated_at = excluded.updated_at`,
		merchant, string(category), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert merchant category: %w", err)
	}
	return nil
}

// ListMerchantCategories loads the full learned mapping table.
func (r *SQLiteRepository) ListMerchantCategories(ctx context.Context) (map[string]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT merchant, category FROM merchant_categories`)
	if err != nil {
		return nil, fmt.Errorf("list merchant categories: %w", err)
	}
	defer rows.Close()

	out := make(map[string]core.Category)
	for rows.Next() {
		var merchant, category string
		if err := rows.Scan(&merchant, &category); err != nil {
			return nil, fmt.Errorf("scan merchant category: %w", err)
		}
		out[merchant] = core.ParseCategory(category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate merchant categories: %w", err)
	}
	return out, nil
}
