package http

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"spendwise/internal/core"
)

type expenseJSON struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Confidence  float64 `json:"confidence"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.Float(),
		Category:    string(e.Category),
		Date:        e.Date.Format(dateLayout),
		Confidence:  e.Confidence,
	}
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.service.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load expenses")
		return
	}

	out := make([]expenseJSON, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string          `json:"description"`
		Amount      json.RawMessage `json:"amount"`
		Category    string          `json:"category"`
		Date        string          `json:"date"`
	}
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	expense, err := s.service.CreateExpense(r.Context(), sanitizeInput(req.Description), amount.Float(), sanitizeInput(req.Category), date)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save expense")
		return
	}

	s.responseCache.Flush()
	writeJSON(w, http.StatusCreated, toExpenseJSON(expense))
}

func (s *Server) handleSalary(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cents, err := s.service.GetSalary(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Get salary failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not load salary")
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{"salary": core.Money{Cents: cents}.Float()})
	case http.MethodPost:
		var req struct {
			Salary float64 `json:"salary"`
		}
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cents, err := s.service.SetSalary(r.Context(), req.Salary)
		if err != nil {
			if isValidationError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.ErrorContext(r.Context(), "Set salary failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not save salary")
			return
		}
		s.responseCache.Flush()
		writeJSON(w, http.StatusOK, map[string]float64{"salary": core.Money{Cents: cents}.Float()})
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.service.Categorize(sanitizeInput(req.Description))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCategoryAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.serveCached(w, r, "analytics:categories", func(ctx context.Context) (any, error) {
		totals, err := s.service.CategoryTotals(ctx)
		if err != nil {
			return nil, err
		}
		out := make(map[string]float64, len(totals))
		for cat, cents := range totals {
			out[string(cat)] = core.Money{Cents: cents}.Float()
		}
		return out, nil
	})
}

func (s *Server) handleMonthlyAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	type monthJSON struct {
		Month      string             `json:"month"`
		Total      float64            `json:"total"`
		Categories map[string]float64 `json:"categories"`
	}

	s.serveCached(w, r, "analytics:monthly", func(ctx context.Context) (any, error) {
		monthly, err := s.service.MonthlyTotals(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]monthJSON, 0, len(monthly))
		for _, m := range monthly {
			cats := make(map[string]float64, len(m.Totals))
			for cat, cents := range m.Totals {
				cats[string(cat)] = core.Money{Cents: cents}.Float()
			}
			out = append(out, monthJSON{
				Month:      m.Month,
				Total:      core.Money{Cents: m.Totals.Sum()}.Float(),
				Categories: cats,
			})
		}
		return out, nil
	})
}

func (s *Server) handleBudgetSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.serveCached(w, r, "budget:suggestions", func(ctx context.Context) (any, error) {
		suggestions, err := s.service.BudgetSuggestions(ctx, time.Now())
		if err != nil {
			return nil, err
		}
		return map[string][]core.BudgetSuggestion{"suggestions": suggestions}, nil
	})
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.serveCached(w, r, "predict:next-month", func(ctx context.Context) (any, error) {
		return s.service.PredictNextMonth(ctx)
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	expenses, err := s.service.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load expenses")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "date", "description", "amount", "category", "confidence"})
	for _, e := range expenses {
		_ = cw.Write([]string{
			strconv.FormatInt(e.ID, 10),
			e.Date.Format(dateLayout),
			e.Description,
			fmt.Sprintf("%.2f", e.Amount.Float()),
			string(e.Category),
			fmt.Sprintf("%.2f", e.Confidence),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

// serveCached answers from the response cache when possible, otherwise builds
// the payload, marshals it once and stores the bytes under key.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key string, build func(ctx context.Context) (any, error)) {
	if body, ok := s.responseCache.Get(key); ok {
		writeRawJSON(w, http.StatusOK, body)
		return
	}

	payload, err := build(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Handler failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(r.Context(), "Marshal failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.responseCache.Set(key, body)
	writeRawJSON(w, http.StatusOK, body)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrValidation)
}
