// Package http exposes the JSON API: expense capture with auto
// categorization, salary, analytics, budget suggestions, prediction and CSV
// export. Analytics style responses are memoized in an LRU cache that every
// write flushes.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendwise/internal/analytics"
	"spendwise/internal/cache"
	"spendwise/internal/core"
)

// Service is the application surface the handlers need. Satisfied by
// services.ExpenseService.
type Service interface {
	CreateExpense(ctx context.Context, description string, amount float64, category string, date time.Time) (core.Expense, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	Categorize(description string) core.CategorizationResult
	ModelReady() bool
	GetSalary(ctx context.Context) (int64, error)
	SetSalary(ctx context.Context, amount float64) (int64, error)
	CategoryTotals(ctx context.Context) (analytics.CategoryTotals, error)
	MonthlyTotals(ctx context.Context) ([]analytics.MonthTotals, error)
	BudgetSuggestions(ctx context.Context, now time.Time) ([]core.BudgetSuggestion, error)
	PredictNextMonth(ctx context.Context) (core.PredictionResult, error)
}

type Server struct {
	http.Server
	service     Service
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// responseCache memoizes marshaled GET responses for the derived
	// endpoints, keyed by route. Writes flush the whole cache.
	responseCache *cache.LRUCache[[]byte]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, service Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		service:       service,
		rateLimiter:   newRateLimiter(),
		metrics:       &securityMetrics{},
		responseCache: cache.NewLRUCache[[]byte](16, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.responseCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.withSecurityHeaders(s.handleReady))
	mux.HandleFunc("/salary", s.withSecurityHeaders(s.handleSalary))
	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.handleExpenses))
	mux.HandleFunc("/categorize", s.withSecurityHeaders(s.handleCategorize))
	mux.HandleFunc("/analytics/categories", s.withSecurityHeaders(s.handleCategoryAnalytics))
	mux.HandleFunc("/analytics/monthly", s.withSecurityHeaders(s.handleMonthlyAnalytics))
	mux.HandleFunc("/budget/suggestions", s.withSecurityHeaders(s.handleBudgetSuggestions))
	mux.HandleFunc("/predict/next-month", s.withSecurityHeaders(s.handlePrediction))
	mux.HandleFunc("/export/csv", s.withSecurityHeaders(s.handleExportCSV))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request",
				"request_id", requestID,
				"method", r.Method,
				"url", r.URL.Path,
				"client_ip", clientIP)
		}

		// Rate limit writes only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ready",
		"model_ready": s.service.ModelReady(),
	})
}
