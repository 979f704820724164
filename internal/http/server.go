// Package http exposes the JSON API: expense CRUD, category listing and the
// period summary endpoints the dashboard renders from.
package http

import (
	"context"
	"net/http"
	"time"

	"pesa/internal/core"
	applog "pesa/internal/log"
	"pesa/internal/report"
	"pesa/internal/services"
)

// Lister is the read-side slice of the repository the handlers need.
type Lister interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListExpenses(ctx context.Context, p core.Period, categoryID *int64) ([]core.ExpenseRow, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
}

// Writer is the write-side service surface.
type Writer interface {
	Create(ctx context.Context, in services.ExpenseInput) (core.Expense, error)
	Update(ctx context.Context, id int64, in services.ExpenseInput) (core.Expense, error)
	Delete(ctx context.Context, id int64) error
}

// Reporter computes period overviews.
type Reporter interface {
	Overview(ctx context.Context, p core.Period, categoryID *int64, withDays bool) (report.Overview, error)
}

type Server struct {
	http.Server
	lister   Lister
	writer   Writer
	reporter Reporter
	logger   *applog.Logger
	now      func() time.Time
}

// NewServer wires routes and middleware into a ready-to-run server. The
// clock is injectable so handler tests can pin "today".
func NewServer(addr string, lister Lister, writer Writer, reporter Reporter, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server:   http.Server{Addr: addr, Handler: mux},
		lister:   lister,
		writer:   writer,
		reporter: reporter,
		logger:   logger.WithComponent(applog.ComponentHTTP),
		now:      time.Now,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/categories", s.wrap(s.handleListCategories))

	mux.HandleFunc("GET /api/expenses", s.wrap(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.wrap(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", s.wrap(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.wrap(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.wrap(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/summary", s.wrap(s.handleMonthSummary))
	mux.HandleFunc("GET /api/summary/week", s.wrap(s.handleWeekSummary))

	return s
}

// wrap adds the request id, security headers and request logging around a
// handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.status,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The store is the only dependency readiness can meaningfully probe.
	if _, err := s.lister.ListCategories(r.Context()); err != nil {
		s.logger.ErrContext(r.Context(), "readiness check failed", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
