package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pesa/internal/core"
	"pesa/internal/storage"
)

// writeJSON encodes v with the right content type. Encoding failures after
// the header is out can only be logged by the caller.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: validation
// errors carry their specific message at 422, missing records are 404, and
// anything else is a generic 500 so store internals never leak out.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, v := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrEmptyName,
		core.ErrMissingCategory,
		core.ErrUnknownCategory,
		core.ErrNoteTooLong,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// parseID extracts the {id} path value as a positive int64.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// parseCategoryFilter reads the optional ?category= query parameter.
func parseCategoryFilter(r *http.Request) (*int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("category"))
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid category %q", v)
	}
	return &id, nil
}

// parseMonth reads ?month=YYYY-MM, defaulting to the current month. The
// default is resolved here, at the transport boundary; everything below
// takes the reference period as an explicit parameter.
func parseMonth(r *http.Request, now time.Time) (core.Period, error) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return core.MonthRange(now.Year(), now.Month()), nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return core.Period{}, fmt.Errorf("invalid month %q, want YYYY-MM", v)
	}
	return core.MonthRange(t.Year(), t.Month()), nil
}

// parseWeek reads ?date=YYYY-MM-DD and returns the ISO week containing it,
// defaulting to the week of the current day.
func parseWeek(r *http.Request, now time.Time) (core.Period, error) {
	v := strings.TrimSpace(r.URL.Query().Get("date"))
	if v == "" {
		today := core.NewDate(now.Year(), now.Month(), now.Day())
		return core.WeekRange(today), nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Period{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", v)
	}
	return core.WeekRange(d), nil
}

// generateRequestID creates a unique request id for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
