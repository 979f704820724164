package http

import (
	"encoding/json"
	"net/http"

	"pesa/internal/core"
	applog "pesa/internal/log"
	"pesa/internal/services"
)

type categoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type expenseDTO struct {
	ID           int64  `json:"id"`
	AmountCents  int64  `json:"amount_cents"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Note         string `json:"note,omitempty"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
}

// expenseRequest is the create/update payload. Amount is a decimal string
// ("12.34" or "12,34"); cents conversion happens here so nothing downstream
// sees fractional money.
type expenseRequest struct {
	Amount     string `json:"amount"`
	CategoryID int64  `json:"category_id"`
	Date       string `json:"date"`
	Note       string `json:"note"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.lister.ListCategories(r.Context())
	if err != nil {
		s.logger.ErrContext(r.Context(), "list categories failed", err)
		writeDomainError(w, err)
		return
	}
	out := make([]categoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryDTO{ID: c.ID, Name: c.Name})
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	period, err := parseMonth(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter, err := parseCategoryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.lister.ListExpenses(r.Context(), period, filter)
	if err != nil {
		s.logger.ErrContext(r.Context(), "list expenses failed", err,
			applog.FieldPeriod, period.Start.String())
		writeDomainError(w, err)
		return
	}
	out := make([]expenseDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, expenseDTO{
			ID:           row.ID,
			AmountCents:  row.Amount.Cents,
			Amount:       core.FormatCents(row.Amount.Cents),
			Date:         row.Date.String(),
			Note:         row.Note,
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
		})
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := s.lister.GetExpense(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, expenseDTO{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Amount:      core.FormatCents(e.Amount.Cents),
		Date:        e.Date.String(),
		Note:        e.Note,
		CategoryID:  e.CategoryID,
	})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeExpenseInput(w, r)
	if !ok {
		return
	}
	e, err := s.writer.Create(r.Context(), in)
	if err != nil {
		s.logger.ErrContext(r.Context(), "create expense failed", err,
			applog.FieldAmountCents, in.AmountCents,
			applog.FieldCategoryID, in.CategoryID)
		writeDomainError(w, err)
		return
	}
	s.logger.InfoContext(r.Context(), "expense created",
		applog.FieldExpenseID, e.ID,
		applog.FieldAmountCents, e.Amount.Cents,
		applog.FieldCategoryID, e.CategoryID,
		applog.FieldDate, e.Date.String())
	_ = writeJSON(w, http.StatusCreated, expenseDTO{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Amount:      core.FormatCents(e.Amount.Cents),
		Date:        e.Date.String(),
		Note:        e.Note,
		CategoryID:  e.CategoryID,
	})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, ok := s.decodeExpenseInput(w, r)
	if !ok {
		return
	}
	e, err := s.writer.Update(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, expenseDTO{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Amount:      core.FormatCents(e.Amount.Cents),
		Date:        e.Date.String(),
		Note:        e.Note,
		CategoryID:  e.CategoryID,
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.writer.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeExpenseInput parses and converts the JSON payload, writing the
// error response itself when the body is unusable.
func (s *Server) decodeExpenseInput(w http.ResponseWriter, r *http.Request) (services.ExpenseInput, bool) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return services.ExpenseInput{}, false
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount must be a positive decimal number")
		return services.ExpenseInput{}, false
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "date must be a valid YYYY-MM-DD calendar date")
		return services.ExpenseInput{}, false
	}

	return services.ExpenseInput{
		AmountCents: cents,
		CategoryID:  req.CategoryID,
		Date:        date,
		Note:        req.Note,
	}, true
}
