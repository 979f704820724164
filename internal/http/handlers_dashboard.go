package http

import (
	"net/http"

	"pesa/internal/core"
	applog "pesa/internal/log"
	"pesa/internal/report"
)

type periodDTO struct {
	Kind  string `json:"kind"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type categoryTotalDTO struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"total_cents"`
	Total      string `json:"total"`
}

type dayTotalDTO struct {
	Date       string `json:"date"`
	Label      string `json:"label"`
	TotalCents int64  `json:"total_cents"`
}

type summaryDTO struct {
	Period             periodDTO          `json:"period"`
	TotalCents         int64              `json:"total_cents"`
	Total              string             `json:"total"`
	ByCategory         []categoryTotalDTO `json:"by_category"`
	PreviousTotalCents int64              `json:"previous_total_cents"`
	Trend              core.Trend         `json:"trend"`
	Days               []dayTotalDTO      `json:"days,omitempty"`
}

// handleMonthSummary serves GET /api/summary?month=YYYY-MM&category=ID:
// the month total, sparse category breakdown and month-over-month trend.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parseMonth(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.serveOverview(w, r, period, false)
}

// handleWeekSummary serves GET /api/summary/week?date=YYYY-MM-DD&category=ID:
// the ISO week total, breakdown, week-over-week trend and the 7-entry
// zero-filled daily series.
func (s *Server) handleWeekSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parseWeek(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.serveOverview(w, r, period, true)
}

func (s *Server) serveOverview(w http.ResponseWriter, r *http.Request, period core.Period, withDays bool) {
	filter, err := parseCategoryFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ov, err := s.reporter.Overview(r.Context(), period, filter, withDays)
	if err != nil {
		s.logger.ErrContext(r.Context(), "overview failed", err,
			applog.FieldPeriod, period.Kind.String(),
			applog.FieldDate, period.Start.String())
		writeDomainError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, toSummaryDTO(ov))
}

func toSummaryDTO(ov report.Overview) summaryDTO {
	dto := summaryDTO{
		Period: periodDTO{
			Kind:  ov.Period.Kind.String(),
			Start: ov.Period.Start.String(),
			End:   ov.Period.End.String(),
		},
		TotalCents:         ov.Total.Cents,
		Total:              core.FormatCents(ov.Total.Cents),
		ByCategory:         make([]categoryTotalDTO, 0, len(ov.ByCategory)),
		PreviousTotalCents: ov.PreviousTotal.Cents,
		Trend:              ov.Trend,
	}
	for _, row := range ov.ByCategory {
		dto.ByCategory = append(dto.ByCategory, categoryTotalDTO{
			Category:   row.Category,
			TotalCents: row.Total.Cents,
			Total:      core.FormatCents(row.Total.Cents),
		})
	}
	for _, d := range ov.Days {
		dto.Days = append(dto.Days, dayTotalDTO{
			Date:       d.Day.String(),
			Label:      d.Label,
			TotalCents: d.Total.Cents,
		})
	}
	return dto
}
