// Package report turns the flat expense ledger into period summaries:
// totals, per-category breakdowns, zero-filled daily series and
// period-over-period trends. The engine holds no state of its own; every
// result is recomputed from the store on each call.
package report

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"pesa/internal/core"
)

// Store is the query contract the engine needs from the expense store.
// A nil categoryID means "all categories"; filtering by a category that
// does not exist yields empty results, never an error.
type Store interface {
	// SumExpenses returns the total cents of matching expenses in
	// [p.Start, p.End), 0 when nothing matches.
	SumExpenses(ctx context.Context, p core.Period, categoryID *int64) (int64, error)

	// SumByCategory returns one row per category with at least one matching
	// expense in the period. Sparse: silent categories are absent.
	SumByCategory(ctx context.Context, p core.Period, categoryID *int64) ([]core.CategoryTotal, error)

	// SumByDay returns per-day totals keyed by YYYY-MM-DD, only for days
	// with at least one matching expense.
	SumByDay(ctx context.Context, p core.Period, categoryID *int64) (map[string]int64, error)
}

// Summary is a period total plus its sparse category breakdown.
type Summary struct {
	Period     core.Period
	Total      core.Money
	ByCategory []core.CategoryTotal
}

// Overview is the full dashboard payload for one period: the current
// summary, the preceding period's total, the trend between them, and
// (when requested) the dense daily series.
type Overview struct {
	Summary
	PreviousTotal core.Money
	Trend         core.Trend
	Days          []core.DayTotal
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Summarize computes the period total and the per-category breakdown,
// ordered by descending total with ties broken by category name. An empty
// ledger yields a zero total and an empty breakdown, not an error.
func (e *Engine) Summarize(ctx context.Context, p core.Period, categoryID *int64) (Summary, error) {
	s := Summary{Period: p, ByCategory: []core.CategoryTotal{}}

	total, err := e.store.SumExpenses(ctx, p, categoryID)
	if err != nil {
		return s, err
	}
	s.Total = core.Money{Cents: total}

	rows, err := e.store.SumByCategory(ctx, p, categoryID)
	if err != nil {
		return s, err
	}
	// The store already orders its rows, but the ordering invariant belongs
	// to the engine, so it is enforced here as well.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total.Cents != rows[j].Total.Cents {
			return rows[i].Total.Cents > rows[j].Total.Cents
		}
		return rows[i].Category < rows[j].Category
	})
	s.ByCategory = append(s.ByCategory, rows...)
	return s, nil
}

// DailySeries returns one entry per calendar day in [p.Start, p.End), in
// date order, with zero totals synthesized for days without expenses. For a
// week period that is always exactly 7 entries; other period lengths simply
// enumerate their days.
func (e *Engine) DailySeries(ctx context.Context, p core.Period, categoryID *int64) ([]core.DayTotal, error) {
	sums, err := e.store.SumByDay(ctx, p, categoryID)
	if err != nil {
		return nil, err
	}
	days := p.Days()
	series := make([]core.DayTotal, 0, len(days))
	for _, d := range days {
		series = append(series, core.DayTotal{
			Day:   d,
			Label: core.DayLabel(d),
			Total: core.Money{Cents: sums[d.String()]},
		})
	}
	return series, nil
}

// Overview assembles the dashboard result for a period: current summary,
// previous-period total, trend, and optionally the daily series. The three
// store reads are independent, so they run concurrently; the first failure
// cancels the rest and propagates unchanged.
func (e *Engine) Overview(ctx context.Context, p core.Period, categoryID *int64, withDays bool) (Overview, error) {
	var (
		current   Summary
		prevTotal int64
		days      []core.DayTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = e.Summarize(gctx, p, categoryID)
		return err
	})
	g.Go(func() error {
		var err error
		prevTotal, err = e.store.SumExpenses(gctx, p.Previous(), categoryID)
		return err
	})
	if withDays {
		g.Go(func() error {
			var err error
			days, err = e.DailySeries(gctx, p, categoryID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	ov := Overview{
		Summary:       current,
		PreviousTotal: core.Money{Cents: prevTotal},
		Trend:         core.PercentChange(current.Total.Cents, prevTotal),
		Days:          days,
	}
	slog.DebugContext(ctx, "overview computed",
		"period", p.Kind.String(),
		"start", p.Start.String(),
		"total_cents", ov.Total.Cents,
		"previous_cents", prevTotal,
		"categories", len(ov.ByCategory))
	return ov, nil
}
