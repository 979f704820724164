package core

import "time"

// PeriodKind selects the calendar unit a period is aligned to.
type PeriodKind int

const (
	PeriodDay PeriodKind = iota
	PeriodWeek
	PeriodMonth
)

func (k PeriodKind) String() string {
	switch k {
	case PeriodDay:
		return "day"
	case PeriodWeek:
		return "week"
	case PeriodMonth:
		return "month"
	}
	return "unknown"
}

// Period is a half-open date range [Start, End), aligned to its kind's
// natural boundary: first of month for months, ISO Monday for weeks.
// Half-open boundaries mean adjacent periods never double-count a day.
type Period struct {
	Kind  PeriodKind
	Start Date
	End   Date
}

// MonthRange returns [first-of-month, first-of-next-month). time.Date
// normalizes month+1, so December rolls into January of the next year.
func MonthRange(year int, month time.Month) Period {
	return Period{
		Kind:  PeriodMonth,
		Start: NewDate(year, month, 1),
		End:   NewDate(year, month+1, 1),
	}
}

// WeekRange returns the ISO week containing d: [Monday, next Monday).
// A Sunday belongs to the week whose Monday is six days earlier.
func WeekRange(d Date) Period {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	start := d.AddDays(-offset)
	return Period{Kind: PeriodWeek, Start: start, End: start.AddDays(7)}
}

// DayRange returns the single-day period [d, d+1).
func DayRange(d Date) Period {
	return Period{Kind: PeriodDay, Start: d, End: d.AddDays(1)}
}

// Previous returns the immediately preceding period of the same kind,
// computed by shifting the aligned boundary, so Previous of March is the
// whole of February regardless of day counts.
func (p Period) Previous() Period {
	switch p.Kind {
	case PeriodMonth:
		last := p.Start.AddDays(-1)
		return MonthRange(last.Year(), last.Month())
	case PeriodWeek:
		return Period{Kind: PeriodWeek, Start: p.Start.AddDays(-7), End: p.Start}
	default:
		return Period{Kind: PeriodDay, Start: p.Start.AddDays(-1), End: p.Start}
	}
}

// Next returns the immediately following period of the same kind.
func (p Period) Next() Period {
	switch p.Kind {
	case PeriodMonth:
		return MonthRange(p.End.Year(), p.End.Month())
	case PeriodWeek:
		return Period{Kind: PeriodWeek, Start: p.End, End: p.End.AddDays(7)}
	default:
		return Period{Kind: PeriodDay, Start: p.End, End: p.End.AddDays(1)}
	}
}

// Days enumerates every calendar day in [Start, End), in order.
func (p Period) Days() []Date {
	var days []Date
	for d := p.Start; d.Before(p.End.Time); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether d falls inside the half-open range.
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start.Time) && d.Before(p.End.Time)
}

// DayLabel is the short weekday name for a date, display only.
func DayLabel(d Date) string {
	return d.Weekday().String()[:3]
}
