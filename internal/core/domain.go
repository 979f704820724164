package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyName       = errors.New("empty category name")
	ErrMissingCategory = errors.New("missing category")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNoteTooLong     = errors.New("note too long (max 500 characters)")
)

const maxNoteLen = 500

// Date is a pure calendar day, stored as UTC midnight. No time-of-day or
// timezone semantics leak out of it.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict YYYY-MM-DD string. Calendrically impossible
// dates (2024-02-30) are rejected by time.Parse.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Category is an expense classification. Names are unique (case-sensitive)
// at the store level.
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Expense is a single recorded spend: a positive cent amount on a calendar
// day, tagged with a category and an optional note.
type Expense struct {
	ID         int64
	Amount     Money
	CategoryID int64
	Date       Date
	Note       string
	CreatedAt  time.Time
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(e.Note) > maxNoteLen {
		return ErrNoteTooLong
	}
	return nil
}

// NormalizeNote trims surrounding whitespace; a blank note collapses to the
// empty string, which readers treat as absent.
func NormalizeNote(s string) string {
	return strings.TrimSpace(s)
}

// ExpenseRow is a read-model row: an expense joined with its category name
// for display. The name is denormalized lookup data, never business state.
type ExpenseRow struct {
	ID           int64
	Amount       Money
	Date         Date
	Note         string
	CategoryID   int64
	CategoryName string
}

// CategoryTotal is one row of a per-category breakdown.
type CategoryTotal struct {
	Category string
	Total    Money
}

// DayTotal is one entry of a daily spending series.
type DayTotal struct {
	Day   Date
	Label string
	Total Money
}
