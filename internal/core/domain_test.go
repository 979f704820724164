package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-05", true},
		{"2024-12-31", true},
		{"2024-02-29", true},  // leap day
		{"2023-02-29", false}, // not a leap year
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"2024-3-5", false}, // not zero-padded
		{"05/03/2024", false},
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tc.in, err)
			}
			if d.String() != tc.in {
				t.Fatalf("%q round-trips to %q", tc.in, d.String())
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 5)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-05"` {
		t.Fatalf("unexpected JSON %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip changed date: %s", back)
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Amount:     Money{Cents: 2500},
		CategoryID: 1,
		Date:       NewDate(2024, time.March, 5),
		Note:       "lunch",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
		want   error
	}{
		{"zero amount", func(e *Expense) { e.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount.Cents = -500 }, ErrInvalidAmount},
		{"no category", func(e *Expense) { e.CategoryID = 0 }, ErrMissingCategory},
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
		{"long note", func(e *Expense) { e.Note = strings.Repeat("x", 501) }, ErrNoteTooLong},
	}
	for _, tc := range cases {
		e := valid
		tc.mutate(&e)
		if err := e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food"}).Validate(); err != nil {
		t.Fatalf("valid category rejected: %v", err)
	}
	for _, name := range []string{"", "   "} {
		if err := (Category{Name: name}).Validate(); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("%q: expected ErrEmptyName, got %v", name, err)
		}
	}
}

func TestNormalizeNote(t *testing.T) {
	if got := NormalizeNote("  taxi home  "); got != "taxi home" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeNote("   "); got != "" {
		t.Fatalf("blank note should normalize to empty, got %q", got)
	}
}
