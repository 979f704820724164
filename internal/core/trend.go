package core

import (
	"encoding/json"
	"fmt"
)

// TrendKind classifies a period-over-period comparison.
type TrendKind int

const (
	// TrendNoSignal: both periods are zero, there is nothing to compare.
	TrendNoSignal TrendKind = iota
	// TrendNoBaseline: the previous period is zero while the current one is
	// not. The ratio is undefined and must never surface as a number.
	TrendNoBaseline
	// TrendChange: a meaningful signed percentage.
	TrendChange
)

func (k TrendKind) String() string {
	switch k {
	case TrendNoBaseline:
		return "no_baseline"
	case TrendChange:
		return "change"
	}
	return "no_signal"
}

// Trend is the outcome of comparing a period total against the preceding
// equal-length period. Percent is meaningful only when Kind is TrendChange.
type Trend struct {
	Kind    TrendKind
	Percent int64
}

// PercentChange compares two cent totals and returns the signed whole-percent
// change, or a sentinel when the previous total is zero. Pure function.
func PercentChange(current, previous int64) Trend {
	switch {
	case previous > 0:
		return Trend{Kind: TrendChange, Percent: roundedPercent(current-previous, previous)}
	case current == 0:
		return Trend{Kind: TrendNoSignal}
	default:
		return Trend{Kind: TrendNoBaseline}
	}
}

// roundedPercent computes round(100*delta/base) in integer arithmetic,
// rounding half away from zero. base must be positive.
func roundedPercent(delta, base int64) int64 {
	num := delta * 100
	q := num / base
	r := num % base
	if r < 0 {
		r = -r
	}
	if 2*r >= base {
		if num < 0 {
			q--
		} else {
			q++
		}
	}
	return q
}

func (t *Trend) UnmarshalJSON(b []byte) error {
	var raw struct {
		Kind    string `json:"kind"`
		Percent int64  `json:"percent"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "no_signal":
		t.Kind = TrendNoSignal
	case "no_baseline":
		t.Kind = TrendNoBaseline
	case "change":
		t.Kind = TrendChange
	default:
		return fmt.Errorf("unknown trend kind %q", raw.Kind)
	}
	t.Percent = raw.Percent
	return nil
}

func (t Trend) MarshalJSON() ([]byte, error) {
	if t.Kind != TrendChange {
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{Kind: t.Kind.String()})
	}
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Percent int64  `json:"percent"`
	}{Kind: t.Kind.String(), Percent: t.Percent})
}
