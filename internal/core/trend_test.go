package core

import (
	"encoding/json"
	"testing"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		current  int64
		previous int64
		kind     TrendKind
		percent  int64
	}{
		{150, 100, TrendChange, 50},
		{50, 100, TrendChange, -50},
		{100, 100, TrendChange, 0},
		{0, 100, TrendChange, -100},
		{100, 0, TrendNoBaseline, 0},
		{0, 0, TrendNoSignal, 0},
		{1, 3, TrendChange, -67},  // -66.67 rounds away from zero
		{4, 3, TrendChange, 33},   // +33.33 rounds toward zero
		{5, 3, TrendChange, 67},   // +66.67 rounds away from zero
		{205, 200, TrendChange, 3}, // 2.5 rounds half away from zero
	}
	for _, tc := range cases {
		got := PercentChange(tc.current, tc.previous)
		if got.Kind != tc.kind {
			t.Fatalf("PercentChange(%d, %d).Kind = %s, want %s",
				tc.current, tc.previous, got.Kind, tc.kind)
		}
		if got.Kind == TrendChange && got.Percent != tc.percent {
			t.Fatalf("PercentChange(%d, %d) = %d%%, want %d%%",
				tc.current, tc.previous, got.Percent, tc.percent)
		}
	}
}

func TestTrendSentinelsAreDistinct(t *testing.T) {
	noSignal := PercentChange(0, 0)
	noBaseline := PercentChange(100, 0)
	zeroChange := PercentChange(100, 100)
	if noSignal.Kind == noBaseline.Kind {
		t.Fatal("no-signal and no-baseline must be distinct")
	}
	if noSignal.Kind == zeroChange.Kind || noBaseline.Kind == zeroChange.Kind {
		t.Fatal("sentinels must not collapse into a 0% change")
	}
}

func TestTrendJSON(t *testing.T) {
	cases := []struct {
		in   Trend
		want string
	}{
		{PercentChange(150, 100), `{"kind":"change","percent":50}`},
		{PercentChange(100, 0), `{"kind":"no_baseline"}`},
		{PercentChange(0, 0), `{"kind":"no_signal"}`},
	}
	for _, tc := range cases {
		b, err := json.Marshal(tc.in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != tc.want {
			t.Fatalf("got %s, want %s", b, tc.want)
		}
	}
}
