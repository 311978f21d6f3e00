package progress

import (
	"math"
	"testing"
)

func TestCompute_NeverDecreases(t *testing.T) {
	t.Parallel()

	layouts := []Metrics{
		{DocumentHeight: 2000, ViewportHeight: 1000},
		{DocumentHeight: 5431.5, ViewportHeight: 733},
		{DocumentHeight: 1001, ViewportHeight: 1000},
		{DocumentHeight: 600, ViewportHeight: 1000},
	}

	for _, m := range layouts {
		scrollable := m.DocumentHeight - m.ViewportHeight
		prev := math.Inf(-1)
		for top := -200.0; top <= max(scrollable, 0)+200; top += 0.5 {
			m.ScrollTop = top
			got := Compute(m)
			if got < prev {
				t.Fatalf("Compute(%+v) = %v, below %v at the previous offset", m, got, prev)
			}
			if got < 0 || got > 1 {
				t.Fatalf("Compute(%+v) = %v, outside [0, 1]", m, got)
			}
			prev = got
		}
		if scrollable > 0 && prev != 1 {
			t.Errorf("Compute() past the end of %+v = %v, want 1", m, prev)
		}
	}
}

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    Metrics
		want float64
	}{
		{"top of page", Metrics{ScrollTop: 0, DocumentHeight: 2000, ViewportHeight: 1000}, 0},
		{"halfway", Metrics{ScrollTop: 500, DocumentHeight: 2000, ViewportHeight: 1000}, 0.5},
		{"bottom", Metrics{ScrollTop: 1000, DocumentHeight: 2000, ViewportHeight: 1000}, 1},
		{"overscroll clamped", Metrics{ScrollTop: 1200, DocumentHeight: 2000, ViewportHeight: 1000}, 1},
		{"negative scroll clamped", Metrics{ScrollTop: -50, DocumentHeight: 2000, ViewportHeight: 1000}, 0},
		{"fits in viewport", Metrics{ScrollTop: 0, DocumentHeight: 800, ViewportHeight: 1000}, 0},
		{"exactly viewport height", Metrics{ScrollTop: 10, DocumentHeight: 1000, ViewportHeight: 1000}, 0},
		{"NaN scroll", Metrics{ScrollTop: math.NaN(), DocumentHeight: 2000, ViewportHeight: 1000}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Compute(tt.m); got != tt.want {
				t.Errorf("Compute(%+v) = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}
