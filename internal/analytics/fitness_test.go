package analytics

import (
	"math"
	"testing"
)

// TestFitnessFatigueBuildAndDecay verifies three consecutive 50-TSS days raise
// both loads with ATL overtaking CTL, and that a 14-day gap decays both.
func TestFitnessFatigueBuildAndDecay(t *testing.T) {
	start := Day(day0)
	daily := []DailyMetric{
		{Date: start, TSS: 50},
		{Date: start.AddDate(0, 0, 1), TSS: 50},
		{Date: start.AddDate(0, 0, 2), TSS: 50},
		{Date: start.AddDate(0, 0, 17), TSS: 0},
	}
	points := ComputeFitnessFatigue(daily)
	if len(points) != len(daily) {
		t.Fatalf("len(points) = %d, want %d", len(points), len(daily))
	}

	for i := 1; i < 3; i++ {
		if points[i].CTL <= points[i-1].CTL {
			t.Errorf("CTL day %d = %v, want > %v", i, points[i].CTL, points[i-1].CTL)
		}
		if points[i].ATL <= points[i-1].ATL {
			t.Errorf("ATL day %d = %v, want > %v", i, points[i].ATL, points[i-1].ATL)
		}
	}
	if points[2].ATL <= points[2].CTL {
		t.Errorf("after 3 days ATL = %v, CTL = %v, want ATL > CTL", points[2].ATL, points[2].CTL)
	}
	if points[2].TSB >= 0 {
		t.Errorf("after 3 days TSB = %v, want negative", points[2].TSB)
	}

	after := points[3]
	if after.CTL >= points[2].CTL || after.ATL >= points[2].ATL {
		t.Errorf("after gap CTL/ATL = %v/%v, want below %v/%v", after.CTL, after.ATL, points[2].CTL, points[2].ATL)
	}
	if after.ATL >= after.CTL {
		t.Errorf("after gap ATL = %v, want below CTL %v", after.ATL, after.CTL)
	}
}

// TestFitnessFatigueFirstDay verifies the first point applies one update from
// a zero state.
func TestFitnessFatigueFirstDay(t *testing.T) {
	points := ComputeFitnessFatigue([]DailyMetric{{Date: Day(day0), TSS: 100}})
	if want := 100 * (1 - math.Exp(-1.0/42)); math.Abs(points[0].CTL-want) > 1e-12 {
		t.Errorf("CTL = %v, want %v", points[0].CTL, want)
	}
	if want := 100 * (1 - math.Exp(-1.0/7)); math.Abs(points[0].ATL-want) > 1e-12 {
		t.Errorf("ATL = %v, want %v", points[0].ATL, want)
	}
	if points[0].TSB != points[0].CTL-points[0].ATL {
		t.Errorf("TSB = %v, want CTL-ATL", points[0].TSB)
	}
}

// TestLoadStateDecay verifies decaying by n days matches n zero-stress updates.
func TestLoadStateDecay(t *testing.T) {
	s := LoadState{CTL: 40, ATL: 60}
	stepped := s
	for i := 0; i < 14; i++ {
		stepped = stepped.Apply(0)
	}
	decayed := s.Decay(14)
	if math.Abs(decayed.CTL-stepped.CTL) > 1e-9 || math.Abs(decayed.ATL-stepped.ATL) > 1e-9 {
		t.Errorf("Decay(14) = %+v, want %+v", decayed, stepped)
	}
	if s.Decay(0) != s {
		t.Errorf("Decay(0) = %+v, want unchanged", s.Decay(0))
	}
}

// TestFormDescription verifies the TSB label thresholds.
func TestFormDescription(t *testing.T) {
	tests := []struct {
		tsb  float64
		want string
	}{
		{30, "very fresh"},
		{15, "fresh"},
		{5, "neutral"},
		{0, "slightly fatigued"},
		{-15, "tired"},
		{-30, "very fatigued"},
	}
	for _, tt := range tests {
		if got := FormDescription(tt.tsb); got != tt.want {
			t.Errorf("FormDescription(%v) = %q, want %q", tt.tsb, got, tt.want)
		}
	}
}
