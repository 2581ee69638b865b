package analytics

import (
	"math"
	"testing"
	"time"
)

// TestComputeDailyMetrics verifies sets are bucketed per UTC day with the TSS
// heuristic applied to each bucket.
func TestComputeDailyMetrics(t *testing.T) {
	late := singleSet("Bench Press", 0, 100, 1)
	late.Date = late.Date.Add(13 * time.Hour) // 23:00 same day
	sets := []Set{
		singleSet("Squat", 0, 100, 1),
		late,
		singleSet("Plank", 1, 0, 1),
	}

	daily := ComputeDailyMetrics(sets)
	if len(daily) != 2 {
		t.Fatalf("len(daily) = %d, want 2", len(daily))
	}

	d := daily[0]
	if !d.Date.Equal(Day(day0)) {
		t.Errorf("daily[0].Date = %v, want %v", d.Date, Day(day0))
	}
	if d.SetCount != 2 || d.TotalVolume != 200 {
		t.Errorf("daily[0] = %+v, want 2 sets, volume 200", d)
	}
	if d.AvgIntensity != 100 {
		t.Errorf("daily[0].AvgIntensity = %v, want 100", d.AvgIntensity)
	}
	if want := (200.0 / 1000) * 1 * (2.0 / 15); math.Abs(d.TSS-want) > 1e-12 {
		t.Errorf("daily[0].TSS = %v, want %v", d.TSS, want)
	}

	if daily[1].AvgIntensity != defaultIntensity {
		t.Errorf("daily[1].AvgIntensity = %v, want %v", daily[1].AvgIntensity, defaultIntensity)
	}
	if daily[1].TSS != 0 {
		t.Errorf("daily[1].TSS = %v, want 0", daily[1].TSS)
	}
}

// TestWeekStart verifies weeks start on Monday regardless of weekday.
func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i).Add(15 * time.Hour)
		if got := WeekStart(d); !got.Equal(monday) {
			t.Errorf("WeekStart(%v) = %v, want %v", d.Weekday(), got, monday)
		}
	}
	if got := WeekStart(monday.AddDate(0, 0, 7)); !got.Equal(monday.AddDate(0, 0, 7)) {
		t.Errorf("WeekStart(next monday) = %v", got)
	}
}

// TestComputeWeeklyTrends verifies weekly sums, day counts and mean TSS.
func TestComputeWeeklyTrends(t *testing.T) {
	daily := []DailyMetric{
		{Date: Day(day0), TotalVolume: 1000, TSS: 10},
		{Date: Day(day0).AddDate(0, 0, 2), TotalVolume: 2000, TSS: 20},
		{Date: Day(day0).AddDate(0, 0, 7), TotalVolume: 500, TSS: 5},
	}
	weekly := ComputeWeeklyTrends(daily)
	if len(weekly) != 2 {
		t.Fatalf("len(weekly) = %d, want 2", len(weekly))
	}
	if w := weekly[0]; w.Volume != 3000 || w.Workouts != 2 || w.AvgTSS != 15 {
		t.Errorf("weekly[0] = %+v, want volume 3000, 2 workouts, avg TSS 15", w)
	}
	if w := weekly[1]; w.Volume != 500 || w.Workouts != 1 || w.AvgTSS != 5 {
		t.Errorf("weekly[1] = %+v, want volume 500, 1 workout, avg TSS 5", w)
	}
}
