package analytics

import "time"

// defaultIntensity is the assumed %1RM for sets without an E1RM.
const defaultIntensity = 75.0

// DailyMetric is the training load of one calendar day with at least one set.
type DailyMetric struct {
	Date         time.Time `json:"date"`
	TotalVolume  float64   `json:"total_volume"`
	SetCount     int       `json:"set_count"`
	AvgIntensity float64   `json:"avg_intensity"`
	TSS          float64   `json:"tss"`
}

// WeeklyTrend buckets daily metrics by Monday-start week.
type WeeklyTrend struct {
	WeekStart time.Time `json:"week_start"`
	Volume    float64   `json:"volume"`
	Workouts  int       `json:"workouts"`
	AvgTSS    float64   `json:"avg_tss"`
}

// TrainingStress is the heuristic stress score of a day:
// (volume/1000) * (intensity/100) * (sets/15). It is a rough proxy, not a
// physiological measurement.
func TrainingStress(volume, avgIntensity float64, setCount int) float64 {
	return (volume / 1000) * (avgIntensity / 100) * (float64(setCount) / 15)
}

// ComputeDailyMetrics rolls sets up by UTC calendar day, ascending.
func ComputeDailyMetrics(sets []Set) []DailyMetric {
	type acc struct {
		volume    float64
		intensity float64
		count     int
	}
	byDay := make(map[time.Time]*acc)
	var days []time.Time

	for _, s := range sets {
		d := Day(s.Date)
		a, ok := byDay[d]
		if !ok {
			a = &acc{}
			byDay[d] = a
			days = append(days, d)
		}
		a.volume += s.Volume
		a.count++
		if s.E1RM > 0 {
			a.intensity += s.Weight / s.E1RM * 100
		} else {
			a.intensity += defaultIntensity
		}
	}
	sortTimes(days)

	metrics := make([]DailyMetric, 0, len(days))
	for _, d := range days {
		a := byDay[d]
		avg := a.intensity / float64(a.count)
		metrics = append(metrics, DailyMetric{
			Date:         d,
			TotalVolume:  a.volume,
			SetCount:     a.count,
			AvgIntensity: avg,
			TSS:          TrainingStress(a.volume, avg, a.count),
		})
	}
	return metrics
}

// ComputeWeeklyTrends groups daily metrics by week start, ascending.
func ComputeWeeklyTrends(daily []DailyMetric) []WeeklyTrend {
	type acc struct {
		volume float64
		tss    float64
		days   int
	}
	byWeek := make(map[time.Time]*acc)
	var weeks []time.Time

	for _, m := range daily {
		w := WeekStart(m.Date)
		a, ok := byWeek[w]
		if !ok {
			a = &acc{}
			byWeek[w] = a
			weeks = append(weeks, w)
		}
		a.volume += m.TotalVolume
		a.tss += m.TSS
		a.days++
	}
	sortTimes(weeks)

	trends := make([]WeeklyTrend, 0, len(weeks))
	for _, w := range weeks {
		a := byWeek[w]
		trends = append(trends, WeeklyTrend{
			WeekStart: w,
			Volume:    a.volume,
			Workouts:  a.days,
			AvgTSS:    a.tss / float64(a.days),
		})
	}
	return trends
}
