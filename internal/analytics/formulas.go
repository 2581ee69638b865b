package analytics

import (
	"regexp"
	"strconv"
)

// EstimateOneRepMax estimates a one-rep max from a set.
// Brzycki is used up to 10 reps, Epley above that.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if weight <= 0 || reps < 1 {
		return 0
	}
	switch {
	case reps == 1:
		return weight
	case reps <= 10:
		return weight / (1.0278 - 0.0278*float64(reps))
	default:
		return weight * (1 + 0.033*float64(reps))
	}
}

var (
	hoursRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h`)
	minutesRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m`)
	secondsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*s`)
)

// ParseDurationMinutes reads free-text durations such as "1h 5m", "29m" or
// "17s" and returns minutes. Each unit is optional and may appear in any order.
func ParseDurationMinutes(s string) float64 {
	if s == "" {
		return 0
	}
	minutes := durationToken(hoursRe, s)*60 + durationToken(minutesRe, s) + durationToken(secondsRe, s)/60
	if minutes < 0 {
		return 0
	}
	return minutes
}

func durationToken(re *regexp.Regexp, s string) float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
