package alpha

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/liftlens/internal/models"
)

// durationRe matches session durations such as "1:02 hr" or "0:48 hr".
var durationRe = regexp.MustCompile(`^(\d+):(\d{1,2})\s*hr?$`)

// ToRawRows flattens sessions into workout-log rows. Warm-up sets are left out.
// Exercise names carry the equipment in parentheses, as other trackers export them.
// Bodyweight-plus sets record only the added load.
func ToRawRows(sessions []Session) []models.RawRow {
	var rows []models.RawRow
	for _, s := range sessions {
		date := models.FormatRawRowDate(s.Date)
		duration := normalizeDuration(s.Duration)
		for _, ex := range s.Exercises {
			name := ex.Name
			if ex.Equipment != "" {
				name = fmt.Sprintf("%s (%s)", ex.Name, ex.Equipment)
			}
			for _, set := range ex.Sets {
				if set.IsWarmup {
					continue
				}
				rows = append(rows, models.RawRow{
					Date:         date,
					ExerciseName: name,
					Weight:       set.WeightKg,
					Reps:         set.Reps,
					Duration:     duration,
					WorkoutName:  s.Name,
				})
			}
		}
	}
	return rows
}

// normalizeDuration rewrites "1:02 hr" as "1h 2m". Other values pass through.
func normalizeDuration(s string) string {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return s
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%dh %dm", h, min)
}
