package analytics

import (
	"sort"
	"time"
)

// Session is one workout: all sets sharing a workout name on the same calendar day.
type Session struct {
	Date            time.Time `json:"date"`
	WorkoutName     string    `json:"workout_name"`
	DurationMinutes float64   `json:"duration_min"`
	SetCount        int       `json:"set_count"`
	TotalVolume     float64   `json:"total_volume"`
	Exercises       []string  `json:"exercises"`
}

type sessionKey struct {
	name string
	day  time.Time
}

// GroupSessions groups sets into sessions ordered by each session's first set.
// Exercises are listed in the order they were first performed.
func GroupSessions(sets []Set) []Session {
	sessions := make([]Session, 0)
	index := make(map[sessionKey]int)
	seen := make(map[sessionKey]map[string]bool)

	for _, s := range sets {
		key := sessionKey{name: s.WorkoutName, day: Day(s.Date)}
		i, ok := index[key]
		if !ok {
			i = len(sessions)
			index[key] = i
			seen[key] = make(map[string]bool)
			sessions = append(sessions, Session{Date: s.Date, WorkoutName: s.WorkoutName})
		}

		sess := &sessions[i]
		if s.Date.Before(sess.Date) {
			sess.Date = s.Date
		}
		sess.SetCount++
		sess.TotalVolume += s.Volume
		if s.WorkoutDuration > sess.DurationMinutes {
			sess.DurationMinutes = s.WorkoutDuration
		}
		if !seen[key][s.ExerciseName] {
			seen[key][s.ExerciseName] = true
			sess.Exercises = append(sess.Exercises, s.ExerciseName)
		}
	}

	sort.SliceStable(sessions, func(a, b int) bool {
		return sessions[a].Date.Before(sessions[b].Date)
	})
	return sessions
}
