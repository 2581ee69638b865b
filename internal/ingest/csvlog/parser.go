// Package csvlog reads Strong-style workout-log CSV exports.
package csvlog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/liftlens/internal/models"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

const (
	colDate     = "date"
	colWorkout  = "workout name"
	colExercise = "exercise name"
	colWeight   = "weight"
	colReps     = "reps"
	colDuration = "duration"
)

var requiredColumns = []string{colDate, colWorkout, colExercise, colWeight, colReps}

// unitSuffixRe strips a trailing unit such as "Weight (kg)".
var unitSuffixRe = regexp.MustCompile(`\s*\(.*\)\s*$`)

// Parse decodes a CSV export into rows. The delimiter (comma or semicolon) is
// detected from the header line. Unknown columns are ignored. Numeric cells are
// read leniently: empty cells become 0, an unreadable weight becomes NaN and
// unreadable reps become 0, leaving rejection to the analytics normalizer.
func Parse(r io.Reader) ([]models.RawRow, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(4096)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) == 0 {
		return nil, nil
	}

	cr := csv.NewReader(br)
	cr.Comma = detectDelimiter(header)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	cols, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	index := columnIndex(cols)
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	var rows []models.RawRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		if blank(rec) {
			continue
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		rows = append(rows, models.RawRow{
			Date:         get(colDate),
			WorkoutName:  get(colWorkout),
			ExerciseName: get(colExercise),
			Weight:       parseWeight(get(colWeight)),
			Reps:         parseReps(get(colReps)),
			Duration:     get(colDuration),
		})
	}
	return rows, nil
}

// detectDelimiter picks ';' when the first line has more semicolons than commas.
func detectDelimiter(head []byte) rune {
	line := string(head)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// columnIndex maps normalized header names to their positions.
func columnIndex(cols []string) map[string]int {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		name := strings.ToLower(strings.TrimSpace(unitSuffixRe.ReplaceAllString(c, "")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseWeight(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseReps(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return int(f)
}
