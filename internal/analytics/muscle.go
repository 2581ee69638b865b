package analytics

import "strings"

// Muscle groups, in classification order.
const (
	MuscleChest      = "chest"
	MuscleBack       = "back"
	MuscleShoulders  = "shoulders"
	MuscleBiceps     = "biceps"
	MuscleTriceps    = "triceps"
	MuscleQuads      = "quads"
	MuscleHamstrings = "hamstrings"
	MuscleGlutes     = "glutes"
	MuscleCalves     = "calves"
	MuscleCore       = "core"
	// MuscleCompound is assigned when no keyword matches.
	MuscleCompound = "compound"
)

// muscleKeywords is checked top to bottom; the first group with a keyword
// contained in the lowercased exercise name wins.
var muscleKeywords = []struct {
	group    string
	keywords []string
}{
	{MuscleChest, []string{"bench", "chest", "fly", "flye", "pec", "push up", "push-up", "pushup"}},
	{MuscleBack, []string{"row", "pull up", "pull-up", "pullup", "chin up", "chin-up", "chinup", "pulldown", "pull down", "lat ", "shrug", "back extension", "pullover"}},
	{MuscleShoulders, []string{"shoulder", "overhead press", "military", "push press", "lateral raise", "front raise", "rear delt", "delt", "arnold", "face pull"}},
	{MuscleBiceps, []string{"bicep", "hammer curl", "preacher", "barbell curl", "dumbbell curl", "cable curl", "concentration curl", "ez bar curl", "spider curl"}},
	{MuscleTriceps, []string{"tricep", "skull", "pushdown", "push down", "dip", "close grip", "overhead extension"}},
	{MuscleQuads, []string{"squat", "leg press", "leg extension", "lunge", "hack", "step up", "step-up"}},
	{MuscleHamstrings, []string{"leg curl", "hamstring", "romanian", "rdl", "stiff leg", "good morning", "nordic"}},
	{MuscleGlutes, []string{"glute", "hip thrust", "bridge", "abduct"}},
	{MuscleCalves, []string{"calf", "calves"}},
	{MuscleCore, []string{"crunch", "plank", "ab wheel", "abs", "sit up", "sit-up", "situp", "leg raise", "russian twist", "oblique", "core"}},
}

// MuscleGroups lists every group ClassifyMuscleGroup can return, in order.
var MuscleGroups = func() []string {
	groups := make([]string, 0, len(muscleKeywords)+1)
	for _, mk := range muscleKeywords {
		groups = append(groups, mk.group)
	}
	return append(groups, MuscleCompound)
}()

// ClassifyMuscleGroup maps an exercise name to its primary muscle group.
func ClassifyMuscleGroup(exercise string) string {
	name := strings.ToLower(exercise)
	for _, mk := range muscleKeywords {
		for _, kw := range mk.keywords {
			if strings.Contains(name, kw) {
				return mk.group
			}
		}
	}
	return MuscleCompound
}
