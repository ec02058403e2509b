package workout

import (
	"math/rand/v2"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Goal matrix constants.
const (
	strengthReps      = "3-6"
	strengthRest      = "180"
	strengthIntensity = 0.85
	strengthMaxCount  = 5
	// strengthAccessoryRatio is the minimum load ratio for a non-compound
	// lift to make a strength program.
	strengthAccessoryRatio = 0.5

	fatLossReps          = "15-20"
	fatLossRest          = "45"
	fatLossIntensity     = 0.55
	fatLossNonCardioMax  = 6
	fatLossCombinedCap   = 8

	muscleReps      = "8-12"
	muscleRest      = "90"
	muscleIntensity = 0.75
	muscleMaxCount  = 7

	recoveryReps = "45-60s"
	recoveryRest = "30"

	defaultRestSeconds = 60
)

// selection is the goal matrix output before loads are attached.
type selection struct {
	exercises []Exercise
	reps      string
	rest      string
	intensity float64
}

// selectProgram applies the goal matrix to the eligible pool. rng drives the
// fat-loss shuffle only; every other path is deterministic for a given pool.
func selectProgram(pool []Exercise, goal Goal, sex Sex, rng *rand.Rand) selection {
	switch goal {
	case GoalStrength:
		return selectStrength(pool)
	case GoalFatLoss:
		return selectFatLoss(pool, rng)
	default:
		return selectMuscle(pool, sex)
	}
}

// selectStrength builds a heavy compound program: barbell compounds first in
// a fixed priority order, then remaining lifts with a meaningful load ratio,
// capped at five exercises.
func selectStrength(pool []Exercise) selection {
	var picked []Exercise
	taken := make(map[string]bool)
	for _, id := range strengthCompoundIDs {
		for _, ex := range pool {
			if ex.ID == id {
				picked = append(picked, ex)
				taken[id] = true
			}
		}
	}
	for _, ex := range pool {
		if !taken[ex.ID] && ex.LoadRatio > strengthAccessoryRatio {
			picked = append(picked, ex)
		}
	}
	if len(picked) > strengthMaxCount {
		picked = picked[:strengthMaxCount]
	}
	return selection{exercises: picked, reps: strengthReps, rest: strengthRest, intensity: strengthIntensity}
}

// selectFatLoss builds a circuit: a shuffled sample of the non-cardio pool,
// all cardio work appended, truncated to the combined cap. The burpee-class
// finishers are then forced back in even past the cap so a circuit never
// loses its conditioning tail to truncation.
func selectFatLoss(pool []Exercise, rng *rand.Rand) selection {
	var nonCardio, cardio []Exercise
	for _, ex := range pool {
		if ex.Equipment == EquipmentCardio {
			cardio = append(cardio, ex)
		} else {
			nonCardio = append(nonCardio, ex)
		}
	}

	rng.Shuffle(len(nonCardio), func(i, j int) {
		nonCardio[i], nonCardio[j] = nonCardio[j], nonCardio[i]
	})
	if len(nonCardio) > fatLossNonCardioMax {
		nonCardio = nonCardio[:fatLossNonCardioMax]
	}

	combined := append(nonCardio, cardio...)
	if len(combined) > fatLossCombinedCap {
		combined = combined[:fatLossCombinedCap]
	}
	for _, ex := range pool {
		if finisherIDs[ex.ID] && !slices.ContainsFunc(combined, func(e Exercise) bool { return e.ID == ex.ID }) {
			combined = append(combined, ex)
		}
	}
	return selection{exercises: combined, reps: fatLossReps, rest: fatLossRest, intensity: fatLossIntensity}
}

// selectMuscle builds the default hypertrophy program. The sex bias is a
// stable reorder that surfaces glute and lower-body work for female users
// and upper-body work for male users; it never removes anything from the
// pool and is a no-op for unspecified sex.
func selectMuscle(pool []Exercise, sex Sex) selection {
	ranked := make([]Exercise, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return sexBias(ranked[i], sex) > sexBias(ranked[j], sex)
	})
	if len(ranked) > muscleMaxCount {
		ranked = ranked[:muscleMaxCount]
	}
	return selection{exercises: ranked, reps: muscleReps, rest: muscleRest, intensity: muscleIntensity}
}

func sexBias(ex Exercise, sex Sex) int {
	switch sex {
	case SexFemale:
		if ex.Focus == FocusGlutes || ex.Focus == FocusLowerBody {
			return 1
		}
	case SexMale:
		if ex.Focus == FocusUpperBody {
			return 1
		}
	}
	return 0
}

// selectRecovery returns the fixed mobility flow. It ignores the pool and
// the goal by design of the override.
func selectRecovery() selection {
	return selection{exercises: recoveryFlow(), reps: recoveryReps, rest: recoveryRest, intensity: 0}
}

// parseRestSeconds normalizes a rest target to whole seconds. Range values
// such as "45-60s" reduce to their lower bound; plain integers pass through;
// anything unparseable falls back to the default.
func parseRestSeconds(rest string) int {
	trimmed := strings.TrimSuffix(strings.TrimSpace(rest), "s")
	if lower, _, found := strings.Cut(trimmed, "-"); found {
		if n, err := strconv.Atoi(lower); err == nil {
			return n
		}
		return defaultRestSeconds
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	return defaultRestSeconds
}
