package workout

import (
	"log/slog"
	"math/rand/v2"

	"github.com/dicsio100-dev/fitnavi/internal/errors"
)

// Readiness bounds and mode threshold.
const (
	minReadiness = 1
	maxReadiness = 10
	// recoveryThreshold is the fatigue rating above which the goal matrix
	// is bypassed in favor of the fixed recovery flow.
	recoveryThreshold = 8
)

// Generation failure sentinels.
var (
	ErrInvalidReadiness = errors.NewSentinel("readiness rating must be between 1 and 10")
	ErrInvalidProfile   = errors.NewSentinel("profile is invalid")
	ErrEmptyPlan        = errors.NewSentinel("no eligible exercises for this profile")
)

// generator turns a profile and a readiness rating into a session plan.
// It holds only static reference data and a random source; generation is a
// synchronous call with no side effects.
type generator struct {
	catalog []Exercise
	rng     *rand.Rand
}

func newGenerator(catalog []Exercise, rng *rand.Rand) *generator {
	return &generator{catalog: catalog, rng: rng}
}

// Generate validates the inputs and runs the filter, selector and load
// pipeline. A fatigue rating above the recovery threshold short-circuits to
// the fixed recovery flow without consulting the filters.
func (g *generator) Generate(profile Profile, readiness int) (Plan, error) {
	if readiness < minReadiness || readiness > maxReadiness {
		return Plan{}, errors.Wrap(ErrInvalidReadiness, "validate readiness",
			slog.Int("readiness", readiness))
	}
	if profile.WeightKg <= 0 {
		return Plan{}, errors.Wrap(ErrInvalidProfile, "validate profile",
			slog.Float64("weight_kg", profile.WeightKg))
	}

	if readiness > recoveryThreshold {
		return g.buildPlan(ModeRecovery, selectRecovery(), profile)
	}

	pool := eligibleExercises(g.catalog, profile)
	sel := selectProgram(pool, profile.Goal, profile.Sex, g.rng)
	return g.buildPlan(ModeStandard, sel, profile)
}

func (g *generator) buildPlan(mode Mode, sel selection, profile Profile) (Plan, error) {
	if len(sel.exercises) == 0 {
		return Plan{}, errors.Wrap(ErrEmptyPlan, "build plan", slog.String("mode", string(mode)))
	}

	rest := parseRestSeconds(sel.rest)
	prescriptions := make([]PrescribedSet, 0, len(sel.exercises))
	for _, ex := range sel.exercises {
		weight := 0.0
		if mode == ModeStandard {
			weight = prescribedWeight(ex, profile, profile.Goal, sel.intensity)
		}
		prescriptions = append(prescriptions, PrescribedSet{
			Exercise:    ex,
			WeightKg:    weight,
			Reps:        sel.reps,
			RestSeconds: rest,
		})
	}
	return Plan{Mode: mode, Intensity: sel.intensity, Prescriptions: prescriptions}, nil
}
