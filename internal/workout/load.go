package workout

import "math"

// Load calculation constants.
const (
	plateIncrementKg = 1.25

	beginnerMultiplier     = 0.5
	intermediateMultiplier = 0.8
	advancedMultiplier     = 1.2

	poorSleepFactor = 0.85

	// fatLossRecordClamp guards a high-rep circuit against a heavy record
	// carried over from strength training. A record above 60% of the
	// estimated one-rep-max baseline is scaled down to 60% of itself.
	fatLossRecordClamp = 0.6
)

func experienceMultiplier(level ExperienceLevel) float64 {
	switch level {
	case ExperienceBeginner:
		return beginnerMultiplier
	case ExperienceAdvanced:
		return advancedMultiplier
	default:
		return intermediateMultiplier
	}
}

func recoveryFactor(sleep SleepQuality) float64 {
	if sleep == SleepPoor {
		return poorSleepFactor
	}
	return 1.0
}

// prescribedWeight computes the working weight for one exercise. A personal
// record takes precedence over the bodyweight estimate; zero-ratio movements
// always come out at 0. The result is a non-negative multiple of the plate
// increment. Pure function of its inputs, so the session controller can call
// it again with a reduced target without touching history.
func prescribedWeight(ex Exercise, profile Profile, goal Goal, intensity float64) float64 {
	if ex.LoadRatio == 0 {
		return 0
	}

	base := 0.0
	if record, ok := profile.PersonalRecords[ex.ID]; ok && record > 0 {
		base = record
		if goal == GoalFatLoss && record > fatLossRecordClamp*profile.WeightKg*ex.LoadRatio {
			base = record * fatLossRecordClamp
		}
	} else {
		base = profile.WeightKg * ex.LoadRatio * experienceMultiplier(profile.Experience) * intensity
	}

	base *= recoveryFactor(profile.SleepQuality)
	return roundToPlate(base)
}

// roundToPlate rounds to the nearest plate increment, never below zero.
func roundToPlate(weightKg float64) float64 {
	rounded := math.Round(weightKg/plateIncrementKg) * plateIncrementKg
	return math.Max(rounded, 0)
}
