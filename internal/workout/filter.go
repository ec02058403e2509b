package workout

// Eligibility constants.
const (
	// neutralBMI stands in when the profile carries no height.
	neutralBMI = 22.0
	highBMI    = 30.0
	safetyAge  = 50
)

// bmi computes body mass index from the profile. Height is optional input;
// without it the neutral default applies so the safety rule neither trips
// nor blocks on missing data.
func bmi(profile Profile) float64 {
	if profile.HeightCm == nil || *profile.HeightCm <= 0 {
		return neutralBMI
	}
	heightM := *profile.HeightCm / 100
	return profile.WeightKg / (heightM * heightM)
}

// eligibleExercises applies the safety and equipment rules to the catalog.
// High-impact movements are dropped for users over the safety age or above
// the BMI threshold. Bodyweight and cardio work is always available; any
// other equipment type must appear in the owned set.
func eligibleExercises(pool []Exercise, profile Profile) []Exercise {
	excludeHighImpact := profile.Age > safetyAge || bmi(profile) > highBMI

	owned := make(map[EquipmentType]bool, len(profile.Equipment))
	for _, eq := range profile.Equipment {
		owned[eq] = true
	}

	eligible := make([]Exercise, 0, len(pool))
	for _, ex := range pool {
		if excludeHighImpact && ex.Impact == ImpactHigh {
			continue
		}
		switch ex.Equipment {
		case EquipmentBodyweight, EquipmentCardio:
			// Always allowed.
		default:
			if !owned[ex.Equipment] {
				continue
			}
		}
		eligible = append(eligible, ex)
	}
	return eligible
}
