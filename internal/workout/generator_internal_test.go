package workout

import (
	"testing"

	"github.com/dicsio100-dev/fitnavi/internal/errors"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateValidation(t *testing.T) {
	gen := newGenerator(Catalog(), testRNG())

	tests := []struct {
		name      string
		profile   Profile
		readiness int
		wantErr   error
	}{
		{name: "readiness below range", profile: fullyEquippedProfile(), readiness: 0, wantErr: ErrInvalidReadiness},
		{name: "readiness above range", profile: fullyEquippedProfile(), readiness: 11, wantErr: ErrInvalidReadiness},
		{name: "zero weight", profile: Profile{WeightKg: 0}, readiness: 5, wantErr: ErrInvalidProfile},
		{name: "negative weight", profile: Profile{WeightKg: -70}, readiness: 5, wantErr: ErrInvalidProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Generate(tt.profile, tt.readiness)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateRecoveryOverride(t *testing.T) {
	gen := newGenerator(Catalog(), testRNG())

	for _, readiness := range []int{9, 10} {
		for _, goal := range []Goal{GoalStrength, GoalMuscle, GoalFatLoss} {
			profile := fullyEquippedProfile()
			profile.Goal = goal
			// Records and age must not matter in recovery mode.
			profile.Age = 60
			profile.PersonalRecords = map[string]float64{"plank": 40}

			plan, err := gen.Generate(profile, readiness)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			if plan.Mode != ModeRecovery {
				t.Fatalf("readiness %d goal %s: mode = %s, want recovery", readiness, goal, plan.Mode)
			}
			if len(plan.Prescriptions) != 5 {
				t.Fatalf("recovery flow has %d movements, want 5", len(plan.Prescriptions))
			}
			for _, p := range plan.Prescriptions {
				if p.WeightKg != 0 {
					t.Errorf("recovery movement %q prescribed %vkg, want 0", p.Exercise.ID, p.WeightKg)
				}
				if p.Reps != "45-60s" {
					t.Errorf("recovery movement %q reps %q, want hold duration", p.Exercise.ID, p.Reps)
				}
				if p.RestSeconds != 30 {
					t.Errorf("recovery movement %q rest %d, want 30", p.Exercise.ID, p.RestSeconds)
				}
			}
		}
	}
}

func TestGenerateReadinessEightStaysStandard(t *testing.T) {
	gen := newGenerator(Catalog(), testRNG())

	plan, err := gen.Generate(fullyEquippedProfile(), 8)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if plan.Mode != ModeStandard {
		t.Errorf("mode = %s, want standard at the threshold", plan.Mode)
	}
}

func TestGenerateStrengthExample(t *testing.T) {
	gen := newGenerator(Catalog(), testRNG())
	profile := fullyEquippedProfile()
	profile.Goal = GoalStrength

	plan, err := gen.Generate(profile, 3)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var squat *PrescribedSet
	for i := range plan.Prescriptions {
		if plan.Prescriptions[i].Exercise.ID == "squat" {
			squat = &plan.Prescriptions[i]
		}
	}
	if squat == nil {
		t.Fatal("strength plan for an equipped user must contain the squat")
	}
	if squat.Reps != "3-6" {
		t.Errorf("squat reps = %q, want 3-6", squat.Reps)
	}
	if squat.RestSeconds != 180 {
		t.Errorf("squat rest = %d, want 180", squat.RestSeconds)
	}
	// 80 * 1.2 * 0.8 * 0.85 = 65.28, rounds to 65.0.
	if squat.WeightKg != 65.0 {
		t.Errorf("squat weight = %v, want 65.0", squat.WeightKg)
	}
}

func TestGenerateDeterministicOutsideFatLoss(t *testing.T) {
	profile := fullyEquippedProfile()
	for _, goal := range []Goal{GoalStrength, GoalMuscle} {
		profile.Goal = goal

		first, err := newGenerator(Catalog(), testRNG()).Generate(profile, 4)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		second, err := newGenerator(Catalog(), testRNG()).Generate(profile, 4)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("goal %s: repeated generation differs (-first +second):\n%s", goal, diff)
		}
	}
}

func TestGenerateNeverEmptyForBareProfile(t *testing.T) {
	gen := newGenerator(Catalog(), testRNG())
	profile := Profile{WeightKg: 70, Age: 65, Goal: GoalFatLoss, Experience: ExperienceBeginner}

	plan, err := gen.Generate(profile, 5)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(plan.Prescriptions) == 0 {
		t.Fatal("bodyweight movements must keep the plan non-empty")
	}
}

func TestGenerateEmptyPoolFailsFast(t *testing.T) {
	gen := newGenerator(nil, testRNG())

	_, err := gen.Generate(fullyEquippedProfile(), 5)
	if !errors.Is(err, ErrEmptyPlan) {
		t.Errorf("Generate() error = %v, want %v", err, ErrEmptyPlan)
	}
}

func TestGenerateHighImpactNeverPrescribedForSeniors(t *testing.T) {
	gen := newGenerator(Catalog(), testRNG())
	for _, goal := range []Goal{GoalStrength, GoalMuscle, GoalFatLoss} {
		profile := fullyEquippedProfile()
		profile.Age = 55
		profile.Goal = goal

		plan, err := gen.Generate(profile, 5)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		for _, p := range plan.Prescriptions {
			if p.Exercise.Impact == ImpactHigh {
				t.Errorf("goal %s: high-impact %q prescribed for age 55", goal, p.Exercise.ID)
			}
		}
	}
}
