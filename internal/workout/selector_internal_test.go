package workout

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestSelectStrength(t *testing.T) {
	sel := selectStrength(Catalog())

	if sel.reps != "3-6" || sel.rest != "180" || sel.intensity != 0.85 {
		t.Errorf("unexpected strength targets: reps=%q rest=%q intensity=%v",
			sel.reps, sel.rest, sel.intensity)
	}
	if len(sel.exercises) > strengthMaxCount {
		t.Fatalf("strength plan has %d exercises, cap is %d", len(sel.exercises), strengthMaxCount)
	}
	gotIDs := exerciseIDs(sel.exercises)
	wantIDs := []string{"squat", "deadlift", "bench_press", "military_press", "barbell_row"}
	if diff := cmp.Diff(wantIDs, gotIDs); diff != "" {
		t.Errorf("compound priority mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectStrengthFallsBackToHeavyAccessories(t *testing.T) {
	// Pool without barbells, as produced for a machine-only user.
	var pool []Exercise
	for _, ex := range Catalog() {
		if ex.Equipment != EquipmentBarbell {
			pool = append(pool, ex)
		}
	}

	sel := selectStrength(pool)

	for _, ex := range sel.exercises {
		if ex.LoadRatio <= strengthAccessoryRatio {
			t.Errorf("exercise %q with ratio %v should not make a strength plan", ex.ID, ex.LoadRatio)
		}
	}
	if !slices.Contains(exerciseIDs(sel.exercises), "leg_press") {
		t.Error("expected leg press to qualify as a heavy accessory")
	}
}

func TestSelectFatLoss(t *testing.T) {
	sel := selectFatLoss(Catalog(), testRNG())

	if sel.reps != "15-20" || sel.rest != "45" || sel.intensity != 0.55 {
		t.Errorf("unexpected fat-loss targets: reps=%q rest=%q intensity=%v",
			sel.reps, sel.rest, sel.intensity)
	}
	ids := exerciseIDs(sel.exercises)
	for finisher := range finisherIDs {
		if !slices.Contains(ids, finisher) {
			t.Errorf("finisher %q missing from circuit", finisher)
		}
	}
	// The cap applies before finishers are forced back in, so the circuit
	// may run up to the cap plus both finishers.
	if len(ids) > fatLossCombinedCap+len(finisherIDs) {
		t.Errorf("circuit has %d exercises, expected at most %d", len(ids), fatLossCombinedCap+len(finisherIDs))
	}
	seen := make(map[string]int)
	for _, id := range ids {
		seen[id]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("exercise %q appears %d times", id, n)
		}
	}
}

func TestSelectFatLossShuffleOnlyReorders(t *testing.T) {
	pool := Catalog()

	sel := selectFatLoss(pool, testRNG())

	poolIDs := exerciseIDs(pool)
	for _, id := range exerciseIDs(sel.exercises) {
		if !slices.Contains(poolIDs, id) {
			t.Errorf("selected exercise %q is not in the pool", id)
		}
	}
	// The original pool must be left untouched.
	if diff := cmp.Diff(exerciseIDs(Catalog()), poolIDs); diff != "" {
		t.Errorf("pool mutated by selection (-want +got):\n%s", diff)
	}
}

func TestSelectMuscle(t *testing.T) {
	tests := []struct {
		name      string
		sex       Sex
		wantFirst FocusArea
	}{
		{name: "female bias surfaces glutes and lower body", sex: SexFemale, wantFirst: FocusLowerBody},
		{name: "male bias surfaces upper body", sex: SexMale, wantFirst: FocusUpperBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := selectMuscle(Catalog(), tt.sex)

			if sel.reps != "8-12" || sel.rest != "90" || sel.intensity != 0.75 {
				t.Errorf("unexpected hypertrophy targets: reps=%q rest=%q intensity=%v",
					sel.reps, sel.rest, sel.intensity)
			}
			if len(sel.exercises) > muscleMaxCount {
				t.Fatalf("plan has %d exercises, cap is %d", len(sel.exercises), muscleMaxCount)
			}
			first := sel.exercises[0]
			if biased := first.Focus == tt.wantFirst ||
				(tt.sex == SexFemale && first.Focus == FocusGlutes); !biased {
				t.Errorf("first exercise %q has focus %q, expected the %q bias on top",
					first.ID, first.Focus, tt.wantFirst)
			}
		})
	}
}

func TestSelectMuscleUnspecifiedSexKeepsCatalogOrder(t *testing.T) {
	sel := selectMuscle(Catalog(), SexUnspecified)

	want := exerciseIDs(Catalog())[:muscleMaxCount]
	if diff := cmp.Diff(want, exerciseIDs(sel.exercises)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectRecovery(t *testing.T) {
	sel := selectRecovery()

	wantIDs := []string{"cat_cow", "world_greatest_stretch", "child_pose", "glute_bridge_iso", "plank"}
	if diff := cmp.Diff(wantIDs, exerciseIDs(sel.exercises)); diff != "" {
		t.Errorf("recovery flow mismatch (-want +got):\n%s", diff)
	}
	if sel.reps != "45-60s" || sel.rest != "30" {
		t.Errorf("unexpected recovery targets: reps=%q rest=%q", sel.reps, sel.rest)
	}
}

func TestParseRestSeconds(t *testing.T) {
	tests := []struct {
		name string
		rest string
		want int
	}{
		{name: "range reduces to lower bound", rest: "45-60s", want: 45},
		{name: "plain integer", rest: "180", want: 180},
		{name: "integer with unit suffix", rest: "90s", want: 90},
		{name: "garbage falls back to default", rest: "soon", want: defaultRestSeconds},
		{name: "malformed range falls back to default", rest: "x-60s", want: defaultRestSeconds},
		{name: "empty falls back to default", rest: "", want: defaultRestSeconds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRestSeconds(tt.rest); got != tt.want {
				t.Errorf("parseRestSeconds(%q) = %d, want %d", tt.rest, got, tt.want)
			}
		})
	}
}

func exerciseIDs(exercises []Exercise) []string {
	ids := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		ids = append(ids, ex.ID)
	}
	return ids
}
