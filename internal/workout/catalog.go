package workout

// Catalog returns the reference exercise table. Callers receive a fresh slice
// so that the reference data can never be mutated through a shared pool.
func Catalog() []Exercise {
	return []Exercise{
		// Barbell compounds.
		{ID: "squat", Name: "Squat", Target: "Legs", Equipment: EquipmentBarbell, Impact: ImpactHigh,
			Focus: FocusLowerBody, LoadRatio: 1.2,
			Tip: "Push the hips back, keep the back straight and drive hard through the heels."},
		{ID: "deadlift", Name: "Deadlift", Target: "Back", Equipment: EquipmentBarbell, Impact: ImpactLow,
			Focus: FocusFullBody, LoadRatio: 1.4,
			Tip: "Bar against the shins, chest up, push the floor away with the legs."},
		{ID: "bench_press", Name: "Bench Press", Target: "Chest", Equipment: EquipmentBarbell, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 1.0,
			Tip: "Shoulder blades pinned, feet planted, lower the bar under control."},
		{ID: "military_press", Name: "Overhead Press", Target: "Shoulders", Equipment: EquipmentBarbell, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0.6,
			Tip: "Brace the abs and glutes so the lower back does not arch."},
		{ID: "barbell_row", Name: "Barbell Row", Target: "Back", Equipment: EquipmentBarbell, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0.8,
			Tip: "Torso parallel to the floor, pull the elbows back."},

		// Machine, isolation and dumbbell work.
		{ID: "leg_press", Name: "Leg Press", Target: "Legs", Equipment: EquipmentMachine, Impact: ImpactLow,
			Focus: FocusLowerBody, LoadRatio: 2.0,
			Tip: "Do not lock the knees at the top of the movement."},
		{ID: "lat_pulldown", Name: "Lat Pulldown", Target: "Back", Equipment: EquipmentMachine, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0.7,
			Tip: "Pull the bar to the upper chest, elbows driving down."},
		{ID: "dumbbell_curl", Name: "Dumbbell Curl", Target: "Biceps", Equipment: EquipmentDumbbell, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0.3,
			Tip: "Keep the elbows fixed against the ribs, rotate the wrist on the way up."},
		{ID: "tricep_extension", Name: "Triceps Extension", Target: "Triceps", Equipment: EquipmentDumbbell, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0.35,
			Tip: "Upper arms vertical, only the forearms move."},
		{ID: "reverse_fly", Name: "Reverse Fly", Target: "Shoulders", Equipment: EquipmentDumbbell, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0.15,
			Tip: "Torso hinged, open the arms like wings, focus on the rear delts."},

		// Glute and leg focus.
		{ID: "hip_thrust", Name: "Hip Thrust", Target: "Glutes", Equipment: EquipmentBarbell, Impact: ImpactLow,
			Focus: FocusGlutes, LoadRatio: 1.5,
			Tip: "Chin tucked, drive the hips to the ceiling and squeeze hard at the top."},
		{ID: "bulgarian_split_squat", Name: "Bulgarian Split Squat", Target: "Legs", Equipment: EquipmentDumbbell, Impact: ImpactLow,
			Focus: FocusLowerBody, LoadRatio: 0.5,
			Tip: "Lower until the back knee almost brushes the floor."},
		{ID: "goblet_squat", Name: "Goblet Squat", Target: "Legs", Equipment: EquipmentDumbbell, Impact: ImpactLow,
			Focus: FocusLowerBody, LoadRatio: 0.6,
			Tip: "Dumbbell against the chest, descend with an upright torso."},
		{ID: "step_ups", Name: "Step-ups", Target: "Legs", Equipment: EquipmentBodyweight, Impact: ImpactLow,
			Focus: FocusLowerBody, LoadRatio: 0.4,
			Tip: "Push only with the leg on the bench, control the way down."},

		// Bodyweight and calisthenics.
		{ID: "pullup", Name: "Pull-up", Target: "Back", Equipment: EquipmentBodyweight, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0.15,
			Tip: "Start the pull from the shoulder blades, chin over the bar."},
		{ID: "dips", Name: "Dips", Target: "Triceps", Equipment: EquipmentBodyweight, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0.2,
			Tip: "Lean slightly forward, lower to 90 degrees."},
		{ID: "pushups", Name: "Push-ups", Target: "Chest", Equipment: EquipmentBodyweight, Impact: ImpactLow,
			Focus: FocusUpperBody, LoadRatio: 0,
			Tip: "Body braced, elbows tucked at 45 degrees."},
		{ID: "plank", Name: "Plank", Target: "Core", Equipment: EquipmentBodyweight, Impact: ImpactLow,
			Focus: FocusCore, LoadRatio: 0,
			Tip: "Pull the navel in, squeeze the glutes and the thighs."},

		// Cardio, high impact.
		{ID: "burpees", Name: "Burpees", Target: "Full Body", Equipment: EquipmentCardio, Impact: ImpactHigh,
			Focus: FocusFullBody, LoadRatio: 0,
			Tip: "Steady rhythm, land softly."},
		{ID: "mountain_climbers", Name: "Mountain Climbers", Target: "Core", Equipment: EquipmentCardio, Impact: ImpactHigh,
			Focus: FocusCore, LoadRatio: 0,
			Tip: "Knees to the chest, keep the hips low."},
	}
}

// finisherIDs are the circuit finishers that a fat-loss plan always includes,
// even beyond the exercise cap.
var finisherIDs = map[string]bool{
	"burpees":           true,
	"mountain_climbers": true,
}

// strengthCompoundIDs are the barbell lifts prioritized by the strength matrix,
// in priority order.
var strengthCompoundIDs = []string{"squat", "deadlift", "bench_press", "military_press", "barbell_row"}

// recoveryFlow returns the fixed low-impact mobility sequence used when the
// fatigue rating calls for active recovery. It is identical for every user
// and never consults the eligibility filters.
func recoveryFlow() []Exercise {
	return []Exercise{
		{ID: "cat_cow", Name: "Cat-Cow", Target: "Spine", Equipment: EquipmentBodyweight, Impact: ImpactLow,
			Focus: FocusCore, LoadRatio: 0,
			Tip: "Inhale as you arch the back, exhale as you round it."},
		{ID: "world_greatest_stretch", Name: "World's Greatest Stretch", Target: "Full Body",
			Equipment: EquipmentBodyweight, Impact: ImpactLow, Focus: FocusFullBody, LoadRatio: 0,
			Tip: "Open the rib cage wide towards the ceiling."},
		{ID: "child_pose", Name: "Child's Pose", Target: "Back", Equipment: EquipmentBodyweight, Impact: ImpactLow,
			Focus: FocusFullBody, LoadRatio: 0,
			Tip: "Let the tension drain out of the lower back."},
		{ID: "glute_bridge_iso", Name: "Glute Bridge Hold", Target: "Glutes", Equipment: EquipmentBodyweight,
			Impact: ImpactLow, Focus: FocusGlutes, LoadRatio: 0,
			Tip: "Hold the squeeze at the top."},
		{ID: "plank", Name: "Plank", Target: "Core", Equipment: EquipmentBodyweight, Impact: ImpactLow,
			Focus: FocusCore, LoadRatio: 0,
			Tip: "Gentle static bracing."},
	}
}

// FindExercise looks up a catalog or recovery-flow exercise by id.
func FindExercise(id string) (Exercise, bool) {
	for _, ex := range Catalog() {
		if ex.ID == id {
			return ex, true
		}
	}
	for _, ex := range recoveryFlow() {
		if ex.ID == id {
			return ex, true
		}
	}
	return Exercise{}, false
}
