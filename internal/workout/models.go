package workout

// EquipmentType classifies what an exercise is performed with.
type EquipmentType string

const (
	EquipmentBarbell    EquipmentType = "barbell"
	EquipmentDumbbell   EquipmentType = "dumbbell"
	EquipmentMachine    EquipmentType = "machine"
	EquipmentBodyweight EquipmentType = "bodyweight"
	EquipmentCardio     EquipmentType = "cardio"
)

// Impact marks how joint-loading an exercise is.
type Impact string

const (
	ImpactLow  Impact = "low"
	ImpactHigh Impact = "high"
)

// FocusArea is the broad body region an exercise targets.
type FocusArea string

const (
	FocusUpperBody FocusArea = "upper_body"
	FocusLowerBody FocusArea = "lower_body"
	FocusFullBody  FocusArea = "full_body"
	FocusCore      FocusArea = "core"
	FocusGlutes    FocusArea = "glutes"
)

// ExperienceLevel is the user's self-reported training experience.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// Goal is the training goal driving the program matrix.
type Goal string

const (
	GoalStrength Goal = "strength"
	GoalMuscle   Goal = "muscle"
	GoalFatLoss  Goal = "fat_loss"
)

// Sex is used only to bias exercise ranking, never to exclude.
type Sex string

const (
	SexFemale      Sex = "female"
	SexMale        Sex = "male"
	SexUnspecified Sex = "unspecified"
)

// SleepQuality is the same-day readiness signal derived from the fatigue rating.
type SleepQuality string

const (
	SleepGood   SleepQuality = "good"
	SleepMedium SleepQuality = "medium"
	SleepPoor   SleepQuality = "poor"
)

// Mode distinguishes a standard programmed session from the fixed recovery flow.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeRecovery Mode = "recovery"
)

// Exercise is a catalog entry. The catalog is static reference data that is
// injected into the generator, never mutated.
type Exercise struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Target    string        `json:"target"`
	Equipment EquipmentType `json:"equipment"`
	Impact    Impact        `json:"impact"`
	Focus     FocusArea     `json:"focus_area"`
	// LoadRatio estimates a one-rep-max baseline as a fraction of bodyweight.
	// A ratio of 0 means the movement carries no meaningful external load.
	LoadRatio float64 `json:"load_ratio"`
	Tip       string  `json:"tip,omitempty"`
}

// Profile is the per-session user input to plan generation.
type Profile struct {
	WeightKg   float64         `json:"weight_kg"`
	HeightCm   *float64        `json:"height_cm,omitempty"`
	Age        int             `json:"age"`
	Experience ExperienceLevel `json:"experience"`
	Goal       Goal            `json:"goal"`
	Sex        Sex             `json:"sex"`
	// SleepQuality dampens prescribed loads when poor.
	SleepQuality SleepQuality `json:"sleep_quality"`
	// Equipment lists the owned equipment categories. Bodyweight and cardio
	// movements are always available regardless of this set.
	Equipment []EquipmentType `json:"equipment"`
	// PersonalRecords maps exercise id to the last successfully used working weight.
	PersonalRecords map[string]float64 `json:"personal_records,omitempty"`
}

// PrescribedSet is one exercise prescription within a plan: the weight, rep
// target, and rest that apply to every set of that exercise.
type PrescribedSet struct {
	Exercise Exercise `json:"exercise"`
	// WeightKg is rounded to the nearest 1.25 kg plate increment and is
	// always 0 for zero-ratio movements.
	WeightKg float64 `json:"weight_kg"`
	// Reps is a range such as "8-12", or a hold duration such as "45-60s"
	// for recovery work.
	Reps string `json:"reps"`
	// RestSeconds is the normalized rest target between sets.
	RestSeconds int `json:"rest_seconds"`
}

// Plan is the immutable ordered prescription generated before a live session
// begins. The controller may locally reduce a weight during the session; that
// never flows back into the plan.
type Plan struct {
	Mode Mode `json:"mode"`
	// Intensity is the target fraction of estimated one-rep-max the plan
	// was generated at. Recovery plans carry 0.
	Intensity     float64         `json:"intensity"`
	Prescriptions []PrescribedSet `json:"prescriptions"`
}

// Result is the settlement of a completed session.
type Result struct {
	DurationSeconds int  `json:"duration_seconds"`
	XPAwarded       int  `json:"xp_awarded"`
	NewTotalXP      int  `json:"new_total_xp"`
	NewLevel        int  `json:"new_level"`
	LeveledUp       bool `json:"leveled_up"`
	// UpdatedRecords holds one entry per exercise whose personal record
	// improved this session.
	UpdatedRecords map[string]float64 `json:"updated_records"`
	// SyncPending is true when the result could not be persisted yet. The
	// save is retryable without replaying the session.
	SyncPending bool `json:"sync_pending"`
}
