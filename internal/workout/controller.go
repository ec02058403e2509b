package workout

import (
	"sync"

	"github.com/dicsio100-dev/fitnavi/internal/errors"
)

// Session progression constants.
const (
	setsPerExerciseStandard = 4
	setsPerExerciseRecovery = 1

	perSetXP          = 10
	completionBonusXP = 100

	tooHardFactor = 0.9
)

// Controller command sentinels.
var (
	ErrSessionComplete  = errors.NewSentinel("session already complete")
	ErrNotResting       = errors.NewSentinel("no rest countdown in progress")
	ErrRecoveryTooHard  = errors.NewSentinel("weight reduction is not available in recovery mode")
	ErrSessionPaused    = errors.NewSentinel("session is paused")
	ErrSessionNotPaused = errors.NewSentinel("session is not paused")
)

// EventKind identifies a controller event.
type EventKind string

// Controller event kinds, in emission order semantics.
const (
	EventSetValidated     EventKind = "set_validated"
	EventRestStarted      EventKind = "rest_started"
	EventRestFinished     EventKind = "rest_finished"
	EventRestSkipped      EventKind = "rest_skipped"
	EventExerciseAdvanced EventKind = "exercise_advanced"
	EventWeightReduced    EventKind = "weight_reduced"
	EventPaused           EventKind = "paused"
	EventResumed          EventKind = "resumed"
	EventSessionCompleted EventKind = "session_completed"
)

// Event is emitted by the controller on every transition. Rendering and
// voice feedback subscribe to these instead of being called inline from the
// state machine.
type Event struct {
	Kind     EventKind `json:"kind"`
	Exercise Exercise  `json:"exercise"`
	// SetNumber is 1-based within the current exercise.
	SetNumber int `json:"set_number,omitempty"`
	// WeightKg carries the new weight on weight_reduced events.
	WeightKg float64 `json:"weight_kg,omitempty"`
}

// Outcome is the controller-local settlement produced when the last set is
// validated. It knows nothing about the user's stored progress; the service
// turns it into a Result.
type Outcome struct {
	Mode            Mode
	DurationSeconds int
	XP              int
	// FinalWeights maps exercise id to the weight actually worked with,
	// after any difficulty reductions.
	FinalWeights map[string]float64
}

// SessionState is a read-only snapshot of the live state machine.
type SessionState struct {
	Mode            Mode           `json:"mode"`
	ExerciseIndex   int            `json:"exercise_index"`
	SetIndex        int            `json:"set_index"`
	SetsPerExercise int            `json:"sets_per_exercise"`
	TotalExercises  int            `json:"total_exercises"`
	ElapsedSeconds  int            `json:"elapsed_seconds"`
	RestRemaining   int            `json:"rest_remaining"`
	Resting         bool           `json:"resting"`
	// ReadyCue is a one-shot pulse raised when a rest countdown reaches
	// zero, cleared by the next validated set.
	ReadyCue        bool           `json:"ready_cue"`
	Paused          bool           `json:"paused"`
	Completed       bool           `json:"completed"`
	XPSoFar         int            `json:"xp_so_far"`
	Current         *PrescribedSet `json:"current,omitempty"`
}

// controller drives one live session set by set. All methods hold the mutex,
// which serializes the ticker against user commands. Nothing is persisted
// here; state is discarded wholesale on abandonment.
type controller struct {
	mu sync.Mutex

	plan        Plan
	setsPerEx   int
	exerciseIdx int
	setIdx      int

	elapsed   int
	rest      int
	resting   bool
	readyCue  bool
	paused    bool
	completed bool

	xp int
	// weights shadows the plan's prescriptions so a difficulty reduction
	// stays local to the session.
	weights []float64
}

func newController(plan Plan) *controller {
	sets := setsPerExerciseStandard
	if plan.Mode == ModeRecovery {
		sets = setsPerExerciseRecovery
	}
	weights := make([]float64, len(plan.Prescriptions))
	for i, p := range plan.Prescriptions {
		weights[i] = p.WeightKg
	}
	return &controller{plan: plan, setsPerEx: sets, weights: weights}
}

// ValidateSet records the current set as done. It starts a rest countdown
// when sets remain for the exercise, advances to the next exercise when not,
// and settles the session after the final set.
func (c *controller) ValidateSet() ([]Event, *Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return nil, nil, ErrSessionComplete
	}
	if c.paused {
		return nil, nil, ErrSessionPaused
	}

	current := c.plan.Prescriptions[c.exerciseIdx].Exercise
	c.readyCue = false
	c.xp += perSetXP
	c.setIdx++
	events := []Event{{Kind: EventSetValidated, Exercise: current, SetNumber: c.setIdx}}

	if c.setIdx < c.setsPerEx {
		c.resting = true
		c.rest = c.plan.Prescriptions[c.exerciseIdx].RestSeconds
		events = append(events, Event{Kind: EventRestStarted, Exercise: current})
		return events, nil, nil
	}

	if c.exerciseIdx+1 < len(c.plan.Prescriptions) {
		c.exerciseIdx++
		c.setIdx = 0
		c.resting = false
		c.rest = 0
		next := c.plan.Prescriptions[c.exerciseIdx].Exercise
		events = append(events, Event{Kind: EventExerciseAdvanced, Exercise: next})
		return events, nil, nil
	}

	c.completed = true
	c.xp += completionBonusXP
	outcome := &Outcome{
		Mode:            c.plan.Mode,
		DurationSeconds: c.elapsed,
		XP:              c.xp,
		FinalWeights:    make(map[string]float64, len(c.plan.Prescriptions)),
	}
	for i, p := range c.plan.Prescriptions {
		outcome.FinalWeights[p.Exercise.ID] = c.weights[i]
	}
	events = append(events, Event{Kind: EventSessionCompleted, Exercise: current})
	return events, outcome, nil
}

// Tick advances timers by one second. Missed ticks self-correct on the next
// call; a tick against a paused or completed session is a no-op.
func (c *controller) Tick() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed || c.paused {
		return nil
	}
	c.elapsed++
	if !c.resting {
		return nil
	}
	c.rest--
	if c.rest > 0 {
		return nil
	}
	c.rest = 0
	c.resting = false
	c.readyCue = true
	return []Event{{Kind: EventRestFinished, Exercise: c.plan.Prescriptions[c.exerciseIdx].Exercise}}
}

// SkipRest cancels the countdown and returns to the active set immediately.
func (c *controller) SkipRest() ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return nil, ErrSessionComplete
	}
	if !c.resting {
		return nil, ErrNotResting
	}
	c.resting = false
	c.rest = 0
	return []Event{{Kind: EventRestSkipped, Exercise: c.plan.Prescriptions[c.exerciseIdx].Exercise}}, nil
}

// SignalTooHard reduces the current exercise's weight by 10%, re-rounded to
// the plate increment. Standard mode only.
func (c *controller) SignalTooHard() ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return nil, ErrSessionComplete
	}
	if c.plan.Mode == ModeRecovery {
		return nil, ErrRecoveryTooHard
	}
	reduced := roundToPlate(c.weights[c.exerciseIdx] * tooHardFactor)
	c.weights[c.exerciseIdx] = reduced
	return []Event{{
		Kind:     EventWeightReduced,
		Exercise: c.plan.Prescriptions[c.exerciseIdx].Exercise,
		WeightKg: reduced,
	}}, nil
}

// Pause freezes elapsed-time accumulation and the rest countdown.
func (c *controller) Pause() ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return nil, ErrSessionComplete
	}
	if c.paused {
		return nil, ErrSessionPaused
	}
	c.paused = true
	return []Event{{Kind: EventPaused, Exercise: c.plan.Prescriptions[c.exerciseIdx].Exercise}}, nil
}

// Resume unfreezes the timers.
func (c *controller) Resume() ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completed {
		return nil, ErrSessionComplete
	}
	if !c.paused {
		return nil, ErrSessionNotPaused
	}
	c.paused = false
	return []Event{{Kind: EventResumed, Exercise: c.plan.Prescriptions[c.exerciseIdx].Exercise}}, nil
}

// State returns a snapshot for read APIs. The current prescription reflects
// any local weight reduction.
func (c *controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := SessionState{
		Mode:            c.plan.Mode,
		ExerciseIndex:   c.exerciseIdx,
		SetIndex:        c.setIdx,
		SetsPerExercise: c.setsPerEx,
		TotalExercises:  len(c.plan.Prescriptions),
		ElapsedSeconds:  c.elapsed,
		RestRemaining:   c.rest,
		Resting:         c.resting,
		ReadyCue:        c.readyCue,
		Paused:          c.paused,
		Completed:       c.completed,
		XPSoFar:         c.xp,
	}
	if !c.completed {
		current := c.plan.Prescriptions[c.exerciseIdx]
		current.WeightKg = c.weights[c.exerciseIdx]
		state.Current = &current
	}
	return state
}
