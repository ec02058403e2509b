package workout

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dicsio100-dev/fitnavi/internal/errors"
	"github.com/dicsio100-dev/fitnavi/internal/sqlite"
	"github.com/google/uuid"
)

// Settlement constants.
const (
	xpPerLevel = 500
	// recordNudge is the progressive-overload bump applied to a record on
	// apparent success.
	recordNudge = 1.025

	workoutLogLimit = 50
	tickInterval    = time.Second
)

// Service-level sentinels.
var (
	ErrProfileNotFound = errors.NewSentinel("profile not found")
	ErrNoActiveSession = errors.NewSentinel("no active session")
	ErrSessionInFlight = errors.NewSentinel("a session is already in progress")
	ErrNothingToSync   = errors.NewSentinel("no pending result to sync")
	ErrPersistenceFail = errors.NewSentinel("session result could not be persisted")
)

// Subscriber receives controller events after the state transition has been
// applied. Subscribers run on their own goroutines and must never block the
// session.
type Subscriber func(ctx context.Context, userID string, event Event)

// liveSession is one in-flight session. The controller owns all mutable
// session state; the surrounding fields are fixed at generation time except
// for the pending result.
type liveSession struct {
	id           string
	controller   *controller
	plan         Plan
	priorRecords map[string]float64
	startedAt    time.Time
	// pending holds a settled result whose save failed. The session stays
	// registered until the sync goes through or the user abandons it.
	pending *Result
}

// Service owns the live-session registry and mediates between the pure
// engine and the persistence layer. One active session per user.
type Service struct {
	logger  *slog.Logger
	repo    *sqliteRepository
	catalog []Exercise

	mu          sync.Mutex
	gen         *generator
	live        map[string]*liveSession
	subscribers []Subscriber
}

// NewService creates a workout service backed by the given database. rng
// drives the fat-loss shuffle; pass a seeded source in tests to pin plans.
func NewService(db *sqlite.Database, logger *slog.Logger, rng *rand.Rand) *Service {
	catalog := Catalog()
	return &Service{
		logger:  logger,
		repo:    newSQLiteRepository(db),
		catalog: catalog,
		gen:     newGenerator(catalog, rng),
		live:    make(map[string]*liveSession),
	}
}

// Subscribe registers an event subscriber such as the coach voice layer.
func (s *Service) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// publish fans an event batch out to subscribers without blocking the
// calling transition.
func (s *Service) publish(userID string, events []Event) {
	s.mu.Lock()
	subscribers := make([]Subscriber, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subscribers {
		for _, event := range events {
			go sub(context.Background(), userID, event)
		}
	}
}

// Exercises returns the reference catalog.
func (s *Service) Exercises() []Exercise {
	out := make([]Exercise, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// GetProfile loads a user's stored profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return Profile{}, errors.Wrap(err, "get profile")
	}
	return profile, nil
}

// SaveProfile validates and stores a user's profile.
func (s *Service) SaveProfile(ctx context.Context, userID string, profile Profile) error {
	if profile.WeightKg <= 0 {
		return errors.Wrap(ErrInvalidProfile, "validate profile weight",
			slog.Float64("weight_kg", profile.WeightKg))
	}
	if err := s.repo.EnsureUser(ctx, userID); err != nil {
		return errors.Wrap(err, "ensure user")
	}
	if err := s.repo.SetProfile(ctx, userID, profile); err != nil {
		return errors.Wrap(err, "save profile")
	}
	return nil
}

// PersonalRecords returns the stored record mapping for a user.
func (s *Service) PersonalRecords(ctx context.Context, userID string) (map[string]float64, error) {
	records, err := s.repo.GetPersonalRecords(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "get personal records")
	}
	return records, nil
}

// Progress returns the stored XP totals for a user.
func (s *Service) Progress(ctx context.Context, userID string) (Progress, error) {
	progress, err := s.repo.GetProgress(ctx, userID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "get progress")
	}
	return progress, nil
}

// WorkoutLogs returns the recent completed-session history.
func (s *Service) WorkoutLogs(ctx context.Context, userID string) ([]WorkoutLogEntry, error) {
	logs, err := s.repo.ListWorkoutLogs(ctx, userID, workoutLogLimit)
	if err != nil {
		return nil, errors.Wrap(err, "list workout logs")
	}
	return logs, nil
}

// StartSession generates a plan from the stored profile and the submitted
// readiness rating and registers the live session. Rejects a second session
// while one is in flight.
func (s *Service) StartSession(ctx context.Context, userID string, readiness int) (SessionState, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return SessionState{}, errors.Wrap(err, "load profile for session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.live[userID]; exists {
		return SessionState{}, errors.Wrap(ErrSessionInFlight, "start session")
	}

	plan, err := s.gen.Generate(profile, readiness)
	if err != nil {
		return SessionState{}, errors.Wrap(err, "generate plan")
	}

	session := &liveSession{
		id:           uuid.NewString(),
		controller:   newController(plan),
		plan:         plan,
		priorRecords: profile.PersonalRecords,
		startedAt:    time.Now(),
	}
	s.live[userID] = session
	s.logger.LogAttrs(ctx, slog.LevelInfo, "session started",
		slog.String("session_id", session.id),
		slog.String("mode", string(plan.Mode)),
		slog.Int("exercises", len(plan.Prescriptions)))
	return session.controller.State(), nil
}

// CurrentState returns the live session snapshot.
func (s *Service) CurrentState(_ context.Context, userID string) (SessionState, error) {
	session, err := s.session(userID)
	if err != nil {
		return SessionState{}, err
	}
	return session.controller.State(), nil
}

// ValidateSet applies the validate-set command. On the final set it settles
// the session and returns the result.
func (s *Service) ValidateSet(ctx context.Context, userID string) (SessionState, *Result, error) {
	session, err := s.session(userID)
	if err != nil {
		return SessionState{}, nil, err
	}
	events, outcome, err := session.controller.ValidateSet()
	if err != nil {
		return SessionState{}, nil, errors.Wrap(err, "validate set")
	}
	s.publish(userID, events)

	if outcome == nil {
		return session.controller.State(), nil, nil
	}

	result := s.settle(ctx, userID, session, outcome)
	return session.controller.State(), &result, nil
}

// SkipRest applies the skip-rest command.
func (s *Service) SkipRest(_ context.Context, userID string) (SessionState, error) {
	return s.command(userID, (*controller).SkipRest)
}

// SignalTooHard applies the too-hard command.
func (s *Service) SignalTooHard(_ context.Context, userID string) (SessionState, error) {
	return s.command(userID, (*controller).SignalTooHard)
}

// Pause applies the pause command.
func (s *Service) Pause(_ context.Context, userID string) (SessionState, error) {
	return s.command(userID, (*controller).Pause)
}

// Resume applies the resume command.
func (s *Service) Resume(_ context.Context, userID string) (SessionState, error) {
	return s.command(userID, (*controller).Resume)
}

func (s *Service) command(userID string, op func(*controller) ([]Event, error)) (SessionState, error) {
	session, err := s.session(userID)
	if err != nil {
		return SessionState{}, err
	}
	events, err := op(session.controller)
	if err != nil {
		return SessionState{}, errors.Wrap(err, "apply session command")
	}
	s.publish(userID, events)
	return session.controller.State(), nil
}

// Abandon discards the live session without persisting anything.
func (s *Service) Abandon(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.live[userID]
	if !exists {
		return errors.Wrap(ErrNoActiveSession, "abandon session")
	}
	delete(s.live, userID)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "session abandoned",
		slog.String("session_id", session.id))
	return nil
}

// RetrySync re-attempts the save of a settled result that previously failed
// to persist.
func (s *Service) RetrySync(ctx context.Context, userID string) (Result, error) {
	s.mu.Lock()
	session, exists := s.live[userID]
	s.mu.Unlock()
	if !exists || session.pending == nil {
		return Result{}, errors.Wrap(ErrNothingToSync, "retry sync")
	}

	result := *session.pending
	if err := s.persistResult(ctx, userID, session, result); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "sync retry failed", errors.SlogError(err))
		return result, errors.Wrap(ErrPersistenceFail, "retry sync")
	}

	result.SyncPending = false
	s.mu.Lock()
	delete(s.live, userID)
	s.mu.Unlock()
	return result, nil
}

// session fetches the live session for a user.
func (s *Service) session(userID string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, exists := s.live[userID]
	if !exists {
		return nil, errors.Wrap(ErrNoActiveSession, "lookup session")
	}
	return session, nil
}

// settle turns a controller outcome into a Result and persists it. A
// persistence failure never rolls back the in-memory result; it is surfaced
// as a pending sync instead.
func (s *Service) settle(ctx context.Context, userID string, session *liveSession, outcome *Outcome) Result {
	progress, err := s.repo.GetProgress(ctx, userID)
	if err != nil {
		// Fall back to a fresh baseline rather than blocking completion.
		s.logger.LogAttrs(ctx, slog.LevelWarn, "progress lookup failed, assuming fresh user",
			errors.SlogError(err))
		progress = Progress{TotalXP: 0, Level: 1}
	}

	newTotal := progress.TotalXP + outcome.XP
	newLevel := 1 + newTotal/xpPerLevel

	updated := make(map[string]float64)
	for exerciseID, weightKg := range outcome.FinalWeights {
		if weightKg <= 0 {
			continue
		}
		if prior, ok := session.priorRecords[exerciseID]; ok && weightKg < prior {
			continue
		}
		updated[exerciseID] = roundToPlate(weightKg * recordNudge)
	}

	result := Result{
		DurationSeconds: outcome.DurationSeconds,
		XPAwarded:       outcome.XP,
		NewTotalXP:      newTotal,
		NewLevel:        newLevel,
		LeveledUp:       newLevel > progress.Level,
		UpdatedRecords:  updated,
	}

	if err := s.persistResult(ctx, userID, session, result); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "session save failed, result held for retry",
			errors.SlogError(err))
		result.SyncPending = true
		pending := result
		s.mu.Lock()
		session.pending = &pending
		s.mu.Unlock()
		return result
	}

	s.mu.Lock()
	delete(s.live, userID)
	s.mu.Unlock()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "session completed",
		slog.String("session_id", session.id),
		slog.Int("xp_awarded", result.XPAwarded),
		slog.Int("new_level", result.NewLevel))
	return result
}

func (s *Service) persistResult(ctx context.Context, userID string, session *liveSession, result Result) error {
	durationMinutes := int(math.Ceil(float64(result.DurationSeconds) / 60))
	intensity := int(math.Round(session.plan.Intensity * 100))
	return s.repo.SaveResult(ctx, userID, string(session.plan.Mode),
		durationMinutes, intensity, result.NewTotalXP, result.NewLevel, result.UpdatedRecords)
}

// RunTicker drives the one-second session clock until the context ends.
// Each tick advances every live session; a missed tick self-corrects on the
// next one.
func (s *Service) RunTicker(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tickAll()
		}
	}
}

func (s *Service) tickAll() {
	s.mu.Lock()
	sessions := make(map[string]*liveSession, len(s.live))
	for userID, session := range s.live {
		sessions[userID] = session
	}
	s.mu.Unlock()

	for userID, session := range sessions {
		if events := session.controller.Tick(); len(events) > 0 {
			s.publish(userID, events)
		}
	}
}
