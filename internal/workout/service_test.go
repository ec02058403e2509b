package workout_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/dicsio100-dev/fitnavi/internal/errors"
	"github.com/dicsio100-dev/fitnavi/internal/ptr"
	"github.com/dicsio100-dev/fitnavi/internal/sqlite"
	"github.com/dicsio100-dev/fitnavi/internal/testhelpers"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
	"github.com/google/go-cmp/cmp"
)

func newTestService(t *testing.T) *workout.Service {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	return workout.NewService(db, logger, rand.New(rand.NewPCG(7, 7)))
}

func testProfile() workout.Profile {
	return workout.Profile{
		WeightKg:     80,
		HeightCm:     ptr.Ref(180.0),
		Age:          30,
		Experience:   workout.ExperienceIntermediate,
		Goal:         workout.GoalStrength,
		Sex:          workout.SexUnspecified,
		SleepQuality: workout.SleepGood,
		Equipment: []workout.EquipmentType{
			workout.EquipmentBarbell, workout.EquipmentDumbbell, workout.EquipmentMachine,
		},
	}
}

// finishSession drives the current session to completion and returns the
// final result.
func finishSession(t *testing.T, svc *workout.Service, userID string) *workout.Result {
	t.Helper()
	ctx := context.Background()
	for {
		state, result, err := svc.ValidateSet(ctx, userID)
		if err != nil {
			t.Fatalf("ValidateSet() error = %v", err)
		}
		if result != nil {
			return result
		}
		if state.Resting {
			if _, err := svc.SkipRest(ctx, userID); err != nil {
				t.Fatalf("SkipRest() error = %v", err)
			}
		}
	}
}

func TestServiceProfileRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, "user-1")
	if !errors.Is(err, workout.ErrProfileNotFound) {
		t.Fatalf("GetProfile() before save error = %v, want %v", err, workout.ErrProfileNotFound)
	}

	want := testProfile()
	if err := svc.SaveProfile(ctx, "user-1", want); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	got, err := svc.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	// A fresh profile has no records yet.
	want.PersonalRecords = map[string]float64{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceRejectsInvalidProfile(t *testing.T) {
	svc := newTestService(t)

	profile := testProfile()
	profile.WeightKg = 0
	err := svc.SaveProfile(context.Background(), "user-1", profile)
	if !errors.Is(err, workout.ErrInvalidProfile) {
		t.Errorf("SaveProfile() error = %v, want %v", err, workout.ErrInvalidProfile)
	}
}

func TestServiceSessionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveProfile(ctx, "user-1", testProfile()); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	_, err := svc.CurrentState(ctx, "user-1")
	if !errors.Is(err, workout.ErrNoActiveSession) {
		t.Fatalf("CurrentState() before start error = %v, want %v", err, workout.ErrNoActiveSession)
	}

	state, err := svc.StartSession(ctx, "user-1", 3)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if state.Mode != workout.ModeStandard {
		t.Errorf("mode = %s, want standard", state.Mode)
	}

	if _, err := svc.StartSession(ctx, "user-1", 3); !errors.Is(err, workout.ErrSessionInFlight) {
		t.Errorf("second StartSession() error = %v, want %v", err, workout.ErrSessionInFlight)
	}

	result := finishSession(t, svc, "user-1")
	if result.SyncPending {
		t.Error("result unexpectedly pending sync")
	}
	// Strength plan: 5 exercises * 4 sets * 10 XP + 100 bonus.
	if result.XPAwarded != 300 {
		t.Errorf("XP awarded = %d, want 300", result.XPAwarded)
	}
	if result.NewTotalXP != 300 || result.NewLevel != 1 || result.LeveledUp {
		t.Errorf("unexpected progress: %+v", result)
	}

	// The session is settled and gone.
	if _, err := svc.CurrentState(ctx, "user-1"); !errors.Is(err, workout.ErrNoActiveSession) {
		t.Errorf("CurrentState() after completion error = %v, want %v", err, workout.ErrNoActiveSession)
	}

	progress, err := svc.Progress(ctx, "user-1")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.TotalXP != 300 || progress.Level != 1 {
		t.Errorf("persisted progress = %+v, want 300 XP at level 1", progress)
	}

	logs, err := svc.WorkoutLogs(ctx, "user-1")
	if err != nil {
		t.Fatalf("WorkoutLogs() error = %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d log entries, want 1", len(logs))
	}
	if logs[0].ModeLabel != "standard" || logs[0].Intensity != 85 {
		t.Errorf("unexpected log entry: %+v", logs[0])
	}
}

func TestServiceRecordNudgeOnCompletion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveProfile(ctx, "user-1", testProfile()); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if _, err := svc.StartSession(ctx, "user-1", 3); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	result := finishSession(t, svc, "user-1")

	// Squat worked at 65.0 kg with no prior record: nudged to
	// round(65 * 1.025 / 1.25) * 1.25 = 66.25.
	if got := result.UpdatedRecords["squat"]; got != 66.25 {
		t.Errorf("squat record = %v, want 66.25", got)
	}

	records, err := svc.PersonalRecords(ctx, "user-1")
	if err != nil {
		t.Fatalf("PersonalRecords() error = %v", err)
	}
	if diff := cmp.Diff(result.UpdatedRecords, records); diff != "" {
		t.Errorf("persisted records mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceRecordNeverRegresses(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveProfile(ctx, "user-1", testProfile()); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	// First session establishes records, second one signals difficulty on
	// the first exercise so it finishes below the stored record.
	if _, err := svc.StartSession(ctx, "user-1", 3); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	first := finishSession(t, svc, "user-1")
	squatRecord := first.UpdatedRecords["squat"]

	if _, err := svc.StartSession(ctx, "user-1", 3); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if _, err := svc.SignalTooHard(ctx, "user-1"); err != nil {
		t.Fatalf("SignalTooHard() error = %v", err)
	}
	second := finishSession(t, svc, "user-1")

	if _, ok := second.UpdatedRecords["squat"]; ok {
		t.Error("reduced squat weight must not update the record")
	}
	records, err := svc.PersonalRecords(ctx, "user-1")
	if err != nil {
		t.Fatalf("PersonalRecords() error = %v", err)
	}
	if records["squat"] != squatRecord {
		t.Errorf("squat record = %v, want unchanged %v", records["squat"], squatRecord)
	}
}

func TestServiceAbandonPersistsNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveProfile(ctx, "user-1", testProfile()); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if _, err := svc.StartSession(ctx, "user-1", 3); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if _, _, err := svc.ValidateSet(ctx, "user-1"); err != nil {
		t.Fatalf("ValidateSet() error = %v", err)
	}

	if err := svc.Abandon(ctx, "user-1"); err != nil {
		t.Fatalf("Abandon() error = %v", err)
	}
	if err := svc.Abandon(ctx, "user-1"); !errors.Is(err, workout.ErrNoActiveSession) {
		t.Errorf("double Abandon() error = %v, want %v", err, workout.ErrNoActiveSession)
	}

	logs, err := svc.WorkoutLogs(ctx, "user-1")
	if err != nil {
		t.Fatalf("WorkoutLogs() error = %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("abandoned session left %d log entries", len(logs))
	}
	progress, err := svc.Progress(ctx, "user-1")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.TotalXP != 0 {
		t.Errorf("abandoned session awarded %d XP", progress.TotalXP)
	}
}

func TestServiceSubscribersReceiveEvents(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var (
		mu    sync.Mutex
		kinds = make(map[workout.EventKind]bool)
		done  = make(chan struct{})
	)
	svc.Subscribe(func(_ context.Context, _ string, event workout.Event) {
		mu.Lock()
		defer mu.Unlock()
		kinds[event.Kind] = true
		if event.Kind == workout.EventSessionCompleted {
			close(done)
		}
	})

	if err := svc.SaveProfile(ctx, "user-1", testProfile()); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if _, err := svc.StartSession(ctx, "user-1", 3); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	finishSession(t, svc, "user-1")

	<-done
	mu.Lock()
	defer mu.Unlock()
	for _, want := range []workout.EventKind{
		workout.EventSetValidated, workout.EventRestStarted,
		workout.EventRestSkipped, workout.EventSessionCompleted,
	} {
		if !kinds[want] {
			t.Errorf("subscriber never saw %q", want)
		}
	}
}

func TestServiceSubscribeDuringLiveSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SaveProfile(ctx, "user-1", testProfile()); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if _, err := svc.StartSession(ctx, "user-1", 3); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	// Registering while events are flowing must be safe and take effect
	// for the events that follow.
	var once sync.Once
	done := make(chan struct{})
	svc.Subscribe(func(_ context.Context, _ string, event workout.Event) {
		if event.Kind == workout.EventSessionCompleted {
			once.Do(func() { close(done) })
		}
	})

	finishSession(t, svc, "user-1")
	<-done
}

func TestServiceRetrySyncWithoutPending(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RetrySync(context.Background(), "user-1")
	if !errors.Is(err, workout.ErrNothingToSync) {
		t.Errorf("RetrySync() error = %v, want %v", err, workout.ErrNothingToSync)
	}
}

func TestServicePendingSyncSurvivesStoreFailure(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	svc := workout.NewService(db, logger, rand.New(rand.NewPCG(7, 7)))

	if err = svc.SaveProfile(ctx, "user-1", testProfile()); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if _, err = svc.StartSession(ctx, "user-1", 3); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	// Hide the log table so the settlement write fails.
	if _, err = db.ReadWrite.ExecContext(ctx, "ALTER TABLE workout_logs RENAME TO workout_logs_hidden"); err != nil {
		t.Fatalf("hide workout_logs: %v", err)
	}

	result := finishSession(t, svc, "user-1")
	if !result.SyncPending {
		t.Fatal("want the result flagged for retry after a failed save")
	}
	if _, err = svc.CurrentState(ctx, "user-1"); err != nil {
		t.Errorf("session should stay registered while a sync is pending: %v", err)
	}

	if _, err = svc.RetrySync(ctx, "user-1"); !errors.Is(err, workout.ErrPersistenceFail) {
		t.Errorf("RetrySync() error = %v, want %v", err, workout.ErrPersistenceFail)
	}

	// Restore the table and retry.
	if _, err = db.ReadWrite.ExecContext(ctx, "ALTER TABLE workout_logs_hidden RENAME TO workout_logs"); err != nil {
		t.Fatalf("restore workout_logs: %v", err)
	}
	synced, err := svc.RetrySync(ctx, "user-1")
	if err != nil {
		t.Fatalf("RetrySync() error = %v", err)
	}
	if synced.SyncPending {
		t.Error("synced result should no longer be pending")
	}
	if _, err = svc.RetrySync(ctx, "user-1"); !errors.Is(err, workout.ErrNothingToSync) {
		t.Errorf("RetrySync() after success error = %v, want %v", err, workout.ErrNothingToSync)
	}

	progress, err := svc.Progress(ctx, "user-1")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.TotalXP != synced.NewTotalXP {
		t.Errorf("Progress() TotalXP = %d, want %d", progress.TotalXP, synced.NewTotalXP)
	}
}
