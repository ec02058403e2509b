// Command smoketest runs a short workout round trip against a deployed
// environment. It exercises the profile and session endpoints through the
// public API and exits non-zero on any failure.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dicsio100-dev/fitnavi/internal/e2etest"
	"github.com/dicsio100-dev/fitnavi/internal/logging"
	"github.com/dicsio100-dev/fitnavi/internal/ptr"
	"github.com/dicsio100-dev/fitnavi/internal/testhelpers"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
)

const smokeTimeout = 30 * time.Second

type sessionResponse struct {
	State  workout.SessionState `json:"state"`
	Result *workout.Result      `json:"result"`
}

func testWorkoutRoundTrip(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, smokeTimeout)
	defer cancel()

	profile := workout.Profile{
		WeightKg:     70,
		HeightCm:     ptr.Ref(175.0),
		Age:          35,
		Experience:   workout.ExperienceBeginner,
		Goal:         workout.GoalFatLoss,
		Sex:          workout.SexUnspecified,
		SleepQuality: workout.SleepMedium,
		Equipment:    []workout.EquipmentType{workout.EquipmentBodyweight, workout.EquipmentCardio},
	}
	resp, err := client.PostJSON(ctx, "/api/profile", profile)
	if err != nil {
		return fmt.Errorf("post profile: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusOK, nil); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if resp, err = client.PostJSON(ctx, "/api/sessions", map[string]int{"readiness": 3}); err != nil {
		return fmt.Errorf("post session: %w", err)
	}
	var started sessionResponse
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, &started); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if started.State.Current == nil {
		return fmt.Errorf("session started without a prescription")
	}

	if resp, err = client.PostJSON(ctx, "/api/sessions/current/validate-set", nil); err != nil {
		return fmt.Errorf("post validate-set: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusOK, nil); err != nil {
		return fmt.Errorf("validate set: %w", err)
	}

	// Leave no trace in the environment's history.
	if resp, err = client.Delete(ctx, "/api/sessions/current"); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("abandon session: %w", err)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testWorkoutRoundTrip(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "workout round trip failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "smoke test passed", slog.Duration("duration", time.Since(start)))
}
