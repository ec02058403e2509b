// Command stresstest drives many concurrent anonymous users through full
// workout sessions against a deployed environment. Each user gets an own
// cookie jar and therefore an own identity, so the sessions collide only on
// the shared database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dicsio100-dev/fitnavi/internal/e2etest"
	"github.com/dicsio100-dev/fitnavi/internal/logging"
	"github.com/dicsio100-dev/fitnavi/internal/ptr"
	"github.com/dicsio100-dev/fitnavi/internal/testhelpers"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
	"golang.org/x/sync/errgroup"
)

const (
	numUsers                = 25
	maxConcurrentOperations = 10
	scenarioTimeout         = 60 * time.Second
	successRateThreshold    = 95.0
	percentageMultiplier    = 100
	maxSetsPerScenario      = 64
	expectedArgsCount       = 2
	baseWeightKg            = 55.0
	weightSpreadKg          = 40
	baseAge                 = 20
	ageSpread               = 35
)

type sessionResponse struct {
	State  workout.SessionState `json:"state"`
	Result *workout.Result      `json:"result"`
}

var goals = []workout.Goal{workout.GoalStrength, workout.GoalMuscle, workout.GoalFatLoss}

// scenarioProfile varies weight, age, and goal per user so the plans and
// prescriptions differ across the fleet.
func scenarioProfile(userIndex int) workout.Profile {
	return workout.Profile{
		WeightKg:     baseWeightKg + float64(userIndex%weightSpreadKg),
		HeightCm:     ptr.Ref(170.0),
		Age:          baseAge + userIndex%ageSpread,
		Experience:   workout.ExperienceIntermediate,
		Goal:         goals[userIndex%len(goals)],
		Sex:          workout.SexUnspecified,
		SleepQuality: workout.SleepMedium,
		Equipment: []workout.EquipmentType{
			workout.EquipmentBarbell,
			workout.EquipmentDumbbell,
			workout.EquipmentBodyweight,
			workout.EquipmentCardio,
		},
	}
}

// workoutScenario runs one user's complete flow from profile to settled
// session.
func workoutScenario(ctx context.Context, url string, userIndex int) error {
	client, err := e2etest.NewClient(url)
	if err != nil {
		return fmt.Errorf("create client for user %d: %w", userIndex, err)
	}

	resp, err := client.PostJSON(ctx, "/api/profile", scenarioProfile(userIndex))
	if err != nil {
		return fmt.Errorf("post profile: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusOK, nil); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	readiness := 1 + userIndex%10
	if resp, err = client.PostJSON(ctx, "/api/sessions", map[string]int{"readiness": readiness}); err != nil {
		return fmt.Errorf("post session: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	for set := 0; set < maxSetsPerScenario; set++ {
		if resp, err = client.PostJSON(ctx, "/api/sessions/current/validate-set", nil); err != nil {
			return fmt.Errorf("post validate-set: %w", err)
		}
		var body sessionResponse
		if err = e2etest.DecodeJSON(resp, http.StatusOK, &body); err != nil {
			return fmt.Errorf("validate set: %w", err)
		}
		if body.Result != nil {
			if body.Result.SyncPending {
				return fmt.Errorf("session settled but persistence is pending")
			}
			return nil
		}
		if body.State.Resting {
			if resp, err = client.PostJSON(ctx, "/api/sessions/current/skip-rest", nil); err != nil {
				return fmt.Errorf("post skip-rest: %w", err)
			}
			if err = e2etest.DecodeJSON(resp, http.StatusOK, nil); err != nil {
				return fmt.Errorf("skip rest: %w", err)
			}
		}
	}
	return fmt.Errorf("session did not settle within %d sets", maxSetsPerScenario)
}

func runLoadTest(ctx context.Context, url string, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "starting load test", slog.Int("num_users", numUsers))

	var successCount, failureCount int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for userIndex := range numUsers {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			if err := workoutScenario(scenarioCtx, url, userIndex); err != nil {
				atomic.AddInt64(&failureCount, 1)
				// Log individual failures without stopping the other scenarios.
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "scenario failed",
					slog.Int("user_index", userIndex),
					slog.Any("error", err))
				return nil
			}
			atomic.AddInt64(&successCount, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount) / float64(numUsers) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "load test completed",
		slog.Int64("successful", successCount),
		slog.Int64("failed", failureCount),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))

	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}
	client, err := e2etest.NewClient(url)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	if err = runLoadTest(ctx, url, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "load test completed successfully",
		slog.Duration("total_duration", time.Since(start)),
		slog.Int("users_tested", numUsers))
}
