package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcycle/internal/e2etest"
	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/logging"
	"github.com/myrjola/fitcycle/internal/program"
	"github.com/myrjola/fitcycle/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	scenarioTimeout         = 30 * time.Second
	maxConcurrentOperations = 20
	successRateThreshold    = 95.0
	expectedArgsCount       = 3
	percentageMultiplier    = 100
	skipEvery               = 5
)

//nolint:gochecknoglobals // rotating preferences so that every split and goal gets traffic.
var (
	goals  = []string{"lose_weight", "build_muscle", "get_fitter", "maintain"}
	levels = []string{"beginner", "intermediate", "advanced"}
	weeks  = [][]int{
		{1, 3, 5},
		{1, 2, 4, 5},
		{1, 2, 3, 4, 5},
		{0, 1, 2, 3, 4, 5},
	}
)

// ProgramScenario generates a program for the client's user and walks through every day of it. Every fifth
// workout is skipped, the rest are completed exercise by exercise.
func ProgramScenario(ctx context.Context, client *e2etest.Client, userIndex int) error {
	workoutDays := weeks[userIndex%len(weeks)]
	var p program.Program
	if err := client.PostJSON(ctx, "/api/program", map[string]any{
		"userName":        fmt.Sprintf("User %d", userIndex),
		"daysPerWeek":     len(workoutDays),
		"workoutDays":     workoutDays,
		"fitnessLevel":    levels[userIndex%len(levels)],
		"primaryGoal":     goals[userIndex%len(goals)],
		"workoutDuration": 30 + 15*(userIndex%3), //nolint:mnd // 30, 45 or 60 minutes.
		"equipment":       []string{"dumbbells", "barbell", "bench", "kettlebell", "pull-up bar"},
	}, &p); err != nil {
		return fmt.Errorf("generate program: %w", err)
	}

	var (
		workouts = 0
		done     = 0
	)
	for _, day := range p.Days {
		path := fmt.Sprintf("/api/program/days/%d", day.DayNumber)
		if day.IsRestDay {
			if err := client.PostJSON(ctx, path+"/complete", nil, nil); err != nil {
				return fmt.Errorf("complete rest day %d: %w", day.DayNumber, err)
			}
			done++
			continue
		}
		workouts++
		if workouts%skipEvery == 0 {
			if err := client.PostJSON(ctx, path+"/skip", nil, nil); err != nil {
				return fmt.Errorf("skip day %d: %w", day.DayNumber, err)
			}
			done++
			continue
		}
		for _, e := range day.Exercises {
			if err := client.PostJSON(ctx, path+"/exercises/"+e.ExerciseID+"/complete", nil, nil); err != nil {
				return fmt.Errorf("complete exercise %s on day %d: %w", e.ExerciseID, day.DayNumber, err)
			}
		}
		if err := client.PostJSON(ctx, path+"/complete", map[string]int{
			"actualDuration": day.EstimatedDuration,
		}, nil); err != nil {
			return fmt.Errorf("complete day %d: %w", day.DayNumber, err)
		}
		done++
	}

	var stats program.Stats
	if err := client.GetJSON(ctx, "/api/program/stats", &stats); err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	if stats.CompletedDays != done || stats.CompletionPercentage != percentageMultiplier {
		return fmt.Errorf("stats report %d completed days (%d%%), want %d (100%%)",
			stats.CompletedDays, stats.CompletionPercentage, done)
	}
	return nil
}

// RunLoadTest runs ProgramScenario for userCount users concurrently and fails when too many of them fail.
func RunLoadTest(ctx context.Context, client *e2etest.Client, userCount int, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("users", userCount))

	var (
		successCount int64
		failureCount int64
		g, gctx      = errgroup.WithContext(ctx)
		runID        = uuid.NewString()
	)
	g.SetLimit(maxConcurrentOperations)

	for i := range userCount {
		g.Go(func() error {
			userClient := client.WithUser(fmt.Sprintf("stresstest-%s-%d", runID, i))
			scenarioCtx, cancel := context.WithTimeout(gctx, scenarioTimeout)
			defer cancel()
			scenarioCtx = logging.WithAttrs(scenarioCtx, slog.String("user_id", userClient.UserID()))

			if err := ProgramScenario(scenarioCtx, userClient, i); err != nil {
				atomic.AddInt64(&failureCount, 1)
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed", errors.SlogError(err))
				return nil // Don't propagate error to avoid stopping other scenarios
			}
			atomic.AddInt64(&successCount, 1)

			if err := userClient.Delete(scenarioCtx, "/api/program"); err != nil {
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Cleanup failed", errors.SlogError(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount) / float64(userCount) * percentageMultiplier

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
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
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname> <users>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	userCount, err := strconv.Atoi(os.Args[2])
	if err != nil || userCount < 1 {
		logger.LogAttrs(ctx, slog.LevelError, "users must be a positive number", slog.String("users", os.Args[2]))
		os.Exit(1)
	}

	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}
	client := e2etest.NewClient(url, "")

	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}

	if err = RunLoadTest(ctx, client, userCount, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Int("users_tested", userCount))
}
