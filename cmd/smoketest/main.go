package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcycle/internal/e2etest"
	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/logging"
	"github.com/myrjola/fitcycle/internal/program"
	"github.com/myrjola/fitcycle/internal/testhelpers"
)

// TestProgram generates a program, completes its first workout and removes it again.
func TestProgram(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	var p program.Program
	if err := client.PostJSON(ctx, "/api/program", map[string]any{
		"userName":        "Smoke Test",
		"daysPerWeek":     3,
		"workoutDays":     []int{1, 3, 5},
		"fitnessLevel":    "beginner",
		"primaryGoal":     "get_fitter",
		"workoutDuration": 30,
		"equipment":       []string{"dumbbells"},
	}, &p); err != nil {
		return fmt.Errorf("generate program: %w", err)
	}
	if len(p.Days) != program.ProgramDays || p.TotalWorkouts == 0 {
		return fmt.Errorf("unexpected program with %d days and %d workouts", len(p.Days), p.TotalWorkouts)
	}

	day := 0
	for _, d := range p.Days {
		if !d.IsRestDay {
			day = d.DayNumber
			break
		}
	}
	if err := client.PostJSON(ctx, fmt.Sprintf("/api/program/days/%d/complete", day), nil, nil); err != nil {
		return fmt.Errorf("complete day %d: %w", day, err)
	}

	var stats program.Stats
	if err := client.GetJSON(ctx, "/api/program/stats", &stats); err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	if stats.CompletedWorkouts != 1 {
		return fmt.Errorf("completed workouts = %d, want 1", stats.CompletedWorkouts)
	}

	if err := client.Delete(ctx, "/api/program"); err != nil {
		return fmt.Errorf("reset program: %w", err)
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
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url, "smoketest-"+uuid.NewString())
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}
	if err := TestProgram(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing program", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
