package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/myrjola/fitcycle/internal/program"
)

const dateLayout = "2006-01-02"

type generateRequest struct {
	UserName        string   `json:"userName"`
	DaysPerWeek     int      `json:"daysPerWeek"`
	WorkoutDays     []int    `json:"workoutDays"`
	FitnessLevel    string   `json:"fitnessLevel"`
	PrimaryGoal     string   `json:"primaryGoal"`
	WorkoutDuration int      `json:"workoutDuration"`
	Equipment       []string `json:"equipment"`
	// StartDate is YYYY-MM-DD. Empty means today.
	StartDate string `json:"startDate"`
}

func (req generateRequest) options() (program.GenerateOptions, error) {
	opts := program.GenerateOptions{
		UserID:          "",
		UserName:        req.UserName,
		DaysPerWeek:     req.DaysPerWeek,
		WorkoutDays:     make([]time.Weekday, 0, len(req.WorkoutDays)),
		FitnessLevel:    program.FitnessLevel(req.FitnessLevel),
		PrimaryGoal:     program.Goal(req.PrimaryGoal),
		WorkoutDuration: req.WorkoutDuration,
		Equipment:       req.Equipment,
		StartDate:       time.Time{},
	}
	for _, d := range req.WorkoutDays {
		if d < int(time.Sunday) || d > int(time.Saturday) {
			return program.GenerateOptions{}, fmt.Errorf("workoutDays: %d is not a weekday between 0 (Sunday) and 6", d)
		}
		opts.WorkoutDays = append(opts.WorkoutDays, time.Weekday(d))
	}
	if req.WorkoutDuration <= 0 {
		return program.GenerateOptions{}, fmt.Errorf("workoutDuration: %d minutes is not positive", req.WorkoutDuration)
	}
	if req.StartDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return program.GenerateOptions{}, fmt.Errorf("startDate: %q is not YYYY-MM-DD", req.StartDate)
		}
		opts.StartDate = start
	}
	return opts, nil
}

// programPOST generates a new program for the user and replaces the previous one.
func (app *application) programPOST(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := readJSON(r, &req); err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	opts, err := req.options()
	if err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	p, err := app.programs.Generate(r.Context(), opts)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.metrics.ProgramsGenerated.WithLabelValues(goalLabel(opts.PrimaryGoal)).Inc()
	app.writeJSON(w, r, http.StatusCreated, p)
}

// goalLabel keeps the metric label set bounded. Unknown goals are generated with defaults.
func goalLabel(goal program.Goal) string {
	switch goal {
	case program.GoalLoseWeight, program.GoalBuildMuscle, program.GoalGetFitter, program.GoalMaintain:
		return string(goal)
	default:
		return "other"
	}
}

func (app *application) programGET(w http.ResponseWriter, r *http.Request) {
	p, err := app.programs.Program(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, p)
}

func (app *application) programDELETE(w http.ResponseWriter, r *http.Request) {
	if err := app.programs.Reset(r.Context()); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// todayGET responds with the program day that falls on the current date.
func (app *application) todayGET(w http.ResponseWriter, r *http.Request) {
	day, err := app.programs.Today(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, day)
}

func (app *application) statsGET(w http.ResponseWriter, r *http.Request) {
	stats, err := app.programs.Stats(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, stats)
}

func (app *application) phaseProgressGET(w http.ResponseWriter, r *http.Request) {
	progress, err := app.programs.PhaseProgress(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, progress)
}
