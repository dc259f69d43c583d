package main

import (
	"net/http"
)

type completeDayRequest struct {
	// ActualDuration in minutes. Zero keeps the estimate.
	ActualDuration int `json:"actualDuration"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (app *application) dayGET(w http.ResponseWriter, r *http.Request) {
	n, ok := app.parseDayParam(w, r)
	if !ok {
		return
	}
	day, err := app.programs.Day(r.Context(), n)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, day)
}

// dayCompletePOST marks a day and all of its exercises completed. The body is optional.
func (app *application) dayCompletePOST(w http.ResponseWriter, r *http.Request) {
	n, ok := app.parseDayParam(w, r)
	if !ok {
		return
	}
	var req completeDayRequest
	if err := readJSON(r, &req); err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	if req.ActualDuration < 0 {
		app.badRequest(w, r, "actualDuration must not be negative")
		return
	}
	day, err := app.programs.CompleteDay(r.Context(), n, req.ActualDuration)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.metrics.DayUpdates.WithLabelValues("complete").Inc()
	app.writeJSON(w, r, http.StatusOK, day)
}

func (app *application) daySkipPOST(w http.ResponseWriter, r *http.Request) {
	n, ok := app.parseDayParam(w, r)
	if !ok {
		return
	}
	day, err := app.programs.SkipDay(r.Context(), n)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.metrics.DayUpdates.WithLabelValues("skip").Inc()
	app.writeJSON(w, r, http.StatusOK, day)
}

func (app *application) dayUncompletePOST(w http.ResponseWriter, r *http.Request) {
	n, ok := app.parseDayParam(w, r)
	if !ok {
		return
	}
	day, err := app.programs.UncompleteDay(r.Context(), n)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.metrics.DayUpdates.WithLabelValues("uncomplete").Inc()
	app.writeJSON(w, r, http.StatusOK, day)
}

func (app *application) exerciseCompletePOST(w http.ResponseWriter, r *http.Request) {
	n, ok := app.parseDayParam(w, r)
	if !ok {
		return
	}
	day, err := app.programs.CompleteExercise(r.Context(), n, r.PathValue("exerciseID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.metrics.DayUpdates.WithLabelValues("exercise_complete").Inc()
	app.writeJSON(w, r, http.StatusOK, day)
}

func (app *application) exerciseSkipPOST(w http.ResponseWriter, r *http.Request) {
	n, ok := app.parseDayParam(w, r)
	if !ok {
		return
	}
	day, err := app.programs.SkipExercise(r.Context(), n, r.PathValue("exerciseID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.metrics.DayUpdates.WithLabelValues("exercise_skip").Inc()
	app.writeJSON(w, r, http.StatusOK, day)
}

// exerciseNotesPOST replaces the notes of an exercise. Empty notes clear them.
func (app *application) exerciseNotesPOST(w http.ResponseWriter, r *http.Request) {
	n, ok := app.parseDayParam(w, r)
	if !ok {
		return
	}
	var req notesRequest
	if err := readJSON(r, &req); err != nil {
		app.badRequest(w, r, err.Error())
		return
	}
	day, err := app.programs.SetExerciseNotes(r.Context(), n, r.PathValue("exerciseID"), req.Notes)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.metrics.DayUpdates.WithLabelValues("exercise_notes").Inc()
	app.writeJSON(w, r, http.StatusOK, day)
}
