package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/program"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("marshal response: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(body); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "write response", errors.SlogError(err))
	}
}

func (app *application) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	app.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	app.writeError(w, r, http.StatusBadRequest, msg)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.writeError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// handleError maps program errors to status codes. Anything unexpected is a server error.
func (app *application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, program.ErrNoUser):
		app.writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, program.ErrNoProgram),
		errors.Is(err, program.ErrDayNotFound),
		errors.Is(err, program.ErrExerciseNotFound):
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "not found", errors.SlogError(err))
		app.writeError(w, r, http.StatusNotFound, rootMessage(err))
	default:
		app.serverError(w, r, err)
	}
}

// rootMessage returns the message of the innermost error so that wrapping context stays in the logs.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// readJSON decodes the request body into dst. An empty body leaves dst untouched.
func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseDayParam parses the "day" path parameter. It only checks the syntax, range checks belong to the tracker.
func (app *application) parseDayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	day, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		app.notFound(w, r)
		return 0, false
	}
	return day, true
}
