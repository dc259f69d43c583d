package main

import (
	"net/http"
	"strconv"
	"time"
)

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type testTimeoutResponse struct {
	Status  string `json:"status"`
	SleptMS int    `json:"slept_ms"`
}

// testTimeout sleeps for sleep_ms milliseconds so that tests can exercise the timeout middleware.
func (app *application) testTimeout(w http.ResponseWriter, r *http.Request) {
	sleepMsStr := r.URL.Query().Get("sleep_ms")
	if sleepMsStr == "" {
		sleepMsStr = "0"
	}

	sleepMs, err := strconv.Atoi(sleepMsStr)
	if err != nil {
		app.badRequest(w, r, "invalid sleep_ms parameter")
		return
	}

	if sleepMs > 0 {
		time.Sleep(time.Duration(sleepMs) * time.Millisecond)
	}

	app.writeJSON(w, r, http.StatusOK, testTimeoutResponse{Status: "completed", SleptMS: sleepMs})
}
