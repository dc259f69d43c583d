package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

func Test_application_metrics(t *testing.T) {
	var (
		ctx    = t.Context()
		server = startTestServer(t)
		client = server.Client().WithUser("frank")
	)
	p := generate(t, client)
	day := firstWorkoutDay(t, p)
	if err := client.PostJSON(ctx, fmt.Sprintf("/api/program/days/%d/complete", day.DayNumber), nil, nil); err != nil {
		t.Fatalf("Failed to complete day: %v", err)
	}

	resp, err := server.Client().Get(ctx, "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}
	for _, want := range []string{
		`fitcycle_programs_generated_total{goal="build_muscle"} 1`,
		`fitcycle_day_updates_total{action="complete"} 1`,
		`fitcycle_http_requests_total{pattern="POST /api/program",status="201"} 1`,
		`fitcycle_http_requests_total{pattern="POST /api/program/days/{day}/complete",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics lack %q", want)
		}
	}
}
