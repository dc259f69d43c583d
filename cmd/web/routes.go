package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(app.requestMetrics(secureHeaders(noCache(
				app.crossOriginProtection(app.timeout(next)))))))
		}
		identified = func(next http.Handler) http.Handler {
			return shared(app.identifyUser(app.mustIdentify(next)))
		}
	)

	mux.Handle("GET /api/healthy", shared(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/test/timeout", shared(http.HandlerFunc(app.testTimeout)))
	mux.Handle("GET /metrics", shared(app.metrics.Handler()))

	mux.Handle("POST /api/program", identified(http.HandlerFunc(app.programPOST)))
	mux.Handle("GET /api/program", identified(http.HandlerFunc(app.programGET)))
	mux.Handle("DELETE /api/program", identified(http.HandlerFunc(app.programDELETE)))
	mux.Handle("GET /api/program/today", identified(http.HandlerFunc(app.todayGET)))
	mux.Handle("GET /api/program/stats", identified(http.HandlerFunc(app.statsGET)))
	mux.Handle("GET /api/program/phase-progress", identified(http.HandlerFunc(app.phaseProgressGET)))

	mux.Handle("GET /api/program/days/{day}", identified(http.HandlerFunc(app.dayGET)))
	mux.Handle("POST /api/program/days/{day}/complete", identified(http.HandlerFunc(app.dayCompletePOST)))
	mux.Handle("POST /api/program/days/{day}/skip", identified(http.HandlerFunc(app.daySkipPOST)))
	mux.Handle("POST /api/program/days/{day}/uncomplete", identified(http.HandlerFunc(app.dayUncompletePOST)))

	mux.Handle("POST /api/program/days/{day}/exercises/{exerciseID}/complete",
		identified(http.HandlerFunc(app.exerciseCompletePOST)))
	mux.Handle("POST /api/program/days/{day}/exercises/{exerciseID}/skip",
		identified(http.HandlerFunc(app.exerciseSkipPOST)))
	mux.Handle("POST /api/program/days/{day}/exercises/{exerciseID}/notes",
		identified(http.HandlerFunc(app.exerciseNotesPOST)))

	mux.Handle("GET /api/exercises/{exerciseID}", shared(http.HandlerFunc(app.exerciseGET)))

	mux.Handle("/", shared(http.HandlerFunc(app.notFound)))

	return mux
}
