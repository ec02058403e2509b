package main

import "net/http"

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(next))))
		}
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(shared(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.identify(shared(next)))))
		}
	)

	mux.Handle("GET /api/healthy", noAuth(http.HandlerFunc(app.healthy)))

	mux.Handle("GET /api/profile", session(http.HandlerFunc(app.profileGET)))
	mux.Handle("POST /api/profile", session(http.HandlerFunc(app.profilePOST)))

	mux.Handle("POST /api/sessions", session(http.HandlerFunc(app.sessionStartPOST)))
	mux.Handle("GET /api/sessions/current", session(http.HandlerFunc(app.sessionStateGET)))
	mux.Handle("DELETE /api/sessions/current", session(http.HandlerFunc(app.sessionAbandonDELETE)))
	mux.Handle("POST /api/sessions/current/validate-set", session(http.HandlerFunc(app.sessionValidateSetPOST)))
	mux.Handle("POST /api/sessions/current/skip-rest", session(http.HandlerFunc(app.sessionSkipRestPOST)))
	mux.Handle("POST /api/sessions/current/too-hard", session(http.HandlerFunc(app.sessionTooHardPOST)))
	mux.Handle("POST /api/sessions/current/pause", session(http.HandlerFunc(app.sessionPausePOST)))
	mux.Handle("POST /api/sessions/current/resume", session(http.HandlerFunc(app.sessionResumePOST)))
	mux.Handle("POST /api/sessions/current/sync", session(http.HandlerFunc(app.sessionSyncPOST)))

	mux.Handle("GET /api/exercises", session(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /api/exercises/{id}/info", session(http.HandlerFunc(app.exerciseInfoGET)))

	mux.Handle("GET /api/records", session(http.HandlerFunc(app.recordsGET)))
	mux.Handle("GET /api/logs", session(http.HandlerFunc(app.logsGET)))
	mux.Handle("GET /api/progress", session(http.HandlerFunc(app.progressGET)))
	mux.Handle("GET /api/coach/feed", session(http.HandlerFunc(app.coachFeedGET)))

	return mux
}
