package main

import (
	"net/http"

	"github.com/dicsio100-dev/fitnavi/internal/contexthelpers"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
)

// recordsGET returns the personal-record mapping.
func (app *application) recordsGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	records, err := app.workoutService.PersonalRecords(r.Context(), userID)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, records)
}

// logsGET returns the recent completed-session history, newest first.
func (app *application) logsGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	logs, err := app.workoutService.WorkoutLogs(r.Context(), userID)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	if logs == nil {
		logs = []workout.WorkoutLogEntry{}
	}
	app.writeJSON(w, r, http.StatusOK, logs)
}

// progressGET returns the persisted XP totals.
func (app *application) progressGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	progress, err := app.workoutService.Progress(r.Context(), userID)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, progress)
}

// coachFeedGET returns the recent coach feedback lines for the user.
func (app *application) coachFeedGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())
	app.writeJSON(w, r, http.StatusOK, app.coachService.RecentLines(userID))
}
