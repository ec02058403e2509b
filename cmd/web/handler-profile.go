package main

import (
	"net/http"

	"github.com/dicsio100-dev/fitnavi/internal/contexthelpers"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
)

// profileGET returns the stored profile including personal records.
func (app *application) profileGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	profile, err := app.workoutService.GetProfile(r.Context(), userID)
	if err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, profile)
}

// profilePOST upserts the profile used for plan generation.
func (app *application) profilePOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.UserID(r.Context())

	var profile workout.Profile
	if err := readJSON(w, r, &profile); err != nil {
		app.clientError(w, r, http.StatusBadRequest, err)
		return
	}
	// Records are settled by completed sessions, never posted directly.
	profile.PersonalRecords = nil

	if err := app.workoutService.SaveProfile(r.Context(), userID, profile); err != nil {
		app.workoutError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, profile)
}
