package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/dicsio100-dev/fitnavi/internal/errors"
	"github.com/dicsio100-dev/fitnavi/internal/media"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
	"github.com/yuin/goldmark"
)

// mediaResolver abstracts the media client so handlers can be tested without
// outbound HTTP calls.
type mediaResolver interface {
	VideoURL(ctx context.Context, exerciseName string) (string, error)
	ImageURL(ctx context.Context, exerciseName string) (string, error)
}

func newMediaClient(youtubeAPIKey string, logger *slog.Logger) mediaResolver {
	if youtubeAPIKey == "" {
		return disabledMedia{}
	}
	return media.NewClient(youtubeAPIKey, logger)
}

// disabledMedia serves deployments without a YouTube API key. Every lookup
// misses so the info endpoint answers with briefing text only.
type disabledMedia struct{}

func (disabledMedia) VideoURL(context.Context, string) (string, error) {
	return "", media.ErrNotFound
}

func (disabledMedia) ImageURL(context.Context, string) (string, error) {
	return "", media.ErrNotFound
}

// exercisesGET returns the reference catalog.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.workoutService.Exercises())
}

type exerciseInfoResponse struct {
	Exercise workout.Exercise `json:"exercise"`
	// Briefing is the coaching text in Markdown, BriefingHTML its rendered
	// form.
	Briefing     string `json:"briefing"`
	BriefingHTML string `json:"briefing_html"`
	VideoURL     string `json:"video_url,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

// exerciseInfoGET serves the briefing plus demonstration media for one
// exercise. Media lookups are best effort; a miss leaves the field empty
// rather than failing the request.
func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	exercise, ok := workout.FindExercise(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	briefing, err := app.coachService.ExerciseBriefing(r.Context(), exercise)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	var rendered bytes.Buffer
	if err := goldmark.Convert([]byte(briefing), &rendered); err != nil {
		app.serverError(w, r, errors.Wrap(err, "render briefing"))
		return
	}

	resp := exerciseInfoResponse{
		Exercise:     exercise,
		Briefing:     briefing,
		BriefingHTML: rendered.String(),
	}
	if videoURL, err := app.mediaClient.VideoURL(r.Context(), exercise.Name); err == nil {
		resp.VideoURL = videoURL
	} else if !errors.Is(err, media.ErrNotFound) {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "video lookup failed", errors.SlogError(err))
	}
	if imageURL, err := app.mediaClient.ImageURL(r.Context(), exercise.Name); err == nil {
		resp.ImageURL = imageURL
	} else if !errors.Is(err, media.ErrNotFound) {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "image lookup failed", errors.SlogError(err))
	}

	app.writeJSON(w, r, http.StatusOK, resp)
}
