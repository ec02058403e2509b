// Package coach turns session events into spoken-style feedback lines and
// produces exercise briefings through an LLM. It subscribes to the workout
// service and never blocks or fails a session transition.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dicsio100-dev/fitnavi/internal/workout"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// recentLineLimit bounds the per-user feedback feed.
	recentLineLimit = 20

	briefingSystemPrompt = "You are a concise strength coach. Answer in Markdown with short sections " +
		"covering setup, execution and common mistakes. Keep it under 200 words."
)

// Line is one piece of feedback tied to a session event.
type Line struct {
	Kind workout.EventKind `json:"kind"`
	Text string            `json:"text"`
	At   time.Time         `json:"at"`
}

// Service holds the LLM client and the per-user feedback feeds.
type Service struct {
	client  openai.Client
	enabled bool
	logger  *slog.Logger

	mu        sync.Mutex
	lines     map[string][]Line
	briefings map[string]string
}

// NewService creates a coach. An empty API key disables the LLM paths; the
// canned feedback lines keep working regardless.
func NewService(apiKey string, logger *slog.Logger) *Service {
	s := &Service{
		logger:    logger,
		lines:     make(map[string][]Line),
		briefings: make(map[string]string),
	}
	if apiKey != "" {
		s.client = openai.NewClient(option.WithAPIKey(apiKey))
		s.enabled = true
	}
	return s
}

// HandleEvent satisfies the workout subscriber contract.
func (s *Service) HandleEvent(_ context.Context, userID string, event workout.Event) {
	text := lineFor(event)
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	feed := append(s.lines[userID], Line{Kind: event.Kind, Text: text, At: time.Now()})
	if len(feed) > recentLineLimit {
		feed = feed[len(feed)-recentLineLimit:]
	}
	s.lines[userID] = feed
}

// RecentLines returns the newest feedback lines for a user, oldest first.
func (s *Service) RecentLines(userID string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	feed := s.lines[userID]
	out := make([]Line, len(feed))
	copy(out, feed)
	return out
}

// lineFor maps an event to the canned feedback text.
func lineFor(event workout.Event) string {
	switch event.Kind {
	case workout.EventSetValidated:
		return fmt.Sprintf("Set %d done on %s. Nice work.", event.SetNumber, event.Exercise.Name)
	case workout.EventRestStarted:
		return "Breathe. Rest is part of the work."
	case workout.EventRestFinished:
		return fmt.Sprintf("Rest is up. Back to %s.", event.Exercise.Name)
	case workout.EventExerciseAdvanced:
		return fmt.Sprintf("Moving on to %s.", event.Exercise.Name)
	case workout.EventWeightReduced:
		return fmt.Sprintf("Dropped to %.2f kg. Form beats load.", event.WeightKg)
	case workout.EventSessionCompleted:
		return "Session complete. That is how records are built."
	case workout.EventPaused:
		return "Paused. Take the time you need."
	case workout.EventResumed:
		return "Back at it."
	default:
		return ""
	}
}

// ExerciseBriefing returns a Markdown briefing for an exercise, asking the
// LLM once and caching the answer. Without an API key, or when the call
// fails, it falls back to the catalog tip so the endpoint always serves
// something useful.
func (s *Service) ExerciseBriefing(ctx context.Context, exercise workout.Exercise) (string, error) {
	s.mu.Lock()
	if cached, ok := s.briefings[exercise.ID]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	briefing := fallbackBriefing(exercise)
	if s.enabled {
		generated, err := s.generateBriefing(ctx, exercise)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "exercise briefing generation failed",
				slog.String("exercise_id", exercise.ID),
				slog.String("error", err.Error()))
		} else {
			briefing = generated
		}
	}

	s.mu.Lock()
	s.briefings[exercise.ID] = briefing
	s.mu.Unlock()
	return briefing, nil
}

func (s *Service) generateBriefing(ctx context.Context, exercise workout.Exercise) (string, error) {
	prompt := fmt.Sprintf("Explain how to perform %s (targets: %s, equipment: %s).",
		exercise.Name, exercise.Target, exercise.Equipment)

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(briefingSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completion returned no content")
	}
	return completion.Choices[0].Message.Content, nil
}

func fallbackBriefing(exercise workout.Exercise) string {
	briefing := fmt.Sprintf("## %s\n\nTargets: %s.\n", exercise.Name, exercise.Target)
	if exercise.Tip != "" {
		briefing += fmt.Sprintf("\n**Tip:** %s\n", exercise.Tip)
	}
	return briefing
}
