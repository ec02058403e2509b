// Package media resolves demonstration videos and images for exercises from
// public search APIs. Lookups cascade from a precise query to a broad one and
// cache the first hit, so API quota is only spent once per exercise.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dicsio100-dev/fitnavi/internal/errors"
)

const (
	defaultVideoBaseURL = "https://www.googleapis.com/youtube/v3/search"
	defaultImageBaseURL = "https://commons.wikimedia.org/w/api.php"

	requestTimeout = 5 * time.Second

	maxResponseBytes = 1 << 20
)

// ErrNotFound is returned when every query in the cascade comes up empty.
var ErrNotFound = errors.NewSentinel("no media found for exercise")

// Client looks up exercise media. Base URLs are configurable so tests can
// point it at a stub server.
type Client struct {
	httpClient   *http.Client
	logger       *slog.Logger
	apiKey       string
	videoBaseURL string
	imageBaseURL string

	mu         sync.Mutex
	videoCache map[string]string
	imageCache map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithVideoBaseURL overrides the video search endpoint.
func WithVideoBaseURL(baseURL string) Option {
	return func(c *Client) { c.videoBaseURL = baseURL }
}

// WithImageBaseURL overrides the image search endpoint.
func WithImageBaseURL(baseURL string) Option {
	return func(c *Client) { c.imageBaseURL = baseURL }
}

// NewClient creates a media client. The API key applies to the video search
// endpoint only; image search runs against an open API.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		logger:       logger,
		apiKey:       apiKey,
		videoBaseURL: defaultVideoBaseURL,
		imageBaseURL: defaultImageBaseURL,
		videoCache:   make(map[string]string),
		imageCache:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VideoURL resolves an embeddable demonstration video for an exercise name.
// The precise query runs first, the broad one only when it misses.
func (c *Client) VideoURL(ctx context.Context, exerciseName string) (string, error) {
	cleaned := cleanForSearch(exerciseName)

	c.mu.Lock()
	if cached, ok := c.videoCache[cleaned]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	for _, query := range []string{cleaned + " perfect form", cleaned + " fitness guide"} {
		videoID, err := c.searchVideo(ctx, query)
		if err != nil {
			return "", errors.Wrap(err, "search video", slog.String("query", query))
		}
		if videoID == "" {
			continue
		}
		videoURL := "https://www.youtube.com/embed/" + videoID
		c.mu.Lock()
		c.videoCache[cleaned] = videoURL
		c.mu.Unlock()
		return videoURL, nil
	}
	return "", errors.Wrap(ErrNotFound, "video cascade exhausted", slog.String("exercise", cleaned))
}

// ImageURL resolves an illustration for an exercise name from the open image
// search, cascading from the most specific file query to the bare name.
func (c *Client) ImageURL(ctx context.Context, exerciseName string) (string, error) {
	cleaned := cleanForSearch(exerciseName)

	c.mu.Lock()
	if cached, ok := c.imageCache[cleaned]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	queries := []string{
		"File:" + cleaned + " exercise",
		"File:" + cleaned + " fitness",
		"File:" + cleaned,
	}
	for _, query := range queries {
		imageURL, err := c.searchImage(ctx, query)
		if err != nil {
			return "", errors.Wrap(err, "search image", slog.String("query", query))
		}
		if imageURL == "" {
			continue
		}
		imageURL = strings.Replace(imageURL, "http://", "https://", 1)
		c.mu.Lock()
		c.imageCache[cleaned] = imageURL
		c.mu.Unlock()
		return imageURL, nil
	}
	return "", errors.Wrap(ErrNotFound, "image cascade exhausted", slog.String("exercise", cleaned))
}

func (c *Client) searchVideo(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"part":       {"snippet"},
		"maxResults": {"1"},
		"q":          {query},
		"type":       {"video"},
		"key":        {c.apiKey},
	}

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, c.videoBaseURL+"?"+params.Encode(), &payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return "", nil
	}
	return payload.Items[0].ID.VideoID, nil
}

func (c *Client) searchImage(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"prop":        {"pageimages|imageinfo"},
		"generator":   {"search"},
		"gsrsearch":   {query},
		"gsrlimit":    {"1"},
		"piprop":      {"thumbnail"},
		"pithumbsize": {"500"},
		"origin":      {"*"},
	}

	var payload struct {
		Query struct {
			Pages map[string]struct {
				Thumbnail struct {
					Source string `json:"source"`
				} `json:"thumbnail"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, c.imageBaseURL+"?"+params.Encode(), &payload); err != nil {
		return "", err
	}
	for _, page := range payload.Query.Pages {
		if page.Thumbnail.Source != "" {
			return page.Thumbnail.Source, nil
		}
	}
	return "", nil
}

func (c *Client) getJSON(ctx context.Context, requestURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// cleanForSearch lowercases the name, folds the accented characters common in
// exercise names and strips everything outside letters, digits and spaces.
func cleanForSearch(name string) string {
	lowered := strings.ToLower(name)
	folded := strings.Map(func(r rune) rune {
		if fold, ok := accentFolds[r]; ok {
			return fold
		}
		return r
	}, lowered)

	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

var accentFolds = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a', 'á': 'a', 'ã': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n',
}
