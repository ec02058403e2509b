package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/dicsio100-dev/fitnavi/internal/coach"
	"github.com/dicsio100-dev/fitnavi/internal/envstruct"
	"github.com/dicsio100-dev/fitnavi/internal/errors"
	"github.com/dicsio100-dev/fitnavi/internal/flightrecorder"
	"github.com/dicsio100-dev/fitnavi/internal/logging"
	"github.com/dicsio100-dev/fitnavi/internal/sqlite"
	"github.com/dicsio100-dev/fitnavi/internal/workout"
	"golang.org/x/sync/errgroup"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	workoutService *workout.Service
	coachService   *coach.Service
	mediaClient    mediaResolver
	recorder       *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITNAVI_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITNAVI_SQLITE_URL" envDefault:"./fitnavi.sqlite3"`
	// OpenAIAPIKey enables the LLM-backed exercise briefings when set.
	OpenAIAPIKey string `env:"FITNAVI_OPENAI_API_KEY" envDefault:""`
	// YouTubeAPIKey enables demonstration video lookups when set.
	YouTubeAPIKey string `env:"FITNAVI_YOUTUBE_API_KEY" envDefault:""`
	// TracesDirectory is where slow-request flight recordings are written.
	TracesDirectory string `env:"FITNAVI_TRACES_DIR" envDefault:"./traces"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	recorder, err := flightrecorder.New(logger, cfg.TracesDirectory)
	if err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	// The recorder is process-global; release it on shutdown so the next
	// start in the same process does not fail.
	defer recorder.Stop()

	workoutService := workout.NewService(db, logger, newShuffleSource())
	coachService := coach.NewService(cfg.OpenAIAPIKey, logger)
	workoutService.Subscribe(coachService.HandleEvent)

	app := application{
		logger:         logger,
		sessionManager: initializeSessionManager(db),
		workoutService: workoutService,
		coachService:   coachService,
		mediaClient:    newMediaClient(cfg.YouTubeAPIKey, logger),
		recorder:       recorder,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := workoutService.RunTicker(ctx); !errors.Is(err, context.Canceled) {
			return errors.Wrap(err, "session ticker")
		}
		return nil
	})
	g.Go(func() error {
		if err := app.configureAndStartServer(ctx, cfg.Addr); err != nil {
			return errors.Wrap(err, "start server")
		}
		return nil
	})
	return g.Wait()
}

// newShuffleSource seeds the random source behind the fat-loss shuffle.
func newShuffleSource() *rand.Rand {
	now := time.Now()
	return rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(now.Unix())))
}

func initializeSessionManager(db *sqlite.Database) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = 30 * 24 * time.Hour                                          //nolint:mnd // month
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
