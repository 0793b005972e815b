package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/vibefit/internal/coach"
	"github.com/2beens/vibefit/internal/config"
	"github.com/2beens/vibefit/internal/gymlog"
	"github.com/2beens/vibefit/internal/logbook"
	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/telemetry/metrics"
	"github.com/2beens/vibefit/internal/workout"
	"github.com/2beens/vibefit/pkg"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// OpenEnv builds the terminal env from the TOML config and the environment.
// Sessions always go to the SQLite file named by sqlite_path.
func OpenEnv(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.Env, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	secrets, err := config.LoadSecrets(os.Getenv)
	if err != nil {
		return nil, err
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if opts.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	// metrics are not exported from the terminal, the manager only keeps the service happy
	metricsManager := metrics.NewManager("vibefit", "cli", prometheus.NewRegistry())

	if err := pkg.EnsureDir(filepath.Dir(cfg.SQLitePath)); err != nil {
		return nil, fmt.Errorf("sqlite session store dir: %w", err)
	}
	store, err := session.OpenSQLiteStore(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite session store: %w", err)
	}

	geminiModel, err := coach.NewGeminiModel(ctx, coach.GeminiParams{
		APIKey:  secrets.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("new gemini model: %w", err)
	}

	book := logbook.Open(ctx, logbook.OpenParams{
		SpreadsheetID:   cfg.SpreadsheetID,
		CredentialsJSON: secrets.ServiceAccountJSON,
		CoachRange:      cfg.CoachSheetRange,
		QuickRange:      cfg.QuickSheetRange,
		Location:        cfg.Location(),
		MetricsManager:  metricsManager,
	})

	return &Env{
		Service: gymlog.NewService(gymlog.ServiceParams{
			Controller:     workout.NewController(workout.MenuFromConfig(cfg.Menu)),
			Logbook:        book,
			Coach:          coach.NewCoach(geminiModel, metricsManager),
			MetricsManager: metricsManager,
			RestOptions:    cfg.RestDurations(),
			DefaultRest:    cfg.DefaultRestDuration(),
		}),
		Sessions: session.NewManager(store, func() *coach.Conversation {
			return coach.NewConversation(cfg.GeminiModel, coach.SystemPrompt)
		}),
		Close: store.Close,
	}, nil
}
