package logbook

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/vibefit/internal/telemetry/metrics"
	"github.com/2beens/vibefit/internal/workout"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Logbook is the remote copy of the workout log. Appends are best effort: the
// session keeps its local log whatever happens here.
type Logbook struct {
	targets        map[workout.Mode]*Multi
	warning        string
	metricsManager *metrics.Manager
}

// New builds a logbook over the given per-mode targets. A logbook without any
// target is unavailable: it warns once here and every Append is a no-op.
func New(targets map[workout.Mode]*Multi, warning string, metricsManager *metrics.Manager) *Logbook {
	l := &Logbook{
		targets:        map[workout.Mode]*Multi{},
		warning:        warning,
		metricsManager: metricsManager,
	}
	for mode, multi := range targets {
		if multi != nil && multi.Len() > 0 {
			l.targets[mode] = multi
		}
	}

	if !l.Available() {
		if l.warning == "" {
			l.warning = "no remote workout log configured"
		}
		log.Warnf("logbook unavailable, running local-only: %s", l.warning)
	} else if l.warning != "" {
		log.Warnf("logbook degraded: %s", l.warning)
	}

	return l
}

// Available reports whether appends reach at least one remote store.
func (l *Logbook) Available() bool {
	return len(l.targets) > 0
}

// Warning is the construction-time problem to show the user, empty if none.
func (l *Logbook) Warning() string {
	return l.warning
}

// Append writes the entry to the targets of mode. It returns the combined
// *PersistenceError failures; an unavailable logbook always returns nil.
func (l *Logbook) Append(ctx context.Context, mode workout.Mode, entry workout.LogEntry) error {
	multi, ok := l.targets[mode]
	if !ok {
		return nil
	}

	err := multi.Append(ctx, entry)
	for _, appendErr := range multierr.Errors(err) {
		var pErr *PersistenceError
		store := "unknown"
		if errors.As(appendErr, &pErr) {
			store = pErr.Store
		}
		l.metricsManager.CounterPersistenceFailures.WithLabelValues(store).Inc()
		log.Warnf("logbook append [%s]: %s", mode, appendErr)
	}

	return err
}

type OpenParams struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	CoachRange      string
	QuickRange      string
	Location        *time.Location
	// DB enables the postgres mirror when set
	DB             *pgxpool.Pool
	SheetsEndpoint string
	HTTPClient     *http.Client
	MetricsManager *metrics.Manager
}

// Open wires the spreadsheet and the optional postgres mirror. Failing to open
// a store is not an error: the logbook degrades, down to local-only.
func Open(ctx context.Context, params OpenParams) *Logbook {
	coachTargets := NewMulti()
	quickTargets := NewMulti()
	warning := ""

	sheetsService, err := OpenSheets(ctx, SheetsParams{
		CredentialsJSON: params.CredentialsJSON,
		SpreadsheetID:   params.SpreadsheetID,
		Endpoint:        params.SheetsEndpoint,
		HTTPClient:      params.HTTPClient,
	})
	if err != nil {
		warning = "spreadsheet unavailable: " + err.Error()
	} else {
		coachTargets.appenders = append(coachTargets.appenders,
			NewSheetsAppender(sheetsService, params.SpreadsheetID, params.CoachRange, CoachRow, params.Location),
		)
		quickTargets.appenders = append(quickTargets.appenders,
			NewSheetsAppender(sheetsService, params.SpreadsheetID, params.QuickRange, QuickRow, params.Location),
		)
	}

	if params.DB != nil {
		if err := EnsureSchema(ctx, params.DB); err != nil {
			log.Errorf("postgres mirror disabled: %s", err)
		} else {
			coachTargets.appenders = append(coachTargets.appenders, NewPostgresAppender(params.DB, workout.ModeCoach))
			quickTargets.appenders = append(quickTargets.appenders, NewPostgresAppender(params.DB, workout.ModeQuick))
		}
	}

	return New(
		map[workout.Mode]*Multi{
			workout.ModeCoach: coachTargets,
			workout.ModeQuick: quickTargets,
		},
		warning,
		params.MetricsManager,
	)
}
