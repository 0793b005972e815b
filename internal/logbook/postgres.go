package logbook

import (
	"context"
	"fmt"

	"github.com/2beens/vibefit/internal/telemetry/tracing"
	"github.com/2beens/vibefit/internal/workout"

	"github.com/jackc/pgx/v5/pgconn"
)

const Schema = `
CREATE TABLE IF NOT EXISTS workout_set (
    id         SERIAL PRIMARY KEY,
    mode       TEXT         NOT NULL,
    exercise   TEXT         NOT NULL,
    weight     NUMERIC(7,2) NOT NULL,
    reps       INTEGER      NOT NULL,
    rpe        SMALLINT     NOT NULL,
    failure    BOOLEAN      NOT NULL,
    created_at TIMESTAMPTZ  NOT NULL
);`

type pgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresAppender mirrors the workout log into the workout_set table.
type PostgresAppender struct {
	db   pgExecer
	mode workout.Mode
}

func NewPostgresAppender(db pgExecer, mode workout.Mode) *PostgresAppender {
	return &PostgresAppender{
		db:   db,
		mode: mode,
	}
}

func EnsureSchema(ctx context.Context, db pgExecer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create workout_set table: %w", err)
	}
	return nil
}

func (a *PostgresAppender) Name() string {
	return "postgres"
}

func (a *PostgresAppender) Append(ctx context.Context, entry workout.LogEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logbook.postgres.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := a.db.Exec(
		ctx,
		`INSERT INTO workout_set
				(mode, exercise, weight, reps, rpe, failure, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		a.mode.String(), entry.Exercise, entry.Weight, entry.Reps, entry.RPE, entry.Failure, entry.Timestamp,
	)
	if err != nil {
		return &PersistenceError{Store: a.Name(), Err: err}
	}
	if tag.RowsAffected() != 1 {
		return &PersistenceError{
			Store: a.Name(),
			Err:   fmt.Errorf("unexpected rows affected: %d", tag.RowsAffected()),
		}
	}

	return nil
}
