// Package postgres stores finished screening reports in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/report"
	_ "github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS screening_reports (
	session_id  TEXT PRIMARY KEY,
	phase       TEXT NOT NULL,
	profile     JSONB NOT NULL,
	answers     JSONB NOT NULL,
	report      TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
)`

const upsert = `INSERT INTO screening_reports
	(session_id, phase, profile, answers, report, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (session_id) DO UPDATE SET
	phase = EXCLUDED.phase,
	profile = EXCLUDED.profile,
	answers = EXCLUDED.answers,
	report = EXCLUDED.report,
	finished_at = EXCLUDED.finished_at`

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Writer implements ports.PersistenceWriter.
type Writer struct {
	db Execer
}

// Open connects with the lib/pq driver and makes sure the table exists.
func Open(ctx context.Context, url string) (*Writer, *sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("error reaching db: %w", err)
	}
	w := NewWriter(db)
	if err := w.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return w, db, nil
}

// NewWriter wraps an existing connection.
func NewWriter(db Execer) *Writer {
	return &Writer{db: db}
}

// Migrate creates the reports table.
func (w *Writer) Migrate(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create screening_reports: %w", err)
	}
	return nil
}

// Flush upserts one row per session.
func (w *Writer) Flush(ctx context.Context, state *domain.SessionState) error {
	profile, err := json.Marshal(state.Profile.Map())
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	answers, err := json.Marshal(state.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	_, err = w.db.ExecContext(ctx, upsert,
		state.SessionID,
		string(state.Phase),
		string(profile),
		string(answers),
		report.Format(state),
		state.StartedAt,
		state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}
