package report

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/turtacn/MolTopo/pkg/errors"
)

// schema contains the DDL executed on every open.  IF NOT EXISTS makes it
// safe to append runs to an existing database.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id          TEXT PRIMARY KEY,
    mdf_path        TEXT NOT NULL,
    param_path      TEXT NOT NULL,
    generated_at    TIMESTAMP NOT NULL,
    atoms           INTEGER NOT NULL,
    bonds           INTEGER NOT NULL,
    angles          INTEGER NOT NULL,
    dihedrals       INTEGER NOT NULL,
    found           INTEGER NOT NULL,
    missing         INTEGER NOT NULL,
    errored         INTEGER NOT NULL,
    skipped_records INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS verdicts (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL REFERENCES runs(run_id),
    category    TEXT NOT NULL,
    parameters  TEXT NOT NULL,
    found       INTEGER NOT NULL,
    line_number INTEGER,
    error       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_verdicts_run ON verdicts(run_id);
`

// SQLiteSink appends check runs to a local SQLite database so repeated runs
// over the same inputs can be compared after the fact.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteSink(ctx context.Context, path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReportStore, "failed to open report database").
			WithDetail("path=" + path)
	}

	// SQLite supports a single writer; one pooled connection avoids
	// SQLITE_BUSY contention.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeReportStore, "failed to enable WAL mode")
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeReportStore, "failed to set busy timeout")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeReportStore, "failed to create report schema")
	}

	return &SQLiteSink{db: db}, nil
}

// Store writes the run row and its verdicts in one transaction.
func (s *SQLiteSink) Store(ctx context.Context, report *Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeReportStore, "failed to begin report transaction")
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const runQ = `
		INSERT INTO runs (run_id, mdf_path, param_path, generated_at,
			atoms, bonds, angles, dihedrals, found, missing, errored, skipped_records)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	sum := report.Summary
	if _, err := tx.ExecContext(ctx, runQ,
		report.RunID, report.MDFPath, report.ParamPath, report.GeneratedAt.UTC(),
		sum.Atoms, sum.Bonds, sum.Angles, sum.Dihedrals,
		sum.Found, sum.Missing, sum.Errored, sum.SkippedRecords,
	); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportStore, "failed to insert run").
			WithDetail("run_id=" + report.RunID)
	}

	const verdictQ = `
		INSERT INTO verdicts (run_id, category, parameters, found, line_number, error)
		VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, verdictQ)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeReportStore, "failed to prepare verdict insert")
	}
	defer stmt.Close()

	for _, v := range report.Verdicts {
		var line sql.NullInt64
		if v.LineNumber != nil {
			line = sql.NullInt64{Int64: int64(*v.LineNumber), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			report.RunID, v.Category.String(), v.ParamString(), v.Found, line, v.Error,
		); err != nil {
			return errors.Wrap(err, errors.ErrCodeReportStore, "failed to insert verdict").
				WithDetail("parameters=" + v.ParamString())
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportStore, "failed to commit report")
	}
	return nil
}

// RunCount returns the number of stored runs.
func (s *SQLiteSink) RunCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeReportStore, "failed to count runs")
	}
	return n, nil
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
