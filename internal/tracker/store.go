// Package tracker persists the append-only log of tracked applications.
package tracker

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Fastpacer/jobcraft/internal/schema"

	_ "modernc.org/sqlite"
)

// PersistenceError reports a storage write or read failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("application store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the persistence contract for tracked applications.
type Store interface {
	Save(ctx context.Context, app *schema.Application) error
	List(ctx context.Context) ([]schema.Application, error)
}

const createTableStmt = `
CREATE TABLE IF NOT EXISTS applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT,
	job_title TEXT NOT NULL,
	company TEXT NOT NULL,
	fit_score INTEGER,
	status TEXT NOT NULL DEFAULT 'discovered',
	outreach_message TEXT,
	applied_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL
)`

// SQLStore keeps applications in a relational database. Every insert is its
// own statement; rows are never updated or deleted.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the sqlite database at path and ensures the
// applications table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}

	store := NewSQLStore(db)
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// NewSQLStore wraps an existing database handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// InitSchema creates the applications table if it does not exist.
func (s *SQLStore) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableStmt); err != nil {
		return &PersistenceError{Op: "init", Err: err}
	}
	return nil
}

// Save inserts one application row.
func (s *SQLStore) Save(ctx context.Context, app *schema.Application) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (job_id, job_title, company, fit_score, status, outreach_message, applied_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		app.JobID,
		app.JobTitle,
		app.Company,
		app.FitScore,
		app.Status,
		app.OutreachMessage,
		app.AppliedAt,
		app.CreatedAt,
	)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// List returns all stored applications, oldest first.
func (s *SQLStore) List(ctx context.Context) ([]schema.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, job_title, company, fit_score, status, outreach_message, applied_at, created_at
		FROM applications ORDER BY id`)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()

	var apps []schema.Application
	for rows.Next() {
		var app schema.Application
		var jobID, message sql.NullString
		var fitScore sql.NullInt64
		var appliedAt sql.NullTime

		if err := rows.Scan(&app.ID, &jobID, &app.JobTitle, &app.Company, &fitScore, &app.Status, &message, &appliedAt, &app.CreatedAt); err != nil {
			return nil, &PersistenceError{Op: "list", Err: err}
		}

		app.JobID = jobID.String
		app.OutreachMessage = message.String
		app.FitScore = int(fitScore.Int64)
		if appliedAt.Valid {
			t := appliedAt.Time
			app.AppliedAt = &t
		}

		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}

	return apps, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
