// Package store handles SQLite persistence of tally runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/letterfreq/internal/model"
	"github.com/verte-zerg/letterfreq/internal/tally"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout keeps created_at fixed-width so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			input TEXT NOT NULL,
			policy TEXT NOT NULL,
			total INTEGER NOT NULL,
			skipped INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_letters (
			run_id INTEGER NOT NULL,
			letter TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, letter)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a tally and its per-letter counts.
func (s *Store) InsertRun(ctx context.Context, run model.Run, counts tally.Counts) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, input, policy, total, skipped) VALUES (?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(timeLayout),
		run.Input,
		run.Policy,
		counts.Total,
		counts.Skipped,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_letters (run_id, letter, count) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, letter := range tally.Letters() {
		if _, err = stmt.ExecContext(ctx, id, string(letter), counts.Letters[i]); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns stored runs, newest first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, input, policy, total, skipped
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun loads a stored run and rebuilds its counts.
func (s *Store) GetRun(ctx context.Context, id int64) (model.Run, tally.Counts, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, input, policy, total, skipped FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Run{}, tally.Counts{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
		}
		return model.Run{}, tally.Counts{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT letter, count FROM run_letters WHERE run_id = ?`, id)
	if err != nil {
		return model.Run{}, tally.Counts{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	counts := tally.Counts{Total: run.Total, Skipped: run.Skipped}
	for rows.Next() {
		var letter string
		var count int
		if err := rows.Scan(&letter, &count); err != nil {
			return model.Run{}, tally.Counts{}, err
		}
		if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
			return model.Run{}, tally.Counts{}, fmt.Errorf("invalid stored letter %q", letter)
		}
		counts.Letters[letter[0]-'a'] = count
	}
	if err := rows.Err(); err != nil {
		return model.Run{}, tally.Counts{}, err
	}
	return run, counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (model.Run, error) {
	var run model.Run
	var createdAt string
	if err := sc.Scan(&run.ID, &createdAt, &run.Input, &run.Policy, &run.Total, &run.Skipped); err != nil {
		return model.Run{}, err
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		// Rows written before the fixed-width layout.
		parsed, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return model.Run{}, err
		}
	}
	run.CreatedAt = parsed
	return run, nil
}
