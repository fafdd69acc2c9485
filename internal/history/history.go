// Package history keeps a log of served predictions so operators can audit
// what the model returned for which inputs. It is write-behind: a failed
// insert is logged, never surfaced to the caller.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/telephonyinc/incident-forecaster/internal/inference"
	"github.com/telephonyinc/incident-forecaster/internal/types"
)

// Store persists prediction history in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database inside the data
// directory and applies the schema.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "predictions.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		assignment_group TEXT NOT NULL,
		p1 REAL NOT NULL,
		p2 REAL NOT NULL,
		p3 REAL NOT NULL,
		p4 REAL NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_predictions_group ON predictions(assignment_group);
	`

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return nil
}

// Record stores one served prediction and returns its generated ID.
func (s *Store) Record(date, group string, dist inference.Distribution) (string, error) {
	id := uuid.New().String()

	_, err := s.db.Exec(
		`INSERT INTO predictions (id, date, assignment_group, p1, p2, p3, p4) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, date, group, dist["P1"], dist["P2"], dist["P3"], dist["P4"],
	)
	if err != nil {
		return "", fmt.Errorf("failed to record prediction: %w", err)
	}
	return id, nil
}

// Recent returns the newest predictions, most recent first.
func (s *Store) Recent(limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, date, assignment_group, p1, p2, p3, p4, created_at
		 FROM predictions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction history: %w", err)
	}
	defer rows.Close()

	entries := make([]types.HistoryEntry, 0, limit)
	for rows.Next() {
		var e types.HistoryEntry
		var p1, p2, p3, p4 float64
		if err := rows.Scan(&e.ID, &e.Date, &e.AssignmentGroup, &p1, &p2, &p3, &p4, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		e.Predictions = map[string]float64{"P1": p1, "P2": p2, "P3": p3, "P4": p4}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of recorded predictions.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
