// Package store persists scan results to a SQLite database so runs can
// be inspected and compared after the fact.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/tikz/mutscan/pipeline"
)

// Store is a handle on the results database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the results database at the given path. The path
// ":memory:" yields a throwaway in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %v", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create runs table: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS results (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		name TEXT NOT NULL,
		number REAL NOT NULL,
		artifact TEXT NOT NULL,
		PRIMARY KEY (run_id, name)
	)`); err != nil {
		return nil, fmt.Errorf("create results table: %v", err)
	}

	return &Store{db: db}, nil
}

// SaveRun writes a whole result table under a new run record and returns
// the run id. The write is transactional: a failed insert leaves no
// partial run behind.
func (s *Store) SaveRun(label string, table *pipeline.Table) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %v", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (label, created_at) VALUES (?, ?)`,
		label, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert run: %v", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %v", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO results (run_id, name, number, artifact) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, name := range table.Keys() {
		v, _ := table.Get(name)
		if _, err := stmt.Exec(runID, name, v.Number, v.Artifact); err != nil {
			return 0, fmt.Errorf("insert result %q: %v", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %v", err)
	}
	return runID, nil
}

// Results loads every result of a run, keyed by result name.
func (s *Store) Results(runID int64) (map[string]pipeline.Value, error) {
	rows, err := s.db.Query(`SELECT name, number, artifact FROM results WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("select results: %v", err)
	}
	defer rows.Close()

	results := make(map[string]pipeline.Value)
	for rows.Next() {
		var name string
		var v pipeline.Value
		if err := rows.Scan(&name, &v.Number, &v.Artifact); err != nil {
			return nil, fmt.Errorf("scan result: %v", err)
		}
		results[name] = v
	}
	return results, rows.Err()
}

// Runs lists the stored run ids with their labels, oldest first.
func (s *Store) Runs() (map[int64]string, error) {
	rows, err := s.db.Query(`SELECT id, label FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %v", err)
	}
	defer rows.Close()

	runs := make(map[int64]string)
	for rows.Next() {
		var id int64
		var label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, fmt.Errorf("scan run: %v", err)
		}
		runs[id] = label
	}
	return runs, rows.Err()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
