// Package history persists trajectory scores across analysis runs so that a
// path's latest score can be judged against its own track record.
package history

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// Store is a SQLite-backed store of trajectory score history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore creates the trajectory_scores table and index if they don't exist,
// then returns a Store backed by db.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trajectory_scores (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id             TEXT    NOT NULL,
			path_key           TEXT    NOT NULL,
			trajectory         INTEGER NOT NULL,
			convergence        REAL    NOT NULL,
			goal_achievement   REAL    NOT NULL,
			cost_efficiency    REAL    NOT NULL,
			latency_efficiency REAL    NOT NULL,
			total_cost         REAL    NOT NULL,
			total_latency      REAL    NOT NULL,
			total_tokens       INTEGER NOT NULL,
			created_at         INTEGER NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("create trajectory_scores table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_trajectory_scores_path_ts
		ON trajectory_scores (path_key, created_at)
	`); err != nil {
		return nil, fmt.Errorf("create trajectory_scores index: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one trajectory score of run runID under pathKey.
func (s *Store) Record(runID, pathKey string, score types.TrajectoryScore) error {
	_, err := s.db.Exec(
		`INSERT INTO trajectory_scores (
			run_id, path_key, trajectory, convergence, goal_achievement, cost_efficiency,
			latency_efficiency, total_cost, total_latency, total_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, pathKey, score.Trajectory, score.ConvergenceScore, score.GoalAchievement, score.CostEfficiency,
		score.LatencyEfficiency, score.Cost, score.Latency, score.Tokens, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record trajectory score: %w", err)
	}
	return nil
}

// QueryWindow returns the last windowSize convergence scores recorded for
// pathKey, most recent first.
func (s *Store) QueryWindow(pathKey string, windowSize int) ([]float64, error) {
	rows, err := s.db.Query(
		`SELECT convergence FROM trajectory_scores
		 WHERE path_key = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		pathKey, windowSize,
	)
	if err != nil {
		return nil, fmt.Errorf("query window: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query window rows: %w", err)
	}
	return scores, nil
}

// Stats computes the mean, population standard deviation, and count of all
// convergence scores for pathKey. Returns zero values when no rows exist.
func (s *Store) Stats(pathKey string) (mean float64, stddev float64, count int, err error) {
	row := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(convergence), 0.0) FROM trajectory_scores WHERE path_key = ?`,
		pathKey,
	)
	if err = row.Scan(&count, &mean); err != nil {
		return 0, 0, 0, fmt.Errorf("stats query: %w", err)
	}
	if count == 0 {
		return 0, 0, 0, nil
	}

	// SQLite lacks STDDEV_POP.
	var meanSq float64
	row = s.db.QueryRow(
		`SELECT AVG((convergence - ?) * (convergence - ?)) FROM trajectory_scores WHERE path_key = ?`,
		mean, mean, pathKey,
	)
	if err = row.Scan(&meanSq); err != nil {
		return 0, 0, 0, fmt.Errorf("stats variance query: %w", err)
	}
	return mean, math.Sqrt(meanSq), count, nil
}

// Paths returns every recorded path key with the number of scores stored for it.
func (s *Store) Paths() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT path_key, COUNT(*) FROM trajectory_scores GROUP BY path_key`)
	if err != nil {
		return nil, fmt.Errorf("query paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query paths rows: %w", err)
	}
	return paths, nil
}
