package history_test

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/shivanikabu/agentic-governance-suite/internal/history"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

func newTestStore(t *testing.T) *history.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := history.NewStore(db)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func score(convergence float64) types.TrajectoryScore {
	return types.TrajectoryScore{Trajectory: 1, ConvergenceScore: convergence}
}

func TestStore_RecordAndQueryWindow(t *testing.T) {
	store := newTestStore(t)

	for _, s := range []float64{90, 80, 70, 60, 50} {
		if err := store.Record("run-1", "User → A", score(s)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.QueryWindow("User → A", 5)
	if err != nil {
		t.Fatalf("QueryWindow: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("QueryWindow returned %d scores, want 5", len(got))
	}
	// Inserted 90→50, so most recent first is 50.
	if got[0] != 50 {
		t.Errorf("first (most recent) score = %v, want 50", got[0])
	}
	if got[len(got)-1] != 90 {
		t.Errorf("last (oldest) score = %v, want 90", got[len(got)-1])
	}
}

func TestStore_QueryWindowRespectsLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 10; i++ {
		if err := store.Record("run-1", "User → A", score(float64(i*10))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.QueryWindow("User → A", 3)
	if err != nil {
		t.Fatalf("QueryWindow: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("QueryWindow with windowSize=3 returned %d scores, want 3", len(got))
	}
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)

	// 60, 80, 100 → mean=80, population stddev=sqrt(800/3)
	for _, v := range []float64{60, 80, 100} {
		if err := store.Record("run-1", "User → A", score(v)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	mean, stddev, count, err := store.Stats("User → A")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if math.Abs(mean-80) > 1e-9 {
		t.Errorf("mean = %v, want 80", mean)
	}
	want := math.Sqrt(800.0 / 3.0)
	if math.Abs(stddev-want) > 1e-9 {
		t.Errorf("stddev = %v, want %v", stddev, want)
	}
}

func TestStore_EmptyHistoryReturnsZeroValues(t *testing.T) {
	store := newTestStore(t)

	scores, err := store.QueryWindow("missing", 10)
	if err != nil {
		t.Fatalf("QueryWindow: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("QueryWindow for unknown path returned %d scores, want 0", len(scores))
	}

	mean, stddev, count, err := store.Stats("missing")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if count != 0 || mean != 0 || stddev != 0 {
		t.Errorf("Stats for unknown path = (%v, %v, %d), want (0, 0, 0)", mean, stddev, count)
	}
}

func TestStore_PathsIsolated(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record("run-1", "User → A", score(90)); err != nil {
		t.Fatalf("Record A: %v", err)
	}
	if err := store.Record("run-1", "User → B", score(30)); err != nil {
		t.Fatalf("Record B: %v", err)
	}
	if err := store.Record("run-2", "User → B", score(40)); err != nil {
		t.Fatalf("Record B: %v", err)
	}

	a, err := store.QueryWindow("User → A", 10)
	if err != nil {
		t.Fatalf("QueryWindow A: %v", err)
	}
	if len(a) != 1 || a[0] != 90 {
		t.Errorf("path A scores = %v, want [90]", a)
	}

	paths, err := store.Paths()
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if paths["User → A"] != 1 || paths["User → B"] != 2 {
		t.Errorf("Paths = %v", paths)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Record("run-1", "User → A", score(75)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	_, _, count, err := reopened.Stats("User → A")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if count != 1 {
		t.Errorf("count after reopen = %d, want 1", count)
	}
}
