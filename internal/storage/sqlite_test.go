package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/merge2048/internal/stats"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession(id string, score, moves, maxTile int, won bool) stats.Session {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return stats.Session{
		ID:        id,
		Score:     score,
		Moves:     moves,
		MaxTile:   maxTile,
		Won:       won,
		StartedAt: start,
		EndedAt:   start.Add(time.Duration(moves) * time.Second),
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndLoadSessions(t *testing.T) {
	store := openTestStore(t)

	want := testSession("s1", 2500, 200, 256, false)
	if err := store.SaveSession(want); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	sessions, err := store.AllSessions()
	if err != nil {
		t.Fatalf("AllSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}

	got := sessions[0]
	if got.ID != want.ID || got.Score != want.Score || got.Moves != want.Moves ||
		got.MaxTile != want.MaxTile || got.Won != want.Won {
		t.Errorf("loaded session = %+v, want %+v", got, want)
	}
	if !got.StartedAt.Equal(want.StartedAt) || !got.EndedAt.Equal(want.EndedAt) {
		t.Errorf("loaded times = %s..%s, want %s..%s",
			got.StartedAt, got.EndedAt, want.StartedAt, want.EndedAt)
	}
}

func TestSaveSessionDuplicateID(t *testing.T) {
	store := openTestStore(t)

	sess := testSession("dup", 100, 10, 16, false)
	if err := store.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := store.SaveSession(sess); err == nil {
		t.Error("SaveSession() with duplicate ID succeeded")
	}
}

func TestTopSessionsOrdering(t *testing.T) {
	store := openTestStore(t)

	scores := []int{500, 3000, 1200, 8000, 50}
	for i, score := range scores {
		sess := testSession("s"+string(rune('a'+i)), score, 100, 128, false)
		if err := store.SaveSession(sess); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	top, err := store.TopSessions(3)
	if err != nil {
		t.Fatalf("TopSessions() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d sessions, want 3", len(top))
	}

	want := []int{8000, 3000, 1200}
	for i, sess := range top {
		if sess.Score != want[i] {
			t.Errorf("top[%d].Score = %d, want %d", i, sess.Score, want[i])
		}
	}
}

func TestBestScore(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore()
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("BestScore() on empty store = %d, want 0", best)
	}

	for i, score := range []int{400, 9000, 2000} {
		sess := testSession("s"+string(rune('a'+i)), score, 100, 128, false)
		if err := store.SaveSession(sess); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	best, err = store.BestScore()
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 9000 {
		t.Errorf("BestScore() = %d, want 9000", best)
	}
}

func TestClearSessions(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveSession(testSession("s1", 100, 10, 16, false)); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := store.ClearSessions(); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}

	sessions, err := store.AllSessions()
	if err != nil {
		t.Fatalf("AllSessions() failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions after clear, want 0", len(sessions))
	}
}
