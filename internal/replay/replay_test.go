package replay

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/merge2048/internal/board"
	"github.com/vovakirdan/merge2048/internal/game"
)

func testConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Seed = 7
	return cfg
}

// recordGame plays a seeded game with a fixed move rotation until it ends or
// the move cap is hit, returning the sealed artifact.
func recordGame(t *testing.T, maxMoves int) Artifact {
	t.Helper()

	g, err := game.New(testConfig())
	if err != nil {
		t.Fatalf("game.New() failed: %v", err)
	}

	rec := NewRecorder(testConfig(), g.Snapshot())

	rotation := []board.Direction{board.DirLeft, board.DirUp, board.DirRight, board.DirDown}
	for i := 0; i < maxMoves && !g.State().Terminal(); i++ {
		dir := rotation[i%len(rotation)]
		res := g.Apply(dir)
		if err := rec.Record(dir, res); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	artifact, err := rec.Finish(g.Snapshot())
	if err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	return artifact
}

func TestRecordAndVerify(t *testing.T) {
	artifact := recordGame(t, 50)

	if artifact.ID == "" {
		t.Error("artifact has no ID")
	}
	if len(artifact.Moves) == 0 {
		t.Fatal("artifact has no moves")
	}
	if err := Verify(artifact); err != nil {
		t.Errorf("Verify() failed: %v", err)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	artifact := recordGame(t, 50)

	artifact.Summary.Score += 100
	if err := Verify(artifact); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify() error = %v, want ErrMismatch", err)
	}
}

func TestRecordSkipsRejectedMoves(t *testing.T) {
	g, err := game.New(testConfig())
	if err != nil {
		t.Fatalf("game.New() failed: %v", err)
	}

	rec := NewRecorder(testConfig(), g.Snapshot())
	if err := rec.Record(board.DirLeft, game.MoveResult{Moved: false}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if rec.Len() != 0 {
		t.Errorf("Len() = %d after rejected move, want 0", rec.Len())
	}
}

func TestRecorderFinishedIsFinal(t *testing.T) {
	g, err := game.New(testConfig())
	if err != nil {
		t.Fatalf("game.New() failed: %v", err)
	}

	rec := NewRecorder(testConfig(), g.Snapshot())
	if _, err := rec.Finish(g.Snapshot()); err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}

	if err := rec.Record(board.DirLeft, game.MoveResult{Moved: true}); !errors.Is(err, ErrFinished) {
		t.Errorf("Record() after Finish error = %v, want ErrFinished", err)
	}
	if _, err := rec.Finish(g.Snapshot()); !errors.Is(err, ErrFinished) {
		t.Errorf("second Finish() error = %v, want ErrFinished", err)
	}
}

func TestPlayerStepsToExhaustion(t *testing.T) {
	artifact := recordGame(t, 20)

	p, err := NewPlayer(artifact)
	if err != nil {
		t.Fatalf("NewPlayer() failed: %v", err)
	}

	steps := 0
	for p.HasMore() {
		if _, ok := p.Next(); !ok {
			t.Fatal("Next() returned false while HasMore() was true")
		}
		steps++
	}

	if steps != len(artifact.Moves) {
		t.Errorf("played %d steps, want %d", steps, len(artifact.Moves))
	}
	if p.Score() != artifact.Summary.Score {
		t.Errorf("final score = %d, want %d", p.Score(), artifact.Summary.Score)
	}
	if got := p.Board().MaxTile(); got != artifact.Summary.MaxTile {
		t.Errorf("final max tile = %d, want %d", got, artifact.Summary.MaxTile)
	}

	// Exhausted player stays exhausted
	if _, ok := p.Next(); ok {
		t.Error("Next() succeeded past the end of the log")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	artifact := recordGame(t, 30)

	path := filepath.Join(t.TempDir(), "session.json")
	if err := artifact.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.ID != artifact.ID {
		t.Errorf("loaded ID = %q, want %q", loaded.ID, artifact.ID)
	}
	if len(loaded.Moves) != len(artifact.Moves) {
		t.Errorf("loaded %d moves, want %d", len(loaded.Moves), len(artifact.Moves))
	}
	if err := Verify(loaded); err != nil {
		t.Errorf("Verify() on loaded artifact failed: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() on missing file succeeded")
	}
}
