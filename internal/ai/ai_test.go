package ai

import (
	"errors"
	"testing"

	"github.com/vovakirdan/merge2048/internal/board"
	"github.com/vovakirdan/merge2048/internal/game"
)

func mustBoard(t *testing.T, grid [][]int) *board.Board {
	t.Helper()
	b, err := board.FromCells(grid)
	if err != nil {
		t.Fatalf("FromCells() failed: %v", err)
	}
	return b
}

// blockedBoard has no legal move in any direction.
func blockedBoard(t *testing.T) *board.Board {
	return mustBoard(t, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = 1
	// Keep the randomized algorithms fast in tests
	opts.Playouts = 10
	opts.PlayoutDepth = 10
	return opts
}

func TestAlgorithmsReturnLegalMove(t *testing.T) {
	open := [][]int{
		{2, 2, 0, 0},
		{0, 4, 0, 0},
		{0, 0, 8, 0},
		{0, 0, 0, 0},
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			alg, err := New(name, testOptions())
			if err != nil {
				t.Fatalf("New(%q) failed: %v", name, err)
			}

			b := mustBoard(t, open)
			dir, err := alg.BestMove(b)
			if err != nil {
				t.Fatalf("BestMove() failed: %v", err)
			}

			// The chosen move must actually change the board
			if _, moved := b.Clone().Slide(dir); !moved {
				t.Errorf("BestMove() returned illegal move %s", dir)
			}
		})
	}
}

func TestAlgorithmsReportNoMoveAvailable(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			alg, err := New(name, testOptions())
			if err != nil {
				t.Fatalf("New(%q) failed: %v", name, err)
			}

			if _, err := alg.BestMove(blockedBoard(t)); !errors.Is(err, ErrNoMoveAvailable) {
				t.Errorf("BestMove() error = %v, want ErrNoMoveAvailable", err)
			}
		})
	}
}

func TestRegisteredNames(t *testing.T) {
	names := Names()
	want := []string{"expectimax", "greedy", "mcts"}

	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestNewUnknownAlgorithm(t *testing.T) {
	if _, err := New("minimax", testOptions()); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("New() error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestGreedyPrefersMerge(t *testing.T) {
	alg, err := New("greedy", testOptions())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// Left merges two 8s; up only slides a single tile
	b := mustBoard(t, [][]int{
		{8, 8, 0, 0},
		{0, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	dir, err := alg.BestMove(b)
	if err != nil {
		t.Fatalf("BestMove() failed: %v", err)
	}
	if dir != board.DirLeft {
		t.Errorf("BestMove() = %s, want left", dir)
	}
}

func testGameConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Seed = 3
	return cfg
}

func TestControllerStep(t *testing.T) {
	ctrl, err := NewController(testGameConfig(), "greedy", testOptions())
	if err != nil {
		t.Fatalf("NewController() failed: %v", err)
	}

	dir, snap, err := ctrl.Step()
	if err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if snap.Moves != 1 {
		t.Errorf("controller game moves = %d, want 1", snap.Moves)
	}
	if _, err := board.ParseDirection(dir.String()); err != nil {
		t.Errorf("Step() returned bad direction: %v", err)
	}
}

func TestControllerSyncDoesNotAliasPrimary(t *testing.T) {
	primary, err := game.New(testGameConfig())
	if err != nil {
		t.Fatalf("game.New() failed: %v", err)
	}

	ctrl, err := NewController(testGameConfig(), "greedy", testOptions())
	if err != nil {
		t.Fatalf("NewController() failed: %v", err)
	}

	before := primary.Snapshot()
	if err := ctrl.Sync(before); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	if _, _, err := ctrl.Step(); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}

	// The primary game must be untouched by the controller's move
	after := primary.Snapshot()
	if !after.Board.Equal(before.Board) {
		t.Error("controller step mutated the primary game's board")
	}
	if after.Moves != before.Moves {
		t.Error("controller step changed the primary game's move count")
	}
}

func TestControllerStepOnTerminalGame(t *testing.T) {
	ctrl, err := NewController(testGameConfig(), "expectimax", testOptions())
	if err != nil {
		t.Fatalf("NewController() failed: %v", err)
	}

	snap := ctrl.g.Snapshot()
	snap.Board = blockedBoard(t)
	snap.State = game.StateGameOver
	if err := ctrl.Sync(snap); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	if _, _, err := ctrl.Step(); !errors.Is(err, ErrNoMoveAvailable) {
		t.Errorf("Step() error = %v, want ErrNoMoveAvailable", err)
	}
}

func TestHeuristicOrdersPositions(t *testing.T) {
	eval := NewHeuristic()

	// A tidy monotone corner stack should outscore a scattered board
	// with the same tiles.
	tidy := mustBoard(t, [][]int{
		{64, 32, 16, 8},
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	scattered := mustBoard(t, [][]int{
		{2, 0, 0, 32},
		{0, 16, 0, 0},
		{8, 0, 64, 0},
		{0, 4, 0, 0},
	})

	if eval.Evaluate(tidy) <= eval.Evaluate(scattered) {
		t.Errorf("heuristic: tidy %.1f should beat scattered %.1f",
			eval.Evaluate(tidy), eval.Evaluate(scattered))
	}
}
