package game

import "github.com/vovakirdan/merge2048/internal/board"

// Snapshot captures the externally visible game state at one point in time.
// It is the clone-in/clone-out currency between the primary game, AI
// controllers, and replay recorders: callers hand copies around and never
// alias the game's mutable state.
type Snapshot struct {
	Board   *board.Board
	Score   Score
	State   State
	Moves   int
	MaxTile int
}

// Snapshot returns a copy of the current game state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Board:   g.b.Clone(),
		Score:   g.score,
		State:   g.state,
		Moves:   g.moves,
		MaxTile: g.b.MaxTile(),
	}
}
