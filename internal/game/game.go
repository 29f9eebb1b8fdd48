// Package game owns a single 2048 session: board mutation through moves,
// scoring, tile spawning, undo snapshots, and terminal-state detection.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/merge2048/internal/board"
)

var (
	// ErrInvalidConfig is returned when a game cannot be constructed from the
	// supplied configuration.
	ErrInvalidConfig = errors.New("game: invalid config")

	// ErrInvalidState is returned when an externally supplied state does not
	// match the game's configuration.
	ErrInvalidState = errors.New("game: invalid state")

	// ErrUndoUnavailable is returned when undo is disabled or no prior
	// snapshot exists.
	ErrUndoUnavailable = errors.New("game: undo unavailable")
)

// State represents the current phase of a session.
type State string

const (
	StatePlaying  State = "playing"
	StateWon      State = "won"
	StateGameOver State = "game_over"
)

// Terminal reports whether the state ends the session.
func (s State) Terminal() bool {
	return s == StateWon || s == StateGameOver
}

// Config contains the immutable parameters of a game.
type Config struct {
	BoardSize  int     // Board dimension (default 4)
	WinTarget  int     // Tile value that wins the game (default 2048)
	AllowUndo  bool    // Whether Undo is permitted
	Spawn4Prob float64 // Probability a spawned tile is a 4 (default 0.1)
	Seed       int64   // RNG seed; 0 means derive from current time
}

// DefaultConfig returns a Config with the classic 4x4 rules.
func DefaultConfig() Config {
	return Config{
		BoardSize:  4,
		WinTarget:  2048,
		AllowUndo:  true,
		Spawn4Prob: 0.1,
	}
}

// Score tracks the current accumulated value and the historical best.
// Current resets on a new game; Best persists across games.
type Score struct {
	Current int
	Best    int
}

// Spawn describes a tile placed by the game after a move.
type Spawn struct {
	Cell  board.Cell
	Value int
}

// MoveResult reports what a single move application did.
type MoveResult struct {
	Moved      bool
	ScoreDelta int
	Spawned    *Spawn // nil when the board did not change
	State      State
}

// snapshot is the undo currency: board plus score at one point in time.
type snapshot struct {
	board *board.Board
	score Score
	moves int
	state State
}

// Game applies moves to a board and tracks score, move count, and duration.
type Game struct {
	cfg   Config
	rng   *rand.Rand
	b     *board.Board
	score Score
	state State

	moves     int
	startedAt time.Time
	prev      *snapshot // one-level undo
}

// New constructs a game from cfg and spawns the two starting tiles.
func New(cfg Config) (*Game, error) {
	if cfg.BoardSize <= 0 {
		return nil, fmt.Errorf("%w: board size %d", ErrInvalidConfig, cfg.BoardSize)
	}
	if cfg.WinTarget < 8 || cfg.WinTarget&(cfg.WinTarget-1) != 0 {
		return nil, fmt.Errorf("%w: win target %d is not a power of two >= 8", ErrInvalidConfig, cfg.WinTarget)
	}
	if cfg.Spawn4Prob < 0 || cfg.Spawn4Prob > 1 {
		return nil, fmt.Errorf("%w: spawn-4 probability %v", ErrInvalidConfig, cfg.Spawn4Prob)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		b:     board.New(cfg.BoardSize),
		state: StatePlaying,
	}
	g.startedAt = time.Now()

	// Classic opening: two tiles
	g.spawnTile()
	g.spawnTile()

	return g, nil
}

// Config returns the game's immutable configuration.
func (g *Game) Config() Config {
	return g.cfg
}

// Board returns a copy of the current board.
func (g *Game) Board() *board.Board {
	return g.b.Clone()
}

// Score returns the current and best score.
func (g *Game) Score() Score {
	return g.score
}

// State returns the current session state.
func (g *Game) State() State {
	return g.state
}

// Moves returns the number of applied moves this session.
func (g *Game) Moves() int {
	return g.moves
}

// StartedAt returns when the current session began.
func (g *Game) StartedAt() time.Time {
	return g.startedAt
}

// spawnTile places a 2 or a 4 in a random empty cell.
func (g *Game) spawnTile() *Spawn {
	empty := g.b.EmptyCells()
	if len(empty) == 0 {
		return nil
	}

	cell := empty[g.rng.Intn(len(empty))]

	value := 2
	if g.rng.Float64() < g.cfg.Spawn4Prob {
		value = 4
	}

	g.b.Set(cell.Row, cell.Col, value) //nolint:errcheck // cell comes from EmptyCells
	return &Spawn{Cell: cell, Value: value}
}

// Apply performs a move in the given direction. If the board changed, the
// score grows by the sum of merged tile values and one new tile spawns.
// The state transitions to Won when any tile reaches the win target and to
// GameOver when no direction would change the board.
func (g *Game) Apply(dir board.Direction) MoveResult {
	if g.state.Terminal() {
		return MoveResult{State: g.state}
	}

	before := &snapshot{
		board: g.b.Clone(),
		score: g.score,
		moves: g.moves,
		state: g.state,
	}

	gained, moved := g.b.Slide(dir)
	if !moved {
		// Board didn't change - no spawn, no snapshot
		return MoveResult{State: g.state}
	}

	g.prev = before
	g.moves++
	g.score.Current += gained
	if g.score.Current > g.score.Best {
		g.score.Best = g.score.Current
	}

	if g.b.MaxTile() >= g.cfg.WinTarget {
		g.state = StateWon
		return MoveResult{Moved: true, ScoreDelta: gained, State: g.state}
	}

	spawned := g.spawnTile()

	if !g.b.CanMove() {
		g.state = StateGameOver
	}

	return MoveResult{Moved: true, ScoreDelta: gained, Spawned: spawned, State: g.state}
}

// Restart begins a new session: board, current score, and counters reset
// while the best score is preserved.
func (g *Game) Restart() {
	g.b = board.New(g.cfg.BoardSize)
	g.score.Current = 0
	g.moves = 0
	g.state = StatePlaying
	g.prev = nil
	g.startedAt = time.Now()

	g.spawnTile()
	g.spawnTile()
}

// Undo reverts to the board and score before the last applied move.
func (g *Game) Undo() error {
	if !g.cfg.AllowUndo {
		return fmt.Errorf("%w: disabled by config", ErrUndoUnavailable)
	}
	if g.prev == nil {
		return fmt.Errorf("%w: no prior snapshot", ErrUndoUnavailable)
	}

	g.b = g.prev.board
	g.score = g.prev.score
	g.moves = g.prev.moves
	g.state = g.prev.state
	g.prev = nil
	return nil
}

// LoadState replaces the current board and score with an externally supplied
// snapshot, for clone-in synchronization with AI controllers and replays.
func (g *Game) LoadState(snap Snapshot) error {
	if snap.Board == nil || snap.Board.Size() != g.cfg.BoardSize {
		return fmt.Errorf("%w: board size mismatch with config size %d", ErrInvalidState, g.cfg.BoardSize)
	}

	g.b = snap.Board.Clone()
	g.score = snap.Score
	g.moves = snap.Moves
	g.state = snap.State
	g.prev = nil

	// A loaded board may already be terminal
	if g.state == StatePlaying {
		switch {
		case g.b.MaxTile() >= g.cfg.WinTarget:
			g.state = StateWon
		case !g.b.CanMove():
			g.state = StateGameOver
		}
	}
	return nil
}

// Clone returns an independent copy of the game sharing no mutable state.
// The clone's RNG is reseeded so cloned games diverge from the original's
// spawn sequence; replays rely on seeds, not clones.
func (g *Game) Clone() *Game {
	clone := &Game{
		cfg:       g.cfg,
		rng:       rand.New(rand.NewSource(g.rng.Int63())),
		b:         g.b.Clone(),
		score:     g.score,
		state:     g.state,
		moves:     g.moves,
		startedAt: g.startedAt,
	}
	return clone
}
