// Package ai implements move selection for the puzzle engine: a greedy
// one-ply search, bounded-depth expectimax, and Monte Carlo tree search.
// Algorithms register themselves in init() functions, allowing callers to
// instantiate them by name without hardcoded dependencies.
package ai

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/merge2048/internal/board"
	"github.com/vovakirdan/merge2048/internal/game"
)

var (
	// ErrNoMoveAvailable is returned when no direction would change the board.
	ErrNoMoveAvailable = errors.New("ai: no move available")

	// ErrUnknownAlgorithm is returned for algorithm names that are not registered.
	ErrUnknownAlgorithm = errors.New("ai: unknown algorithm")
)

// Algorithm selects moves for a board position.
// BestMove returns a legal move when one exists and ErrNoMoveAvailable otherwise.
type Algorithm interface {
	// Name returns the identifier the algorithm is registered under.
	Name() string

	// BestMove evaluates the board and returns the chosen direction.
	BestMove(b *board.Board) (board.Direction, error)
}

// Options carries the tunables shared by the algorithm implementations.
// Zero values fall back to per-algorithm defaults.
type Options struct {
	Depth        int     // Expectimax search depth
	Playouts     int     // MCTS playouts per candidate move
	PlayoutDepth int     // MCTS playout length cap
	SampleCap    int     // Expectimax spawn-cell sampling cap
	Spawn4Prob   float64 // Probability a simulated spawn is a 4
	Seed         int64   // RNG seed for randomized algorithms; 0 means time-based
}

// DefaultOptions returns the tunables used when a caller passes zero values.
func DefaultOptions() Options {
	return Options{
		Depth:        3,
		Playouts:     60,
		PlayoutDepth: 40,
		SampleCap:    6,
		Spawn4Prob:   0.1,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Depth <= 0 {
		o.Depth = def.Depth
	}
	if o.Playouts <= 0 {
		o.Playouts = def.Playouts
	}
	if o.PlayoutDepth <= 0 {
		o.PlayoutDepth = def.PlayoutDepth
	}
	if o.SampleCap <= 0 {
		o.SampleCap = def.SampleCap
	}
	if o.Spawn4Prob <= 0 {
		o.Spawn4Prob = def.Spawn4Prob
	}
	return o
}

// Factory is a function that creates a new instance of an algorithm.
type Factory func(opts Options) Algorithm

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds an algorithm factory under the given name.
// Typically called from an algorithm's init() function.
// Panics if the name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("ai: algorithm %q already registered", name))
	}
	factories[name] = f
}

// New instantiates an algorithm by name.
func New(name string, opts Options) (Algorithm, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return f(opts.withDefaults()), nil
}

// Names returns all registered algorithm names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Controller wraps a private clone of a game plus a selected algorithm.
// Synchronization with an externally owned game is the caller's
// responsibility: Sync clones state in, Step hands a snapshot out. The
// controller never aliases the primary game's mutable state.
type Controller struct {
	g   *game.Game
	alg Algorithm
}

// NewController constructs a controller with its own private game built from cfg.
func NewController(cfg game.Config, algorithm string, opts Options) (*Controller, error) {
	alg, err := New(algorithm, opts)
	if err != nil {
		return nil, err
	}

	g, err := game.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Controller{g: g, alg: alg}, nil
}

// Algorithm returns the name of the selected algorithm.
func (c *Controller) Algorithm() string {
	return c.alg.Name()
}

// Sync replaces the controller's private state with a snapshot of the
// externally owned game.
func (c *Controller) Sync(snap game.Snapshot) error {
	return c.g.LoadState(snap)
}

// Step selects one move with the configured algorithm, applies it to the
// private game, and returns the move plus the resulting snapshot.
func (c *Controller) Step() (board.Direction, game.Snapshot, error) {
	if c.g.State().Terminal() {
		return 0, c.g.Snapshot(), ErrNoMoveAvailable
	}

	b := c.g.Board()
	dir, err := c.alg.BestMove(b)
	if err != nil {
		return 0, c.g.Snapshot(), err
	}

	c.g.Apply(dir)
	return dir, c.g.Snapshot(), nil
}
