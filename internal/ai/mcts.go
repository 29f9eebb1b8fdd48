package ai

import (
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/merge2048/internal/board"
)

func init() {
	Register("mcts", func(opts Options) Algorithm {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return &mcts{
			eval:         NewHeuristic(),
			playouts:     opts.Playouts,
			playoutDepth: opts.PlayoutDepth,
			spawn4Prob:   opts.Spawn4Prob,
			seed:         seed,
		}
	})
}

// mcts runs randomized playouts per candidate move and picks the move with
// the highest average outcome. The four candidates are evaluated in
// parallel, one worker per direction, each with an independent RNG.
type mcts struct {
	eval         Evaluator
	playouts     int
	playoutDepth int
	spawn4Prob   float64
	seed         int64
}

func (m *mcts) Name() string {
	return "mcts"
}

func (m *mcts) BestMove(b *board.Board) (board.Direction, error) {
	type candidate struct {
		dir   board.Direction
		start *board.Board
		gain  int
	}

	var candidates []candidate
	for _, dir := range board.Directions {
		after := b.Clone()
		gained, moved := after.Slide(dir)
		if !moved {
			continue
		}
		candidates = append(candidates, candidate{dir: dir, start: after, gain: gained})
	}

	if len(candidates) == 0 {
		return 0, ErrNoMoveAvailable
	}

	means := make([]float64, len(candidates))

	var eg errgroup.Group
	for i, cand := range candidates {
		i, cand := i, cand
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(m.seed + int64(i)))
			total := 0.0
			for p := 0; p < m.playouts; p++ {
				total += m.playout(cand.start, cand.gain, rng)
			}
			means[i] = total / float64(m.playouts)
			return nil
		})
	}
	eg.Wait() //nolint:errcheck // workers never return errors

	best := 0
	for i := range means {
		if means[i] > means[best] {
			best = i
		}
	}
	return candidates[best].dir, nil
}

// playout plays uniformly random legal moves from start, spawning a tile
// after every move, until the board locks up or the depth cap is hit.
// The outcome is the merge score accumulated along the way plus the
// heuristic value of the final position.
func (m *mcts) playout(start *board.Board, initialGain int, rng *rand.Rand) float64 {
	b := start.Clone()
	score := initialGain
	m.spawn(b, rng)

	for step := 0; step < m.playoutDepth; step++ {
		var legal []board.Direction
		for _, dir := range board.Directions {
			probe := b.Clone()
			if _, moved := probe.Slide(dir); moved {
				legal = append(legal, dir)
			}
		}
		if len(legal) == 0 {
			break
		}

		gained, _ := b.Slide(legal[rng.Intn(len(legal))])
		score += gained
		m.spawn(b, rng)
	}

	return float64(score) + m.eval.Evaluate(b)
}

func (m *mcts) spawn(b *board.Board, rng *rand.Rand) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return
	}
	cell := empty[rng.Intn(len(empty))]
	value := 2
	if rng.Float64() < m.spawn4Prob {
		value = 4
	}
	b.Set(cell.Row, cell.Col, value) //nolint:errcheck
}
