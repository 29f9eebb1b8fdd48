package ai

import (
	"github.com/vovakirdan/merge2048/internal/board"
)

func init() {
	Register("expectimax", func(opts Options) Algorithm {
		return &expectimax{
			eval:       NewHeuristic(),
			maxDepth:   opts.Depth,
			sampleCap:  opts.SampleCap,
			spawn4Prob: opts.Spawn4Prob,
		}
	})
}

// expectimax performs bounded-depth search alternating player-move layers
// and random-tile-spawn layers, weighting spawn outcomes by their placement
// probability. On wide boards the spawn layer samples a capped, evenly
// spread subset of empty cells to bound the branching factor.
type expectimax struct {
	eval       Evaluator
	maxDepth   int
	sampleCap  int
	spawn4Prob float64
}

func (e *expectimax) Name() string {
	return "expectimax"
}

func (e *expectimax) BestMove(b *board.Board) (board.Direction, error) {
	bestDir := board.DirUp
	bestScore := 0.0
	found := false

	for _, dir := range board.Directions {
		candidate := b.Clone()
		if _, moved := candidate.Slide(dir); !moved {
			continue
		}

		score := e.expectedScore(candidate, e.maxDepth-1)
		if !found || score > bestScore {
			bestScore = score
			bestDir = dir
			found = true
		}
	}

	if !found {
		return 0, ErrNoMoveAvailable
	}
	return bestDir, nil
}

// expectedScore is the chance layer: average the value of spawning a 2 or a 4
// over (a sample of) the empty cells, weighted by spawn probability.
func (e *expectimax) expectedScore(b *board.Board, depth int) float64 {
	empty := b.EmptyCells()
	if len(empty) == 0 || depth <= 0 {
		return e.eval.Evaluate(b)
	}

	sample := empty
	if len(empty) > e.sampleCap {
		// Spread the sample evenly across the cell list
		sample = make([]board.Cell, 0, e.sampleCap)
		step := len(empty) / e.sampleCap
		if step == 0 {
			step = 1
		}
		for i := 0; i < len(empty) && len(sample) < e.sampleCap; i += step {
			sample = append(sample, empty[i])
		}
	}

	total := 0.0
	for _, cell := range sample {
		with2 := b.Clone()
		with2.Set(cell.Row, cell.Col, 2) //nolint:errcheck // cell comes from EmptyCells
		score2 := e.searchMax(with2, depth)

		with4 := b.Clone()
		with4.Set(cell.Row, cell.Col, 4) //nolint:errcheck
		score4 := e.searchMax(with4, depth)

		total += (1-e.spawn4Prob)*score2 + e.spawn4Prob*score4
	}

	return total / float64(len(sample))
}

// searchMax is the player layer: best expected value over the legal moves.
func (e *expectimax) searchMax(b *board.Board, depth int) float64 {
	if depth <= 0 || !b.CanMove() {
		return e.eval.Evaluate(b)
	}

	best := 0.0
	moved := false

	for _, dir := range board.Directions {
		candidate := b.Clone()
		if _, ok := candidate.Slide(dir); !ok {
			continue
		}

		score := e.expectedScore(candidate, depth-1)
		if !moved || score > best {
			best = score
			moved = true
		}
	}

	if !moved {
		return e.eval.Evaluate(b)
	}
	return best
}
