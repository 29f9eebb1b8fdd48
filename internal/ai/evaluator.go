package ai

import (
	"math"

	"github.com/vovakirdan/merge2048/internal/board"
)

// Evaluator scores a board position; higher is better.
type Evaluator interface {
	Evaluate(b *board.Board) float64
}

// weightedEvaluator combines evaluators with per-term coefficients.
type weightedEvaluator struct {
	evaluators []Evaluator
	weights    []float64
}

func (w *weightedEvaluator) Evaluate(b *board.Board) float64 {
	score := 0.0
	for i, ev := range w.evaluators {
		score += w.weights[i] * ev.Evaluate(b)
	}
	return score
}

// emptyCellsEvaluator rewards open space.
type emptyCellsEvaluator struct{}

func (emptyCellsEvaluator) Evaluate(b *board.Board) float64 {
	return float64(len(b.EmptyCells()))
}

// monotonicityEvaluator rewards rows and columns ordered toward a corner.
// The best of the four corner orientations counts.
type monotonicityEvaluator struct{}

func (e monotonicityEvaluator) Evaluate(b *board.Board) float64 {
	scores := []float64{
		e.ordered(b, true, true),
		e.ordered(b, true, false),
		e.ordered(b, false, true),
		e.ordered(b, false, false),
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s > best {
			best = s
		}
	}
	return best
}

func (monotonicityEvaluator) ordered(b *board.Board, fromTop, fromLeft bool) float64 {
	n := b.Size()
	grid := b.Cells()
	score := 0.0

	for r := 0; r < n; r++ {
		for c := 0; c < n-1; c++ {
			c1, c2 := c, c+1
			if !fromLeft {
				c1, c2 = n-1-c, n-2-c
			}
			if grid[r][c1] >= grid[r][c2] {
				score++
			}
		}
	}

	for c := 0; c < n; c++ {
		for r := 0; r < n-1; r++ {
			r1, r2 := r, r+1
			if !fromTop {
				r1, r2 = n-1-r, n-2-r
			}
			if grid[r1][c] >= grid[r2][c] {
				score++
			}
		}
	}

	return score
}

// smoothnessEvaluator penalizes large differences between adjacent tiles,
// measured in log2 space.
type smoothnessEvaluator struct{}

func (smoothnessEvaluator) Evaluate(b *board.Board) float64 {
	n := b.Size()
	grid := b.Cells()
	penalty := 0.0

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := grid[r][c]
			if v == 0 {
				continue
			}
			logV := math.Log2(float64(v))

			if c < n-1 && grid[r][c+1] != 0 {
				penalty += math.Abs(logV - math.Log2(float64(grid[r][c+1])))
			}
			if r < n-1 && grid[r+1][c] != 0 {
				penalty += math.Abs(logV - math.Log2(float64(grid[r+1][c])))
			}
		}
	}

	return -penalty
}

// mergeableEvaluator counts adjacent equal pairs.
type mergeableEvaluator struct{}

func (mergeableEvaluator) Evaluate(b *board.Board) float64 {
	n := b.Size()
	grid := b.Cells()
	count := 0.0

	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := grid[r][c]
			if v == 0 {
				continue
			}
			if c < n-1 && grid[r][c+1] == v {
				count++
			}
			if r < n-1 && grid[r+1][c] == v {
				count++
			}
		}
	}
	return count
}

// cornerEvaluator rewards keeping the maximum tile in a corner.
type cornerEvaluator struct{}

func (cornerEvaluator) Evaluate(b *board.Board) float64 {
	n := b.Size()
	grid := b.Cells()

	maxVal, maxRow, maxCol := 0, 0, 0
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if grid[r][c] > maxVal {
				maxVal = grid[r][c]
				maxRow, maxCol = r, c
			}
		}
	}
	if maxVal == 0 {
		return 0
	}

	if (maxRow == 0 || maxRow == n-1) && (maxCol == 0 || maxCol == n-1) {
		return math.Log2(float64(maxVal))
	}
	return 0
}

// NewHeuristic returns the standard evaluator used by all algorithms:
// a weighted sum of open space, monotonicity, smoothness, merge pairs,
// and corner anchoring.
func NewHeuristic() Evaluator {
	return &weightedEvaluator{
		evaluators: []Evaluator{
			emptyCellsEvaluator{},
			monotonicityEvaluator{},
			smoothnessEvaluator{},
			mergeableEvaluator{},
			cornerEvaluator{},
		},
		weights: []float64{
			10.0, // empty cells
			5.0,  // monotonicity
			3.0,  // smoothness
			2.0,  // mergeable pairs
			8.0,  // corner anchor
		},
	}
}
