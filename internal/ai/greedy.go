package ai

import (
	"github.com/vovakirdan/merge2048/internal/board"
)

func init() {
	Register("greedy", func(opts Options) Algorithm {
		return &greedy{eval: NewHeuristic()}
	})
}

// greedy evaluates each of the four directions one ply deep: simulate the
// slide, score the result with the heuristic plus the merge gain, and pick
// the best. No spawn layer is considered.
type greedy struct {
	eval Evaluator
}

func (g *greedy) Name() string {
	return "greedy"
}

func (g *greedy) BestMove(b *board.Board) (board.Direction, error) {
	bestDir := board.DirUp
	bestScore := 0.0
	found := false

	for _, dir := range board.Directions {
		candidate := b.Clone()
		gained, moved := candidate.Slide(dir)
		if !moved {
			continue
		}

		score := float64(gained) + g.eval.Evaluate(candidate)
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
