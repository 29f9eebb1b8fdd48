// Package board implements the tile grid for a 2048-style puzzle: directional
// slide-and-merge moves, gap compaction, and board inspection helpers.
// Boards contain pure logic with no external dependencies.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfBounds is returned when a cell access exceeds the board dimensions.
var ErrOutOfBounds = errors.New("board: coordinates out of bounds")

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all four move directions in a stable order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction name to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	default:
		return 0, fmt.Errorf("board: unknown direction %q", s)
	}
}

// Cell identifies a board position.
type Cell struct {
	Row, Col int
}

// Board is a square grid of tile values. Zero means empty; any other value is
// a power of two. The size is fixed at construction and the grid is mutated
// only through Slide and Set.
type Board struct {
	size  int
	cells []int
}

// New creates an empty board of the given size.
func New(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]int, size*size),
	}
}

// FromCells creates a board from a row-major grid. The grid must be square.
func FromCells(grid [][]int) (*Board, error) {
	size := len(grid)
	b := New(size)
	for r, row := range grid {
		if len(row) != size {
			return nil, fmt.Errorf("board: row %d has %d cells, want %d", r, len(row), size)
		}
		copy(b.cells[r*size:(r+1)*size], row)
	}
	return b, nil
}

// Size returns the board dimension.
func (b *Board) Size() int {
	return b.size
}

// At returns the tile value at (row, col).
func (b *Board) At(row, col int) (int, error) {
	if row < 0 || row >= b.size || col < 0 || col >= b.size {
		return 0, fmt.Errorf("%w: (%d,%d) on size %d", ErrOutOfBounds, row, col, b.size)
	}
	return b.cells[row*b.size+col], nil
}

// Set places a tile value at (row, col).
func (b *Board) Set(row, col, value int) error {
	if row < 0 || row >= b.size || col < 0 || col >= b.size {
		return fmt.Errorf("%w: (%d,%d) on size %d", ErrOutOfBounds, row, col, b.size)
	}
	b.cells[row*b.size+col] = value
	return nil
}

// Cells returns a row-major copy of the grid.
func (b *Board) Cells() [][]int {
	grid := make([][]int, b.size)
	for r := range grid {
		grid[r] = make([]int, b.size)
		copy(grid[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return grid
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	clone := New(b.size)
	copy(clone.cells, b.cells)
	return clone
}

// Equal reports whether two boards have the same size and tiles.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i, v := range b.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// slideLine slides and merges a single line toward index 0.
// Each tile merges at most once per move; no chain-merging.
// Returns the updated line and the score gained from merges.
func slideLine(line []int) (result []int, score int) {
	result = make([]int, len(line))
	writePos := 0
	merged := false

	for _, v := range line {
		if v == 0 {
			continue
		}

		if writePos > 0 && !merged && result[writePos-1] == v {
			// Merge with previous tile
			result[writePos-1] *= 2
			score += result[writePos-1]
			merged = true
		} else {
			// Move tile
			result[writePos] = v
			writePos++
			merged = false
		}
	}

	return result, score
}

// line extracts the tiles along a direction's scan order for lane i:
// for horizontal moves lane i is row i, for vertical moves it is column i.
// The leading edge of the move direction comes first.
func (b *Board) line(dir Direction, i int) []int {
	line := make([]int, b.size)
	for j := 0; j < b.size; j++ {
		switch dir {
		case DirLeft:
			line[j] = b.cells[i*b.size+j]
		case DirRight:
			line[j] = b.cells[i*b.size+(b.size-1-j)]
		case DirUp:
			line[j] = b.cells[j*b.size+i]
		case DirDown:
			line[j] = b.cells[(b.size-1-j)*b.size+i]
		}
	}
	return line
}

// putLine writes a line back in the same scan order used by line.
func (b *Board) putLine(dir Direction, i int, line []int) {
	for j := 0; j < b.size; j++ {
		switch dir {
		case DirLeft:
			b.cells[i*b.size+j] = line[j]
		case DirRight:
			b.cells[i*b.size+(b.size-1-j)] = line[j]
		case DirUp:
			b.cells[j*b.size+i] = line[j]
		case DirDown:
			b.cells[(b.size-1-j)*b.size+i] = line[j]
		}
	}
}

// Slide performs a move in the given direction, merging adjacent equal tiles
// toward the leading edge and compacting gaps.
// Returns the score gained from merges and whether any tile moved.
func (b *Board) Slide(dir Direction) (score int, moved bool) {
	for i := 0; i < b.size; i++ {
		line := b.line(dir, i)
		newLine, gained := slideLine(line)
		score += gained

		for j := range line {
			if line[j] != newLine[j] {
				moved = true
				break
			}
		}
		b.putLine(dir, i, newLine)
	}
	return score, moved
}

// EmptyCells returns the coordinates of all empty cells in row-major order.
func (b *Board) EmptyCells() []Cell {
	var cells []Cell
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if b.cells[r*b.size+c] == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasPossibleMerge returns true if any adjacent tiles can merge.
func (b *Board) HasPossibleMerge() bool {
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			v := b.cells[r*b.size+c]
			if v == 0 {
				continue
			}
			// Right and bottom neighbors cover every adjacent pair
			if c < b.size-1 && b.cells[r*b.size+c+1] == v {
				return true
			}
			if r < b.size-1 && b.cells[(r+1)*b.size+c] == v {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any move would change the board.
func (b *Board) CanMove() bool {
	return len(b.EmptyCells()) > 0 || b.HasPossibleMerge()
}

// MaxTile returns the maximum tile value on the board.
func (b *Board) MaxTile() int {
	maxVal := 0
	for _, v := range b.cells {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Sum returns the sum of all tile values.
func (b *Board) Sum() int {
	total := 0
	for _, v := range b.cells {
		total += v
	}
	return total
}

// String renders the board as plain text for logs and CLI output.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			v := b.cells[r*b.size+c]
			if v == 0 {
				fmt.Fprintf(&sb, "%5s", ".")
			} else {
				fmt.Fprintf(&sb, "%5d", v)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
