// Package replay records move sequences into immutable artifacts and plays
// them back deterministically. Each move record carries the tile spawned
// after the slide, so playback needs no RNG state and works for recordings
// started mid-session.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/merge2048/internal/board"
	"github.com/vovakirdan/merge2048/internal/game"
)

var (
	// ErrFinished is returned when recording continues after Finish.
	ErrFinished = errors.New("replay: recorder already finished")

	// ErrMismatch is returned by Verify when playback does not reproduce the
	// recorded final summary.
	ErrMismatch = errors.New("replay: playback mismatch")
)

// SpawnRecord is the tile the game placed after a recorded move.
type SpawnRecord struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// MoveRecord is one applied move: the direction, the score it gained, and
// the spawn that followed it (absent when the game ended on the move).
type MoveRecord struct {
	Dir        string       `json:"dir"`
	ScoreDelta int          `json:"score_delta"`
	Spawn      *SpawnRecord `json:"spawn,omitempty"`
}

// Config is the subset of the game configuration a replay depends on.
type Config struct {
	BoardSize  int     `json:"board_size"`
	WinTarget  int     `json:"win_target"`
	Spawn4Prob float64 `json:"spawn4_prob"`
	Seed       int64   `json:"seed,omitempty"`
}

// Summary is the final outcome recorded with the artifact.
type Summary struct {
	Score   int  `json:"score"`
	Moves   int  `json:"moves"`
	MaxTile int  `json:"max_tile"`
	Won     bool `json:"won"`
}

// Artifact is an immutable record of initial state plus ordered moves,
// sufficient to deterministically reproduce a session.
type Artifact struct {
	ID           string       `json:"id"`
	RecordedAt   time.Time    `json:"recorded_at"`
	Config       Config       `json:"config"`
	InitialBoard [][]int      `json:"initial_board"`
	InitialScore int          `json:"initial_score"`
	Moves        []MoveRecord `json:"moves"`
	Summary      Summary      `json:"summary"`
}

// Recorder captures the initial state at construction and appends one move
// record per applied move. Finish seals the artifact.
type Recorder struct {
	artifact Artifact
	finished bool
}

// NewRecorder starts a recording from the given game state.
func NewRecorder(cfg game.Config, initial game.Snapshot) *Recorder {
	return &Recorder{
		artifact: Artifact{
			ID:         uuid.NewString(),
			RecordedAt: time.Now(),
			Config: Config{
				BoardSize:  cfg.BoardSize,
				WinTarget:  cfg.WinTarget,
				Spawn4Prob: cfg.Spawn4Prob,
				Seed:       cfg.Seed,
			},
			InitialBoard: initial.Board.Cells(),
			InitialScore: initial.Score.Current,
		},
	}
}

// Record appends one move to the log.
func (r *Recorder) Record(dir board.Direction, res game.MoveResult) error {
	if r.finished {
		return ErrFinished
	}
	if !res.Moved {
		return nil
	}

	rec := MoveRecord{Dir: dir.String(), ScoreDelta: res.ScoreDelta}
	if res.Spawned != nil {
		rec.Spawn = &SpawnRecord{
			Row:   res.Spawned.Cell.Row,
			Col:   res.Spawned.Cell.Col,
			Value: res.Spawned.Value,
		}
	}
	r.artifact.Moves = append(r.artifact.Moves, rec)
	return nil
}

// Len returns the number of recorded moves.
func (r *Recorder) Len() int {
	return len(r.artifact.Moves)
}

// Finish seals the recording with the final summary and returns the artifact.
// The recorder cannot be reused afterwards.
func (r *Recorder) Finish(final game.Snapshot) (Artifact, error) {
	if r.finished {
		return Artifact{}, ErrFinished
	}
	r.finished = true

	r.artifact.Summary = Summary{
		Score:   final.Score.Current,
		Moves:   len(r.artifact.Moves),
		MaxTile: final.MaxTile,
		Won:     final.State == game.StateWon,
	}
	return r.artifact, nil
}

// Player steps through an artifact's moves in recorded order, maintaining
// the playback board. A player is a finite sequence; reconstruct it to
// restart playback.
type Player struct {
	artifact Artifact
	b        *board.Board
	score    int
	pos      int
}

// NewPlayer constructs a player positioned at the artifact's initial state.
func NewPlayer(artifact Artifact) (*Player, error) {
	b, err := board.FromCells(artifact.InitialBoard)
	if err != nil {
		return nil, fmt.Errorf("replay: bad initial board: %w", err)
	}
	return &Player{
		artifact: artifact,
		b:        b,
		score:    artifact.InitialScore,
	}, nil
}

// Next applies the next recorded move to the playback board.
// It returns the move and false once the log is exhausted.
func (p *Player) Next() (MoveRecord, bool) {
	if p.pos >= len(p.artifact.Moves) {
		return MoveRecord{}, false
	}

	rec := p.artifact.Moves[p.pos]
	p.pos++

	dir, err := board.ParseDirection(rec.Dir)
	if err != nil {
		// Corrupt artifact; stop playback at this point
		p.pos = len(p.artifact.Moves)
		return MoveRecord{}, false
	}

	gained, _ := p.b.Slide(dir)
	p.score += gained
	if rec.Spawn != nil {
		p.b.Set(rec.Spawn.Row, rec.Spawn.Col, rec.Spawn.Value) //nolint:errcheck
	}

	return rec, true
}

// HasMore reports whether any recorded moves remain.
func (p *Player) HasMore() bool {
	return p.pos < len(p.artifact.Moves)
}

// Board returns a copy of the current playback board.
func (p *Player) Board() *board.Board {
	return p.b.Clone()
}

// Score returns the current playback score.
func (p *Player) Score() int {
	return p.score
}

// Verify replays the artifact from its initial state and checks that the
// final board and score match the recorded summary. This is the determinism
// contract of the subsystem.
func Verify(artifact Artifact) error {
	p, err := NewPlayer(artifact)
	if err != nil {
		return err
	}
	for {
		if _, ok := p.Next(); !ok {
			break
		}
	}

	if p.pos != artifact.Summary.Moves {
		return fmt.Errorf("%w: played %d moves, summary says %d", ErrMismatch, p.pos, artifact.Summary.Moves)
	}
	if p.score != artifact.Summary.Score {
		return fmt.Errorf("%w: final score %d, summary says %d", ErrMismatch, p.score, artifact.Summary.Score)
	}
	if got := p.b.MaxTile(); got != artifact.Summary.MaxTile {
		return fmt.Errorf("%w: max tile %d, summary says %d", ErrMismatch, got, artifact.Summary.MaxTile)
	}
	return nil
}

// Save writes the artifact to a JSON file.
func (a Artifact) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("replay: cannot marshal artifact: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads an artifact from a JSON file.
func Load(path string) (Artifact, error) {
	var a Artifact
	data, err := os.ReadFile(path)
	if err != nil {
		return a, fmt.Errorf("replay: cannot read artifact: %w", err)
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("replay: cannot parse artifact: %w", err)
	}
	return a, nil
}
