// Package engine exposes the game core as a command-style service: one
// owning struct serializes every operation behind a single mutex, optional
// AI and replay features are enabled and disabled explicitly, and completed
// sessions flow into the statistics manager.
package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/merge2048/internal/ai"
	"github.com/vovakirdan/merge2048/internal/board"
	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/replay"
	"github.com/vovakirdan/merge2048/internal/stats"
)

var (
	// ErrInvalidArgument is returned for unknown algorithm names and other
	// bad operation arguments.
	ErrInvalidArgument = errors.New("engine: invalid argument")

	// ErrFeatureNotEnabled is returned when an AI or replay operation is
	// invoked before the feature was enabled.
	ErrFeatureNotEnabled = errors.New("engine: feature not enabled")

	// ErrLockPoisoned is returned once a prior operation panicked while
	// holding the engine lock; the state may be inconsistent and no further
	// operations run.
	ErrLockPoisoned = errors.New("engine: lock poisoned")

	// ErrAlreadyRecording is returned when recording is started twice.
	ErrAlreadyRecording = errors.New("engine: recording already started")
)

// ReplayStep is the result of playing one recorded move back.
type ReplayStep struct {
	Move    replay.MoveRecord
	Board   *board.Board
	Score   int
	HasMore bool
}

// Engine owns a game plus its optional AI controller, replay recorder, and
// replay player. Every exported operation runs in one critical section.
type Engine struct {
	mu         sync.Mutex
	poisoned   bool
	poisonedBy string

	cfg    config.Config
	logger *log.Logger

	game     *game.Game
	ai       *ai.Controller   // nil when AI is disabled
	recorder *replay.Recorder // nil when not recording
	player   *replay.Player   // nil when no replay is loaded
	stats    *stats.Manager

	finalized bool // current session already flowed into stats
}

// New constructs an engine from cfg. persist may be nil; sessions then live
// only in the in-memory statistics history.
func New(cfg config.Config, persist stats.Recorder, logger *log.Logger) (*Engine, error) {
	g, err := game.New(gameConfig(cfg.Game))
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Engine{
		cfg:    cfg,
		logger: logger,
		game:   g,
		stats:  stats.NewManager(persist),
	}, nil
}

func gameConfig(gc config.GameConfig) game.Config {
	return game.Config{
		BoardSize:  gc.BoardSize,
		WinTarget:  gc.WinTarget,
		AllowUndo:  gc.AllowUndo,
		Spawn4Prob: gc.Spawn4Prob,
		Seed:       gc.Seed,
	}
}

func (e *Engine) aiOptions() ai.Options {
	return ai.Options{
		Depth:        e.cfg.AI.Depth,
		Playouts:     e.cfg.AI.Playouts,
		PlayoutDepth: e.cfg.AI.PlayoutDepth,
		SampleCap:    e.cfg.AI.SampleCap,
		Spawn4Prob:   e.cfg.Game.Spawn4Prob,
		Seed:         e.cfg.Game.Seed,
	}
}

// withLock runs fn inside the engine's critical section. A panic inside fn
// poisons the engine: the state may be half-mutated, so every later call
// fails with ErrLockPoisoned instead of running on it.
func (e *Engine) withLock(op string, fn func() error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.poisoned {
		return fmt.Errorf("%w: %q failed while holding the lock", ErrLockPoisoned, e.poisonedBy)
	}

	defer func() {
		if r := recover(); r != nil {
			e.poisoned = true
			e.poisonedBy = op
			e.logger.Error("operation panicked, engine poisoned", "op", op, "panic", r)
			err = fmt.Errorf("%w: panic in %q: %v", ErrLockPoisoned, op, r)
		}
	}()

	return fn()
}

// Snapshot returns the current game state.
func (e *Engine) Snapshot() (game.Snapshot, error) {
	var snap game.Snapshot
	err := e.withLock("snapshot", func() error {
		snap = e.game.Snapshot()
		return nil
	})
	return snap, err
}

// ApplyMove applies one move to the game, records it when a recorder is
// active, and finalizes the session if a terminal state was reached.
func (e *Engine) ApplyMove(dir board.Direction) (game.Snapshot, error) {
	var snap game.Snapshot
	err := e.withLock("apply-move", func() error {
		res := e.game.Apply(dir)
		e.record(dir, res)
		e.maybeFinalize()
		snap = e.game.Snapshot()
		return nil
	})
	return snap, err
}

// Undo reverts the last applied move.
func (e *Engine) Undo() (game.Snapshot, error) {
	var snap game.Snapshot
	err := e.withLock("undo", func() error {
		if err := e.game.Undo(); err != nil {
			return err
		}
		snap = e.game.Snapshot()
		return nil
	})
	return snap, err
}

// NewGame starts a fresh session. The best score is preserved; an active
// recording is discarded because its initial state no longer exists.
func (e *Engine) NewGame() (game.Snapshot, error) {
	var snap game.Snapshot
	err := e.withLock("new-game", func() error {
		if e.recorder != nil {
			e.logger.Warn("new game discards active recording", "moves", e.recorder.Len())
			e.recorder = nil
		}
		e.game.Restart()
		e.finalized = false
		snap = e.game.Snapshot()
		return nil
	})
	return snap, err
}

// EnableAI selects an algorithm by name ("greedy", "expectimax", "mcts")
// and attaches a controller. Any other name fails with ErrInvalidArgument.
func (e *Engine) EnableAI(algorithm string) error {
	return e.withLock("enable-ai", func() error {
		ctrl, err := ai.NewController(e.game.Config(), algorithm, e.aiOptions())
		if err != nil {
			if errors.Is(err, ai.ErrUnknownAlgorithm) {
				return fmt.Errorf("%w: algorithm %q (want one of %v)", ErrInvalidArgument, algorithm, ai.Names())
			}
			return err
		}
		e.ai = ctrl
		e.logger.Info("ai enabled", "algorithm", algorithm)
		return nil
	})
}

// DisableAI detaches the controller and releases its state.
func (e *Engine) DisableAI() error {
	return e.withLock("disable-ai", func() error {
		if e.ai != nil {
			e.logger.Info("ai disabled", "algorithm", e.ai.Algorithm())
		}
		e.ai = nil
		return nil
	})
}

// AIEnabled reports whether an AI controller is attached.
func (e *Engine) AIEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ai != nil
}

// RequestAIMove synchronizes the controller with the current game, asks it
// for one move, and applies that move to the primary game. Fails with
// ErrFeatureNotEnabled when no AI is attached and propagates
// ai.ErrNoMoveAvailable on a blocked board.
func (e *Engine) RequestAIMove() (game.Snapshot, error) {
	var snap game.Snapshot
	err := e.withLock("request-ai-move", func() error {
		if e.ai == nil {
			return fmt.Errorf("%w: ai", ErrFeatureNotEnabled)
		}

		// Borrow snapshot in, apply the chosen move to the primary game.
		// The controller's private clone never aliases our state.
		if err := e.ai.Sync(e.game.Snapshot()); err != nil {
			return err
		}
		dir, _, err := e.ai.Step()
		if err != nil {
			return err
		}

		res := e.game.Apply(dir)
		e.record(dir, res)
		e.maybeFinalize()
		snap = e.game.Snapshot()
		return nil
	})
	return snap, err
}

// StartRecording begins capturing moves into a replay artifact.
func (e *Engine) StartRecording() error {
	return e.withLock("start-recording", func() error {
		if e.recorder != nil {
			return ErrAlreadyRecording
		}
		e.recorder = replay.NewRecorder(e.game.Config(), e.game.Snapshot())
		e.logger.Info("recording started")
		return nil
	})
}

// StopRecording seals the recording and returns the artifact.
func (e *Engine) StopRecording() (replay.Artifact, error) {
	var artifact replay.Artifact
	err := e.withLock("stop-recording", func() error {
		if e.recorder == nil {
			return fmt.Errorf("%w: recording", ErrFeatureNotEnabled)
		}

		a, err := e.recorder.Finish(e.game.Snapshot())
		if err != nil {
			return err
		}
		e.recorder = nil
		e.logger.Info("recording stopped", "id", a.ID, "moves", a.Summary.Moves)
		artifact = a
		return nil
	})
	return artifact, err
}

// Recording reports whether a recorder is active.
func (e *Engine) Recording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recorder != nil
}

// LoadReplay attaches a player for the given artifact, replacing any
// previously loaded replay.
func (e *Engine) LoadReplay(artifact replay.Artifact) error {
	return e.withLock("load-replay", func() error {
		p, err := replay.NewPlayer(artifact)
		if err != nil {
			return err
		}
		e.player = p
		e.logger.Info("replay loaded", "id", artifact.ID, "moves", len(artifact.Moves))
		return nil
	})
}

// PlayNextReplayStep advances the loaded replay by one move.
// HasMore is false on the step that exhausts the log; further calls keep
// returning an exhausted step until a new replay is loaded.
func (e *Engine) PlayNextReplayStep() (ReplayStep, error) {
	var step ReplayStep
	err := e.withLock("play-next-replay-step", func() error {
		if e.player == nil {
			return fmt.Errorf("%w: replay", ErrFeatureNotEnabled)
		}

		rec, ok := e.player.Next()
		step = ReplayStep{
			Move:    rec,
			Board:   e.player.Board(),
			Score:   e.player.Score(),
			HasMore: e.player.HasMore(),
		}
		if !ok {
			step.HasMore = false
		}
		return nil
	})
	return step, err
}

// StatisticsSummary aggregates the sessions recorded so far.
func (e *Engine) StatisticsSummary() (stats.Summary, error) {
	var sum stats.Summary
	err := e.withLock("statistics-summary", func() error {
		sum = e.stats.Summarize()
		return nil
	})
	return sum, err
}

// record forwards a move to the active recorder. Recording is best-effort:
// with no recorder attached this is a silent no-op.
func (e *Engine) record(dir board.Direction, res game.MoveResult) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(dir, res); err != nil {
		e.logger.Warn("move not recorded", "err", err)
	}
}

// maybeFinalize turns a just-ended session into a stats record, exactly once.
func (e *Engine) maybeFinalize() {
	if e.finalized || !e.game.State().Terminal() {
		return
	}
	e.finalized = true

	snap := e.game.Snapshot()
	sess := stats.Session{
		ID:        uuid.NewString(),
		Score:     snap.Score.Current,
		Moves:     snap.Moves,
		MaxTile:   snap.MaxTile,
		Won:       snap.State == game.StateWon,
		StartedAt: e.game.StartedAt(),
		EndedAt:   time.Now(),
	}

	if err := e.stats.Record(sess); err != nil {
		e.logger.Error("session not persisted", "err", err)
	}
	e.logger.Info("session finished",
		"score", sess.Score,
		"moves", sess.Moves,
		"max_tile", sess.MaxTile,
		"won", sess.Won,
	)
}
