// Package stats aggregates per-session outcomes into summary metrics.
// The manager keeps an append-only in-memory history; persistence is
// delegated to an optional Recorder collaborator.
package stats

import (
	"time"
)

// Session is the immutable record of one completed game.
type Session struct {
	ID        string
	Score     int
	Moves     int
	MaxTile   int
	Won       bool
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration returns the session length.
func (s Session) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// Recorder persists sessions outside the manager's in-memory history.
// The sqlite store implements this; the manager works without one.
type Recorder interface {
	SaveSession(s Session) error
}

// Summary aggregates all recorded sessions.
type Summary struct {
	Sessions    int
	AvgScore    float64
	BestScore   int
	WinRate     float64
	AvgDuration time.Duration
	MaxTile     int
}

// Manager accumulates sessions. Recording is append-only; prior entries are
// never mutated.
type Manager struct {
	history  []Session
	recorder Recorder // optional
}

// NewManager creates a manager with an optional persistent recorder.
func NewManager(recorder Recorder) *Manager {
	return &Manager{recorder: recorder}
}

// Record appends one completed session to the history and forwards it to
// the persistent recorder when one is attached.
func (m *Manager) Record(s Session) error {
	m.history = append(m.history, s)
	if m.recorder != nil {
		if err := m.recorder.SaveSession(s); err != nil {
			return err
		}
	}
	return nil
}

// Sessions returns a copy of the recorded history.
func (m *Manager) Sessions() []Session {
	out := make([]Session, len(m.history))
	copy(out, m.history)
	return out
}

// Summarize computes the aggregate summary for the manager's history.
func (m *Manager) Summarize() Summary {
	return Summarize(m.history)
}

// Summarize is a pure function of a session history. An empty history yields
// a zero summary.
func Summarize(history []Session) Summary {
	var sum Summary
	if len(history) == 0 {
		return sum
	}

	var totalScore int
	var totalDuration time.Duration
	var wins int

	for _, s := range history {
		totalScore += s.Score
		totalDuration += s.Duration()
		if s.Won {
			wins++
		}
		if s.Score > sum.BestScore {
			sum.BestScore = s.Score
		}
		if s.MaxTile > sum.MaxTile {
			sum.MaxTile = s.MaxTile
		}
	}

	n := len(history)
	sum.Sessions = n
	sum.AvgScore = float64(totalScore) / float64(n)
	sum.WinRate = float64(wins) / float64(n)
	sum.AvgDuration = totalDuration / time.Duration(n)
	return sum
}
