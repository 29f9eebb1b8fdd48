package stats

import (
	"errors"
	"testing"
	"time"
)

func session(score, moves, maxTile int, won bool, dur time.Duration) Session {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Session{
		ID:        "test",
		Score:     score,
		Moves:     moves,
		MaxTile:   maxTile,
		Won:       won,
		StartedAt: start,
		EndedAt:   start.Add(dur),
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	if sum != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero summary", sum)
	}
}

func TestSummarize(t *testing.T) {
	history := []Session{
		session(1000, 120, 128, false, 2*time.Minute),
		session(3000, 300, 512, false, 6*time.Minute),
		session(20000, 900, 2048, true, 10*time.Minute),
	}

	sum := Summarize(history)

	if sum.Sessions != 3 {
		t.Errorf("Sessions = %d, want 3", sum.Sessions)
	}
	if sum.AvgScore != 8000 {
		t.Errorf("AvgScore = %.1f, want 8000", sum.AvgScore)
	}
	if sum.BestScore != 20000 {
		t.Errorf("BestScore = %d, want 20000", sum.BestScore)
	}
	if want := 1.0 / 3.0; sum.WinRate != want {
		t.Errorf("WinRate = %f, want %f", sum.WinRate, want)
	}
	if sum.AvgDuration != 6*time.Minute {
		t.Errorf("AvgDuration = %s, want 6m", sum.AvgDuration)
	}
	if sum.MaxTile != 2048 {
		t.Errorf("MaxTile = %d, want 2048", sum.MaxTile)
	}
}

func TestManagerRecordAndSummarize(t *testing.T) {
	m := NewManager(nil)

	if err := m.Record(session(500, 60, 64, false, time.Minute)); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if err := m.Record(session(1500, 150, 256, false, 3*time.Minute)); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	sum := m.Summarize()
	if sum.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", sum.Sessions)
	}
	if sum.BestScore != 1500 {
		t.Errorf("BestScore = %d, want 1500", sum.BestScore)
	}
}

func TestManagerSessionsReturnsCopy(t *testing.T) {
	m := NewManager(nil)
	if err := m.Record(session(500, 60, 64, false, time.Minute)); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	got := m.Sessions()
	got[0].Score = 0

	if m.Sessions()[0].Score != 500 {
		t.Error("mutating the returned slice changed the manager's history")
	}
}

type recorderFunc func(Session) error

func (f recorderFunc) SaveSession(s Session) error { return f(s) }

func TestManagerForwardsToRecorder(t *testing.T) {
	var saved []Session
	m := NewManager(recorderFunc(func(s Session) error {
		saved = append(saved, s)
		return nil
	}))

	if err := m.Record(session(500, 60, 64, false, time.Minute)); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if len(saved) != 1 || saved[0].Score != 500 {
		t.Errorf("recorder saw %+v, want one session with score 500", saved)
	}
}

func TestManagerRecorderErrorSurfaces(t *testing.T) {
	boom := errors.New("disk full")
	m := NewManager(recorderFunc(func(Session) error { return boom }))

	if err := m.Record(session(500, 60, 64, false, time.Minute)); !errors.Is(err, boom) {
		t.Errorf("Record() error = %v, want %v", err, boom)
	}

	// The session still lands in the in-memory history
	if len(m.Sessions()) != 1 {
		t.Errorf("history has %d sessions, want 1", len(m.Sessions()))
	}
}
