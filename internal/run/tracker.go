package run

import (
	"errors"
	"math"
	"sync"

	"backend-runhub/internal/shared/geo"
)

var (
	ErrNotReady   = errors.New("session is not ready")
	ErrNotRunning = errors.New("session is not running")
	ErrNotPaused  = errors.New("session is not paused")
	ErrNotStopped = errors.New("session is not stoppable")
)

// Tracker accumulates one session's distance, elapsed time and derived
// pace/calories from a position stream and a one-second tick.
type Tracker struct {
	mu    sync.Mutex
	cfg   Config
	state State
	last  *geo.Position
}

func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg, state: State{Status: StatusReady}}
}

// Start transitions ready -> running, resetting all accumulators. A known
// current position seeds the path so the first update yields a distance delta.
func (t *Tracker) Start(seed *geo.Position) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status != StatusReady {
		return ErrNotReady
	}
	t.state = State{Status: StatusRunning}
	t.last = nil
	if seed != nil {
		t.state.Path = []geo.Position{*seed}
		t.last = seed
	}
	return nil
}

// AddPosition appends a position while running and accumulates the haversine
// delta from the previous fix. Updates outside running are rejected.
func (t *Tracker) AddPosition(p geo.Position) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status != StatusRunning {
		return ErrNotRunning
	}
	t.state.Path = append(t.state.Path, p)
	if t.last != nil {
		t.state.DistanceKm += geo.DistanceKm(*t.last, p)
	}
	t.last = &p
	return nil
}

// Tick advances elapsed time by one second and recomputes pace and calories.
// Ticks are ignored unless running.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status != StatusRunning {
		return
	}
	t.state.ElapsedSeconds++
	t.derive()
}

func (t *Tracker) derive() {
	if t.state.DistanceKm >= t.cfg.MinPaceDistanceKm {
		pace := float64(t.state.ElapsedSeconds) / t.state.DistanceKm
		if pace < t.cfg.PaceMinSecPerKm {
			pace = t.cfg.PaceMinSecPerKm
		}
		if pace > t.cfg.PaceMaxSecPerKm {
			pace = t.cfg.PaceMaxSecPerKm
		}
		t.state.PaceSecPerKm = pace
	} else {
		t.state.PaceSecPerKm = 0
	}
	t.state.CaloriesKcal = int(math.Round(t.state.DistanceKm * t.cfg.CaloriesPerKm))
}

func (t *Tracker) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status != StatusRunning {
		return ErrNotRunning
	}
	t.state.Status = StatusPaused
	return nil
}

func (t *Tracker) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status != StatusPaused {
		return ErrNotPaused
	}
	t.state.Status = StatusRunning
	return nil
}

// Stop transitions running or paused to completed and returns the final state.
func (t *Tracker) Stop() (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status != StatusRunning && t.state.Status != StatusPaused {
		return State{}, ErrNotStopped
	}
	t.state.Status = StatusCompleted
	return t.snapshotLocked(), nil
}

// Reset returns a completed tracker to ready. Callers invoke it after the
// final record has been persisted.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = State{Status: StatusReady}
	t.last = nil
}

func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() State {
	out := t.state
	out.Path = append([]geo.Position(nil), t.state.Path...)
	return out
}
