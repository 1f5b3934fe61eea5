package run

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"backend-runhub/internal/shared/geo"
	"backend-runhub/internal/stream"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Recorder persists a finalized session. Implemented by the record service.
type Recorder interface {
	Save(ctx context.Context, fin Final) (string, error)
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
	Status    Status    `json:"status"`
}

// Final is the immutable output of a stopped session, handed to the recorder.
type Final struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
	State     State     `json:"state"`
}

type liveSession struct {
	id        string
	userID    string
	startedAt time.Time
	tracker   *Tracker
	stopTick  chan struct{}
	tickOnce  sync.Once

	// subMu guards sub; pause/resume/stop on the same session may arrive on
	// concurrent requests.
	subMu sync.Mutex
	sub   Subscription
}

// Service owns the in-memory registry of live sessions. Each active session
// has a ticker goroutine driving Tick and broadcasting snapshots to watchers.
type Service struct {
	cfg      Config
	hub      *stream.Hub
	source   Source
	regionCf geo.RegionConfig

	mu       sync.Mutex
	sessions map[string]*liveSession
}

func NewService(cfg Config, hub *stream.Hub, source Source) *Service {
	return &Service{
		cfg:      cfg,
		hub:      hub,
		source:   source,
		regionCf: geo.DefaultRegionConfig(),
		sessions: map[string]*liveSession{},
	}
}

func (s *Service) StartSession(userID string, seed *geo.Position) (Session, error) {
	tracker := NewTracker(s.cfg)
	if err := tracker.Start(seed); err != nil {
		return Session{}, err
	}

	sess := &liveSession{
		id:        uuid.NewString(),
		userID:    userID,
		startedAt: time.Now(),
		tracker:   tracker,
		stopTick:  make(chan struct{}),
	}

	// subscribe before the session becomes reachable through the registry
	if s.source != nil {
		sess.sub = s.source.Subscribe(func(p geo.Position) {
			_ = tracker.AddPosition(p)
		})
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	go s.tickLoop(sess)

	return Session{ID: sess.id, UserID: sess.userID, StartedAt: sess.startedAt, Status: StatusRunning}, nil
}

func (s *Service) tickLoop(sess *liveSession) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sess.tracker.Tick()
			s.broadcast(sess)
		case <-sess.stopTick:
			return
		}
	}
}

func (s *Service) broadcast(sess *liveSession) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(sess.tracker.Snapshot())
	s.hub.Broadcast(sess.id, payload)
}

func (s *Service) AddPosition(sessionID string, p geo.Position) (State, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return State{}, err
	}
	if err := sess.tracker.AddPosition(p); err != nil {
		return State{}, err
	}
	s.broadcast(sess)
	return sess.tracker.Snapshot(), nil
}

func (s *Service) Pause(sessionID string) (State, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return State{}, err
	}
	if err := sess.tracker.Pause(); err != nil {
		return State{}, err
	}
	sess.unsubscribe()
	return sess.tracker.Snapshot(), nil
}

func (s *Service) Resume(sessionID string) (State, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return State{}, err
	}
	if err := sess.tracker.Resume(); err != nil {
		return State{}, err
	}
	if s.source != nil {
		sess.subMu.Lock()
		if sess.sub == nil {
			sess.sub = s.source.Subscribe(func(p geo.Position) {
				_ = sess.tracker.AddPosition(p)
			})
		}
		sess.subMu.Unlock()
	}
	return sess.tracker.Snapshot(), nil
}

// Stop finalizes a session. The session stays registered (completed) until it
// is saved or discarded, so a failed save never loses the run.
func (s *Service) Stop(sessionID string) (Final, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return Final{}, err
	}
	final, err := sess.tracker.Stop()
	if err != nil {
		return Final{}, err
	}
	s.halt(sess)
	return Final{SessionID: sess.id, UserID: sess.userID, StartedAt: sess.startedAt, State: final}, nil
}

// Save persists a completed session through the recorder and drops it from
// the registry on success. On failure the session remains for a retry.
func (s *Service) Save(ctx context.Context, sessionID string, recorder Recorder) (string, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return "", err
	}
	state := sess.tracker.Snapshot()
	if state.Status != StatusCompleted {
		return "", ErrNotStopped
	}

	recordID, err := recorder.Save(ctx, Final{
		SessionID: sess.id,
		UserID:    sess.userID,
		StartedAt: sess.startedAt,
		State:     state,
	})
	if err != nil {
		return "", err
	}

	s.remove(sess)
	return recordID, nil
}

// Discard drops a session without persisting it.
func (s *Service) Discard(sessionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	s.halt(sess)
	s.remove(sess)
	return nil
}

func (s *Service) Snapshot(sessionID string) (State, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return State{}, err
	}
	return sess.tracker.Snapshot(), nil
}

// Region returns the map viewport bounding the session's path so far.
func (s *Service) Region(sessionID string) (geo.Region, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return geo.Region{}, err
	}
	return geo.FitRegion(sess.tracker.Snapshot().Path, s.regionCf), nil
}

func (s *Service) lookup(sessionID string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) halt(sess *liveSession) {
	sess.unsubscribe()
	sess.tickOnce.Do(func() { close(sess.stopTick) })
}

func (sess *liveSession) unsubscribe() {
	sess.subMu.Lock()
	defer sess.subMu.Unlock()
	if sess.sub != nil {
		sess.sub.Unsubscribe()
		sess.sub = nil
	}
}

func (s *Service) remove(sess *liveSession) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
}
