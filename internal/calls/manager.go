package calls

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/metrics"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

var (
	ErrSessionNotFound = errors.New("call session not found")
	ErrForbidden       = errors.New("call session belongs to another user")
)

// LiveSessionError is returned when the user already has a call in progress.
type LiveSessionError struct {
	SessionID string
}

func (e *LiveSessionError) Error() string {
	return "user already has a live call session: " + e.SessionID
}

// InterviewLookup loads the interview a session will conduct.
type InterviewLookup interface {
	GetByID(ctx context.Context, id string) (*models.Interview, error)
}

// Observer is told about every published session change.
type Observer interface {
	OnSessionChange(ctx context.Context, snap Snapshot, from State)
}

type ManagerConfig struct {
	WorkflowID       string
	InterviewerID    string
	ConnectTimeout   time.Duration
	IdleTTL          time.Duration
	ErrorEndsSession bool
}

// Owner identifies the authenticated user creating a session.
type Owner struct {
	UserID string
	Name   string
}

// Manager owns all in-memory sessions. A user has at most one session that
// has not reached FINISHED.
type Manager struct {
	cfg        ManagerConfig
	interviews InterviewLookup
	feedback   FeedbackGenerator
	observers  []Observer
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	live     map[string]string // user id -> session id
	peerLive map[string]peerSession // user id -> live session on another instance

	// sessions in CONNECTING or ACTIVE, kept on state edges in onChange
	active atomic.Int64
}

func NewManager(cfg ManagerConfig, interviews InterviewLookup, feedback FeedbackGenerator, logger *zap.Logger, observers ...Observer) *Manager {
	return &Manager{
		cfg:        cfg,
		interviews: interviews,
		feedback:   feedback,
		observers:  observers,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*Session),
		live:       make(map[string]string),
		peerLive:   make(map[string]peerSession),
	}
}

type peerSession struct {
	id   string
	seen time.Time
}

// ObservePeer records a state change of a session served by another
// instance, so a user cannot open a second live call elsewhere.
func (m *Manager) ObservePeer(sessionID, userID string, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state.Live() {
		m.peerLive[userID] = peerSession{id: sessionID, seen: m.now()}
		return
	}
	if m.peerLive[userID].id == sessionID {
		delete(m.peerLive, userID)
	}
}

// Create registers a new INACTIVE session for owner.
func (m *Manager) Create(ctx context.Context, owner Owner, req *models.CreateCallRequest) (*Session, error) {
	cfg := sessionConfig{
		id:       uuid.NewString(),
		userID:   owner.UserID,
		purpose:  Purpose(req.Type),
		feedback: m.feedback,
		opts:     TransitionOptions{ErrorEndsSession: m.cfg.ErrorEndsSession},
		logger:   m.logger,
		now:      m.now,
	}

	switch cfg.purpose {
	case PurposeGenerate:
		cfg.target = m.cfg.WorkflowID
		cfg.variables = map[string]string{
			"username": owner.Name,
			"userid":   owner.UserID,
		}
	case PurposeInterview:
		interview, err := m.interviews.GetByID(ctx, req.InterviewID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, models.NewFailure(models.FailureNotFound, "interview not found", err)
			}
			return nil, models.NewFailure(models.FailurePersistence, "failed to load interview", err)
		}
		cfg.interviewID = interview.ID
		cfg.target = m.cfg.InterviewerID
		cfg.variables = map[string]string{"questions": FormatQuestions(interview.Questions)}
	default:
		return nil, models.NewFailure(models.FailureInvalid, "unknown call type: "+req.Type, nil)
	}

	cfg.notify = m.onChange
	session := newSession(cfg)

	m.mu.Lock()
	if existing, ok := m.live[owner.UserID]; ok {
		m.mu.Unlock()
		return nil, &LiveSessionError{SessionID: existing}
	}
	if peer, ok := m.peerLive[owner.UserID]; ok {
		m.mu.Unlock()
		return nil, &LiveSessionError{SessionID: peer.id}
	}
	m.sessions[session.ID()] = session
	m.live[owner.UserID] = session.ID()
	m.mu.Unlock()

	m.logger.Info("Call session created",
		zap.String("session_id", session.ID()),
		zap.String("user_id", owner.UserID),
		zap.String("purpose", string(cfg.purpose)))
	return session, nil
}

// Get returns the session if userID owns it.
func (m *Manager) Get(id, userID string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.UserID() != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

func (m *Manager) Dispatch(ctx context.Context, id, userID string, ev Event) (Snapshot, error) {
	session, err := m.Get(id, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Dispatch(ctx, ev)
}

// LiveCount returns how many sessions are CONNECTING or ACTIVE.
func (m *Manager) LiveCount() int {
	return int(m.active.Load())
}

// Reap finishes sessions stuck in CONNECTING past the connect timeout and
// forgets sessions that have not changed for the idle TTL.
func (m *Manager) Reap(ctx context.Context) (timedOut, removed int) {
	now := m.now()

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	// a peer that went away never reports the end of its sessions
	for userID, peer := range m.peerLive {
		if now.Sub(peer.seen) >= m.cfg.IdleTTL {
			delete(m.peerLive, userID)
		}
	}
	m.mu.Unlock()

	for _, s := range sessions {
		if since, connecting := s.connectingSince(); connecting && now.Sub(since) >= m.cfg.ConnectTimeout {
			if _, err := s.Dispatch(ctx, Event{Type: EventConnectTimeout}); err == nil {
				timedOut++
			}
		}

		updated, state := s.lastUpdate()
		if now.Sub(updated) < m.cfg.IdleTTL {
			continue
		}
		if state != StateFinished {
			// idle sessions are closed like a user disconnect before removal
			s.Dispatch(ctx, Event{Type: EventDisconnect})
		}
		m.remove(s)
		removed++
	}

	if timedOut > 0 || removed > 0 {
		m.logger.Info("Reaped call sessions", zap.Int("timed_out", timedOut), zap.Int("removed", removed))
	}
	return timedOut, removed
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.ID())
	if m.live[s.UserID()] == s.ID() {
		delete(m.live, s.UserID())
	}
}

func (m *Manager) onChange(snap Snapshot, from State) {
	if snap.State != from {
		metrics.ObserveCallTransition(string(from), string(snap.State))
		if snap.State == StateFinished {
			m.mu.Lock()
			if m.live[snap.UserID] == snap.ID {
				delete(m.live, snap.UserID)
			}
			m.mu.Unlock()
		}
		switch {
		case !from.Live() && snap.State.Live():
			metrics.SetActiveCalls(int(m.active.Add(1)))
		case from.Live() && !snap.State.Live():
			metrics.SetActiveCalls(int(m.active.Add(-1)))
		}
	}

	ctx := context.Background()
	for _, o := range m.observers {
		o.OnSessionChange(ctx, snap, from)
	}
}

// FormatQuestions renders questions as the "-question" lines the interviewer assistant expects.
func FormatQuestions(questions []string) string {
	lines := make([]string, 0, len(questions))
	for _, q := range questions {
		lines = append(lines, "-"+q)
	}
	return strings.Join(lines, "\n")
}
