package calls

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/feedback"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

// Agent is the voice collaborator's control surface for one call.
type Agent interface {
	Start(ctx context.Context, target string, variables map[string]string) error
	Stop(ctx context.Context) error
}

type FeedbackGenerator interface {
	Generate(ctx context.Context, p feedback.GenerateParams) (*models.Feedback, error)
}

// outcome statuses
const (
	OutcomePending   = "pending" // finished, feedback is being scored
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeAbandoned = "abandoned"
)

const feedbackFailedMessage = "Failed to generate feedback. Please try again."

// Outcome tells the client where to go once the session has finished.
type Outcome struct {
	Status     string `json:"status"`
	FeedbackID string `json:"feedbackId,omitempty"`
	Redirect   string `json:"redirect"`
	Message    string `json:"message,omitempty"`
}

type Snapshot struct {
	ID             string                  `json:"id"`
	UserID         string                  `json:"userId"`
	InterviewID    string                  `json:"interviewId,omitempty"`
	Purpose        Purpose                 `json:"purpose"`
	State          State                   `json:"state"`
	Transcript     []models.TranscriptTurn `json:"transcript"`
	Speaking       bool                    `json:"speaking"`
	ElapsedSeconds int                     `json:"elapsedSeconds"`
	LastError      string                  `json:"lastError,omitempty"`
	Outcome        *Outcome                `json:"outcome,omitempty"`
	Version        int                     `json:"version"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

type scoringJob struct {
	transcript []models.TranscriptTurn
}

type sessionConfig struct {
	id          string
	userID      string
	interviewID string
	purpose     Purpose
	target      string
	variables   map[string]string

	feedback FeedbackGenerator
	opts     TransitionOptions
	logger   *zap.Logger
	now      func() time.Time
	// called after every change, outside the session lock
	notify func(snap Snapshot, from State)
}

// Session is one voice interview. Dispatch is safe for concurrent use; events
// are applied one at a time in the order the lock is acquired.
type Session struct {
	cfg sessionConfig

	mu           sync.Mutex
	state        State
	transcript   []models.TranscriptTurn
	speaking     bool
	createdAt    time.Time
	updatedAt    time.Time
	connectingAt time.Time
	activeAt     time.Time
	finishedAt   time.Time
	lastError    string
	outcome      *Outcome
	version      int

	agent        Agent
	pendingStart bool
	scoring      *scoringJob // queued by EffectGenerateFeedback, run after unlock
	watchers     map[int]func(Snapshot)
	nextWatcher  int
}

func newSession(cfg sessionConfig) *Session {
	if cfg.now == nil {
		cfg.now = time.Now
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	now := cfg.now()
	return &Session{
		cfg:       cfg,
		state:     StateInactive,
		createdAt: now,
		updatedAt: now,
		watchers:  make(map[int]func(Snapshot)),
	}
}

func (s *Session) ID() string     { return s.cfg.id }
func (s *Session) UserID() string { return s.cfg.userID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Dispatch applies ev and returns the resulting snapshot. When ev finishes an
// interview, scoring runs after the FINISHED snapshot is published and the
// returned snapshot carries its outcome.
func (s *Session) Dispatch(ctx context.Context, ev Event) (Snapshot, error) {
	s.mu.Lock()
	from, version := s.state, s.version
	err := s.applyLocked(ctx, ev)
	snap, job := s.unlockAndPublish(from, version)

	if job != nil {
		snap = s.score(ctx, job)
	}
	return snap, err
}

// Attach connects the voice collaborator. A start issued before any agent
// was attached is replayed now.
func (s *Session) Attach(ctx context.Context, agent Agent) (detach func()) {
	s.mu.Lock()
	from, version := s.state, s.version
	s.agent = agent
	if s.pendingStart && s.state == StateConnecting {
		s.pendingStart = false
		s.startLocked(ctx)
	}
	if _, job := s.unlockAndPublish(from, version); job != nil {
		s.score(ctx, job)
	}

	return func() {
		s.mu.Lock()
		if s.agent == agent {
			s.agent = nil
		}
		s.mu.Unlock()
	}
}

// unlockAndPublish releases s.mu, which the caller holds, and publishes the
// snapshot if anything changed since version.
func (s *Session) unlockAndPublish(from State, version int) (Snapshot, *scoringJob) {
	snap := s.snapshotLocked()
	watchers := s.watchersLocked()
	job := s.scoring
	s.scoring = nil
	s.mu.Unlock()

	if snap.Version != version {
		s.publish(snap, from, watchers)
	}
	return snap, job
}

// Watch registers fn for every snapshot published after a change.
func (s *Session) Watch(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Session) publish(snap Snapshot, from State, watchers []func(Snapshot)) {
	if s.cfg.notify != nil {
		s.cfg.notify(snap, from)
	}
	for _, fn := range watchers {
		fn(snap)
	}
}

func (s *Session) watchersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.watchers))
	for _, fn := range s.watchers {
		out = append(out, fn)
	}
	return out
}

func (s *Session) applyLocked(ctx context.Context, ev Event) error {
	if (ev.Type == EventFeedbackReady || ev.Type == EventFeedbackFailed) && !s.awaitingFeedbackLocked() {
		return nil
	}
	next, effects, err := Transition(s.state, s.cfg.purpose, ev, s.cfg.opts)
	if err != nil {
		return err
	}

	if next != s.state {
		now := s.cfg.now()
		switch next {
		case StateConnecting:
			s.connectingAt = now
		case StateActive:
			s.activeAt = now
		case StateFinished:
			s.finishedAt = now
			s.speaking = false
		}
		s.cfg.logger.Info("Call state changed",
			zap.String("session_id", s.cfg.id),
			zap.String("from", string(s.state)),
			zap.String("to", string(next)),
			zap.String("event", string(ev.Type)))
		s.state = next
		s.touchLocked()
	}

	for _, eff := range effects {
		s.runEffectLocked(ctx, eff)
	}
	return nil
}

func (s *Session) runEffectLocked(ctx context.Context, eff Effect) {
	switch eff.Kind {
	case EffectStartCall:
		if s.agent == nil {
			s.pendingStart = true
			return
		}
		s.startLocked(ctx)

	case EffectStopCall:
		s.pendingStart = false
		if s.agent == nil {
			return
		}
		if err := s.agent.Stop(ctx); err != nil {
			s.cfg.logger.Warn("Failed to stop call", zap.String("session_id", s.cfg.id), zap.Error(err))
		}

	case EffectAppendTurn:
		s.transcript = append(s.transcript, eff.Turn)
		s.touchLocked()

	case EffectSetSpeaking:
		if s.speaking != eff.Speaking {
			s.speaking = eff.Speaking
			s.touchLocked()
		}

	case EffectRecordError:
		s.lastError = eff.Reason
		s.cfg.logger.Warn("Call transport error", zap.String("session_id", s.cfg.id), zap.String("error", eff.Reason))
		s.touchLocked()

	case EffectGenerateFeedback:
		if s.cfg.feedback == nil {
			s.outcome = &Outcome{Status: OutcomeFailed, Redirect: "/", Message: feedbackFailedMessage}
		} else {
			s.outcome = &Outcome{Status: OutcomePending}
			s.scoring = &scoringJob{transcript: append([]models.TranscriptTurn(nil), s.transcript...)}
		}
		s.touchLocked()

	case EffectFeedbackReady:
		s.outcome = &Outcome{
			Status:     OutcomeCompleted,
			FeedbackID: eff.FeedbackID,
			Redirect:   "/interview/" + s.cfg.interviewID + "/feedback",
		}
		s.touchLocked()

	case EffectComplete:
		s.outcome = &Outcome{Status: OutcomeCompleted, Redirect: "/"}
		s.touchLocked()

	case EffectFail:
		s.outcome = &Outcome{Status: OutcomeFailed, Redirect: "/", Message: eff.Reason}
		s.touchLocked()

	case EffectAbandon:
		s.outcome = &Outcome{Status: OutcomeAbandoned, Redirect: "/"}
		s.touchLocked()
	}
}

func (s *Session) startLocked(ctx context.Context) {
	if err := s.agent.Start(ctx, s.cfg.target, s.cfg.variables); err != nil {
		s.cfg.logger.Error("Failed to start call", zap.String("session_id", s.cfg.id), zap.Error(err))
		_ = s.applyLocked(ctx, Event{Type: EventStartFailed, Error: err.Error()})
	}
}

// score runs the queued feedback job without holding the lock and feeds the
// result back as an event. The caller's cancellation is detached so a dropped
// client cannot abort scoring half way.
func (s *Session) score(ctx context.Context, job *scoringJob) Snapshot {
	fb, err := s.cfg.feedback.Generate(context.WithoutCancel(ctx), feedback.GenerateParams{
		InterviewID: s.cfg.interviewID,
		UserID:      s.cfg.userID,
		Transcript:  job.transcript,
	})

	ev := Event{Type: EventFeedbackFailed}
	if err != nil {
		s.cfg.logger.Error("Feedback generation failed",
			zap.String("session_id", s.cfg.id),
			zap.String("interview_id", s.cfg.interviewID),
			zap.String("kind", string(models.FailureKindOf(err))),
			zap.Error(err))
	} else {
		ev = Event{Type: EventFeedbackReady, FeedbackID: fb.ID}
	}

	snap, _ := s.Dispatch(context.WithoutCancel(ctx), ev)
	return snap
}

func (s *Session) awaitingFeedbackLocked() bool {
	return s.outcome != nil && s.outcome.Status == OutcomePending
}

func (s *Session) touchLocked() {
	s.version++
	s.updatedAt = s.cfg.now()
}

func (s *Session) snapshotLocked() Snapshot {
	var elapsed time.Duration
	if !s.activeAt.IsZero() {
		end := s.cfg.now()
		if !s.finishedAt.IsZero() {
			end = s.finishedAt
		}
		elapsed = end.Sub(s.activeAt)
	}

	var outcome *Outcome
	if s.outcome != nil {
		o := *s.outcome
		outcome = &o
	}
	return Snapshot{
		ID:             s.cfg.id,
		UserID:         s.cfg.userID,
		InterviewID:    s.cfg.interviewID,
		Purpose:        s.cfg.purpose,
		State:          s.state,
		Transcript:     append([]models.TranscriptTurn{}, s.transcript...),
		Speaking:       s.speaking,
		ElapsedSeconds: int(elapsed / time.Second),
		LastError:      s.lastError,
		Outcome:        outcome,
		Version:        s.version,
		CreatedAt:      s.createdAt,
		UpdatedAt:      s.updatedAt,
	}
}

// connectingSince reports when the session entered CONNECTING, if it is still there.
func (s *Session) connectingSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectingAt, s.state == StateConnecting
}

func (s *Session) lastUpdate() (time.Time, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt, s.state
}
