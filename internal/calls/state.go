// Package calls drives voice interview sessions through their lifecycle.
//
// Every event, whether it comes from the user or from the voice
// collaborator, goes through Transition. Transition is pure: it maps the
// current state and an event to the next state plus an ordered list of
// effects. Session applies those effects one event at a time.
package calls

import (
	"errors"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

type State string

const (
	StateInactive   State = "INACTIVE"
	StateConnecting State = "CONNECTING"
	StateActive     State = "ACTIVE"
	StateFinished   State = "FINISHED"
)

// Live reports whether a call is in progress.
func (s State) Live() bool {
	return s == StateConnecting || s == StateActive
}

// Purpose decides what happens once a call finishes.
type Purpose string

const (
	PurposeGenerate  Purpose = "generate"  // the call itself collects parameters for a new interview
	PurposeInterview Purpose = "interview" // the call conducts an existing interview
)

type EventType string

// user actions
const (
	EventStart      EventType = "start"
	EventDisconnect EventType = "disconnect"
)

// voice collaborator notifications
const (
	EventCallStart   EventType = "call-start"
	EventCallEnd     EventType = "call-end"
	EventMessage     EventType = "message"
	EventSpeechStart EventType = "speech-start"
	EventSpeechEnd   EventType = "speech-end"
	EventError       EventType = "error"
)

// raised by the server itself
const (
	EventStartFailed    EventType = "start-failed"
	EventConnectTimeout EventType = "connect-timeout"
	EventFeedbackReady  EventType = "feedback-ready"
	EventFeedbackFailed EventType = "feedback-failed"
)

// Internal reports whether the event may only be raised by the server.
func (t EventType) Internal() bool {
	switch t {
	case EventStartFailed, EventConnectTimeout, EventFeedbackReady, EventFeedbackFailed:
		return true
	}
	return false
}

const (
	messageTypeTranscript = "transcript"
	transcriptFinal       = "final"
)

// Message is the payload of a "message" event, shaped like the voice SDK's.
type Message struct {
	Type           string `json:"type"`
	TranscriptType string `json:"transcriptType,omitempty"`
	Role           string `json:"role,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
}

type Event struct {
	Type    EventType `json:"type"`
	Message *Message  `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`

	FeedbackID string `json:"-"` // EventFeedbackReady
}

// finalTurn returns the transcript turn carried by a finalized transcript message.
func (e Event) finalTurn() (models.TranscriptTurn, bool) {
	m := e.Message
	if e.Type != EventMessage || m == nil {
		return models.TranscriptTurn{}, false
	}
	if m.Type != messageTypeTranscript || m.TranscriptType != transcriptFinal || m.Transcript == "" {
		return models.TranscriptTurn{}, false
	}
	return models.TranscriptTurn{Role: m.Role, Content: m.Transcript}, true
}

type EffectKind string

const (
	EffectStartCall        EffectKind = "start-call"
	EffectStopCall         EffectKind = "stop-call"
	EffectAppendTurn       EffectKind = "append-turn"
	EffectSetSpeaking      EffectKind = "set-speaking"
	EffectRecordError      EffectKind = "record-error"
	EffectGenerateFeedback EffectKind = "generate-feedback"
	EffectComplete         EffectKind = "complete"
	EffectFail             EffectKind = "fail"
	EffectAbandon          EffectKind = "abandon"
	EffectFeedbackReady    EffectKind = "feedback-ready"
)

type Effect struct {
	Kind       EffectKind
	Turn       models.TranscriptTurn // EffectAppendTurn
	Speaking   bool                  // EffectSetSpeaking
	Reason     string                // EffectRecordError, EffectFail
	FeedbackID string                // EffectFeedbackReady
}

var (
	ErrCallInProgress  = errors.New("a call is already in progress for this session")
	ErrSessionFinished = errors.New("session has finished; create a new session")
)

type TransitionOptions struct {
	// ErrorEndsSession finishes the call when the collaborator reports an error.
	ErrorEndsSession bool
}

// Transition computes the next state and the effects of applying ev in state.
// Events that do not apply to the current state are no-ops, except a repeated
// start which is rejected.
func Transition(state State, purpose Purpose, ev Event, opts TransitionOptions) (State, []Effect, error) {
	switch ev.Type {
	case EventStart:
		switch state {
		case StateInactive:
			return StateConnecting, []Effect{{Kind: EffectStartCall}}, nil
		case StateFinished:
			return state, nil, ErrSessionFinished
		default:
			return state, nil, ErrCallInProgress
		}

	case EventCallStart:
		if state == StateConnecting {
			return StateActive, nil, nil
		}

	case EventMessage:
		if state != StateActive {
			return state, nil, nil
		}
		if turn, ok := ev.finalTurn(); ok {
			return state, []Effect{{Kind: EffectAppendTurn, Turn: turn}}, nil
		}

	case EventSpeechStart, EventSpeechEnd:
		if state == StateActive {
			return state, []Effect{{Kind: EffectSetSpeaking, Speaking: ev.Type == EventSpeechStart}}, nil
		}

	case EventCallEnd:
		if state.Live() {
			return StateFinished, []Effect{terminal(purpose)}, nil
		}

	case EventDisconnect:
		switch state {
		case StateInactive:
			return StateFinished, []Effect{{Kind: EffectAbandon}}, nil
		case StateConnecting, StateActive:
			return StateFinished, []Effect{{Kind: EffectStopCall}, terminal(purpose)}, nil
		}

	case EventError:
		if !state.Live() {
			return state, nil, nil
		}
		record := Effect{Kind: EffectRecordError, Reason: ev.Error}
		if opts.ErrorEndsSession {
			return StateFinished, []Effect{record, {Kind: EffectStopCall}, terminal(purpose)}, nil
		}
		return state, []Effect{record}, nil

	case EventStartFailed:
		if state == StateConnecting {
			return StateFinished, []Effect{
				{Kind: EffectRecordError, Reason: ev.Error},
				{Kind: EffectFail, Reason: "could not start the call"},
			}, nil
		}

	case EventConnectTimeout:
		if state == StateConnecting {
			return StateFinished, []Effect{
				{Kind: EffectStopCall},
				{Kind: EffectRecordError, Reason: "call did not connect in time"},
				{Kind: EffectFail, Reason: "the call did not connect in time"},
			}, nil
		}

	// scoring results arrive after the session has finished
	case EventFeedbackReady:
		if state == StateFinished {
			return state, []Effect{{Kind: EffectFeedbackReady, FeedbackID: ev.FeedbackID}}, nil
		}

	case EventFeedbackFailed:
		if state == StateFinished {
			return state, []Effect{{Kind: EffectFail, Reason: feedbackFailedMessage}}, nil
		}
	}
	return state, nil, nil
}

func terminal(purpose Purpose) Effect {
	if purpose == PurposeInterview {
		return Effect{Kind: EffectGenerateFeedback}
	}
	return Effect{Kind: EffectComplete}
}
