package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPhaseChange   EventType = "phase_change"
	EventGatewayCall   EventType = "gateway_call"
	EventGeneration    EventType = "question_generation"
	EventAnswerRecord  EventType = "answer_recorded"
	EventReportFlushed EventType = "report_flushed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// PhaseEvent is emitted on every phase transition.
type PhaseEvent struct {
	EventBase
	From Phase `json:"from"`
	To   Phase `json:"to"`
}

// GatewayEvent is emitted after each model gateway call.
type GatewayEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	IsError  bool          `json:"is_error,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// GenerationEvent is emitted once per question generation attempt,
// after the model output was parsed (or failed to be).
type GenerationEvent struct {
	EventBase
	Questions int    `json:"questions"`
	IsError   bool   `json:"is_error,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AnswerEvent is emitted when an answer is recorded.
type AnswerEvent struct {
	EventBase
	Index    int    `json:"index"`
	Category string `json:"category,omitempty"`
}

// FlushEvent is emitted after the persistence writer ran.
type FlushEvent struct {
	EventBase
	Phase   Phase  `json:"phase"`
	IsError bool   `json:"is_error,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnPhaseChange func(context.Context, *PhaseEvent)
	OnGatewayCall func(context.Context, *GatewayEvent)
	OnGeneration  func(context.Context, *GenerationEvent)
	OnAnswer      func(context.Context, *AnswerEvent)
	OnFlush       func(context.Context, *FlushEvent)
}

// SessionEvent is the message published to external subscribers when a session ends.
type SessionEvent struct {
	SessionID string            `json:"session_id"`
	Phase     Phase             `json:"phase"`
	Profile   map[string]string `json:"profile"`
	Answers   []AnswerRecord    `json:"answers"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewSessionEvent summarizes a session for publication.
func NewSessionEvent(state *SessionState) SessionEvent {
	return SessionEvent{
		SessionID: state.SessionID,
		Phase:     state.Phase,
		Profile:   state.Profile.Map(),
		Answers:   append([]AnswerRecord{}, state.Answers...),
		Timestamp: time.Now().UTC(),
	}
}
