package domain

import "time"

// Phase defines where a session is in the screening flow.
type Phase string

const (
	PhaseIdle                Phase = "idle"                 // Created, nothing rendered yet
	PhaseCollectingInfo      Phase = "collecting_info"      // One info stage per interaction
	PhaseGeneratingQuestions Phase = "generating_questions" // Waiting on the model gateway
	PhaseAnsweringQuestions  Phase = "answering_questions"  // One question per interaction
	PhaseCompleted           Phase = "completed"            // Sink state: all questions answered
	PhaseExited              Phase = "exited"               // Sink state: candidate left early
)

// Terminal reports whether the phase is a sink state.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseExited
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one line of the conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SessionState represents the current snapshot of a screening session.
// Engine operations never mutate the snapshot they receive; they return a new one.
type SessionState struct {
	SessionID string `json:"session_id"`
	Phase     Phase  `json:"phase"`

	// Stage is the index into InfoStages while collecting info.
	Stage   int              `json:"stage"`
	Profile CandidateProfile `json:"profile"`

	// Questions stays nil until generation succeeds.
	Questions QuestionBank   `json:"questions,omitempty"`
	Index     int            `json:"index"`
	Answers   []AnswerRecord `json:"answers"`

	Transcript []Message `json:"transcript"`

	// Flushed records that the persistence writer ran for this session.
	Flushed bool `json:"flushed"`

	// LastError carries the user-visible message of the last rejected interaction.
	LastError string `json:"last_error,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Revision increases with every transition and guards concurrent saves.
	Revision int `json:"revision"`

	// Sealed is set only on envelopes written by an encrypting store:
	// it holds the encrypted session and every content field above is empty.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewSessionState creates an idle session.
func NewSessionState(sessionID string) *SessionState {
	now := time.Now().UTC()
	return &SessionState{
		SessionID:  sessionID,
		Phase:      PhaseIdle,
		Profile:    CandidateProfile{},
		Answers:    []AnswerRecord{},
		Transcript: []Message{},
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a deep copy that shares no slices with s.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	c := *s
	c.Profile = append(CandidateProfile{}, s.Profile...)
	c.Questions = s.Questions.Clone()
	c.Answers = append([]AnswerRecord{}, s.Answers...)
	c.Transcript = append([]Message{}, s.Transcript...)
	if s.Sealed != nil {
		c.Sealed = append([]byte{}, s.Sealed...)
	}
	return &c
}

// CurrentStage returns the info stage awaiting input.
func (s *SessionState) CurrentStage() (InfoStage, bool) {
	if s.Phase != PhaseCollectingInfo || s.Stage < 0 || s.Stage >= len(InfoStages) {
		return InfoStage{}, false
	}
	return InfoStages[s.Stage], true
}

// CurrentQuestion returns the question awaiting an answer.
func (s *SessionState) CurrentQuestion() (QuestionItem, bool) {
	if s.Phase != PhaseAnsweringQuestions || s.Index < 0 || s.Index >= len(s.Questions) {
		return QuestionItem{}, false
	}
	return s.Questions[s.Index], true
}

// Terminal reports whether the session reached a sink state.
func (s *SessionState) Terminal() bool {
	return s.Phase.Terminal()
}

// Say appends an assistant message to the transcript.
func (s *SessionState) Say(content string) {
	s.Transcript = append(s.Transcript, Message{Role: RoleAssistant, Content: content})
}

// Hear appends a user message to the transcript.
func (s *SessionState) Hear(content string) {
	s.Transcript = append(s.Transcript, Message{Role: RoleUser, Content: content})
}
