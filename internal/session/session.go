package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/akarsh/parla/internal/exercise"
	"github.com/akarsh/parla/internal/reply"
)

// DefaultID is the fixed namespace key for the single local session.
const DefaultID = "parla/session"

// ConversationMode governs whether scripted onboarding questions intercept
// user input.
type ConversationMode string

const (
	ModeOnboarding ConversationMode = "onboarding"
	ModeChat       ConversationMode = "chat"
)

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Config holds the language pair. Immutable once set except via explicit edit.
type Config struct {
	NativeLanguage string `json:"native_language"`
	TargetLanguage string `json:"target_language"`
}

// Placement holds the raw onboarding answers used to synthesize the
// placement exercise request.
type Placement struct {
	LevelText string `json:"level_text"`
	FocusText string `json:"focus_text"`
}

// HelpOffer marks an assistant message that offers help after a wrong
// objective submit. Resolved flips when the learner accepts or the
// exercise goes away.
type HelpOffer struct {
	ExerciseID string `json:"exercise_id"`
	Resolved   bool   `json:"resolved"`
}

// Message is one chat bubble. Append-only except on conversation reset.
type Message struct {
	ID         string             `json:"id"`
	Role       Role               `json:"role"`
	Content    string             `json:"content"`
	Error      bool               `json:"error,omitempty"`
	Flags      *reply.Flags       `json:"flags,omitempty"`
	Proposal   *exercise.Proposal `json:"proposal,omitempty"`
	Poll       *reply.Poll        `json:"poll,omitempty"`
	HelpOffer  *HelpOffer         `json:"help_offer,omitempty"`
	PollAnswer string             `json:"poll_answer,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Session is the persisted aggregate for one learner's conversation.
// Mutated by exactly one actor per turn (the controller).
type Session struct {
	Config         Config             `json:"config"`
	Mode           ConversationMode   `json:"conversation_mode"`
	OnboardingStep int                `json:"onboarding_step"`
	Placement      Placement          `json:"placement"`
	Messages       []Message          `json:"messages"`
	Active         *exercise.Exercise `json:"active"`
	Attempt        *exercise.Attempt  `json:"attempt"`
	Pending        *exercise.Proposal `json:"pending_proposal"`
	Grade          *exercise.Grade    `json:"grade"`
}

// New creates a fresh onboarding session for the given language pair.
func New(cfg Config) *Session {
	return &Session{
		Config: cfg,
		Mode:   ModeOnboarding,
	}
}

// Append adds a message, assigning an id and timestamp when absent.
func (s *Session) Append(m Message) *Message {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.Messages = append(s.Messages, m)
	return &s.Messages[len(s.Messages)-1]
}

// Last returns the most recent message, or nil when history is empty.
func (s *Session) Last() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// ClearActive nulls active, attempt and grade together. The three always
// move as one.
func (s *Session) ClearActive() {
	s.Active = nil
	s.Attempt = nil
	s.Grade = nil
}

// Reset returns the session to Onboarding step 0, dropping history and all
// exercise state. Config survives.
func (s *Session) Reset() {
	s.Mode = ModeOnboarding
	s.OnboardingStep = 0
	s.Placement = Placement{}
	s.Messages = nil
	s.Pending = nil
	s.ClearActive()
}

// Clone returns a deep copy via JSON round-trip. The controller snapshots
// state before a model call so a failed turn can be rolled back.
func (s *Session) Clone() (*Session, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
