package reply

import "github.com/akarsh/parla/internal/exercise"

// Flags mark what kind of turn the model believes it answered.
type Flags struct {
	IsHelp      bool `json:"is_help"`
	IsPostClear bool `json:"is_post_clear"`
}

// Poll is a quick comprehension quiz the model may raise during chat.
// Same enabled/payload-nullity convention as proposals: when Enabled is 0
// the payload fields are empty.
type Poll struct {
	Enabled  int      `json:"enabled"`
	PollID   string   `json:"poll_id,omitempty"`
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// DisabledPoll returns the canonical disabled poll shape.
func DisabledPoll() Poll {
	return Poll{Enabled: 0}
}

// Valid reports whether an enabled poll carries a usable payload.
func (p Poll) Valid() bool {
	if p.Enabled != 1 {
		return false
	}
	return p.Question != "" && len(p.Options) > 0
}

// StructuredResponse is the model collaborator's output contract. Raw
// responses are adversarial: fields may be missing, enabled flags may
// contradict payload nullity, and multiple signals may be raised at once.
// Normalize resolves all of that before anything reaches the controller.
type StructuredResponse struct {
	Response    string            `json:"response"`
	Flags       Flags             `json:"flags"`
	ClearActive int               `json:"clear_active"`
	Proposal    exercise.Proposal `json:"proposal"`
	Poll        Poll              `json:"poll"`
}
