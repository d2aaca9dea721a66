package exercise

import "fmt"

// ProblemType identifies the kind of practice exercise.
type ProblemType string

const (
	TypeTranslation    ProblemType = "translation"
	TypeFillInBlank    ProblemType = "fill_in_blank"
	TypeMultipleChoice ProblemType = "multiple_choice"
	TypeFreeResponse   ProblemType = "free_response"
)

// KnownType reports whether t is one of the four supported problem kinds.
func KnownType(t ProblemType) bool {
	switch t {
	case TypeTranslation, TypeFillInBlank, TypeMultipleChoice, TypeFreeResponse:
		return true
	}
	return false
}

// TranslationProblem asks the learner to translate a sentence.
type TranslationProblem struct {
	// Prompt is the sentence to translate, in the source language.
	Prompt string `json:"prompt"`

	// Direction is "to_target" or "to_native".
	Direction string `json:"direction,omitempty"`
}

// Blank is a single gap in a fill-in-blank exercise.
type Blank struct {
	// ID identifies the blank within the exercise, e.g. "b1".
	ID string `json:"id"`

	// Template is the display text containing a placeholder run for the gap,
	// e.g. "Yo ____ estudiante."
	Template string `json:"template"`

	// ExpectedAnswers lists the accepted answer strings. Model-visible only
	// at generation time; stripped by Redacted before help turns.
	ExpectedAnswers []string `json:"expected_answers,omitempty"`
}

// FillInBlankProblem asks the learner to complete one or more gaps.
type FillInBlankProblem struct {
	Instructions string  `json:"instructions,omitempty"`
	Blanks       []Blank `json:"blanks"`
}

// Option is one selectable choice in a multiple-choice exercise.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MultipleChoiceProblem asks the learner to pick one or more options.
type MultipleChoiceProblem struct {
	Question      string   `json:"question"`
	Options       []Option `json:"options"`
	AllowMultiple bool     `json:"allow_multiple"`

	// CorrectOptionIDs is the answer key. Stripped by Redacted before any
	// model-facing serialization.
	CorrectOptionIDs []string `json:"correct_option_ids,omitempty"`
}

// FreeResponseProblem asks for an open-ended written answer.
type FreeResponseProblem struct {
	Prompt string `json:"prompt"`
}

// Proposal is an exercise suggested by the model, awaiting explicit user
// activation. Enabled acts as the tagged-union discriminant: when 0 every
// payload field must be null; when 1 exactly one payload is populated,
// matching ProblemType.
type Proposal struct {
	Enabled        int                    `json:"enabled"`
	ProposalID     string                 `json:"proposal_id,omitempty"`
	ProblemType    ProblemType            `json:"problem_type,omitempty"`
	Translation    *TranslationProblem    `json:"translation"`
	FillInBlank    *FillInBlankProblem    `json:"fill_in_blank"`
	MultipleChoice *MultipleChoiceProblem `json:"multiple_choice"`
	FreeResponse   *FreeResponseProblem   `json:"free_response"`
}

// Exercise is a proposal the user has started working on. Same shape as
// Proposal; the identifier field is renamed across the lifecycle phases.
type Exercise struct {
	Enabled        int                    `json:"enabled"`
	ExerciseID     string                 `json:"exercise_id,omitempty"`
	ProblemType    ProblemType            `json:"problem_type,omitempty"`
	Translation    *TranslationProblem    `json:"translation"`
	FillInBlank    *FillInBlankProblem    `json:"fill_in_blank"`
	MultipleChoice *MultipleChoiceProblem `json:"multiple_choice"`
	FreeResponse   *FreeResponseProblem   `json:"free_response"`
}

// DisabledProposal returns the canonical disabled shape: enabled 0, all
// payload fields null, no id.
func DisabledProposal() Proposal {
	return Proposal{Enabled: 0}
}

// Validate checks the enabled/payload-nullity invariant.
// enabled=0 requires all payloads null; enabled=1 requires exactly one
// payload, matching the declared problem type.
func (p Proposal) Validate() error {
	populated := 0
	var populatedType ProblemType
	if p.Translation != nil {
		populated++
		populatedType = TypeTranslation
	}
	if p.FillInBlank != nil {
		populated++
		populatedType = TypeFillInBlank
	}
	if p.MultipleChoice != nil {
		populated++
		populatedType = TypeMultipleChoice
	}
	if p.FreeResponse != nil {
		populated++
		populatedType = TypeFreeResponse
	}

	if p.Enabled == 0 {
		if populated != 0 {
			return fmt.Errorf("disabled proposal carries %d payload(s)", populated)
		}
		return nil
	}
	if p.Enabled != 1 {
		return fmt.Errorf("enabled must be 0 or 1, got %d", p.Enabled)
	}
	if !KnownType(p.ProblemType) {
		return fmt.Errorf("unknown problem type %q", p.ProblemType)
	}
	if populated != 1 {
		return fmt.Errorf("enabled proposal must carry exactly one payload, got %d", populated)
	}
	if populatedType != p.ProblemType {
		return fmt.Errorf("payload %q does not match problem type %q", populatedType, p.ProblemType)
	}
	return nil
}

// NewProposal builds an enabled proposal around a single payload. Exactly
// one of the payload arguments must be non-nil.
func NewProposal(id string, problemType ProblemType, tr *TranslationProblem, fib *FillInBlankProblem, mc *MultipleChoiceProblem, fr *FreeResponseProblem) (Proposal, error) {
	p := Proposal{
		Enabled:        1,
		ProposalID:     id,
		ProblemType:    problemType,
		Translation:    tr,
		FillInBlank:    fib,
		MultipleChoice: mc,
		FreeResponse:   fr,
	}
	if err := p.Validate(); err != nil {
		return Proposal{}, err
	}
	return p, nil
}

// Activate converts a proposal into the active exercise, carrying the
// proposal id over as the exercise id.
func Activate(p Proposal) (*Exercise, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Enabled != 1 {
		return nil, fmt.Errorf("cannot activate a disabled proposal")
	}
	return &Exercise{
		Enabled:        1,
		ExerciseID:     p.ProposalID,
		ProblemType:    p.ProblemType,
		Translation:    p.Translation,
		FillInBlank:    p.FillInBlank,
		MultipleChoice: p.MultipleChoice,
		FreeResponse:   p.FreeResponse,
	}, nil
}

// Validate checks the enabled/payload-nullity invariant on an exercise.
func (e *Exercise) Validate() error {
	p := Proposal{
		Enabled:        e.Enabled,
		ProposalID:     e.ExerciseID,
		ProblemType:    e.ProblemType,
		Translation:    e.Translation,
		FillInBlank:    e.FillInBlank,
		MultipleChoice: e.MultipleChoice,
		FreeResponse:   e.FreeResponse,
	}
	return p.Validate()
}
