package exercise

import "testing"

func fibProblem() *FillInBlankProblem {
	return &FillInBlankProblem{
		Blanks: []Blank{
			{ID: "b1", Template: "Yo ____ estudiante.", ExpectedAnswers: []string{"soy"}},
		},
	}
}

func mcProblem() *MultipleChoiceProblem {
	return &MultipleChoiceProblem{
		Question: "Which words are greetings?",
		Options: []Option{
			{ID: "a", Text: "hola"},
			{ID: "b", Text: "buenos días"},
			{ID: "c", Text: "mesa"},
		},
		AllowMultiple:    true,
		CorrectOptionIDs: []string{"a", "b"},
	}
}

func TestProposalValidate_Disabled(t *testing.T) {
	p := DisabledProposal()
	if err := p.Validate(); err != nil {
		t.Fatalf("disabled proposal should validate: %v", err)
	}

	p.FillInBlank = fibProblem()
	if err := p.Validate(); err == nil {
		t.Fatal("disabled proposal with a payload should fail validation")
	}
}

func TestProposalValidate_ExactlyOnePayload(t *testing.T) {
	p := Proposal{Enabled: 1, ProposalID: "p1", ProblemType: TypeFillInBlank, FillInBlank: fibProblem()}
	if err := p.Validate(); err != nil {
		t.Fatalf("valid proposal rejected: %v", err)
	}

	// Zero payloads.
	p.FillInBlank = nil
	if err := p.Validate(); err == nil {
		t.Fatal("enabled proposal with no payload should fail")
	}

	// Two payloads.
	p.FillInBlank = fibProblem()
	p.MultipleChoice = mcProblem()
	if err := p.Validate(); err == nil {
		t.Fatal("enabled proposal with two payloads should fail")
	}
}

func TestProposalValidate_PayloadTypeMismatch(t *testing.T) {
	p := Proposal{Enabled: 1, ProposalID: "p1", ProblemType: TypeTranslation, FillInBlank: fibProblem()}
	if err := p.Validate(); err == nil {
		t.Fatal("payload not matching problem_type should fail")
	}
}

func TestProposalValidate_UnknownType(t *testing.T) {
	p := Proposal{Enabled: 1, ProposalID: "p1", ProblemType: "dictation", FreeResponse: &FreeResponseProblem{Prompt: "x"}}
	if err := p.Validate(); err == nil {
		t.Fatal("unknown problem_type should fail")
	}
}

func TestNewProposal_EnforcesInvariant(t *testing.T) {
	if _, err := NewProposal("p1", TypeMultipleChoice, nil, nil, mcProblem(), nil); err != nil {
		t.Fatalf("valid construction failed: %v", err)
	}
	if _, err := NewProposal("p2", TypeMultipleChoice, nil, fibProblem(), mcProblem(), nil); err == nil {
		t.Fatal("two payloads should be rejected")
	}
}

func TestActivate_CarriesID(t *testing.T) {
	p, err := NewProposal("prop-7", TypeFillInBlank, nil, fibProblem(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ex, err := Activate(p)
	if err != nil {
		t.Fatal(err)
	}
	if ex.ExerciseID != "prop-7" {
		t.Errorf("exercise_id = %q, want proposal id carried over", ex.ExerciseID)
	}
	if ex.ProblemType != TypeFillInBlank || ex.FillInBlank == nil {
		t.Error("payload not carried into exercise")
	}
}

func TestActivate_RejectsDisabled(t *testing.T) {
	if _, err := Activate(DisabledProposal()); err == nil {
		t.Fatal("activating a disabled proposal should fail")
	}
}

func TestNewAttempt_Seeding(t *testing.T) {
	fib := &Exercise{Enabled: 1, ProblemType: TypeFillInBlank, FillInBlank: fibProblem()}
	a := NewAttempt(fib)
	if a.Blanks == nil {
		t.Fatal("fill_in_blank attempt should seed a blank map")
	}
	if v, ok := a.Blanks["b1"]; !ok || v != "" {
		t.Errorf("blank b1 should be seeded empty, got %q (present=%v)", v, ok)
	}

	mc := &Exercise{Enabled: 1, ProblemType: TypeMultipleChoice, MultipleChoice: mcProblem()}
	if NewAttempt(mc).Selected == nil {
		t.Error("multiple_choice attempt should seed an empty selection list")
	}

	tr := &Exercise{Enabled: 1, ProblemType: TypeTranslation, Translation: &TranslationProblem{Prompt: "hello"}}
	a = NewAttempt(tr)
	if a.Text != "" || a.Blanks != nil || a.Selected != nil {
		t.Error("translation attempt should seed only the empty text field")
	}
}
