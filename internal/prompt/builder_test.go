package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/akarsh/parla/internal/exercise"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := LoadBundle()
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}
	return NewBuilder(b)
}

func activeFIB() *exercise.Exercise {
	return &exercise.Exercise{
		Enabled:     1,
		ExerciseID:  "e1",
		ProblemType: exercise.TypeFillInBlank,
		FillInBlank: &exercise.FillInBlankProblem{
			Blanks: []exercise.Blank{
				{ID: "b1", Template: "Yo ____ estudiante.", ExpectedAnswers: []string{"soy"}},
			},
		},
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		requested Mode
		active    bool
		want      Mode
	}{
		{ModeChat, false, ModeChat},
		{ModeChat, true, ModeHelp},
		{ModeOnboarding, true, ModeHelp},
		{ModeHelp, true, ModeHelp},
		{ModePostClear, true, ModePostClear},
		{ModePostClear, false, ModePostClear},
	}
	for _, tc := range tests {
		if got := EffectiveMode(tc.requested, tc.active); got != tc.want {
			t.Errorf("EffectiveMode(%q, active=%v) = %q, want %q", tc.requested, tc.active, got, tc.want)
		}
	}
}

func TestBuildTurn_ChatVerbatim(t *testing.T) {
	b := testBuilder(t)
	turn, err := b.BuildTurn(ModeChat, Input{
		NativeLanguage: "English",
		TargetLanguage: "Spanish",
		UserText:       "how do I say good morning?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if turn.UserContent != "how do I say good morning?" {
		t.Errorf("chat user content must be verbatim, got %q", turn.UserContent)
	}
	if !strings.Contains(turn.System, "Spanish") || !strings.Contains(turn.System, "English") {
		t.Error("system prompt missing language substitutions")
	}
	if strings.Contains(turn.System, "{{") {
		t.Errorf("unresolved placeholder in system prompt: %s", turn.System)
	}
}

func TestBuildTurn_HelpRedactsAnswerKey(t *testing.T) {
	b := testBuilder(t)
	turn, err := b.BuildTurn(ModeHelp, Input{
		NativeLanguage: "English",
		TargetLanguage: "Spanish",
		UserText:       "is it ser or estar?",
		Active:         activeFIB(),
		Attempt:        &exercise.Attempt{Blanks: map[string]string{"b1": "est"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(turn.UserContent, "expected_answers") {
		t.Errorf("help context leaks expected_answers: %s", turn.UserContent)
	}
	if strings.Contains(turn.UserContent, "soy") {
		t.Errorf("help context leaks an accepted answer: %s", turn.UserContent)
	}
	if !strings.Contains(turn.UserContent, "is it ser or estar?") {
		t.Error("help content missing the learner's literal text")
	}
	if !strings.Contains(turn.UserContent, "est") {
		t.Error("help content missing the current attempt")
	}
}

func TestBuildTurn_HelpPreconditions(t *testing.T) {
	b := testBuilder(t)

	_, err := b.BuildTurn(ModeHelp, Input{UserText: "help me"})
	var inv *InvalidRequestError
	if !errors.As(err, &inv) {
		t.Fatalf("help with no active exercise: expected InvalidRequestError, got %v", err)
	}

	_, err = b.BuildTurn(ModeHelp, Input{Active: activeFIB(), UserText: "   "})
	if !errors.As(err, &inv) {
		t.Fatalf("help with blank text: expected InvalidRequestError, got %v", err)
	}
}

func TestBuildTurn_PostClear(t *testing.T) {
	b := testBuilder(t)
	turn, err := b.BuildTurn(ModePostClear, Input{
		NativeLanguage: "English",
		TargetLanguage: "Spanish",
		Cleared: &ClearedExercise{
			Exercise: activeFIB(),
			Attempt:  &exercise.Attempt{Blanks: map[string]string{"b1": "soy"}},
			Grade:    &exercise.Grade{Kind: exercise.TypeFillInBlank, AllCorrect: true},
			Outcome:  OutcomeObjectiveCorrect,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(turn.UserContent, string(OutcomeObjectiveCorrect)) {
		t.Error("post-clear content missing the outcome tag")
	}
	if strings.Contains(turn.UserContent, "expected_answers") {
		t.Error("post-clear context leaks the answer key")
	}

	_, err = b.BuildTurn(ModePostClear, Input{})
	var inv *InvalidRequestError
	if !errors.As(err, &inv) {
		t.Fatalf("post-clear with no record: expected InvalidRequestError, got %v", err)
	}
}

func TestRender_UnresolvablePlaceholderIsEmpty(t *testing.T) {
	got := render("hello {{missing}} world {{name}}", map[string]string{"name": "Ada"})
	if got != "hello  world Ada" {
		t.Errorf("render = %q", got)
	}
}

func TestOnboardingQuestions(t *testing.T) {
	b := testBuilder(t)
	q0 := b.OnboardingQuestion(0, "English", "Spanish")
	if q0 == "" || strings.Contains(q0, "{{") {
		t.Errorf("question 0 not rendered: %q", q0)
	}
	if b.OnboardingQuestion(5, "English", "Spanish") != "" {
		t.Error("out-of-range question should render empty")
	}
}

func TestPlacementContent(t *testing.T) {
	b := testBuilder(t)
	got := b.PlacementContent("B1", "travel vocabulary", "Spanish")
	if !strings.Contains(got, "B1") || !strings.Contains(got, "travel vocabulary") {
		t.Errorf("placement content missing level/focus: %q", got)
	}
}
