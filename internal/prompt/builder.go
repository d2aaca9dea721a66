package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akarsh/parla/internal/exercise"
)

// Outcome tags why an exercise was cleared, embedded in post-clear context.
type Outcome string

const (
	OutcomeUserCleared      Outcome = "user_cleared"
	OutcomeObjectiveCorrect Outcome = "objective_correct"
	OutcomeModelClear       Outcome = "model_clear"
)

// ClearedExercise is the record handed to the post-clear follow-up turn.
type ClearedExercise struct {
	Exercise *exercise.Exercise `json:"exercise"`
	Attempt  *exercise.Attempt  `json:"attempt"`
	Grade    *exercise.Grade    `json:"grade,omitempty"`
	Outcome  Outcome            `json:"outcome"`
}

// Input carries everything a turn needs from session state.
type Input struct {
	NativeLanguage string
	TargetLanguage string
	UserText       string

	// Active and Attempt are required for help mode.
	Active  *exercise.Exercise
	Attempt *exercise.Attempt

	// Cleared is required for post_clear mode.
	Cleared *ClearedExercise
}

// Turn is the rendered prompt pair for one model call.
type Turn struct {
	System      string
	UserContent string
}

// Builder renders turns from the loaded template bundle.
type Builder struct {
	bundle *Bundle
}

// NewBuilder wraps a loaded bundle.
func NewBuilder(b *Bundle) *Builder {
	return &Builder{bundle: b}
}

// BuildTurn renders the system prompt and user content for the given mode.
// Help mode requires an active exercise and non-empty user text; post_clear
// requires a cleared-exercise record. Precondition failures return
// InvalidRequestError before any model call can be made.
func (b *Builder) BuildTurn(mode Mode, in Input) (Turn, error) {
	vars := map[string]string{
		"nativeLanguage": in.NativeLanguage,
		"targetLanguage": in.TargetLanguage,
	}
	system := render(strings.Join(b.bundle.SystemPrompt, "\n"), vars)

	switch mode {
	case ModeChat, ModeOnboarding:
		return Turn{System: system, UserContent: in.UserText}, nil

	case ModeHelp:
		if in.Active == nil || in.Active.Enabled != 1 {
			return Turn{}, &InvalidRequestError{Reason: "help requested with no active exercise"}
		}
		if strings.TrimSpace(in.UserText) == "" {
			return Turn{}, &InvalidRequestError{Reason: "help requested with empty text"}
		}
		ctx, err := helpContext(in.Active, in.Attempt)
		if err != nil {
			return Turn{}, err
		}
		vars["context"] = ctx
		vars["userText"] = in.UserText
		return Turn{System: system, UserContent: render(b.bundle.HelpTemplate, vars)}, nil

	case ModePostClear:
		if in.Cleared == nil {
			return Turn{}, &InvalidRequestError{Reason: "post-clear requested with no cleared exercise"}
		}
		ctx, err := postClearContext(in.Cleared)
		if err != nil {
			return Turn{}, err
		}
		vars["context"] = ctx
		return Turn{System: system, UserContent: render(b.bundle.PostClearTemplate, vars)}, nil
	}

	return Turn{}, &InvalidRequestError{Reason: fmt.Sprintf("unknown mode %q", mode)}
}

// PlacementContent renders the synthetic user content for the placement
// request issued at the end of onboarding.
func (b *Builder) PlacementContent(level, focus, targetLanguage string) string {
	return render(b.bundle.PlacementTemplate, map[string]string{
		"level":          level,
		"focus":          focus,
		"targetLanguage": targetLanguage,
	})
}

// Welcome renders the scripted greeting shown at the start of a fresh
// conversation.
func (b *Builder) Welcome(nativeLanguage, targetLanguage string) string {
	return render(b.bundle.Welcome, map[string]string{
		"nativeLanguage": nativeLanguage,
		"targetLanguage": targetLanguage,
	})
}

// OnboardingQuestion renders the scripted onboarding question at step i.
func (b *Builder) OnboardingQuestion(i int, nativeLanguage, targetLanguage string) string {
	if i < 0 || i >= len(b.bundle.OnboardingQuestions) {
		return ""
	}
	return render(b.bundle.OnboardingQuestions[i], map[string]string{
		"nativeLanguage": nativeLanguage,
		"targetLanguage": targetLanguage,
	})
}

// helpContext serializes the redacted active exercise plus the learner's
// current attempt. Redaction is mandatory on this path.
func helpContext(active *exercise.Exercise, attempt *exercise.Attempt) (string, error) {
	payload := struct {
		Exercise *exercise.Exercise `json:"exercise"`
		Attempt  *exercise.Attempt  `json:"attempt"`
	}{
		Exercise: active.Redacted(),
		Attempt:  attempt,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal help context: %w", err)
	}
	return string(b), nil
}

func postClearContext(cleared *ClearedExercise) (string, error) {
	// The model only ever sees the redacted exercise, even after clearing.
	redacted := *cleared
	redacted.Exercise = cleared.Exercise.Redacted()

	b, err := json.Marshal(redacted)
	if err != nil {
		return "", fmt.Errorf("marshal post-clear context: %w", err)
	}
	return string(b), nil
}
