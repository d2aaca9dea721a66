package tutor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/akarsh/parla/internal/exercise"
	"github.com/akarsh/parla/internal/llm"
	"github.com/akarsh/parla/internal/prompt"
	"github.com/akarsh/parla/internal/reply"
	"github.com/akarsh/parla/internal/session"
)

// Canned texts for the help-offer flow. The offer is a local message; the
// acceptance is fed through the ordinary active-exercise path.
const (
	offerText       = "Not quite there yet — want a hand with this one?"
	helpRequestText = "I'm stuck on this exercise. Can you give me a hint without revealing the answer?"
)

// Config holds model-call settings for tutor turns.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for conversational turns.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}

// Controller is the conversation state machine. It owns all Session
// mutation: given a user action it resolves the request mode, renders the
// prompt, calls the model, normalizes the response, and applies the state
// transition — including the unconditional post-clear follow-up whenever an
// exercise is cleared.
type Controller struct {
	provider llm.Provider
	repo     session.Repo
	builder  *prompt.Builder
	schema   *llm.Schema
	id       string
	cfg      Config

	mu   sync.Mutex
	busy bool
}

// New creates a controller for the session stored under id.
func New(provider llm.Provider, repo session.Repo, builder *prompt.Builder, schema *llm.Schema, id string, cfg Config) *Controller {
	return &Controller{
		provider: provider,
		repo:     repo,
		builder:  builder,
		schema:   schema,
		id:       id,
		cfg:      cfg,
	}
}

// begin claims the single turn slot. Every user-initiated operation goes
// through it; overlapping turns are refused, never queued.
func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// EnsureSeeded appends the scripted welcome and first onboarding question
// to a brand-new conversation. No-op on a session with history.
func (c *Controller) EnsureSeeded(ctx context.Context, s *session.Session) error {
	if len(s.Messages) > 0 || s.Mode != session.ModeOnboarding {
		return nil
	}
	c.seedOnboarding(s)
	return c.repo.Save(ctx, c.id, s)
}

func (c *Controller) seedOnboarding(s *session.Session) {
	native, target := s.Config.NativeLanguage, s.Config.TargetLanguage
	s.Append(session.Message{Role: session.RoleAssistant, Content: c.builder.Welcome(native, target)})
	s.Append(session.Message{Role: session.RoleAssistant, Content: c.builder.OnboardingQuestion(0, native, target)})
}

// HandleUserText processes one typed user turn: an onboarding answer, a
// plain chat message, or — when an exercise is active — a help request.
func (c *Controller) HandleUserText(ctx context.Context, s *session.Session, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if s.Mode == session.ModeOnboarding {
		return c.onboardingTurn(ctx, s, text)
	}
	return c.userTurn(ctx, s, session.Message{Role: session.RoleUser, Content: text}, text)
}

// onboardingTurn advances the two-question placement script.
func (c *Controller) onboardingTurn(ctx context.Context, s *session.Session, text string) error {
	switch s.OnboardingStep {
	case 0:
		// First answer is captured locally; no model call.
		s.Append(session.Message{Role: session.RoleUser, Content: text})
		s.Placement.LevelText = text
		s.Append(session.Message{
			Role:    session.RoleAssistant,
			Content: c.builder.OnboardingQuestion(1, s.Config.NativeLanguage, s.Config.TargetLanguage),
		})
		s.OnboardingStep = 1
		return c.repo.Save(ctx, c.id, s)

	case 1:
		snapshot, err := s.Clone()
		if err != nil {
			return fmt.Errorf("snapshot session: %w", err)
		}

		s.Placement.FocusText = text
		level := InferLevel(s.Placement.LevelText)
		content := c.builder.PlacementContent(level, text, s.Config.TargetLanguage)

		turn, err := c.builder.BuildTurn(prompt.ModeChat, prompt.Input{
			NativeLanguage: s.Config.NativeLanguage,
			TargetLanguage: s.Config.TargetLanguage,
			UserText:       content,
		})
		if err != nil {
			*s = *snapshot
			return err
		}

		history := historyOf(s.Messages)
		s.Append(session.Message{Role: session.RoleUser, Content: text})

		resp, err := c.generate(ctx, prompt.ModeOnboarding, turn, history)
		if err != nil {
			return c.failTurn(ctx, s, snapshot, err)
		}

		s.Mode = session.ModeChat
		s.OnboardingStep = 2
		c.applyResponse(s, resp)
		return c.commitTurn(ctx, s, nil)

	default:
		// Step counter past the script with mode still onboarding: treat as
		// a plain chat turn rather than wedging the session.
		s.Mode = session.ModeChat
		return c.userTurn(ctx, s, session.Message{Role: session.RoleUser, Content: text}, text)
	}
}

// userTurn runs one model-backed turn for the given visible user message.
// An active exercise forces help mode regardless of what was requested.
func (c *Controller) userTurn(ctx context.Context, s *session.Session, msg session.Message, text string) error {
	snapshot, err := s.Clone()
	if err != nil {
		return fmt.Errorf("snapshot session: %w", err)
	}

	mode := prompt.EffectiveMode(prompt.ModeChat, s.Active != nil)
	turn, err := c.builder.BuildTurn(mode, prompt.Input{
		NativeLanguage: s.Config.NativeLanguage,
		TargetLanguage: s.Config.TargetLanguage,
		UserText:       text,
		Active:         s.Active,
		Attempt:        s.Attempt,
	})
	if err != nil {
		// Precondition failure: rejected before any model call, no mutation.
		return err
	}

	history := historyOf(s.Messages)
	s.Append(msg)

	resp, err := c.generate(ctx, mode, turn, history)
	if err != nil {
		return c.failTurn(ctx, s, snapshot, err)
	}

	var cleared *prompt.ClearedExercise
	if resp.ClearActive == 1 && s.Active != nil {
		cleared = c.clearActive(s, prompt.OutcomeModelClear)
	}
	c.applyResponse(s, resp)
	return c.commitTurn(ctx, s, cleared)
}

// StartProposal activates a proposal: it becomes the active exercise, the
// attempt is seeded with the type-appropriate empty value, the stale grade
// is dropped, and a pending proposal with the same id is consumed.
func (c *Controller) StartProposal(ctx context.Context, s *session.Session, p exercise.Proposal) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	ex, err := exercise.Activate(p)
	if err != nil {
		return &prompt.InvalidRequestError{Reason: fmt.Sprintf("proposal cannot be started: %v", err)}
	}

	s.Active = ex
	s.Attempt = exercise.NewAttempt(ex)
	s.Grade = nil
	if s.Pending != nil && s.Pending.ProposalID == p.ProposalID {
		s.Pending = nil
	}
	return c.repo.Save(ctx, c.id, s)
}

// ClearExercise is the user-initiated clear. Like every clear it nulls
// active/attempt/grade together and triggers exactly one post-clear turn.
func (c *Controller) ClearExercise(ctx context.Context, s *session.Session) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if s.Active == nil {
		return &prompt.InvalidRequestError{Reason: "no active exercise to clear"}
	}

	cleared := c.clearActive(s, prompt.OutcomeUserCleared)
	return c.commitTurn(ctx, s, cleared)
}

// SubmitAttempt grades an objective exercise locally. Fully correct answers
// clear the exercise (with the post-clear follow-up); wrong answers keep it
// active and raise an idempotent help offer.
func (c *Controller) SubmitAttempt(ctx context.Context, s *session.Session) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if s.Active == nil {
		return &prompt.InvalidRequestError{Reason: "no active exercise to submit"}
	}
	grade := exercise.GradeObjective(s.Active, s.Attempt)
	if grade == nil {
		return &prompt.InvalidRequestError{
			Reason: fmt.Sprintf("%s exercises are not objectively gradable", s.Active.ProblemType),
		}
	}

	s.Grade = grade
	if grade.AllCorrect {
		cleared := c.clearActive(s, prompt.OutcomeObjectiveCorrect)
		cleared.Grade = grade
		return c.commitTurn(ctx, s, cleared)
	}

	// At most one standing offer per exercise; repeat wrong submits do not
	// stack new ones.
	if pendingOffer(s) == nil {
		s.Append(session.Message{
			Role:      session.RoleAssistant,
			Content:   offerText,
			HelpOffer: &session.HelpOffer{ExerciseID: s.Active.ExerciseID},
		})
	}
	return c.repo.Save(ctx, c.id, s)
}

// AcceptHelpOffer resolves the standing offer and feeds a canned help
// request through the normal active-exercise path.
func (c *Controller) AcceptHelpOffer(ctx context.Context, s *session.Session) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if s.Active == nil {
		return &prompt.InvalidRequestError{Reason: "no active exercise"}
	}
	if pendingOffer(s) == nil {
		return &prompt.InvalidRequestError{Reason: "no open help offer"}
	}

	err := c.userTurn(ctx, s,
		session.Message{Role: session.RoleUser, Content: helpRequestText},
		helpRequestText)
	if err != nil {
		// Failed turn keeps the offer open so the user may retry.
		return err
	}

	// Appends during the turn may reallocate the message slice, so the offer
	// is located again rather than held across the call. A clear during the
	// help turn already resolved it.
	if offer := pendingOffer(s); offer != nil {
		offer.Resolved = true
		return c.repo.Save(ctx, c.id, s)
	}
	return nil
}

// AnswerPoll records the learner's poll choice and runs it as a chat turn.
func (c *Controller) AnswerPoll(ctx context.Context, s *session.Session, pollID, option string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	return c.userTurn(ctx, s,
		session.Message{Role: session.RoleUser, Content: option, PollAnswer: pollID},
		option)
}

// NewConversation resets to Onboarding step 0 and re-seeds the scripted
// opening messages. Config survives the reset.
func (c *Controller) NewConversation(ctx context.Context, s *session.Session) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	s.Reset()
	c.seedOnboarding(s)
	return c.repo.Save(ctx, c.id, s)
}

// clearActive nulls active/attempt/grade atomically and returns the record
// for the mandatory post-clear follow-up. Open help offers for the cleared
// exercise are resolved so they cannot be accepted against nothing.
func (c *Controller) clearActive(s *session.Session, outcome prompt.Outcome) *prompt.ClearedExercise {
	cleared := &prompt.ClearedExercise{
		Exercise: s.Active,
		Attempt:  s.Attempt,
		Grade:    s.Grade,
		Outcome:  outcome,
	}
	for i := range s.Messages {
		if o := s.Messages[i].HelpOffer; o != nil && o.ExerciseID == cleared.Exercise.ExerciseID {
			o.Resolved = true
		}
	}
	s.ClearActive()
	return cleared
}

// commitTurn persists the turn and, when an exercise was cleared, issues
// the single synthetic post-clear follow-up first. A failed follow-up keeps
// the clear (the exercise stays gone) and surfaces the error in history.
func (c *Controller) commitTurn(ctx context.Context, s *session.Session, cleared *prompt.ClearedExercise) error {
	if cleared != nil {
		if err := c.postClearTurn(ctx, s, cleared); err != nil {
			s.Append(session.Message{
				Role:    session.RoleAssistant,
				Content: fmt.Sprintf("The tutor could not follow up: %v", err),
				Error:   true,
			})
		}
	}
	return c.repo.Save(ctx, c.id, s)
}

func (c *Controller) postClearTurn(ctx context.Context, s *session.Session, cleared *prompt.ClearedExercise) error {
	turn, err := c.builder.BuildTurn(prompt.ModePostClear, prompt.Input{
		NativeLanguage: s.Config.NativeLanguage,
		TargetLanguage: s.Config.TargetLanguage,
		Cleared:        cleared,
	})
	if err != nil {
		return err
	}

	resp, err := c.generate(ctx, prompt.ModePostClear, turn, historyOf(s.Messages))
	if err != nil {
		return err
	}

	// No exercise is active here, so a clear signal in the follow-up is a
	// tolerated no-op by construction.
	c.applyResponse(s, resp)
	return nil
}

// generate performs one model call and normalizes its output.
func (c *Controller) generate(ctx context.Context, mode prompt.Mode, turn prompt.Turn, history []llm.Message) (reply.StructuredResponse, error) {
	ctx = llm.WithPurpose(ctx, string(mode))

	messages := append(history, llm.Message{Role: llm.RoleUser, Content: turn.UserContent})
	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      turn.System,
		Messages:    messages,
		Schema:      c.schema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return reply.StructuredResponse{}, err
	}

	parsed, err := reply.Parse(resp.Content, mode)
	if err != nil {
		return reply.StructuredResponse{}, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return parsed, nil
}

// applyResponse appends the assistant message and folds the normalized
// signals into session state. An enabled proposal replaces any prior
// pending proposal; clear_active has already been handled by the caller.
func (c *Controller) applyResponse(s *session.Session, resp reply.StructuredResponse) {
	msg := session.Message{
		Role:    session.RoleAssistant,
		Content: resp.Response,
		Flags:   &reply.Flags{IsHelp: resp.Flags.IsHelp, IsPostClear: resp.Flags.IsPostClear},
	}
	if resp.Proposal.Enabled == 1 {
		p := resp.Proposal
		msg.Proposal = &p
		s.Pending = &p
	}
	if resp.Poll.Enabled == 1 {
		poll := resp.Poll
		msg.Poll = &poll
	}
	s.Append(msg)
}

// failTurn rolls the session back to its pre-call snapshot, appends a
// visible error message, and persists. The user may retry the same action.
func (c *Controller) failTurn(ctx context.Context, s *session.Session, snapshot *session.Session, cause error) error {
	*s = *snapshot
	s.Append(session.Message{
		Role:    session.RoleAssistant,
		Content: fmt.Sprintf("The tutor is unavailable right now: %v", cause),
		Error:   true,
	})
	if saveErr := c.repo.Save(ctx, c.id, s); saveErr != nil {
		return fmt.Errorf("%w (and saving failed: %v)", cause, saveErr)
	}
	return cause
}

// pendingOffer returns the most recent unresolved help offer for the
// active exercise, or nil.
func pendingOffer(s *session.Session) *session.HelpOffer {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		o := s.Messages[i].HelpOffer
		if o != nil && !o.Resolved && s.Active != nil && o.ExerciseID == s.Active.ExerciseID {
			return o
		}
	}
	return nil
}

// historyOf maps persisted messages to the model's view of the
// conversation. Error bubbles are local only and never sent upstream.
func historyOf(messages []session.Message) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		if m.Error {
			continue
		}
		role := llm.RoleUser
		if m.Role == session.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}
