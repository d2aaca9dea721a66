package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/akarsh/parla/internal/prompt"
	"github.com/akarsh/parla/internal/router"
	"github.com/akarsh/parla/internal/screens/exercise"
	"github.com/akarsh/parla/internal/session"
	"github.com/akarsh/parla/internal/tutor"
	"github.com/akarsh/parla/internal/ui/components"
	"github.com/akarsh/parla/internal/ui/layout"
)

// Screen is the main conversation view: scrollback, composer, and the
// entry point into exercises and polls.
type Screen struct {
	ctrl *tutor.Controller
	sess *session.Session

	input components.TextInput

	// poll is non-nil while the learner is picking a poll option.
	poll   *components.Choice
	pollID string

	waiting   bool
	waitFrame int
	scroll    int
	errMsg    string
}

var _ router.Screen = (*Screen)(nil)
var _ router.KeyHintProvider = (*Screen)(nil)

// New creates the chat screen over a loaded session.
func New(ctrl *tutor.Controller, sess *session.Session) *Screen {
	return &Screen{
		ctrl:  ctrl,
		sess:  sess,
		input: components.NewTextInput("Say something...", 500),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	if s.sess.Mode == session.ModeOnboarding {
		return "Getting started"
	}
	return "Conversation"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.poll != nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Pick"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Skip"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
	}
	if s.sess.Active != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+E", Description: "Exercise"})
	} else if s.sess.Pending != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+E", Description: "Start exercise"})
	}
	if openHelpOffer(s.sess) != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+H", Description: "Get help"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "Ctrl+N", Description: "New chat"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
	return hints
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnDoneMsg:
		return s.handleTurnDone(msg)

	case proposalStartedMsg:
		s.waiting = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: exercise.New(s.ctrl, s.sess)}
		}

	case waitTickMsg:
		if !s.waiting {
			return s, nil
		}
		s.waitFrame++
		return s, waitTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.waiting && s.poll == nil {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleTurnDone(msg turnDoneMsg) (router.Screen, tea.Cmd) {
	s.waiting = false
	s.scroll = 0

	if msg.Err != nil {
		switch {
		case errors.Is(msg.Err, tutor.ErrBusy):
			// Another turn is still running; the finished one will report.
		default:
			var ir *prompt.InvalidRequestError
			if errors.As(msg.Err, &ir) {
				s.errMsg = ir.Reason
			}
			// Model failures already left an error bubble in history.
		}
	}

	// A freshly arrived poll opens the selector.
	if last := s.sess.Last(); last != nil && last.Poll != nil && last.Poll.Enabled == 1 {
		choice := components.NewChoice(last.Poll.Question, last.Poll.Options, false)
		s.poll = &choice
		s.pollID = last.Poll.PollID
		s.input.Blur()
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	key := msg.String()
	s.errMsg = ""

	if s.poll != nil {
		if key == "esc" {
			s.closePoll()
			return s, nil
		}
		updated, cmd := s.poll.Update(msg)
		s.poll = &updated
		if updated.Submitted {
			picked := updated.SelectedIndexes()
			option := updated.Options[picked[0]]
			pollID := s.pollID
			s.closePoll()
			return s, s.runTurn(func(ctx context.Context) error {
				return s.ctrl.AnswerPoll(ctx, s.sess, pollID, option)
			})
		}
		return s, cmd
	}

	switch key {
	case "enter":
		text := strings.TrimSpace(s.input.Value())
		if text == "" || s.waiting {
			return s, nil
		}
		s.input.Reset()
		s.scroll = 0
		return s, s.runTurn(func(ctx context.Context) error {
			return s.ctrl.HandleUserText(ctx, s.sess, text)
		})

	case "ctrl+e":
		if s.waiting {
			return s, nil
		}
		if s.sess.Active != nil {
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: exercise.New(s.ctrl, s.sess)}
			}
		}
		if s.sess.Pending != nil {
			pending := *s.sess.Pending
			s.waiting = true
			return s, tea.Batch(waitTick(), func() tea.Msg {
				return proposalStartedMsg{Err: s.ctrl.StartProposal(context.Background(), s.sess, pending)}
			})
		}
		return s, nil

	case "ctrl+h":
		if s.waiting || openHelpOffer(s.sess) == nil {
			return s, nil
		}
		return s, s.runTurn(func(ctx context.Context) error {
			return s.ctrl.AcceptHelpOffer(ctx, s.sess)
		})

	case "ctrl+n":
		if s.waiting {
			return s, nil
		}
		return s, s.runTurn(func(ctx context.Context) error {
			return s.ctrl.NewConversation(ctx, s.sess)
		})

	case "pgup", "up":
		s.scroll++
		return s, nil

	case "pgdown", "down":
		if s.scroll > 0 {
			s.scroll--
		}
		return s, nil
	}

	if !s.waiting {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// runTurn executes one controller call off the UI loop.
func (s *Screen) runTurn(fn func(context.Context) error) tea.Cmd {
	s.waiting = true
	return tea.Batch(waitTick(), func() tea.Msg {
		return turnDoneMsg{Err: fn(context.Background())}
	})
}

func (s *Screen) closePoll() {
	s.poll = nil
	s.pollID = ""
	s.input.Focus()
}

// openHelpOffer returns the unresolved help offer for the active exercise,
// or nil.
func openHelpOffer(sess *session.Session) *session.HelpOffer {
	if sess.Active == nil {
		return nil
	}
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		o := sess.Messages[i].HelpOffer
		if o != nil && !o.Resolved && o.ExerciseID == sess.Active.ExerciseID {
			return o
		}
	}
	return nil
}

func waitTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return waitTickMsg(t)
	})
}
