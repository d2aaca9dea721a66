package exercise

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	ex "github.com/akarsh/parla/internal/exercise"
	"github.com/akarsh/parla/internal/router"
	"github.com/akarsh/parla/internal/session"
	"github.com/akarsh/parla/internal/tutor"
	"github.com/akarsh/parla/internal/ui/components"
	"github.com/akarsh/parla/internal/ui/layout"
)

// Screen is the exercise workspace. Objective exercises (fill-in-blank,
// multiple choice) are graded locally; open-ended ones route the learner's
// answer through a tutor turn.
type Screen struct {
	ctrl *tutor.Controller
	sess *session.Session

	// Fill-in-blank: one input per blank.
	inputs []components.TextInput
	focus  int

	// Multiple choice.
	choice *components.Choice

	// Translation and free response.
	free components.TextInput

	waiting   bool
	waitFrame int
	errMsg    string
}

var _ router.Screen = (*Screen)(nil)
var _ router.KeyHintProvider = (*Screen)(nil)

// New builds the workspace for the session's active exercise.
func New(ctrl *tutor.Controller, sess *session.Session) *Screen {
	s := &Screen{ctrl: ctrl, sess: sess}
	active := sess.Active
	if active == nil {
		return s
	}
	if sess.Attempt == nil {
		sess.Attempt = ex.NewAttempt(active)
	}

	switch active.ProblemType {
	case ex.TypeFillInBlank:
		for _, b := range active.FillInBlank.Blanks {
			in := components.NewTextInput(b.Template, 100)
			if v := sess.Attempt.Blanks[b.ID]; v != "" {
				in.Model.SetValue(v)
			}
			in.Blur()
			s.inputs = append(s.inputs, in)
		}
		if len(s.inputs) > 0 {
			s.inputs[0].Focus()
		}

	case ex.TypeMultipleChoice:
		p := active.MultipleChoice
		opts := make([]string, 0, len(p.Options))
		for _, o := range p.Options {
			opts = append(opts, o.Text)
		}
		c := components.NewChoice(p.Question, opts, p.AllowMultiple)
		s.choice = &c

	case ex.TypeTranslation:
		s.free = components.NewTextInput("Your translation...", 300)

	case ex.TypeFreeResponse:
		s.free = components.NewTextInput("Your answer...", 500)
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	if len(s.inputs) > 0 {
		return s.inputs[0].Init()
	}
	if s.choice == nil {
		return s.free.Init()
	}
	return nil
}

func (s *Screen) Title() string {
	if s.sess.Active == nil {
		return "Exercise"
	}
	switch s.sess.Active.ProblemType {
	case ex.TypeTranslation:
		return "Translate"
	case ex.TypeFillInBlank:
		return "Fill in the blanks"
	case ex.TypeMultipleChoice:
		return "Pick the answer"
	case ex.TypeFreeResponse:
		return "Your turn"
	}
	return "Exercise"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
	}
	if len(s.inputs) > 1 {
		hints = append([]layout.KeyHint{{Key: "Tab", Description: "Next blank"}}, hints...)
	}
	if openHelpOffer(s.sess) != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+H", Description: "Get help"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "Esc", Description: "Back to chat"},
		layout.KeyHint{Key: "Ctrl+X", Description: "Give up"},
	)
	return hints
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		s.waiting = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		if s.sess.Active == nil {
			// Cleared; the follow-up is waiting in chat.
			return s, pop()
		}
		return s, nil

	case clearDoneMsg, helpDoneMsg:
		s.waiting = false
		return s, pop()

	case waitTickMsg:
		if !s.waiting {
			return s, nil
		}
		s.waitFrame++
		return s, waitTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *Screen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	key := msg.String()
	s.errMsg = ""

	if s.waiting {
		return s, nil
	}

	switch key {
	case "esc":
		return s, pop()

	case "ctrl+x":
		s.waiting = true
		return s, tea.Batch(waitTick(), func() tea.Msg {
			return clearDoneMsg{Err: s.ctrl.ClearExercise(context.Background(), s.sess)}
		})

	case "ctrl+h":
		if openHelpOffer(s.sess) == nil {
			return s, nil
		}
		s.waiting = true
		return s, tea.Batch(waitTick(), func() tea.Msg {
			return helpDoneMsg{Err: s.ctrl.AcceptHelpOffer(context.Background(), s.sess)}
		})

	case "tab", "shift+tab":
		if len(s.inputs) > 1 {
			s.inputs[s.focus].Blur()
			if key == "tab" {
				s.focus = (s.focus + 1) % len(s.inputs)
			} else {
				s.focus = (s.focus - 1 + len(s.inputs)) % len(s.inputs)
			}
			return s, s.inputs[s.focus].Focus()
		}
		return s, nil

	case "enter":
		return s.handleEnter()
	}

	return s.forward(msg)
}

func (s *Screen) handleEnter() (router.Screen, tea.Cmd) {
	active := s.sess.Active
	if active == nil {
		return s, pop()
	}

	switch active.ProblemType {
	case ex.TypeFillInBlank:
		// Enter advances through the blanks; on the last one it submits.
		if s.focus < len(s.inputs)-1 {
			s.inputs[s.focus].Blur()
			s.focus++
			return s, s.inputs[s.focus].Focus()
		}
		for i, b := range active.FillInBlank.Blanks {
			s.sess.Attempt.Blanks[b.ID] = s.inputs[i].Value()
		}
		return s, s.submit()

	case ex.TypeMultipleChoice:
		if !s.choice.AllowMultiple {
			s.choice.Picked = map[int]bool{s.choice.Cursor: true}
		}
		picked := s.choice.SelectedIndexes()
		if len(picked) == 0 {
			return s, nil
		}
		p := active.MultipleChoice
		ids := make([]string, 0, len(picked))
		for _, i := range picked {
			ids = append(ids, p.Options[i].ID)
		}
		s.sess.Attempt.Selected = ids
		return s, s.submit()

	default:
		// Open-ended answers go to the tutor as a help-mode turn.
		text := strings.TrimSpace(s.free.Value())
		if text == "" {
			return s, nil
		}
		s.sess.Attempt.Text = text
		s.waiting = true
		return s, tea.Batch(waitTick(), func() tea.Msg {
			return helpDoneMsg{Err: s.ctrl.HandleUserText(context.Background(), s.sess, text)}
		})
	}
}

func (s *Screen) submit() tea.Cmd {
	s.waiting = true
	return tea.Batch(waitTick(), func() tea.Msg {
		return submitDoneMsg{Err: s.ctrl.SubmitAttempt(context.Background(), s.sess)}
	})
}

// forward routes non-key messages and unhandled keys to the focused widget.
func (s *Screen) forward(msg tea.Msg) (router.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case len(s.inputs) > 0:
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	case s.choice != nil:
		updated, c := s.choice.Update(msg)
		s.choice = &updated
		cmd = c
	default:
		s.free, cmd = s.free.Update(msg)
	}
	return s, cmd
}

func pop() tea.Cmd {
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// openHelpOffer mirrors the chat screen's lookup: the unresolved offer for
// the active exercise, or nil.
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
