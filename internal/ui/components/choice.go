package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akarsh/parla/internal/ui/theme"
)

// Choice is an option selector for multiple-choice exercises and polls.
// With AllowMultiple set, space toggles options and enter submits the set;
// otherwise enter submits the cursor's option.
type Choice struct {
	Question      string
	Options       []string
	AllowMultiple bool

	Cursor    int
	Picked    map[int]bool
	Submitted bool
}

// NewChoice creates a selector over the given options.
func NewChoice(question string, options []string, allowMultiple bool) Choice {
	return Choice{
		Question:      question,
		Options:       options,
		AllowMultiple: allowMultiple,
		Picked:        make(map[int]bool),
	}
}

// Init returns nil.
func (c Choice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation, toggling and submission.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		if c.AllowMultiple {
			c.Picked[c.Cursor] = !c.Picked[c.Cursor]
		}
	case "enter":
		if !c.AllowMultiple {
			c.Picked = map[int]bool{c.Cursor: true}
		}
		if len(c.SelectedIndexes()) > 0 {
			c.Submitted = true
		}
	}

	return c, nil
}

// SelectedIndexes returns the picked option indexes in display order.
func (c Choice) SelectedIndexes() []int {
	var out []int
	for i := range c.Options {
		if c.Picked[i] {
			out = append(out, i)
		}
	}
	return out
}

// View renders the selector.
func (c Choice) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Question) + "\n\n"

	for i, opt := range c.Options {
		cursor := "  "
		if i == c.Cursor && !c.Submitted {
			cursor = "▸ "
		}

		mark := ""
		if c.AllowMultiple {
			mark = "[ ] "
			if c.Picked[i] {
				mark = "[x] "
			}
		}

		line := fmt.Sprintf("%s%s%d)  %s", cursor, mark, i+1, opt)

		switch {
		case c.Picked[i]:
			s += theme.Selected.Render(line) + "\n"
		case i == c.Cursor && !c.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	if c.AllowMultiple {
		s += "\n" + theme.Hint.Render("space to toggle, enter to submit")
	}

	return s
}
