package exercise

import (
	"strings"

	"charm.land/lipgloss/v2"

	ex "github.com/akarsh/parla/internal/exercise"
	"github.com/akarsh/parla/internal/ui/theme"
)

var waitFrames = []string{"·", "··", "···"}

func (s *Screen) View(width, height int) string {
	active := s.sess.Active
	if active == nil {
		return theme.Hint.Render("Nothing to practice right now — esc to go back.")
	}

	var b strings.Builder

	switch active.ProblemType {
	case ex.TypeTranslation:
		p := active.Translation
		b.WriteString(theme.Body.Bold(true).Render(p.Prompt))
		b.WriteString("\n\n> " + s.free.View())

	case ex.TypeFillInBlank:
		p := active.FillInBlank
		if p.Instructions != "" {
			b.WriteString(theme.Body.Bold(true).Render(p.Instructions))
			b.WriteString("\n\n")
		}
		for i, blank := range p.Blanks {
			marker := "  "
			if i == s.focus {
				marker = "▸ "
			}
			b.WriteString(marker + theme.Body.Render(blank.Template) + "\n")
			b.WriteString("    " + s.inputs[i].View() + s.blankMark(blank.ID) + "\n\n")
		}

	case ex.TypeMultipleChoice:
		b.WriteString(s.choice.View())
		b.WriteString("\n" + s.gradeMark())

	case ex.TypeFreeResponse:
		b.WriteString(theme.Body.Bold(true).Render(active.FreeResponse.Prompt))
		b.WriteString("\n\n> " + s.free.View())
	}

	if s.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Render(s.errMsg))
	}
	if s.waiting {
		b.WriteString("\n" + theme.Hint.Render("Checking "+waitFrames[s.waitFrame%len(waitFrames)]))
	}
	if openHelpOffer(s.sess) != nil {
		b.WriteString("\n" + theme.OfferBar.Render("✦ ctrl+h for a hint"))
	}

	card := theme.Card.Width(width - 4).Render(b.String())
	return lipgloss.NewStyle().Width(width).Render(card)
}

// blankMark returns the per-blank grade marker after a submit.
func (s *Screen) blankMark(blankID string) string {
	if s.sess.Grade == nil || s.sess.Grade.PerBlank == nil {
		return ""
	}
	ok, graded := s.sess.Grade.PerBlank[blankID]
	if !graded {
		return ""
	}
	if ok {
		return " " + theme.Correct.Render("✓")
	}
	return " " + theme.Incorrect.Render("✗")
}

// gradeMark summarizes the multiple-choice grade after a wrong submit.
func (s *Screen) gradeMark() string {
	if s.sess.Grade == nil || s.sess.Grade.AllCorrect {
		return ""
	}
	return theme.Incorrect.Render("Not quite — try another combination.")
}
