package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/akarsh/parla/internal/session"
	"github.com/akarsh/parla/internal/ui/theme"
)

var waitFrames = []string{"·", "··", "···"}

func (s *Screen) View(width, height int) string {
	composer := s.renderComposer(width)
	composerHeight := lipgloss.Height(composer)

	paneHeight := height - composerHeight - 1
	if paneHeight < 1 {
		paneHeight = 1
	}

	transcript := s.renderTranscript(width, paneHeight)
	return transcript + "\n" + composer
}

// renderTranscript renders the last window of chat history, honoring the
// scroll offset (lines above the bottom).
func (s *Screen) renderTranscript(width, paneHeight int) string {
	var blocks []string
	for i := range s.sess.Messages {
		blocks = append(blocks, s.renderMessage(&s.sess.Messages[i], width))
	}

	lines := strings.Split(strings.Join(blocks, "\n\n"), "\n")

	// Clamp scroll so the window never runs past the top.
	maxScroll := len(lines) - paneHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}

	end := len(lines) - s.scroll
	start := end - paneHeight
	if start < 0 {
		start = 0
	}

	window := lines[start:end]
	for len(window) < paneHeight {
		window = append([]string{""}, window...)
	}
	return strings.Join(window, "\n")
}

func (s *Screen) renderMessage(m *session.Message, width int) string {
	label := theme.TutorLabel.Render("Tutor")
	bodyStyle := theme.TutorBubble
	if m.Role == session.RoleUser {
		label = theme.UserLabel.Render("You")
		bodyStyle = theme.UserBubble
	}
	if m.Error {
		bodyStyle = theme.ErrorBubble
	}

	body := bodyStyle.Width(width - 4).Render(m.Content)
	block := label + "\n" + indent(body, 2)

	if m.Poll != nil && m.Poll.Enabled == 1 {
		var opts []string
		for i, o := range m.Poll.Options {
			opts = append(opts, theme.Hint.Render("  "+string(rune('1'+i))+") "+o))
		}
		block += "\n" + theme.Body.Render("  "+m.Poll.Question) + "\n" + strings.Join(opts, "\n")
	}

	if p := m.Proposal; p != nil && s.sess.Pending != nil && p.ProposalID == s.sess.Pending.ProposalID {
		block += "\n" + theme.OfferBar.Render("  ✦ Exercise offered ("+string(p.ProblemType)+") — ctrl+e to start")
	}

	if o := m.HelpOffer; o != nil && !o.Resolved {
		block += "\n" + theme.OfferBar.Render("  ✦ ctrl+h for a hint")
	}

	return block
}

func (s *Screen) renderComposer(width int) string {
	if s.poll != nil {
		return s.poll.View()
	}

	var b strings.Builder
	if s.errMsg != "" {
		b.WriteString(theme.Incorrect.Render(s.errMsg))
		b.WriteString("\n")
	}

	if s.waiting {
		frame := waitFrames[s.waitFrame%len(waitFrames)]
		b.WriteString(theme.Hint.Render("Tutor is thinking " + frame))
		return b.String()
	}

	b.WriteString("> " + s.input.View())
	return b.String()
}

func indent(text string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
