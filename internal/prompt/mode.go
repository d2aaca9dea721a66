package prompt

// Mode selects how a model turn is framed.
type Mode string

const (
	// ModeOnboarding covers the scripted placement questions. Step 0 makes
	// no model call at all; step 1 issues a chat-mode placement request.
	ModeOnboarding Mode = "onboarding"

	// ModeChat is a plain conversational turn.
	ModeChat Mode = "chat"

	// ModeHelp is a turn about the active exercise, with the redacted
	// exercise and the current attempt embedded as context.
	ModeHelp Mode = "help"

	// ModePostClear is the controller-synthesized follow-up issued after an
	// exercise is cleared. Never requested by direct user action.
	ModePostClear Mode = "post_clear"
)

// EffectiveMode resolves the mode actually used for a turn. An active
// exercise intercepts every ordinary turn and forces help; only the
// controller's own post-clear follow-up bypasses the interception.
func EffectiveMode(requested Mode, exerciseActive bool) Mode {
	if exerciseActive && requested != ModePostClear {
		return ModeHelp
	}
	return requested
}
