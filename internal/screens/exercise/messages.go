package exercise

import "time"

// submitDoneMsg is sent when an attempt submission finishes.
type submitDoneMsg struct {
	Err error
}

// clearDoneMsg is sent when the user-initiated clear finishes.
type clearDoneMsg struct {
	Err error
}

// helpDoneMsg is sent when a help turn finishes; the reply lands in chat.
type helpDoneMsg struct {
	Err error
}

// waitTickMsg animates the waiting indicator.
type waitTickMsg time.Time
