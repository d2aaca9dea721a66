package chat

import "time"

// turnDoneMsg is sent when an asynchronous tutor turn finishes.
type turnDoneMsg struct {
	Err error
}

// proposalStartedMsg is sent when a pending proposal has been activated.
type proposalStartedMsg struct {
	Err error
}

// waitTickMsg animates the waiting indicator while a turn is in flight.
type waitTickMsg time.Time
