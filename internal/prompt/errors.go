package prompt

import "fmt"

// ConfigError indicates a required key is missing from the template bundle.
// Fatal to the current call only; session state is untouched.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("prompt bundle missing required key %q", e.Key)
}

// InvalidRequestError indicates a turn was requested with preconditions
// unmet (help with no active exercise, missing required text). Rejected
// before any model call, zero side effects.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}
