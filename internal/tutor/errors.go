package tutor

import "errors"

// ErrBusy is returned when a user-initiated turn is requested while a
// previous model call is still outstanding. One turn at a time per session;
// the only back-to-back calls are the controller's own help→post-clear
// chain, which runs inside a single turn.
var ErrBusy = errors.New("a turn is already in flight")
