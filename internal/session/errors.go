package session

import "errors"

// ErrIncompleteSession means the auth endpoint answered without a user or
// token pair; the response cannot be adopted as a session.
var ErrIncompleteSession = errors.New("auth response missing user or tokens")
