package session

import "errors"

// ErrInvalidRange rejects a QSO selection whose indices are out of order
// or outside the log. The session stays usable; only the request fails.
var ErrInvalidRange = errors.New("session: invalid selection range")
