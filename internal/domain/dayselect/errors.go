package dayselect

import "errors"

// ErrNoMatchingDays signals a specificDays selector that matched nothing in
// the requested range. This is a user-facing policy failure, not a cue to
// fall back to unrelated days.
var ErrNoMatchingDays = errors.New("no matching business days")
