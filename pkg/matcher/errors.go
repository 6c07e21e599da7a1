package matcher

import "errors"

// ErrMode is returned when Match is called on a streaming Matcher, or
// Feed is called on a batch Matcher — see §7 ModeError.
var ErrMode = errors.New("matcher: operation not valid for this mode")

// ErrNotBuilt is returned when an operation requires a built Matcher but
// build has never run — see §7 NotBuiltError.
var ErrNotBuilt = errors.New("matcher: not built")
