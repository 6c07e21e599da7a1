package matcher

import "time"

// Options configures matcher behavior as a plain struct, not a
// config/flags library — this layer has no environment or file
// configuration of its own.
type Options struct {
	// Tolerant, when true, causes a per-rule regex timeout to drop that
	// rule's remaining matches for the current call instead of failing
	// the whole call.
	Tolerant bool

	// RuleTimeout bounds a single regex pattern's matching time. Zero
	// selects regexengine.DefaultTimeout.
	RuleTimeout time.Duration
}

// DefaultOptions returns the default matcher options.
func DefaultOptions() Options {
	return Options{
		Tolerant:    false,
		RuleTimeout: 0,
	}
}
