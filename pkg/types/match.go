// Package types holds the data model shared by the scanner's subsystems:
// the match record every engine reports, and the wire-level kind tag
// that distinguishes a literal hit from a regex hit.
package types

// Kind identifies which engine produced a Match.
type Kind string

const (
	// Literal marks a match produced by the Aho-Corasick automaton.
	Literal Kind = "literal"
	// Regex marks a match produced by the regex engine.
	Regex Kind = "regex"
)

// order gives literal matches priority over regex matches when two
// records share the same (start, end) — see Matcher's sort order.
func (k Kind) order() int {
	if k == Literal {
		return 0
	}
	return 1
}

// Match is a single occurrence of a pattern in the scanned stream.
//
// Start and End are absolute byte offsets from the beginning of the
// logical input stream, never relative to a chunk. Matched is populated
// only for Kind == Regex; literal matches reconstruct trivially from
// Pattern.
type Match struct {
	Kind      Kind
	PatternID int
	Pattern   string
	Start     int64
	End       int64
	Matched   []byte
}

// Less orders matches by (start, end, kind, pattern id), the order the
// Matcher guarantees within a single Match/Feed call.
func Less(a, b Match) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End < b.End
	}
	if a.Kind != b.Kind {
		return a.Kind.order() < b.Kind.order()
	}
	return a.PatternID < b.PatternID
}
