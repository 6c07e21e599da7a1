// Package matcher coordinates the Aho-Corasick automaton and the regex
// engine over the same byte region, normalizing both result streams into
// a single ordered, globally-offset sequence of match records. It also
// owns streaming state: the ring buffer, the absolute stream offset, and
// the retention window that lets a pattern complete across a chunk
// boundary.
package matcher

import (
	"fmt"

	"github.com/scanforge/multiscan/pkg/ahocorasick"
	"github.com/scanforge/multiscan/pkg/regexengine"
	"github.com/scanforge/multiscan/pkg/ringbuffer"
	"github.com/scanforge/multiscan/pkg/types"
)

// Matcher orchestrates literal and regex matching over a byte stream,
// either as a single complete buffer (batch mode) or as a sequence of
// chunks (streaming mode).
//
// A Matcher is not safe for concurrent mutation (§5): build, Match,
// Feed and Reset must not run concurrently with each other or with one
// another on the same instance.
type Matcher struct {
	ac  *ahocorasick.Automaton
	re  *regexengine.Engine
	opt Options

	streaming bool
	built     bool

	ring             *ringbuffer.RingBuffer
	maxPatternLength int

	totalMatches int64
	// fed counts every byte ever written via Feed — §3's
	// absolute_stream_offset.
	fed int64
	// consumed counts bytes permanently removed from the ring buffer:
	// the absolute position of the buffer's current unread window start.
	consumed int64
	// reportedThrough is the absolute end of the window the previous Feed
	// call scanned. Each Feed call rescans the whole retained buffer (the
	// trailing max_pattern_length-1 bytes are kept unconsumed so a pattern
	// can complete in a later chunk), so the same match can recur across
	// calls; a match ending at or before reportedThrough lay inside the
	// previous window and was reported then, so filtering to
	// End > reportedThrough is what gives deduplication across chunk
	// refeeds (§3) without tracking every match ever seen.
	reportedThrough int64
}

// New builds a Matcher from the given patterns. literalPatterns are
// matched by the Aho-Corasick automaton; regexPatterns by the regex
// engine. Either set may be empty. streaming selects Feed-based
// operation; a batch Matcher only accepts Match.
func New(literalPatterns [][]byte, regexPatterns []string, streaming bool, opt Options) (*Matcher, error) {
	m := &Matcher{streaming: streaming, opt: opt}
	if err := m.Build(literalPatterns, regexPatterns); err != nil {
		return nil, err
	}
	return m, nil
}

// Build (re)compiles the matcher's engines from the given patterns,
// atomically replacing any prior automaton/engine state (§3: "a rebuild
// discards all prior automaton state"). In streaming mode it also
// (re)sizes the ring buffer for the new max pattern length, so a
// Matcher can be built once and then stream many inputs.
func (m *Matcher) Build(literalPatterns [][]byte, regexPatterns []string) error {
	var ac *ahocorasick.Automaton
	var err error
	if len(literalPatterns) > 0 {
		ac, err = ahocorasick.Build(literalPatterns)
		if err != nil {
			return fmt.Errorf("matcher: building literal automaton: %w", err)
		}
	}

	var re *regexengine.Engine
	if len(regexPatterns) > 0 {
		re = regexengine.New(regexPatterns, m.opt.RuleTimeout, m.opt.Tolerant)
	}

	maxLen := 0
	if ac != nil {
		maxLen = ac.MaxPatternLen()
	}
	for _, p := range regexPatterns {
		// Regex match length is generally unbounded; the source text's
		// length is used as a conservative proxy for retention sizing
		// (see DESIGN.md).
		if len(p) > maxLen {
			maxLen = len(p)
		}
	}

	m.ac = ac
	m.re = re
	m.maxPatternLength = maxLen
	m.built = true

	if m.streaming {
		capacity := 2 * maxLen
		if m.ring == nil {
			if capacity < ringbuffer.DefaultCapacity {
				capacity = ringbuffer.DefaultCapacity
			}
			m.ring = ringbuffer.New(capacity)
		} else if capacity > m.ring.Capacity() {
			m.ring.Grow(capacity)
		}
	}

	return nil
}

// IsStreaming reports whether this Matcher was constructed for
// streaming use.
func (m *Matcher) IsStreaming() bool { return m.streaming }

// TotalMatches returns the running count of matches returned across all
// Match/Feed calls since construction or the last Reset.
func (m *Matcher) TotalMatches() int64 { return m.totalMatches }

// SkippedPatterns returns the ids of regex patterns dropped at build
// time because they failed to compile (§7 PatternCompileError).
func (m *Matcher) SkippedPatterns() []int {
	if m.re == nil {
		return nil
	}
	return m.re.SkippedPatterns()
}

// Diagnostics returns one human-readable line per skipped or timed-out
// regex pattern.
func (m *Matcher) Diagnostics() []string {
	if m.re == nil {
		return nil
	}
	return m.re.Diagnostics()
}

// Match scans a complete buffer and returns every literal and regex
// match found, sorted by (start, end, kind, pattern id). Match does not
// persist any scanning state between calls — it is for batch mode only.
func (m *Matcher) Match(text []byte) ([]types.Match, error) {
	if !m.built {
		return nil, ErrNotBuilt
	}
	if m.streaming {
		return nil, fmt.Errorf("%w: Match called on a streaming matcher", ErrMode)
	}

	out, err := m.scanRegion(text, 0)
	if err != nil {
		return nil, err
	}
	m.totalMatches += int64(len(out))
	return out, nil
}

// Feed accepts the next chunk of a streaming input and returns every
// newly-final match — i.e., every match not already reported by a prior
// Feed call on this stream. Feed(nil) or Feed([]byte{}) signals end of
// stream: the final flush call, after which the whole buffered tail is
// consumed rather than retained.
//
// Each call peeks (not just scans) the entire retained buffer, not only
// the bytes written this call: a pattern whose match is already
// complete can span bytes retained from an earlier call and bytes just
// written, and scanning only the new bytes would miss it (S4 in
// §8: feed("a") then feed("b") against pattern "ab" must report
// the match on the second call, not only after a final flush). Only the
// leading total-tail bytes are then consumed — the trailing
// max_pattern_length-1 bytes stay buffered so a pattern starting there
// can still complete against a future chunk. Because the retained tail
// is rescanned whole on the next call, the same match can be found
// twice; reportedThrough, the absolute end of the previously scanned
// window, filters out the repeat (§3's "deduplication across chunk
// refeeds").
func (m *Matcher) Feed(chunk []byte) ([]types.Match, error) {
	if !m.built {
		return nil, ErrNotBuilt
	}
	if !m.streaming {
		return nil, fmt.Errorf("%w: Feed called on a batch matcher", ErrMode)
	}

	isFinal := len(chunk) == 0
	if !isFinal {
		if m.ring.AvailableSpace() < len(chunk) {
			m.ring.Grow(m.ring.AvailableData() + len(chunk))
		}
		written := m.ring.Write(chunk)
		m.fed += int64(written)
	}

	total := m.ring.AvailableData()
	if total == 0 {
		return nil, nil
	}

	window := m.ring.Peek(0)
	raw, err := m.scanRegion(window, m.consumed)
	if err != nil {
		return nil, err
	}

	out := raw[:0:0]
	for _, r := range raw {
		if r.End <= m.reportedThrough {
			continue
		}
		out = append(out, r)
	}
	m.reportedThrough = m.fed

	tail := m.maxPatternLength - 1
	if tail < 0 {
		tail = 0
	}
	consumable := total - tail
	if isFinal {
		consumable = total
	}
	if consumable < 0 {
		consumable = 0
	}

	m.ring.Read(consumable)
	m.consumed += int64(consumable)
	m.totalMatches += int64(len(out))
	return out, nil
}

// Reset clears streaming state (buffer contents, total match count,
// stream offset) but preserves the compiled engines — a rebuild is not
// required to scan a new stream with the same patterns.
func (m *Matcher) Reset() {
	m.totalMatches = 0
	m.fed = 0
	m.consumed = 0
	m.reportedThrough = 0
	if m.ring != nil {
		m.ring.Clear()
	}
}

// scanRegion runs both engines over region and returns combined,
// absolutely-offset, sorted matches. base is the absolute byte position
// of region[0].
func (m *Matcher) scanRegion(region []byte, base int64) ([]types.Match, error) {
	var out []types.Match

	if m.ac != nil {
		for _, am := range m.ac.Search(region) {
			out = append(out, types.Match{
				Kind:      types.Literal,
				PatternID: am.PatternID,
				Pattern:   m.ac.PatternRepr(am.PatternID),
				Start:     base + int64(am.Start),
				End:       base + int64(am.End),
			})
		}
	}

	if m.re != nil {
		rm, err := m.re.Scan(region, 0, len(region))
		if err != nil {
			return nil, fmt.Errorf("matcher: %w", err)
		}
		for _, r := range rm {
			out = append(out, types.Match{
				Kind:      types.Regex,
				PatternID: r.PatternID,
				Pattern:   r.Source,
				Start:     base + int64(r.Start),
				End:       base + int64(r.End),
				Matched:   r.Matched,
			})
		}
	}

	sortMatches(out)
	return out, nil
}
