// Package regexengine implements the §6 regex-engine contract on top of
// github.com/dlclark/regexp2, a portable (non-CGO) regex dependency.
//
// regexp2 indexes matches in runes, not bytes. Every input here is
// treated as bytes end-to-end, so this package decodes once per Scan
// call and maps rune offsets back to byte offsets before returning
// anything to the caller.
package regexengine

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultTimeout bounds a single regex step, preventing catastrophic
// backtracking from hanging a scan.
const DefaultTimeout = 5 * time.Second

// Match reports one occurrence of a compiled pattern.
type Match struct {
	PatternID int
	Source    string
	Start     int
	End       int
	Matched   []byte
}

// Engine compiles a list of regex patterns and scans byte ranges for
// every non-overlapping occurrence of each, per pattern.
type Engine struct {
	sources     []string
	compiled    []*regexp2.Regexp // nil entry means the pattern was dropped
	skipped     []int
	diagnostics []string
	tolerant    bool
}

// New compiles every pattern in sources. A pattern that fails to compile
// is dropped — its id is recorded via SkippedPatterns and a diagnostic is
// appended — but New never fails on a bad pattern; the soft error is
// reported, not propagated (§7 PatternCompileError).
//
// When tolerant is true, a pattern that exceeds timeout during Scan is
// dropped for the remainder of that call (and a diagnostic recorded)
// instead of aborting the whole Scan — mirroring Options.Tolerant in
// pkg/matcher/options.go.
func New(sources []string, timeout time.Duration, tolerant bool) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	e := &Engine{
		sources:  sources,
		compiled: make([]*regexp2.Regexp, len(sources)),
		tolerant: tolerant,
	}

	for id, src := range sources {
		re, err := regexp2.Compile(src, regexp2.RE2|regexp2.Multiline)
		if err != nil {
			re, err = regexp2.Compile(src, regexp2.None)
		}
		if err != nil {
			e.skipped = append(e.skipped, id)
			e.diagnostics = append(e.diagnostics,
				fmt.Sprintf("pattern %d (%q) dropped: %v", id, src, err))
			continue
		}
		re.MatchTimeout = timeout
		e.compiled[id] = re
	}

	return e
}

// SkippedPatterns returns the ids of patterns dropped during New because
// they failed to compile.
func (e *Engine) SkippedPatterns() []int {
	out := make([]int, len(e.skipped))
	copy(out, e.skipped)
	return out
}

// Diagnostics returns a human-readable line per skipped pattern, plus one
// line per pattern timeout that a tolerant Scan recorded.
func (e *Engine) Diagnostics() []string {
	out := make([]string, len(e.diagnostics))
	copy(out, e.diagnostics)
	return out
}

// Scan finds every non-overlapping occurrence of every compiled pattern
// within data[start:end], per pattern — matches from different patterns
// may overlap each other (§9 open question), but a single pattern's own
// occurrences never overlap. Offsets returned are relative to the start
// of data (the slice passed in), not to `start`; Scan's caller
// translates further as needed.
func (e *Engine) Scan(data []byte, start, end int) ([]Match, error) {
	if start < 0 || end > len(data) || start > end {
		return nil, fmt.Errorf("regexengine: invalid range [%d:%d) for %d bytes", start, end, len(data))
	}
	region := data[start:end]
	runeOffsets := byteOffsetsByRune(region)
	text := string(region)

	var out []Match
	for id, re := range e.compiled {
		if re == nil {
			continue
		}
		matches, err := scanOne(re, text, runeOffsets)
		if err != nil {
			if e.tolerant {
				e.diagnostics = append(e.diagnostics,
					fmt.Sprintf("pattern %d (%q) timed out: %v", id, e.sources[id], err))
				continue
			}
			return nil, fmt.Errorf("regexengine: pattern %d (%q): %w", id, e.sources[id], err)
		}
		for _, m := range matches {
			m.PatternID = id
			m.Source = e.sources[id]
			m.Start += start
			m.End += start
			out = append(out, m)
		}
	}
	return out, nil
}

func scanOne(re *regexp2.Regexp, text string, runeOffsets []int) ([]Match, error) {
	var out []Match

	match, err := re.FindStringMatch(text)
	if err != nil {
		return nil, err
	}
	for match != nil {
		startRune := match.Index
		endRune := match.Index + match.Length
		startByte := runeOffsets[startRune]
		endByte := runeOffsets[endRune]

		out = append(out, Match{
			Start:   startByte,
			End:     endByte,
			Matched: []byte(text[startByte:endByte]),
		})

		match, err = re.FindNextMatch(match)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// byteOffsetsByRune returns, for each rune index 0..n (n = rune count),
// the byte offset where that rune begins (offsets[n] == len(data)),
// letting a rune-indexed match be translated back to byte offsets in
// a single pass.
func byteOffsetsByRune(data []byte) []int {
	offsets := make([]int, 0, len(data)+1)
	for i := range string(data) {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(data))
	return offsets
}
