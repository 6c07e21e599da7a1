package ahocorasick

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pats(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

// S1 from §8: overlapping patterns sharing suffixes.
func TestSearch_Overlap(t *testing.T) {
	a, err := Build(pats("he", "she", "his", "hers"))
	require.NoError(t, err)

	got := a.Search([]byte("ushers"))
	// Multiple patterns ending at the same position (he/she both end at 4)
	// are emitted in ascending pattern id order, per §4.2.
	want := []Match{
		{PatternID: 0, Start: 2, End: 4}, // he
		{PatternID: 1, Start: 1, End: 4}, // she
		{PatternID: 3, Start: 2, End: 6}, // hers
	}
	assert.Equal(t, want, got)
}

func TestSearch_EmptyPatternList(t *testing.T) {
	a, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, a.Search([]byte("anything at all")))
}

func TestBuild_RejectsEmptyPattern(t *testing.T) {
	_, err := Build(pats("ok", ""))
	assert.Error(t, err)
}

func TestSearch_PrefixPatternsAllReported(t *testing.T) {
	a, err := Build(pats("a", "ab", "abc"))
	require.NoError(t, err)

	got := a.Search([]byte("abc"))
	sort.Slice(got, func(i, j int) bool {
		if got[i].End != got[j].End {
			return got[i].End < got[j].End
		}
		return got[i].PatternID < got[j].PatternID
	})
	want := []Match{
		{PatternID: 0, Start: 0, End: 1}, // a
		{PatternID: 1, Start: 0, End: 2}, // ab
		{PatternID: 2, Start: 0, End: 3}, // abc
	}
	assert.Equal(t, want, got)
}

func TestSearch_OverlappingOccurrencesOfSamePattern(t *testing.T) {
	a, err := Build(pats("aa"))
	require.NoError(t, err)

	got := a.Search([]byte("aaaa"))
	want := []Match{
		{PatternID: 0, Start: 0, End: 2},
		{PatternID: 0, Start: 1, End: 3},
		{PatternID: 0, Start: 2, End: 4},
	}
	assert.Equal(t, want, got)
}

func TestSearch_DuplicatePatterns_BothIDsReported(t *testing.T) {
	a, err := Build(pats("cat", "dog", "cat"))
	require.NoError(t, err)

	got := a.Search([]byte("cat"))
	ids := []int{got[0].PatternID, got[1].PatternID}
	sort.Ints(ids)
	assert.Equal(t, []int{0, 2}, ids)
}

func TestSearch_NoMatches(t *testing.T) {
	a, err := Build(pats("xyz"))
	require.NoError(t, err)
	assert.Empty(t, a.Search([]byte("hello world")))
}

// Property test (spec §8 invariant 1): brute-force substring search must
// agree with the automaton for a range of small inputs.
func TestSearch_AgreesWithBruteForce(t *testing.T) {
	patterns := []string{"he", "she", "his", "hers", "ab", "a", "b"}
	texts := []string{
		"ushers", "abababab", "", "zzz", "hhhheeee", "aaaaaaaaaa", "hishershe",
	}

	a, err := Build(pats(patterns...))
	require.NoError(t, err)

	for _, text := range texts {
		got := a.Search([]byte(text))
		want := bruteForce(patterns, text)
		assert.ElementsMatch(t, want, got, "text=%q", text)
	}
}

func bruteForce(patterns []string, text string) []Match {
	var out []Match
	for id, p := range patterns {
		for i := 0; i+len(p) <= len(text); i++ {
			if text[i:i+len(p)] == p {
				out = append(out, Match{PatternID: id, Start: i, End: i + len(p)})
			}
		}
	}
	return out
}

func TestSearchStateful_CarriesStateAcrossChunks(t *testing.T) {
	a, err := Build(pats("banana"))
	require.NoError(t, err)

	m1, state := a.SearchStateful([]byte("bana"), 0)
	assert.Empty(t, m1)

	m2, _ := a.SearchStateful([]byte("nana"), state)
	require.Len(t, m2, 1)
	assert.Equal(t, 0, m2[0].PatternID)
	// Local offsets are relative to the second chunk; the match started
	// 4 bytes before this chunk began.
	assert.Equal(t, -4, m2[0].Start)
	assert.Equal(t, 2, m2[0].End)
}

func TestMaxPatternLen(t *testing.T) {
	a, err := Build(pats("a", "abc", "ab"))
	require.NoError(t, err)
	assert.Equal(t, 3, a.MaxPatternLen())
}
