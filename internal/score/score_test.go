package score

import (
	"errors"
	"testing"

	"github.com/campuswell/psychtool/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestParseRange_Valid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		lo, hi int
	}{
		{"10-20", 10, 20},
		{"0-0", 0, 0},
		{" 10 - 20 ", 10, 20},
		{"5-5", 5, 5},
		{"100-9", 100, 9}, // lo > hi parses; it just never matches
	}
	for _, c := range cases {
		r, ok := ParseRange(c.in)
		require.True(t, ok, "ParseRange(%q)", c.in)
		require.Equal(t, Range{Lo: c.lo, Hi: c.hi}, r, "ParseRange(%q)", c.in)
	}
}

func TestParseRange_Malformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"", "abc", "5", "1-2-3", "-5", "5-", "-5-3", "a-b", "1.5-2", "1 0-20", "--",
	} {
		_, ok := ParseRange(in)
		require.False(t, ok, "ParseRange(%q) should fail", in)
		require.False(t, IsValidRange(in), "IsValidRange(%q)", in)
	}
}

func TestIsValidRange(t *testing.T) {
	t.Parallel()
	require.True(t, IsValidRange("10-20"))
	require.False(t, IsValidRange("10-20-30"))
}

func TestEvaluate_Match(t *testing.T) {
	t.Parallel()

	table := map[string]string{"10-20": "A", "21-30": "B"}

	text, matched, err := Evaluate(15, table)
	require.NoError(t, err)
	require.True(t, matched)
	require.Equal(t, "A", text)

	text, matched, err = Evaluate(30, table)
	require.NoError(t, err)
	require.True(t, matched)
	require.Equal(t, "B", text)
}

func TestEvaluate_NoMatch(t *testing.T) {
	t.Parallel()

	_, matched, err := Evaluate(35, map[string]string{"10-20": "A", "21-30": "B"})
	require.NoError(t, err)
	require.False(t, matched)

	_, matched, err = Evaluate(7, map[string]string{})
	require.NoError(t, err)
	require.False(t, matched)
}

func TestEvaluate_MalformedKeyIsFatal(t *testing.T) {
	t.Parallel()

	// A malformed key must surface as a consistency fault, never as a plain
	// no-match, even when another key would have matched.
	_, _, err := Evaluate(15, map[string]string{"10-20": "A", "bogus": "B"})
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrConfigCorrupt))
}

func TestEvaluate_OverlapIsDeterministic(t *testing.T) {
	t.Parallel()

	// Lowest Lo wins regardless of map iteration order.
	for range 50 {
		text, matched, err := Evaluate(15, map[string]string{"10-20": "low", "12-30": "high"})
		require.NoError(t, err)
		require.True(t, matched)
		require.Equal(t, "low", text)
	}
}

func TestEvaluate_InvertedRangeNeverMatches(t *testing.T) {
	t.Parallel()

	_, matched, err := Evaluate(15, map[string]string{"20-10": "X"})
	require.NoError(t, err)
	require.False(t, matched)
}
