package search

import (
	"testing"

	require "github.com/alecthomas/assert/v2"
)

func TestMatchTokenNumbers(t *testing.T) {
	tests := []struct {
		kind   Kind
		input  string
		lexeme string
		rest   string
		ok     bool
	}{
		{TokInteger, "123", "123", "", true},
		{TokInteger, "-5 rest", "-5", " rest", true},
		{TokInteger, "+42", "+42", "", true},
		{TokInteger, "  17", "17", "", true},
		{TokInteger, "12.5", "", "12.5", false},
		{TokInteger, "abc", "", "abc", false},
		{TokFloat, "12.34", "12.34", "", true},
		{TokFloat, "12.", "12.", "", true},
		{TokFloat, "12", "12", "", true},
		{TokFloat, "-0.5x", "-0.5", "x", true},
		{TokFloat, "x", "", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rest, lexeme, ok := MatchToken(tt.input, Expect{Kind: tt.kind})
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.rest, rest)
			require.Equal(t, tt.lexeme, lexeme)
		})
	}
}

func TestMatchTokenBoolean(t *testing.T) {
	for _, good := range []string{"true", "false", "TRUE", "False"} {
		_, lexeme, ok := MatchToken(good, Expect{Kind: TokBoolean})
		require.True(t, ok)
		require.Equal(t, good, lexeme)
	}
	for _, bad := range []string{"truthy", "falsey", "yes", ""} {
		_, _, ok := MatchToken(bad, Expect{Kind: TokBoolean})
		require.False(t, ok)
	}
}

func TestMatchTokenIpCidr(t *testing.T) {
	tests := []struct {
		input  string
		lexeme string
		ok     bool
	}{
		{"127.0.0.1", "127.0.0.1", true},
		{"10.0.0.0/8", "10.0.0.0/8", true},
		{"::1", "::1", true},
		{"2200:dead:beef::cafe", "2200:dead:beef::cafe", true},
		{"2200::/64", "2200::/64", true},
		{"1.2.3.4 AND", "1.2.3.4", true},
		{"1.2.3", "", false},
		{"banana", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, lexeme, ok := MatchToken(tt.input, Expect{Kind: TokIpCidr})
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.lexeme, lexeme)
		})
	}
}

func TestMatchTokenConnectives(t *testing.T) {
	tests := []struct {
		kind  Kind
		input string
		rest  string
		ok    bool
	}{
		{TokAnd, " AND b", "b", true},
		{TokAnd, ", b", " b", true},
		{TokAnd, "&& b", " b", true},
		{TokAnd, "ANDb", "ANDb", false},
		{TokAnd, "AND", "AND", false},
		{TokOr, " OR b", "b", true},
		{TokOr, "|| b", " b", true},
		{TokOr, "or b", "or b", false},
		{TokNot, "NOT b", "b", true},
		{TokNot, "!b", "b", true},
		{TokNot, "-b", "b", true},
		{TokNot, "NOTb", "NOTb", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rest, _, ok := MatchToken(tt.input, Expect{Kind: tt.kind})
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.rest, rest)
		})
	}
}

func TestMatchTokenTerm(t *testing.T) {
	tests := []struct {
		input  string
		lexeme string
		rest   string
		ok     bool
	}{
		{"hello", "hello", "", true},
		{"hello world", "hello", " world", true},
		{"foo:bar", "foo", ":bar", true},
		{"foo.lt:5", "foo", ".lt:5", true},
		{"a)b", "a", ")b", true},
		{"my-token", "my-token", "", true},
		{"file.name", "file.name", "", true},
		{`rose\ flower`, `rose\ flower`, "", true},
		{"boosted^2", "boosted", "^2", true},
		{"a&&b", "a", "&&b", true},
		{"note#x", "note", "#x", true},
		{")", "", ")", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rest, lexeme, ok := MatchToken(tt.input, Expect{Kind: TokTerm})
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.lexeme, lexeme)
			require.Equal(t, tt.rest, rest)
		})
	}
}

func TestMatchTokenQuotedTerm(t *testing.T) {
	rest, lexeme, ok := MatchToken(`exact phrase" tail`, Expect{Kind: TokQuotedTerm})
	require.True(t, ok)
	require.Equal(t, "exact phrase", lexeme)
	require.Equal(t, `" tail`, rest)

	_, lexeme, ok = MatchToken(`say \"hi\""`, Expect{Kind: TokQuotedTerm})
	require.True(t, ok)
	require.Equal(t, `say \"hi\"`, lexeme)

	_, _, ok = MatchToken("never closed", Expect{Kind: TokQuotedTerm})
	require.False(t, ok)
}

func TestMatchTokenRelativeDateWords(t *testing.T) {
	rest, lexeme, ok := MatchToken(" days ago", Expect{Kind: TokRelativeDateMultiplier})
	require.True(t, ok)
	require.Equal(t, "days", lexeme)
	require.Equal(t, " ago", rest)

	// the unit words need a space before them
	_, _, ok = MatchToken("days ago", Expect{Kind: TokRelativeDateMultiplier})
	require.False(t, ok)

	_, lexeme, ok = MatchToken(" from now", Expect{Kind: TokRelativeDateDirection})
	require.True(t, ok)
	require.Equal(t, "from now", lexeme)

	_, _, ok = MatchToken(" agony", Expect{Kind: TokRelativeDateDirection})
	require.False(t, ok)
}

func TestMatchTokensAllOrNothing(t *testing.T) {
	seq := []Expect{
		{Kind: TokInteger},
		{Kind: TokRelativeDateMultiplier},
		{Kind: TokRelativeDateDirection},
	}
	rest, lexemes, ok := MatchTokens("3 days ago tail", seq)
	require.True(t, ok)
	require.Equal(t, []string{"3", "days", "ago"}, lexemes)
	require.Equal(t, " tail", rest)

	rest, _, ok = MatchTokens("3 days", seq)
	require.False(t, ok)
	require.Equal(t, "3 days", rest)
}

func TestMatchAlternatives(t *testing.T) {
	alts := [][]Expect{
		{Field("created_at"), Field("created")},
		{{Kind: TokRangeGte}, {Kind: TokRangeEq}},
	}
	rest, lexemes, ok := MatchAlternatives("created.gte:5", alts)
	require.True(t, ok)
	require.Equal(t, []string{"created", ".gte:"}, lexemes)
	require.Equal(t, "5", rest)

	rest, _, ok = MatchAlternatives("updated:5", alts)
	require.False(t, ok)
	require.Equal(t, "updated:5", rest)
}

func TestMatchAtMost(t *testing.T) {
	seq := []Expect{
		{Kind: TokAbsoluteDate4Digit},
		{Kind: TokAbsoluteDateHyphen}, {Kind: TokAbsoluteDate2Digit},
		{Kind: TokAbsoluteDateHyphen}, {Kind: TokAbsoluteDate2Digit},
	}
	rest, lexemes := MatchAtMost("2024-01 tail", seq)
	require.Equal(t, []string{"2024", "-", "01"}, lexemes)
	require.Equal(t, " tail", rest)

	_, lexemes = MatchAtMost("junk", seq)
	require.Equal(t, 0, len(lexemes))
}

func TestMatchTokenNewlineAndEof(t *testing.T) {
	rest, _, ok := MatchToken("  \nnext", Expect{Kind: TokNewline})
	require.True(t, ok)
	require.Equal(t, "next", rest)

	rest, _, ok = MatchToken("\r\nnext", Expect{Kind: TokNewline})
	require.True(t, ok)
	require.Equal(t, "next", rest)

	_, _, ok = MatchToken("   ", Expect{Kind: TokEof})
	require.True(t, ok)
	_, _, ok = MatchToken(" x", Expect{Kind: TokEof})
	require.False(t, ok)
}

func TestFieldLongestMatch(t *testing.T) {
	fields := fieldExpects([]string{"id", "id_number"})
	rest, lexemes, ok := MatchAlternatives("id_number:5", [][]Expect{fields, {{Kind: TokRangeEq}}})
	require.True(t, ok)
	require.Equal(t, "id_number", lexemes[0])
	require.Equal(t, "5", rest)
}
