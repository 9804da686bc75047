package search

import (
	"net/netip"
	"strings"
)

// A scannerless tokenizer. Each call receives the remaining input, tries to
// recognize one expected token at its front, and returns the residual input
// together with the captured lexeme. No state is held between calls; a miss
// leaves the input untouched.

// MatchToken tries to recognize one token of the expected kind at the
// beginning of input. Insignificant horizontal whitespace is skipped first,
// except for kinds that are themselves whitespace-sensitive: the interior
// absolute-date fragments bind directly to the preceding component, and the
// relative-date words require at least one space before them.
func MatchToken(input string, want Expect) (rest, lexeme string, ok bool) {
	switch want.Kind {
	case TokAnd:
		return matchConnective(input, "AND", "&&", ",")
	case TokOr:
		return matchConnective(input, "OR", "||")
	case TokNot:
		return matchConnective(input, "NOT", "!", "-")
	case TokLparen:
		return matchByte(input, '(')
	case TokRparen:
		return matchByte(input, ')')
	case TokBoost:
		return matchByte(input, '^')
	case TokFuzz:
		return matchByte(input, '~')
	case TokQuote:
		return matchByte(input, '"')
	case TokFloat:
		return matchFloat(input)
	case TokInteger:
		return matchInteger(input)
	case TokBoolean:
		return matchBoolean(input)
	case TokIpCidr:
		return matchIpCidr(input)
	case TokAbsoluteDate4Digit:
		if rest, lexeme, ok = matchDigits(skipSpace(input), 4); ok {
			return rest, lexeme, true
		}
		return input, "", false
	case TokAbsoluteDate2Digit:
		return matchDigits(input, 2)
	case TokAbsoluteDateHyphen:
		return matchRawByte(input, '-')
	case TokAbsoluteDateColon:
		return matchRawByte(input, ':')
	case TokAbsoluteDateTimeSep:
		if rest, lexeme, ok = matchRawByte(input, 'T'); ok {
			return rest, lexeme, true
		}
		return matchRawByte(input, ' ')
	case TokAbsoluteDateZulu:
		return matchRawByte(input, 'Z')
	case TokAbsoluteDateOffsetDirection:
		if rest, lexeme, ok = matchRawByte(input, '+'); ok {
			return rest, lexeme, true
		}
		return matchRawByte(input, '-')
	case TokRelativeDateMultiplier:
		return matchSpacedWord(input, relativeUnits...)
	case TokRelativeDateDirection:
		return matchSpacedWord(input, "ago", "from now")
	case TokField:
		s := skipSpace(input)
		if want.Name != "" && strings.HasPrefix(s, want.Name) {
			return s[len(want.Name):], want.Name, true
		}
	case TokRangeLte:
		return matchLiteral(input, ".lte:")
	case TokRangeLt:
		return matchLiteral(input, ".lt:")
	case TokRangeGte:
		return matchLiteral(input, ".gte:")
	case TokRangeGt:
		return matchLiteral(input, ".gt:")
	case TokRangeEq:
		return matchLiteral(input, ":")
	case TokEof:
		if s := skipSpace(input); s == "" {
			return "", "", true
		}
	case TokTerm:
		return matchTerm(input)
	case TokQuotedTerm:
		return matchQuotedTerm(input)
	case TokNewline:
		s := skipSpace(input)
		if strings.HasPrefix(s, "\r\n") {
			return s[2:], "\r\n", true
		}
		if strings.HasPrefix(s, "\n") {
			return s[1:], "\n", true
		}
	}
	return input, "", false
}

// MatchTokens recognizes an ordered sequence of tokens. All-or-nothing:
// either every expectation matches in order, or the input is untouched.
func MatchTokens(input string, want []Expect) (rest string, lexemes []string, ok bool) {
	rest = input
	lexemes = make([]string, 0, len(want))
	for _, w := range want {
		r, lex, matched := MatchToken(rest, w)
		if !matched {
			return input, nil, false
		}
		rest = r
		lexemes = append(lexemes, lex)
	}
	return rest, lexemes, true
}

// MatchAlternatives recognizes an ordered sequence of tokens where each
// position offers several alternatives; the first alternative that matches
// at a position wins. All-or-nothing over the whole sequence.
func MatchAlternatives(input string, want [][]Expect) (rest string, lexemes []string, ok bool) {
	rest = input
	lexemes = make([]string, 0, len(want))
	for _, alts := range want {
		matched := false
		for _, w := range alts {
			if r, lex, m := MatchToken(rest, w); m {
				rest = r
				lexemes = append(lexemes, lex)
				matched = true
				break
			}
		}
		if !matched {
			return input, nil, false
		}
	}
	return rest, lexemes, true
}

// MatchAtMost recognizes as long a prefix of the expected sequence as
// matches, possibly none. It never fails.
func MatchAtMost(input string, want []Expect) (rest string, lexemes []string) {
	rest = input
	for _, w := range want {
		r, lex, ok := MatchToken(rest, w)
		if !ok {
			break
		}
		rest = r
		lexemes = append(lexemes, lex)
	}
	return rest, lexemes
}

func skipSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	return s
}

// matchConnective recognizes a keyword connective or one of its symbol
// forms. The keyword needs a trailing boundary so that it cannot eat the
// front of a term; symbols stand on their own.
func matchConnective(input, word string, symbols ...string) (string, string, bool) {
	s := skipSpace(input)
	if strings.HasPrefix(s, word) {
		rest := s[len(word):]
		if rest != "" {
			switch rest[0] {
			case ' ', '\t':
				return skipSpace(rest), word, true
			case '(', '"':
				return rest, word, true
			}
		}
	}
	for _, sym := range symbols {
		if strings.HasPrefix(s, sym) {
			return s[len(sym):], sym, true
		}
	}
	return input, "", false
}

func matchByte(input string, c byte) (string, string, bool) {
	s := skipSpace(input)
	if len(s) > 0 && s[0] == c {
		return s[1:], string(c), true
	}
	return input, "", false
}

// matchRawByte is matchByte without the whitespace skip, for tokens that
// bind directly to the previous one.
func matchRawByte(input string, c byte) (string, string, bool) {
	if len(input) > 0 && input[0] == c {
		return input[1:], string(c), true
	}
	return input, "", false
}

func matchLiteral(input, lit string) (string, string, bool) {
	s := skipSpace(input)
	if strings.HasPrefix(s, lit) {
		return s[len(lit):], lit, true
	}
	return input, "", false
}

func matchDigits(input string, n int) (string, string, bool) {
	if len(input) < n {
		return input, "", false
	}
	for i := 0; i < n; i++ {
		if input[i] < '0' || input[i] > '9' {
			return input, "", false
		}
	}
	return input[n:], input[:n], true
}

// matchInteger recognizes an optionally signed decimal integer. A literal
// followed by a decimal point is left for the float rule.
func matchInteger(input string) (string, string, bool) {
	s := skipSpace(input)
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return input, "", false
	}
	if i < len(s) && s[i] == '.' {
		return input, "", false
	}
	return s[i:], s[:i], true
}

// matchFloat recognizes an optionally signed real number. The fraction is
// optional, so an integer matches where a float is required.
func matchFloat(input string) (string, string, bool) {
	s := skipSpace(input)
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return input, "", false
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return s[i:], s[:i], true
}

func matchBoolean(input string) (string, string, bool) {
	s := skipSpace(input)
	i := 0
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	word := s[:i]
	if strings.EqualFold(word, "true") || strings.EqualFold(word, "false") {
		return s[i:], word, true
	}
	return input, "", false
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// matchIpCidr recognizes an IP address like 127.0.0.1 or 2200:dead:beef::cafe,
// optionally with a CIDR prefix like 1.2.3.4/24. The longest valid prefix of
// the candidate run wins.
func matchIpCidr(input string) (string, string, bool) {
	s := skipSpace(input)
	n := 0
	for n < len(s) && isIpByte(s[n]) {
		n++
	}
	for ; n > 0; n-- {
		if validIpCidr(s[:n]) {
			return s[n:], s[:n], true
		}
	}
	return input, "", false
}

func isIpByte(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' ||
		c == ':' || c == '.' || c == '/'
}

func validIpCidr(s string) bool {
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err == nil
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// Plural forms first so that the longest match wins.
var relativeUnits = []string{
	"seconds", "minutes", "hours", "days", "weeks", "months", "years",
	"second", "minute", "hour", "day", "week", "month", "year",
}

// matchSpacedWord recognizes one of the given words, requiring at least one
// space before it and a word boundary after it.
func matchSpacedWord(input string, words ...string) (string, string, bool) {
	if len(input) == 0 || input[0] != ' ' && input[0] != '\t' {
		return input, "", false
	}
	s := skipSpace(input)
	for _, w := range words {
		if strings.HasPrefix(s, w) {
			rest := s[len(w):]
			if rest == "" || !isWordByte(rest[0]) {
				return rest, w, true
			}
		}
	}
	return input, "", false
}

var rangeOperators = []string{".lte:", ".lt:", ".gte:", ".gt:", ":"}

// matchTerm recognizes an unquoted term: a run of characters up to the next
// whitespace, range operator, connective symbol, grouping character, boost,
// fuzz or comment marker. Backslash-escaped characters are consumed blindly.
func matchTerm(input string) (string, string, bool) {
	s := skipSpace(input)
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if isTermStop(s[i:]) {
			break
		}
		i++
	}
	if i == 0 {
		return input, "", false
	}
	return s[i:], s[:i], true
}

func isTermStop(rest string) bool {
	switch rest[0] {
	case ' ', '\t', '\r', '\n', '(', ')', '"', '^', '~', ',', ':', '#':
		return true
	case '&':
		return strings.HasPrefix(rest, "&&")
	case '|':
		return strings.HasPrefix(rest, "||")
	case '.':
		for _, op := range rangeOperators {
			if strings.HasPrefix(rest, op) {
				return true
			}
		}
	}
	return false
}

// matchQuotedTerm recognizes everything up to the next unescaped quote. The
// quote itself is not consumed; it misses when the input never closes the
// quote.
func matchQuotedTerm(input string) (string, string, bool) {
	i := 0
	for i < len(input) {
		if input[i] == '\\' && i+1 < len(input) {
			i += 2
			continue
		}
		if input[i] == '"' {
			return input[i:], input[:i], true
		}
		i++
	}
	return input, "", false
}

// matchComment recognizes a # comment running to the end of the line. The
// line ending itself is left in place.
func matchComment(input string) (string, bool) {
	s := skipSpace(input)
	if len(s) == 0 || s[0] != '#' {
		return input, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return s[i:], true
		}
	}
	return "", true
}

// unescapeTerm strips the backslashes from a raw term lexeme.
func unescapeTerm(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
