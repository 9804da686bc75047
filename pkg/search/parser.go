// Package search compiles the human-writable search query language into
// elasticsearch query documents.
//
// The language is a boolean algebra over typed field comparisons:
//
//	active:true AND age.gte:30 AND created.gt:1 day ago
//
// Connectives associate to the right, AND binds tighter than OR, NOT
// negates the whole expression that follows it (NOT a AND b negates
// a AND b), and parentheses override everything. Which values and
// range operators are legal after a field depends on the field's type in
// the configured schema, so the parser drives the tokenizer with explicit
// expectations instead of consuming a free token stream.
package search

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cultpony/search-parser/pkg/date"
	"github.com/cultpony/search-parser/pkg/dsl"
)

const maxDepth = 128

// Parser compiles query strings against one schema. It is immutable after
// construction; a single Parser may serve concurrent Parse calls.
type Parser struct {
	cfg   Config
	clock clockwork.Clock

	boolFields  []Expect
	dateFields  []Expect
	floatFields []Expect
	intFields   []Expect
	ipFields    []Expect
}

// NewParser builds a parser for the given schema. A nil clock means the
// wall clock; tests pass a fake clock to pin relative dates.
func NewParser(cfg Config, clock clockwork.Clock) (*Parser, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Parser{
		cfg:         cfg,
		clock:       clock,
		boolFields:  fieldExpects(cfg.BoolFields),
		dateFields:  fieldExpects(cfg.DateFields),
		floatFields: fieldExpects(cfg.FloatFields),
		intFields:   fieldExpects(cfg.IntFields),
		ipFields:    fieldExpects(cfg.IpFields),
	}, nil
}

// Parse compiles one query. Clauses on separate lines are alternatives;
// no clauses at all compile to the match_none sentinel. The returned error
// is a *ParseError for malformed input.
func (p *Parser) Parse(input string) (*dsl.Query, error) {
	r := &run{p: p, rest: input}
	clauses, err := r.lines()
	if err != nil {
		return nil, err
	}
	switch len(clauses) {
	case 0:
		return &dsl.Query{MatchNone: &dsl.MatchNone{}}, nil
	case 1:
		return clauses[0], nil
	}
	return &dsl.Query{Bool: &dsl.Bool{Should: clauses}}, nil
}

// run is the state of a single Parse call: the residual input and the
// recursion depth.
type run struct {
	p     *Parser
	rest  string
	depth int
}

// lines = (top NEWLINE*)* EOF. Each clause must be followed by a line
// ending (or a comment running to one) or the end of input; anything else
// is junk.
func (r *run) lines() ([]*dsl.Query, error) {
	var clauses []*dsl.Query
	for {
		if rest, _, ok := MatchToken(r.rest, Expect{Kind: TokEof}); ok {
			r.rest = rest
			return clauses, nil
		}
		if rest, _, ok := MatchToken(r.rest, Expect{Kind: TokNewline}); ok {
			r.rest = rest
			continue
		}
		if rest, ok := matchComment(r.rest); ok {
			r.rest = rest
			continue
		}
		q, err := r.top()
		if err != nil {
			if errors.Is(err, errNoMatch) {
				return nil, invalidInput("Junk at end of expression")
			}
			return nil, err
		}
		clauses = append(clauses, q)
		if !r.atClauseEnd() {
			return nil, invalidInput("Junk at end of expression")
		}
	}
}

func (r *run) atClauseEnd() bool {
	s := skipSpace(r.rest)
	return s == "" || s[0] == '\n' || s[0] == '#' || (s[0] == '\r' && len(s) > 1 && s[1] == '\n')
}

func (r *run) top() (*dsl.Query, error) {
	if r.depth >= maxDepth {
		return nil, invalidInput("Expression too deeply nested")
	}
	r.depth++
	defer func() { r.depth-- }()
	return r.or()
}

// or = and (OR top)?
func (r *run) or() (*dsl.Query, error) {
	left, err := r.and()
	if err != nil {
		return nil, err
	}
	rest, _, ok := MatchToken(r.rest, Expect{Kind: TokOr})
	if !ok {
		return left, nil
	}
	r.rest = rest
	right, err := r.top()
	if err != nil {
		return nil, operandErr(err)
	}
	return &dsl.Query{Bool: &dsl.Bool{Should: []*dsl.Query{left, right}}}, nil
}

// and = boost (AND top)?
func (r *run) and() (*dsl.Query, error) {
	left, err := r.boost()
	if err != nil {
		return nil, err
	}
	rest, _, ok := MatchToken(r.rest, Expect{Kind: TokAnd})
	if !ok {
		return left, nil
	}
	r.rest = rest
	right, err := r.top()
	if err != nil {
		return nil, operandErr(err)
	}
	return &dsl.Query{Bool: &dsl.Bool{Must: []*dsl.Query{left, right}}}, nil
}

// boost = not (BOOST Float)?
func (r *run) boost() (*dsl.Query, error) {
	q, err := r.not()
	if err != nil {
		return nil, err
	}
	rest, _, ok := MatchToken(r.rest, Expect{Kind: TokBoost})
	if !ok {
		return q, nil
	}
	rest, lex, ok := MatchToken(rest, Expect{Kind: TokFloat})
	if !ok {
		return nil, invalidInput("Expected a float")
	}
	boost, perr := strconv.ParseFloat(lex, 64)
	if perr != nil {
		return nil, invalidInput("Expected a float")
	}
	if boost < 0 {
		return nil, invalidInput("Boost must be non-negative")
	}
	r.rest = rest
	return &dsl.Query{FunctionScore: &dsl.FunctionScore{Query: q, Boost: boost}}, nil
}

// not = NOT top | group
func (r *run) not() (*dsl.Query, error) {
	rest, _, ok := MatchToken(r.rest, Expect{Kind: TokNot})
	if !ok {
		return r.group()
	}
	r.rest = rest
	q, err := r.top()
	if err != nil {
		return nil, operandErr(err)
	}
	return &dsl.Query{Bool: &dsl.Bool{MustNot: q}}, nil
}

// group = LPAREN top RPAREN | typed_term
func (r *run) group() (*dsl.Query, error) {
	rest, _, ok := MatchToken(r.rest, Expect{Kind: TokLparen})
	if !ok {
		return r.typedTerm()
	}
	r.rest = rest
	q, err := r.top()
	if err != nil {
		if errors.Is(err, errNoMatch) {
			return nil, invalidInput("Imbalanced parentheses")
		}
		return nil, err
	}
	rest, _, ok = MatchToken(r.rest, Expect{Kind: TokRparen})
	if !ok {
		return nil, invalidInput("Imbalanced parentheses")
	}
	r.rest = rest
	return q, nil
}

// typed_term tries each typed field production in a fixed priority order
// before falling back to the untyped term. A typed production commits as
// soon as its field and range operator match, so a type error there is
// fatal rather than a silent reinterpretation as a term.
func (r *run) typedTerm() (*dsl.Query, error) {
	productions := []func() (*dsl.Query, error){
		r.boolTerm, r.ipTerm, r.intTerm, r.floatTerm, r.dateTerm,
	}
	for _, production := range productions {
		q, err := production()
		if err == nil {
			return q, nil
		}
		if !errors.Is(err, errNoMatch) {
			return nil, err
		}
	}
	return r.plainTerm()
}

var (
	eqOnly    = []Expect{{Kind: TokRangeEq}}
	allRanges = []Expect{
		{Kind: TokRangeLte}, {Kind: TokRangeLt},
		{Kind: TokRangeGte}, {Kind: TokRangeGt},
		{Kind: TokRangeEq},
	}
)

func (r *run) boolTerm() (*dsl.Query, error) {
	rest, lexes, ok := MatchAlternatives(r.rest, [][]Expect{r.p.boolFields, eqOnly})
	if !ok {
		return nil, errNoMatch
	}
	rest, lex, ok := MatchToken(rest, Expect{Kind: TokBoolean})
	if !ok {
		return nil, invalidInput("Expected a boolean")
	}
	r.rest = rest
	return termQuery(lexes[0], strings.EqualFold(lex, "true")), nil
}

func (r *run) ipTerm() (*dsl.Query, error) {
	rest, lexes, ok := MatchAlternatives(r.rest, [][]Expect{r.p.ipFields, eqOnly})
	if !ok {
		return nil, errNoMatch
	}
	rest, lex, ok := MatchToken(rest, Expect{Kind: TokIpCidr})
	if !ok {
		return nil, invalidInput("Expected an IP address")
	}
	r.rest = rest
	return termQuery(lexes[0], lex), nil
}

func (r *run) intTerm() (*dsl.Query, error) {
	rest, lexes, ok := MatchAlternatives(r.rest, [][]Expect{r.p.intFields, allRanges})
	if !ok {
		return nil, errNoMatch
	}
	field, op := lexes[0], rangeOpFor(lexes[1])
	rest, lex, ok := MatchToken(rest, Expect{Kind: TokInteger})
	if !ok {
		return nil, invalidInput("Expected an integer")
	}
	v, perr := strconv.ParseInt(lex, 10, 64)
	if perr != nil {
		return nil, invalidInput("Expected an integer")
	}
	if fuzzRest, _, fuzzed := MatchToken(rest, Expect{Kind: TokFuzz}); fuzzed {
		if op != opEq {
			return nil, invalidInput("Multiple ranges specified")
		}
		fuzzRest, lex, ok = MatchToken(fuzzRest, Expect{Kind: TokInteger})
		if !ok {
			return nil, invalidInput("Expected an integer")
		}
		f, perr := strconv.ParseInt(lex, 10, 64)
		if perr != nil {
			return nil, invalidInput("Expected an integer")
		}
		if f < 0 {
			f = -f
		}
		r.rest = fuzzRest
		return rangeQuery(field, &dsl.RangeOptions{Gte: v - f, Lte: v + f}), nil
	}
	r.rest = rest
	return termRange(field, op, v), nil
}

func (r *run) floatTerm() (*dsl.Query, error) {
	rest, lexes, ok := MatchAlternatives(r.rest, [][]Expect{r.p.floatFields, allRanges})
	if !ok {
		return nil, errNoMatch
	}
	field, op := lexes[0], rangeOpFor(lexes[1])
	rest, lex, ok := MatchToken(rest, Expect{Kind: TokFloat})
	if !ok {
		return nil, invalidInput("Expected a float")
	}
	v, perr := strconv.ParseFloat(lex, 64)
	if perr != nil {
		return nil, invalidInput("Expected a float")
	}
	if fuzzRest, _, fuzzed := MatchToken(rest, Expect{Kind: TokFuzz}); fuzzed {
		if op != opEq {
			return nil, invalidInput("Multiple ranges specified")
		}
		fuzzRest, lex, ok = MatchToken(fuzzRest, Expect{Kind: TokFloat})
		if !ok {
			return nil, invalidInput("Expected a float")
		}
		f, perr := strconv.ParseFloat(lex, 64)
		if perr != nil {
			return nil, invalidInput("Expected a float")
		}
		if f < 0 {
			f = -f
		}
		r.rest = fuzzRest
		return rangeQuery(field, &dsl.RangeOptions{Gte: v - f, Lte: v + f}), nil
	}
	r.rest = rest
	return termRange(field, op, v), nil
}

func (r *run) dateTerm() (*dsl.Query, error) {
	rest, lexes, ok := MatchAlternatives(r.rest, [][]Expect{r.p.dateFields, allRanges})
	if !ok {
		return nil, errNoMatch
	}
	field, op := lexes[0], rangeOpFor(lexes[1])
	lower, upper, err := r.dateValue(&rest)
	if err != nil {
		return nil, err
	}
	r.rest = rest
	return dateRange(field, op, lower, upper), nil
}

var (
	relativeDateSeq = []Expect{
		{Kind: TokInteger},
		{Kind: TokRelativeDateMultiplier},
		{Kind: TokRelativeDateDirection},
	}
	absoluteDateSeq = []Expect{
		{Kind: TokAbsoluteDate4Digit},
		{Kind: TokAbsoluteDateHyphen}, {Kind: TokAbsoluteDate2Digit},
		{Kind: TokAbsoluteDateHyphen}, {Kind: TokAbsoluteDate2Digit},
		{Kind: TokAbsoluteDateTimeSep}, {Kind: TokAbsoluteDate2Digit},
		{Kind: TokAbsoluteDateColon}, {Kind: TokAbsoluteDate2Digit},
		{Kind: TokAbsoluteDateColon}, {Kind: TokAbsoluteDate2Digit},
	}
	offsetSeq = []Expect{
		{Kind: TokAbsoluteDateOffsetDirection},
		{Kind: TokAbsoluteDate2Digit},
		{Kind: TokAbsoluteDateColon},
		{Kind: TokAbsoluteDate2Digit},
	}
)

// dateValue folds a relative or absolute date expression into an interval,
// advancing *rest past it. The clock is read once per relative date.
func (r *run) dateValue(rest *string) (time.Time, time.Time, error) {
	var zero time.Time

	if after, lexes, ok := MatchTokens(*rest, relativeDateSeq); ok {
		amount, perr := strconv.ParseInt(lexes[0], 10, 64)
		if perr != nil {
			return zero, zero, invalidInput("Expected an integer")
		}
		direction := int64(-1)
		if lexes[2] == "from now" {
			direction = 1
		}
		now := r.p.clock.Now().UTC()
		lower, upper, err := date.RelativeInterval(now, amount, lexes[1], direction)
		if err != nil {
			return zero, zero, invalidInput("Invalid date")
		}
		*rest = after
		return lower, upper, nil
	}

	after, lexes := MatchAtMost(*rest, absoluteDateSeq)
	if len(lexes) == 0 {
		return zero, zero, invalidInput("Expected a date")
	}
	fields := make([]int64, 0, 6)
	for i := 0; i < len(lexes); i += 2 {
		v, perr := strconv.ParseInt(lexes[i], 10, 64)
		if perr != nil {
			return zero, zero, invalidInput("Invalid date")
		}
		fields = append(fields, v)
	}

	loc := time.UTC
	if z, _, ok := MatchToken(after, Expect{Kind: TokAbsoluteDateZulu}); ok {
		after = z
	} else if o, offs, ok := MatchTokens(after, offsetSeq); ok {
		hh, _ := strconv.ParseInt(offs[1], 10, 64)
		mm, _ := strconv.ParseInt(offs[3], 10, 64)
		if hh > 23 || mm > 59 {
			return zero, zero, invalidInput("Invalid date")
		}
		secs := int(hh*3600 + mm*60)
		if offs[0] == "-" {
			secs = -secs
		}
		loc = time.FixedZone("", secs)
		after = o
	}

	lower, upper, err := date.AbsoluteInterval(fields, loc)
	if err != nil {
		return zero, zero, invalidInput("Invalid date")
	}
	*rest = after
	return lower, upper, nil
}

// term = QUOTE QuotedTerm QUOTE | Term
func (r *run) plainTerm() (*dsl.Query, error) {
	quotedSeq := []Expect{{Kind: TokQuote}, {Kind: TokQuotedTerm}, {Kind: TokQuote}}
	if rest, lexes, ok := MatchTokens(r.rest, quotedSeq); ok {
		r.rest = rest
		return termQuery(r.p.cfg.DefaultField, unescapeTerm(lexes[1])), nil
	}
	rest, lex, ok := MatchToken(r.rest, Expect{Kind: TokTerm})
	if !ok {
		return nil, errNoMatch
	}
	r.rest = rest
	return termQuery(r.p.cfg.DefaultField, unescapeTerm(lex)), nil
}

// operandErr upgrades a no-match after a committed connective into a fatal
// error.
func operandErr(err error) error {
	if errors.Is(err, errNoMatch) {
		return invalidInput("Expected an expression")
	}
	return err
}
