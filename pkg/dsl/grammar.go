package dsl

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// A participle grammar over the textual form of the query document, used by
// the "dsl" CLI subcommand to normalize hand-written documents. The JSON
// unmarshallers in json.go remain the path for documents arriving over HTTP.
// Another useful example with a json-like custom DSL:
// https://github.com/alecthomas/participle/discussions/207

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Number", Pattern: `-?\d+(\.\d+)?`},
		{Name: "String", Pattern: `"[^"]*"`},
		{Name: "Boolean", Pattern: `\w+`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Punct", Pattern: `[,.<>(){}=:\[\]]`},
	},
		lexer.MatchLongest())

	DslParser = participle.MustBuild(&Dsl{},
		participle.Lexer(dslLexer),
		participle.Unquote("String"),
		participle.Elide("Whitespace"),
	)
)

// Dsl is the root of the textual grammar: a search request wrapping a
// query document and an optional result size.
type Dsl struct {
	Query *DslQuery `"{" ( "query" ":" @@ ","?`
	Size  *int      `| "size" ":" @Number ","? )+ "}"`
}

type DslQuery struct {
	Term          *DslProperty      `"{" ( "term" ":" "{" @@ "}"`
	Range         *DslRange         `| "range" ":" "{" @@ "}"`
	Bool          *DslBool          `| "bool" ":" "{" @@ "}"`
	FunctionScore *DslFunctionScore `| "function_score" ":" "{" @@ "}"`
	MatchNone     bool              `| @"match_none" ":" "{" "}" ) "}"`
}

type DslBool struct {
	Must    []*DslClause `( "must" ":" "["? @@* "]"? ","?`
	Should  []*DslClause `| "should" ":" "["? @@* "]"? ","?`
	MustNot *DslQuery    `| "must_not" ":" @@ ","? )+`
}

type DslClause struct {
	Query *DslQuery `@@ ","?`
}

type DslRange struct {
	Field        string          `@String ":"`
	RangeOptions DslRangeOptions `"{" @@ "}"`
}

type DslRangeOptions struct {
	Gt     *DslValue `( "gt" ":" @@ ","?`
	Gte    *DslValue `| "gte" ":" @@ ","?`
	Lt     *DslValue `| "lt" ":" @@ ","?`
	Lte    *DslValue `| "lte" ":" @@ ","?`
	Format *string   `| "format" ":" @String ","? )+`
}

type DslFunctionScore struct {
	Query *DslQuery `( "query" ":" @@ ","?`
	Boost *float64  `| "boost" ":" @Number ","? )+`
}

type DslProperty struct {
	Key   string    `@String ":"`
	Value *DslValue `@@`
}

type DslValue struct {
	String  *string `@String`
	Number  *string `| @Number`
	Boolean *string `| @("true" | "false")`
}

func (v *DslValue) value() any {
	switch {
	case v == nil:
		return nil
	case v.String != nil:
		return *v.String
	case v.Boolean != nil:
		return *v.Boolean == "true"
	case v.Number != nil:
		if strings.Contains(*v.Number, ".") {
			f, _ := strconv.ParseFloat(*v.Number, 64)
			return f
		}
		i, _ := strconv.ParseInt(*v.Number, 10, 64)
		return i
	}
	return nil
}

// ToRequest lowers the grammar tree into the document model.
func (d *Dsl) ToRequest() *Request {
	req := &Request{Size: d.Size}
	if d.Query != nil {
		req.Query = d.Query.ToQuery()
	}
	return req
}

func (q *DslQuery) ToQuery() *Query {
	switch {
	case q == nil:
		return nil
	case q.Term != nil:
		return &Query{Term: map[string]any{q.Term.Key: q.Term.Value.value()}}
	case q.Range != nil:
		opts := &RangeOptions{
			Gt:     q.Range.RangeOptions.Gt.value(),
			Gte:    q.Range.RangeOptions.Gte.value(),
			Lt:     q.Range.RangeOptions.Lt.value(),
			Lte:    q.Range.RangeOptions.Lte.value(),
			Format: q.Range.RangeOptions.Format,
		}
		return &Query{Range: map[string]*RangeOptions{q.Range.Field: opts}}
	case q.Bool != nil:
		b := &Bool{MustNot: q.Bool.MustNot.ToQuery()}
		for _, c := range q.Bool.Must {
			b.Must = append(b.Must, c.Query.ToQuery())
		}
		for _, c := range q.Bool.Should {
			b.Should = append(b.Should, c.Query.ToQuery())
		}
		return &Query{Bool: b}
	case q.FunctionScore != nil:
		fs := &FunctionScore{Query: q.FunctionScore.Query.ToQuery()}
		if q.FunctionScore.Boost != nil {
			fs.Boost = *q.FunctionScore.Boost
		}
		return &Query{FunctionScore: fs}
	case q.MatchNone:
		return &Query{MatchNone: &MatchNone{}}
	}
	return nil
}
