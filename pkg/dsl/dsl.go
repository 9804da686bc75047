package dsl

// The subset of the elasticsearch Query DSL that the search compiler emits.
// https://www.elastic.co/guide/en/elasticsearch/reference/7.17/query-dsl.html

// Query is one node of a compiled query document. Exactly one member is
// set; marshalling produces the single-key objects elasticsearch expects.
type Query struct {
	Term          map[string]any           `json:"term,omitempty"`
	Range         map[string]*RangeOptions `json:"range,omitempty"`
	Bool          *Bool                    `json:"bool,omitempty"`
	FunctionScore *FunctionScore           `json:"function_score,omitempty"`
	MatchNone     *MatchNone               `json:"match_none,omitempty"`
}

// RangeOptions carries the comparison bounds of a range node. Format is
// never emitted by the compiler but is accepted from clients that send
// epoch_millis / epoch_second bounds.
type RangeOptions struct {
	Gt     any     `json:"gt,omitempty"`
	Gte    any     `json:"gte,omitempty"`
	Lt     any     `json:"lt,omitempty"`
	Lte    any     `json:"lte,omitempty"`
	Format *string `json:"format,omitempty"`
}

// Bool combines sub-queries. Must and Should hold lists; MustNot wraps a
// single sub-query, matching what the compiler emits for negation.
type Bool struct {
	Must    []*Query `json:"must,omitempty"`
	Should  []*Query `json:"should,omitempty"`
	MustNot *Query   `json:"must_not,omitempty"`
}

// FunctionScore scales the score of its sub-query by a constant boost.
type FunctionScore struct {
	Query *Query  `json:"query"`
	Boost float64 `json:"boost"`
}

// MatchNone is the empty-query sentinel; it marshals to {"match_none":{}}.
type MatchNone struct{}

// Request is the body of a _search call when given as a JSON document
// rather than as query-language text.
type Request struct {
	Query *Query `json:"query"`
	Size  *int   `json:"size"`
}
