package search

import (
	"time"

	"github.com/cultpony/search-parser/pkg/date"
	"github.com/cultpony/search-parser/pkg/dsl"
)

// Assembly of the output document leaves.

type rangeOp int

const (
	opEq rangeOp = iota
	opLt
	opLte
	opGt
	opGte
)

func rangeOpFor(lexeme string) rangeOp {
	switch lexeme {
	case ".lt:":
		return opLt
	case ".lte:":
		return opLte
	case ".gt:":
		return opGt
	case ".gte:":
		return opGte
	}
	return opEq
}

// termRange builds the node for a single-valued comparison: a term document
// for equality, a one-sided range otherwise.
func termRange(field string, op rangeOp, v any) *dsl.Query {
	switch op {
	case opLt:
		return rangeQuery(field, &dsl.RangeOptions{Lt: v})
	case opLte:
		return rangeQuery(field, &dsl.RangeOptions{Lte: v})
	case opGt:
		return rangeQuery(field, &dsl.RangeOptions{Gt: v})
	case opGte:
		return rangeQuery(field, &dsl.RangeOptions{Gte: v})
	}
	return termQuery(field, v)
}

// dateRange builds the node for a folded date interval. Equality matches
// the whole interval. The one-sided operators pick their bound so that
// "less than" means before the period starts and "greater than" means
// after it ends, while the inclusive forms cover the period itself.
func dateRange(field string, op rangeOp, lower, upper time.Time) *dsl.Query {
	l := lower.Format(date.NumericOffsetFormat)
	u := upper.Format(date.NumericOffsetFormat)
	switch op {
	case opLt:
		return rangeQuery(field, &dsl.RangeOptions{Lt: l})
	case opLte:
		return rangeQuery(field, &dsl.RangeOptions{Lte: u})
	case opGt:
		return rangeQuery(field, &dsl.RangeOptions{Gt: u})
	case opGte:
		return rangeQuery(field, &dsl.RangeOptions{Gte: l})
	}
	return rangeQuery(field, &dsl.RangeOptions{Gte: l, Lt: u})
}

func termQuery(field string, v any) *dsl.Query {
	return &dsl.Query{Term: map[string]any{field: v}}
}

func rangeQuery(field string, opts *dsl.RangeOptions) *dsl.Query {
	return &dsl.Query{Range: map[string]*dsl.RangeOptions{field: opts}}
}
