package server

import (
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/cultpony/search-parser/pkg/date"
	"github.com/cultpony/search-parser/pkg/dsl"
)

// Translation of compiled query documents into sqlite SQL over the FTS5
// index tables. Values travel as bind parameters; only field names and the
// index name are interpolated, after cleansing.

func GenSql(index string, q *dsl.Query, size int) (string, []any, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "JSON(content)")
	sb.From(quoteIndex(index))

	pred, err := wherePredicate(sb, q)
	if err != nil {
		return "", nil, err
	}
	sb.Where(pred)
	if size > 0 {
		sb.Limit(size)
	}
	sql, args := sb.Build()
	return sql, args, nil
}

func wherePredicate(sb *sqlbuilder.SelectBuilder, q *dsl.Query) (string, error) {
	switch {
	case q == nil:
		return "1 = 1", nil
	case q.MatchNone != nil:
		return "1 = 0", nil
	case q.Term != nil:
		for field, v := range q.Term {
			return sb.Equal(jsonExtract(field), v), nil
		}
		return "", fmt.Errorf("term with no field")
	case q.Range != nil:
		for field, opts := range q.Range {
			return rangePredicate(sb, field, opts)
		}
		return "", fmt.Errorf("range with no field")
	case q.Bool != nil:
		return boolPredicate(sb, q.Bool)
	case q.FunctionScore != nil:
		// Boost has no effect on which rows match.
		return wherePredicate(sb, q.FunctionScore.Query)
	}
	return "", fmt.Errorf("empty query document")
}

func boolPredicate(sb *sqlbuilder.SelectBuilder, b *dsl.Bool) (string, error) {
	var parts []string
	for _, m := range b.Must {
		p, err := wherePredicate(sb, m)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	if len(b.Should) > 0 {
		var ors []string
		for _, m := range b.Should {
			p, err := wherePredicate(sb, m)
			if err != nil {
				return "", err
			}
			ors = append(ors, p)
		}
		parts = append(parts, sb.Or(ors...))
	}
	if b.MustNot != nil {
		p, err := wherePredicate(sb, b.MustNot)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("NOT (%s)", p))
	}
	switch len(parts) {
	case 0:
		return "1 = 1", nil
	case 1:
		return parts[0], nil
	}
	return sb.And(parts...), nil
}

func rangePredicate(sb *sqlbuilder.SelectBuilder, field string, opts *dsl.RangeOptions) (string, error) {
	if opts == nil {
		return "", fmt.Errorf("range with no bounds")
	}
	var preds []string
	add := func(op string, v any) error {
		if v == nil {
			return nil
		}
		if opts.Format != nil {
			s, err := date.AsRFC3339(*opts.Format, v)
			if err != nil {
				return err
			}
			v = s
		}
		if s, ok := v.(string); ok {
			// Dates are stored as RFC3339 text; DATETIME on both sides
			// normalizes them for comparison.
			preds = append(preds, fmt.Sprintf("DATETIME(%s) %s DATETIME(%s)",
				jsonExtract(field), op, sb.Var(s)))
		} else {
			preds = append(preds, fmt.Sprintf("%s %s %s",
				jsonExtract(field), op, sb.Var(v)))
		}
		return nil
	}
	for _, bound := range []struct {
		op string
		v  any
	}{
		{">", opts.Gt}, {">=", opts.Gte}, {"<", opts.Lt}, {"<=", opts.Lte},
	} {
		if err := add(bound.op, bound.v); err != nil {
			return "", err
		}
	}
	switch len(preds) {
	case 0:
		return "", fmt.Errorf("range with no bounds")
	case 1:
		return preds[0], nil
	}
	return sb.And(preds...), nil
}

func cleanseKeyField(f string) string {
	// Strip away .keyword since we don't distinguish it
	key := strings.Split(f, ".keyword")[0]
	return strings.ReplaceAll(key, "'", "")
}

func jsonExtract(field string) string {
	return fmt.Sprintf("JSON_EXTRACT(content, '$.%s')", cleanseKeyField(field))
}

func quoteIndex(index string) string {
	return `"` + strings.ReplaceAll(index, `"`, "") + `"`
}
