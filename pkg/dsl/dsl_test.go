package dsl

import (
	"encoding/json"
	"testing"

	require "github.com/alecthomas/assert/v2"
	"github.com/alecthomas/repr"
)

func TestBasicTerm(t *testing.T) {
	d := &Dsl{}
	err := DslParser.ParseString("", `
	{
	  "query": {
		"term": {"foo": "bar"}
	  },
	  "size": 1
    }`, d)
	require.NoError(t, err)
	repr.Println(d)

	q := d.ToRequest().Query
	require.Equal(t, "bar", q.Term["foo"].(string))
}

func TestTermNumberValue(t *testing.T) {
	d := &Dsl{}
	err := DslParser.ParseString("", `{ "query": { "term": {"age": 30} } }`, d)
	require.NoError(t, err)
	require.Equal(t, int64(30), d.ToRequest().Query.Term["age"].(int64))
}

func TestNestedBool(t *testing.T) {
	d := &Dsl{}
	err := DslParser.ParseString("", `
	{
	  "query":{"bool":{"must":[{"term":{"foo":"bar"}},{"term":{"oof":"rab"}}]}},
	  "size":1
    }`, d)
	require.NoError(t, err)
	q := d.ToRequest().Query
	require.Equal(t, 2, len(q.Bool.Must))
	require.Equal(t, "rab", q.Bool.Must[1].Term["oof"].(string))
}

func TestMustNot(t *testing.T) {
	d := &Dsl{}
	err := DslParser.ParseString("", `
	{ "query":{"bool":{"must_not":{"term":{"active":true}}}} }`, d)
	require.NoError(t, err)
	q := d.ToRequest().Query
	require.Equal(t, true, q.Bool.MustNot.Term["active"].(bool))
}

func TestRangeWithFormat(t *testing.T) {
	d := &Dsl{}
	err := DslParser.ParseString("", `
	{
	  "query": {
		"range":{
			"fooTime": {
				"gte": 1654718054570,
				"lte": 1655322854570,
				"format": "epoch_millis"
			}
		}
	  }
    }`, d)
	require.NoError(t, err)
	q := d.ToRequest().Query
	opts := q.Range["fooTime"]
	require.Equal(t, int64(1654718054570), opts.Gte.(int64))
	require.Equal(t, "epoch_millis", *opts.Format)
}

func TestFunctionScore(t *testing.T) {
	d := &Dsl{}
	err := DslParser.ParseString("", `
	{ "query": { "function_score": { "query": {"term":{"foo":"bar"}}, "boost": 2.5 } } }`, d)
	require.NoError(t, err)
	q := d.ToRequest().Query
	require.Equal(t, 2.5, q.FunctionScore.Boost)
	require.Equal(t, "bar", q.FunctionScore.Query.Term["foo"].(string))
}

func TestMatchNone(t *testing.T) {
	d := &Dsl{}
	err := DslParser.ParseString("", `{ "query": { "match_none": {} } }`, d)
	require.NoError(t, err)
	q := d.ToRequest().Query
	require.NotZero(t, q.MatchNone)
}

func TestMarshalShape(t *testing.T) {
	q := &Query{Bool: &Bool{
		Must: []*Query{
			{Range: map[string]*RangeOptions{"age": {Gte: int64(25), Lte: int64(35)}}},
			{Term: map[string]any{"foo": "bar"}},
		},
	}}
	j, err := json.Marshal(q)
	require.NoError(t, err)
	require.Equal(t,
		`{"bool":{"must":[{"range":{"age":{"gte":25,"lte":35}}},{"term":{"foo":"bar"}}]}}`,
		string(j))
}

func TestMatchNoneMarshal(t *testing.T) {
	j, err := json.Marshal(&Query{MatchNone: &MatchNone{}})
	require.NoError(t, err)
	require.Equal(t, `{"match_none":{}}`, string(j))
}

func TestBoolUnmarshalSingleOrArray(t *testing.T) {
	// must can be provided with a single object or an array
	var single Query
	err := json.Unmarshal([]byte(`{"bool":{"must":{"term":{"foo":"bar"}}}}`), &single)
	require.NoError(t, err)
	require.Equal(t, 1, len(single.Bool.Must))

	var arr Query
	err = json.Unmarshal([]byte(`{"bool":{"should":[{"term":{"a":"1"}},{"term":{"b":"2"}}]}}`), &arr)
	require.NoError(t, err)
	require.Equal(t, 2, len(arr.Bool.Should))
}
