package search

import (
	"fmt"
	"sort"
)

// Config declares the field schema a parser validates queries against. A
// field name may appear in at most one set; the type of the set decides
// which values and range operators are legal after the field.
//
// LiteralFields, NgramFields and CustomFields are carried for schema
// compatibility; no production consults them yet.
type Config struct {
	BoolFields    []string `json:"bool_fields"`
	DateFields    []string `json:"date_fields"`
	FloatFields   []string `json:"float_fields"`
	IntFields     []string `json:"int_fields"`
	IpFields      []string `json:"ip_fields"`
	LiteralFields []string `json:"literal_fields"`
	NgramFields   []string `json:"ngram_fields"`
	CustomFields  []string `json:"custom_fields"`

	// DefaultField receives bare terms written without a field: prefix.
	DefaultField string `json:"default_field"`
}

func (c *Config) validate() error {
	seen := map[string]string{}
	sets := []struct {
		name   string
		fields []string
	}{
		{"bool_fields", c.BoolFields},
		{"date_fields", c.DateFields},
		{"float_fields", c.FloatFields},
		{"int_fields", c.IntFields},
		{"ip_fields", c.IpFields},
		{"literal_fields", c.LiteralFields},
		{"ngram_fields", c.NgramFields},
		{"custom_fields", c.CustomFields},
	}
	for _, set := range sets {
		for _, f := range set.fields {
			if f == "" {
				return fmt.Errorf("%s contains an empty field name", set.name)
			}
			if prev, dup := seen[f]; dup {
				return fmt.Errorf("field %q is in both %s and %s", f, prev, set.name)
			}
			seen[f] = set.name
		}
	}
	return nil
}

// fieldExpects builds the lexer expectations for a field set, longest name
// first so that the longest literal match wins.
func fieldExpects(names []string) []Expect {
	es := make([]Expect, len(names))
	for i, n := range names {
		es[i] = Field(n)
	}
	sort.SliceStable(es, func(i, j int) bool {
		return len(es[i].Name) > len(es[j].Name)
	})
	return es
}
