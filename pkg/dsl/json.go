package dsl

// Custom json handling to deal with the wacky ways ES allows clients
// to submit bool queries

import "encoding/json"

func (bl *Bool) UnmarshalJSON(b []byte) error {
	var base struct {
		RawMust   json.RawMessage `json:"must"`
		RawShould json.RawMessage `json:"should"`
		MustNot   *Query          `json:"must_not"`
	}

	if err := json.Unmarshal(b, &base); err != nil {
		return err
	}
	bl.MustNot = base.MustNot

	var err error
	if bl.Must, err = queryList(base.RawMust); err != nil {
		return err
	}
	bl.Should, err = queryList(base.RawShould)
	return err
}

// must and should can be provided with a single object or an array
func queryList(raw json.RawMessage) ([]*Query, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []*Query
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	single := &Query{}
	if err := json.Unmarshal(raw, single); err != nil {
		return nil, err
	}
	return []*Query{single}, nil
}
