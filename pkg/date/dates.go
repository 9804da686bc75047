package date

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Conversions for the date formats elasticsearch clients put on range
// bounds. Dates are held internally as RFC3339 strings.
// https://www.elastic.co/guide/en/elasticsearch/reference/7.17/mapping-date-format.html

// AsRFC3339 converts a client-provided date value in the named format to
// its RFC3339 representation. Strings that are not epoch numbers are
// assumed to be date strings already and pass through untouched.
func AsRFC3339(format string, v any) (string, error) {
	switch d := v.(type) {
	case int64:
		return fromEpoch(format, d)
	case float64:
		return fromEpoch(format, int64(d))
	case json.Number:
		i, err := d.Int64()
		if err != nil {
			return "", err
		}
		return fromEpoch(format, i)
	case string:
		m, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return d, nil
		}
		return fromEpoch(format, m)
	}
	return "", fmt.Errorf("cannot interpret %T as a date", v)
}

func fromEpoch(format string, v int64) (string, error) {
	switch format {
	case "epoch_millis":
		return time.UnixMilli(v).UTC().Format(time.RFC3339), nil
	case "epoch_second":
		return time.Unix(v, 0).UTC().Format(time.RFC3339), nil
	}
	return "", fmt.Errorf("unsupported date format %q", format)
}

// AsEpochMillis is the inverse of AsRFC3339 for the epoch_millis format.
func AsEpochMillis(s string) (int64, error) {
	tm, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return -1, err
	}
	return tm.UnixMilli(), nil
}
