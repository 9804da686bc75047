package date

import (
	"testing"
	"time"

	require "github.com/alecthomas/assert/v2"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestRelativeIntervalAgo(t *testing.T) {
	lower, upper, err := RelativeInterval(now, 1, "day", -1)
	require.NoError(t, err)
	require.Equal(t, now.Add(-2*24*time.Hour), lower)
	require.Equal(t, now.Add(-1*24*time.Hour), upper)
}

func TestRelativeIntervalFromNow(t *testing.T) {
	lower, upper, err := RelativeInterval(now, 3, "weeks", 1)
	require.NoError(t, err)
	require.Equal(t, now.Add(3*7*24*time.Hour), lower)
	require.Equal(t, now.Add(4*7*24*time.Hour), upper)
}

func TestRelativeIntervalMonthWidth(t *testing.T) {
	// The month unit spans 210 days, not 30.
	lower, upper, err := RelativeInterval(now, 1, "month", -1)
	require.NoError(t, err)
	require.Equal(t, 210*24*time.Hour, upper.Sub(lower))
	require.Equal(t, now.Add(-210*24*time.Hour), upper)
}

func TestRelativeIntervalUnits(t *testing.T) {
	tests := []struct {
		unit  string
		width time.Duration
	}{
		{"second", time.Second},
		{"minutes", time.Minute},
		{"hour", time.Hour},
		{"days", 24 * time.Hour},
		{"week", 7 * 24 * time.Hour},
		{"years", 365 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			lower, upper, err := RelativeInterval(now, 5, tt.unit, -1)
			require.NoError(t, err)
			require.Equal(t, tt.width, upper.Sub(lower))
		})
	}
}

func TestRelativeIntervalUnknownUnit(t *testing.T) {
	_, _, err := RelativeInterval(now, 1, "fortnight", -1)
	require.Error(t, err)
}

func TestAbsoluteIntervalWidths(t *testing.T) {
	tests := []struct {
		name   string
		fields []int64
		lower  time.Time
		width  time.Duration
	}{
		{"year", []int64{2024}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 365 * 24 * time.Hour},
		{"month", []int64{2024, 3}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 30 * 24 * time.Hour},
		{"day", []int64{2024, 3, 5}, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 7 * 24 * time.Hour},
		{"hour", []int64{2024, 3, 5, 13}, time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC), 24 * time.Hour},
		{"minute", []int64{2024, 3, 5, 13, 30}, time.Date(2024, 3, 5, 13, 30, 0, 0, time.UTC), 60 * time.Minute},
		{"second", []int64{2024, 3, 5, 13, 30, 59}, time.Date(2024, 3, 5, 13, 30, 59, 0, time.UTC), time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper, err := AbsoluteInterval(tt.fields, time.UTC)
			require.NoError(t, err)
			require.Equal(t, tt.lower, lower)
			require.Equal(t, tt.width, upper.Sub(lower))
		})
	}
}

func TestAbsoluteIntervalOffset(t *testing.T) {
	loc := time.FixedZone("", 2*3600)
	lower, _, err := AbsoluteInterval([]int64{2024, 1, 15}, loc)
	require.NoError(t, err)
	require.Equal(t, "2024-01-15T00:00:00+02:00", lower.Format(NumericOffsetFormat))
	require.Equal(t, time.Date(2024, 1, 14, 22, 0, 0, 0, time.UTC), lower.UTC())
}

func TestAbsoluteIntervalInvalid(t *testing.T) {
	bad := [][]int64{
		{2024, 13},          // month out of range
		{2024, 2, 30},       // no such day
		{2024, 1, 1, 24},    // hour out of range
		{2024, 1, 1, 0, 60}, // minute out of range
		{},                  // nothing at all
	}
	for _, fields := range bad {
		_, _, err := AbsoluteInterval(fields, time.UTC)
		require.Error(t, err)
	}
}

func TestNumericOffsetFormatUTC(t *testing.T) {
	require.Equal(t, "2024-01-14T12:00:00+00:00",
		time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC).Format(NumericOffsetFormat))
}
