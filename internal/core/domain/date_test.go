package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate_DateKeyForm(t *testing.T) {
	date, err := ParseDate("2024-02-10")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), date.Time)
}

func TestParseDate_RFC3339CollapsesToMidnight(t *testing.T) {
	date, err := ParseDate("2024-02-10T18:45:12+02:00")
	require.NoError(t, err)
	require.Equal(t, "2024-02-10", date.Key())
	require.Equal(t, "2024-02-10T00:00:00.000Z", date.Stamp())
}

func TestParseDate_MillisecondStamp(t *testing.T) {
	date, err := ParseDate("2024-02-10T00:00:00.000Z")
	require.NoError(t, err)
	require.Equal(t, "2024-02-10", date.Key())
}

func TestParseDate_MalformedInputFails(t *testing.T) {
	for _, input := range []string{"", "tomorrow", "10/02/2024", "2024-13-40"} {
		_, err := ParseDate(input)
		require.ErrorIs(t, err, ErrInvalidDate, "input %q", input)
	}
}

func TestCanonicalize_SameDayDifferentInstants(t *testing.T) {
	morning := Canonicalize(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	evening := Canonicalize(time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC))
	require.True(t, morning.Equal(evening))
}

func TestDate_AddDaysCrossesMonthBoundary(t *testing.T) {
	date := NewDate(2024, time.March, 1)
	require.Equal(t, "2024-02-29", date.AddDays(-1).Key()) // leap year
}

func TestDate_DaysSince(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	require.Equal(t, 31, NewDate(2024, time.February, 1).DaysSince(start))
	require.Equal(t, -1, NewDate(2023, time.December, 31).DaysSince(start))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	date := NewDate(2024, time.February, 10)

	payload, err := json.Marshal(date)
	require.NoError(t, err)
	require.Equal(t, `"2024-02-10T00:00:00.000Z"`, string(payload))

	var decoded Date
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.True(t, date.Equal(decoded))
}
