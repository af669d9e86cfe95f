package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func TestStartAndEndOfDay(t *testing.T) {
	in := time.Date(2024, 6, 12, 15, 4, 5, 123, jakarta)

	start := StartOfDay(in)
	assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, jakarta), start)

	end := EndOfDay(in)
	assert.Equal(t, time.Date(2024, 6, 12, 23, 59, 59, 999000000, jakarta), end)
	assert.Equal(t, start, StartOfDay(end))
}

func TestIsWorkingDay(t *testing.T) {
	cases := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), false}, // Saturday
		{time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC), false}, // Sunday
		{time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC), true},  // Monday
		{time.Date(2024, 6, 7, 10, 0, 0, 0, time.UTC), true},  // Friday
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsWorkingDay(c.date), c.date.Weekday().String())
	}
}

func TestCountWorkingDays(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{
			name:  "june 2024 starts on saturday",
			start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC),
			want:  20,
		},
		{
			name:  "single weekday",
			start: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			want:  1,
		},
		{
			name:  "weekend only",
			start: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC),
			want:  0,
		},
		{
			name:  "end before start",
			start: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			want:  0,
		},
		{
			name:  "month to date counts today",
			start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 12, 8, 30, 0, 0, time.UTC),
			want:  8,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CountWorkingDays(c.start, c.end))
		})
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, 2, jakarta)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, jakarta), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999000000, jakarta), end)

	start, end = MonthRange(2023, 12, time.UTC)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 31, end.Day())
	assert.Equal(t, time.December, end.Month())
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2024-06-03", jakarta)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, jakarta), d)
	assert.Equal(t, "2024-06-03", FormatDate(d))

	_, err = ParseDate("2024-13-03", jakarta)
	assert.Error(t, err)
}

func TestLastNDays(t *testing.T) {
	today := time.Date(2024, 6, 12, 17, 0, 0, 0, time.UTC)
	days := LastNDays(today, 7)
	require.Len(t, days, 7)
	assert.Equal(t, time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), days[6])
}
