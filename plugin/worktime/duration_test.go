package worktime

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected float64
	}{
		{"regular day", "07:00", "15:30", 8.5},
		{"short block", "09:15", "10:00", 0.75},
		{"third of an hour", "08:00", "08:20", 0.33},
		{"overnight shift", "22:00", "06:00", 8.0},
		{"just past midnight", "23:30", "00:15", 0.75},
		{"same start and end is a full day", "07:00", "07:00", 24.0},
		{"malformed start", "7am", "15:00", 0},
		{"malformed end", "07:00", "25:00", 0},
		{"empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeDuration(tt.start, tt.end))
		})
	}
}

// Every forward pair must equal the plain difference; every backward pair wraps to the next day.
func TestComputeDuration_AllQuarterHourPairs(t *testing.T) {
	for s := 0; s < MinutesPerDay; s += 15 {
		for e := 0; e < MinutesPerDay; e += 15 {
			start := fmt.Sprintf("%02d:%02d", s/60, s%60)
			end := fmt.Sprintf("%02d:%02d", e/60, e%60)

			got := ComputeDuration(start, end)
			if e > s {
				require.Equal(t, RoundHours(float64(e-s)/60), got, "%s-%s", start, end)
			} else {
				require.Equal(t, RoundHours(float64(e-s+MinutesPerDay)/60), got, "%s-%s", start, end)
				require.Greater(t, got, 0.0)
			}
		}
	}
}

func TestHours_SurfacesErrors(t *testing.T) {
	_, err := Hours("07:00", "late")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparseable))

	hours, err := Hours("06:30", "14:45")
	require.NoError(t, err)
	assert.Equal(t, 8.25, hours)
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("13:05")
	require.NoError(t, err)
	assert.Equal(t, 13*60+5, minutes)

	for _, bad := range []string{"1:05", "24:00", "12:60", "12.30", "noon", ""} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
