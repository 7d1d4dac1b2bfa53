package worktime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColloquialTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// bare hours
		{"7", "07:00"},
		{"12", "12:00"},
		{"2", "14:00"},
		{"17", "17:00"},
		{"0", "00:00"},

		// meridiem
		{"7am", "07:00"},
		{"7pm", "19:00"},
		{"7 PM", "19:00"},
		{"7 p.m.", "19:00"},
		{"12am", "00:00"},
		{"12pm", "12:00"},
		{"2 o'clock", "14:00"},
		{"noon", "12:00"},
		{"midnight", "00:00"},

		// minute forms
		{"7:30", "07:30"},
		{"7.30", "07:30"},
		{"7.30am", "07:30"},
		{"5.15", "17:15"},
		{"5:15pm", "17:15"},
		{"07:30", "07:30"},
		{"05:00", "05:00"},
		{"17:45", "17:45"},

		// relative phrasing
		{"quarter to 9", "08:45"},
		{"half past 2", "14:30"},
		{"half past 7", "07:30"},
		{"quarter past 5", "17:15"},
		{"quarter to 4", "15:45"},
		{"quarter to 1", "12:45"},
		{"Quarter to 9 PM", "20:45"},
		{"twenty past 7", "07:20"},
		{"twenty five past 7", "07:25"},
		{"twenty-five to 8", "07:35"},
		{"10 to 4", "15:50"},
		{"ten minutes past 6", "06:10"},
		{"quarter to midnight", "23:45"},
		{"quarter past noon", "12:15"},

		// word clocks
		{"seven", "07:00"},
		{"seven o'clock", "07:00"},
		{"seven thirty", "07:30"},
		{"five fifteen pm", "17:15"},
		{"six oh five", "06:05"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColloquialTime(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseColloquialTime_Unparseable(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"sometime",
		"half past",
		"half to 3",
		"13pm",
		"0am",
		"24",
		"7:75",
		"quarter to 14",
		"pm",
		"after lunch",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseColloquialTime(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnparseable))

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, input, parseErr.Input)
		})
	}
}
