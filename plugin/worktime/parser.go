// Package worktime parses spoken clock times into canonical HH:MM values and
// computes elapsed working hours between them.
package worktime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparseable is returned when a spoken time cannot be resolved to a single clock time.
var ErrUnparseable = errors.New("unparseable time")

// ParseError carries the offending input so the caller can re-prompt with it.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %q", ErrUnparseable, e.Input)
	}
	return fmt.Sprintf("%v: %q (%s)", ErrUnparseable, e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseable
}

// Patterns for time parsing
var (
	// "7", "7:30", "7.30", "07:30", "17:45" (meridiem already split off)
	clockPattern = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{2}))?$`)

	// "quarter to 9", "half past 2", "20 past 7", "ten to 4"
	relativePattern = regexp.MustCompile(`^(quarter|half|[a-z0-9-]+(?:\s[a-z]+)?)\s+(past|after|to|til|till|before)\s+(\d{1,2}|[a-z]+)$`)

	// "seven", "seven thirty", "five fifteen"
	wordClockPattern = regexp.MustCompile(`^([a-z]+)(?:\s+([a-z]+(?:[\s-][a-z]+)?))?$`)

	minuteWordPattern = regexp.MustCompile(`\bminutes?\b`)

	meridiemReplacer = strings.NewReplacer(
		"a.m.", "am",
		"p.m.", "pm",
		"a.m", "am",
		"p.m", "pm",
		"o'clock", "",
		"oclock", "",
		"o clock", "",
	)
)

// wordNumbers maps spoken numbers to integers.
var wordNumbers = map[string]int{
	"zero": 0, "oh": 0,
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"thirteen": 13, "fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
}

// fixedTimes are phrases that name a single clock time.
var fixedTimes = map[string]string{
	"noon":     "12:00",
	"midday":   "12:00",
	"midnight": "00:00",
}

// ParseColloquialTime converts a spoken time into canonical 24-hour "HH:MM".
//
// Hours 1-5 without a meridiem are read as afternoon and hours 6-12 as spoken,
// matching how a working day is usually described ("half past 2" is 14:30,
// "7" is 07:00). A leading zero ("05:00") or an hour above 12 is taken as a
// 24-hour clock. Anything that does not resolve to exactly one time is a *ParseError.
func ParseColloquialTime(text string) (string, error) {
	input := normalize(text)
	if input == "" {
		return "", &ParseError{Input: text, Reason: "empty"}
	}

	if v, ok := fixedTimes[input]; ok {
		return v, nil
	}

	input, meridiem := splitMeridiem(input)
	if input == "" {
		return "", &ParseError{Input: text, Reason: "missing hour"}
	}

	if m := clockPattern.FindStringSubmatch(input); m != nil {
		return parseClock(text, m[1], m[2], meridiem)
	}

	if m := relativePattern.FindStringSubmatch(input); m != nil {
		return parseRelative(text, m[1], m[2], m[3], meridiem)
	}

	if m := wordClockPattern.FindStringSubmatch(input); m != nil {
		return parseWordClock(text, m[1], m[2], meridiem)
	}

	return "", &ParseError{Input: text}
}

func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = meridiemReplacer.Replace(s)
	s = minuteWordPattern.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}

// splitMeridiem removes a trailing "am"/"pm" so the clock patterns stay meridiem-free.
func splitMeridiem(s string) (string, string) {
	for _, suffix := range []string{"am", "pm"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(s, suffix)), suffix
		}
	}
	return s, ""
}

func parseClock(raw, hourText, minuteText, meridiem string) (string, error) {
	hour, _ := strconv.Atoi(hourText)
	minute := 0
	if minuteText != "" {
		minute, _ = strconv.Atoi(minuteText)
		if minute > 59 {
			return "", &ParseError{Input: raw, Reason: "minute out of range"}
		}
	}

	// A zero-padded hour is an explicit 24-hour clock reading.
	if meridiem == "" && len(hourText) == 2 && hourText[0] == '0' {
		return format(hour, minute), nil
	}

	hour, err := resolveHour(hour, meridiem)
	if err != nil {
		return "", &ParseError{Input: raw, Reason: err.Error()}
	}
	return format(hour, minute), nil
}

func parseRelative(raw, minuteText, direction, hourText, meridiem string) (string, error) {
	var offset int
	switch minuteText {
	case "quarter":
		offset = 15
	case "half":
		if direction != "past" && direction != "after" {
			return "", &ParseError{Input: raw, Reason: "half can only be past the hour"}
		}
		offset = 30
	default:
		n, ok := numberValue(minuteText)
		if !ok || n < 1 || n > 59 {
			return "", &ParseError{Input: raw, Reason: "minutes out of range"}
		}
		offset = n
	}

	hour, ok := numberValue(hourText)
	fixed := false
	if !ok {
		v, isFixed := fixedTimes[hourText]
		if !isFixed || meridiem != "" {
			return "", &ParseError{Input: raw, Reason: "unknown hour"}
		}
		hour, _ = strconv.Atoi(v[:2])
		fixed = true
	}
	if !fixed {
		if hour < 1 || hour > 12 {
			return "", &ParseError{Input: raw, Reason: "relative phrasing needs a 1-12 hour"}
		}
		var err error
		hour, err = resolveHour(hour, meridiem)
		if err != nil {
			return "", &ParseError{Input: raw, Reason: err.Error()}
		}
	}

	total := hour * 60
	switch direction {
	case "past", "after":
		total += offset
	default:
		total -= offset
	}
	total = (total%MinutesPerDay + MinutesPerDay) % MinutesPerDay
	return format(total/60, total%60), nil
}

func parseWordClock(raw, hourWord, minuteWords, meridiem string) (string, error) {
	hour, ok := wordNumbers[hourWord]
	if !ok || hour < 1 || hour > 12 {
		return "", &ParseError{Input: raw}
	}

	minute := 0
	if minuteWords != "" {
		n, ok := numberValue(minuteWords)
		if !ok || n > 59 {
			return "", &ParseError{Input: raw, Reason: "minutes out of range"}
		}
		minute = n
	}

	hour, err := resolveHour(hour, meridiem)
	if err != nil {
		return "", &ParseError{Input: raw, Reason: err.Error()}
	}
	return format(hour, minute), nil
}

// numberValue reads "20", "twenty", "twenty five", "twenty-five" or "oh five".
func numberValue(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '-' })
	switch len(parts) {
	case 1:
		n, ok := wordNumbers[parts[0]]
		return n, ok
	case 2:
		tens, ok := wordNumbers[parts[0]]
		if !ok || (tens != 0 && (tens < 20 || tens%10 != 0)) {
			return 0, false
		}
		units, ok := wordNumbers[parts[1]]
		if !ok || units < 1 || units > 9 {
			return 0, false
		}
		return tens + units, true
	default:
		return 0, false
	}
}

// resolveHour maps a spoken hour and optional meridiem onto 0-23.
func resolveHour(hour int, meridiem string) (int, error) {
	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour %d is not a 12-hour clock value", hour)
		}
		return hour % 12, nil
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("hour %d is not a 12-hour clock value", hour)
		}
		return hour%12 + 12, nil
	}

	switch {
	case hour == 0:
		return 0, nil
	case hour >= 1 && hour <= 5:
		return hour + 12, nil
	case hour >= 6 && hour <= 23:
		return hour, nil
	default:
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
}

func format(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
