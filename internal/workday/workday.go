package workday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WorkDay describes the working window for a single weekday. All fields are
// wall-clock times in "HH:MM:SS" form (seconds optional) with no date
// component, interpreted in the same timezone as the evaluation instant.
type WorkDay struct {
	Start      string
	End        string
	LunchStart string
	LunchEnd   string
}

// WeeklySchedule maps each weekday to its working window. A missing entry or
// an entry whose start equals its end denotes a non-working day.
type WeeklySchedule map[time.Weekday]WorkDay

// ErrOvernightShift indicates a work day ending before it starts. Overnight
// shifts are an unsupported configuration and must be surfaced to the caller
// rather than silently misclassified.
var ErrOvernightShift = errors.New("workday: end before start is not supported")

// ConfigError reports an invalid working-hours configuration for a weekday.
type ConfigError struct {
	Weekday time.Weekday
	Field   string
	Value   string
	Reason  string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("workday: %s %s %q: %s", e.Weekday, e.Field, e.Value, e.Reason)
}

// IsWorkingAt reports whether the schedule places the employee at work at the
// given instant. Configuration problems (unparsable times, overnight shifts)
// yield false together with a descriptive error so callers can degrade to an
// off-duty answer while surfacing the diagnostic.
func IsWorkingAt(schedule WeeklySchedule, instant time.Time) (bool, error) {
	day, ok := schedule[instant.Weekday()]
	if !ok {
		return false, nil
	}

	window, err := parseWindow(instant.Weekday(), day)
	if err != nil {
		return false, err
	}
	if !window.working {
		return false, nil
	}

	moment := secondOfDay(instant)
	if moment < window.start || moment >= window.end {
		return false, nil
	}
	if window.lunchStart != window.lunchEnd && moment >= window.lunchStart && moment < window.lunchEnd {
		return false, nil
	}
	return true, nil
}

// WorkWindowFor returns the working window applying to the given date. The
// second result is false for non-working days and for days whose
// configuration cannot be parsed.
func WorkWindowFor(schedule WeeklySchedule, date time.Time) (WorkDay, bool) {
	day, ok := schedule[date.Weekday()]
	if !ok {
		return WorkDay{}, false
	}
	window, err := parseWindow(date.Weekday(), day)
	if err != nil || !window.working {
		return WorkDay{}, false
	}
	return day, true
}

// Validate checks every configured weekday for parse errors and overnight
// windows. It reports the first problem found.
func Validate(schedule WeeklySchedule) error {
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		day, ok := schedule[weekday]
		if !ok {
			continue
		}
		if _, err := parseWindow(weekday, day); err != nil {
			return err
		}
	}
	return nil
}

type window struct {
	working    bool
	start      int
	end        int
	lunchStart int
	lunchEnd   int
}

func parseWindow(weekday time.Weekday, day WorkDay) (window, error) {
	start, err := parseClock(weekday, "start", day.Start)
	if err != nil {
		return window{}, err
	}
	end, err := parseClock(weekday, "end", day.End)
	if err != nil {
		return window{}, err
	}
	if start == end {
		return window{working: false}, nil
	}
	if end < start {
		return window{}, fmt.Errorf("%s %s-%s: %w", weekday, day.Start, day.End, ErrOvernightShift)
	}

	lunchStart, err := parseClock(weekday, "lunch_start", day.LunchStart)
	if err != nil {
		return window{}, err
	}
	lunchEnd, err := parseClock(weekday, "lunch_end", day.LunchEnd)
	if err != nil {
		return window{}, err
	}
	if lunchEnd < lunchStart {
		return window{}, fmt.Errorf("%s lunch %s-%s: %w", weekday, day.LunchStart, day.LunchEnd, ErrOvernightShift)
	}

	return window{
		working:    true,
		start:      start,
		end:        end,
		lunchStart: lunchStart,
		lunchEnd:   lunchEnd,
	}, nil
}

// parseClock converts "HH:MM:SS" (or "HH:MM") to seconds since midnight. An
// empty value is treated as "00:00:00" so schedules without lunch breaks stay
// valid.
func parseClock(weekday time.Weekday, field, value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, &ConfigError{Weekday: weekday, Field: field, Value: value, Reason: "expected HH:MM:SS"}
	}

	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, &ConfigError{Weekday: weekday, Field: field, Value: value, Reason: "expected HH:MM:SS"}
		}
		numbers[i] = n
	}

	hour, minute, second := numbers[0], numbers[1], numbers[2]
	if hour > 23 || minute > 59 || second > 59 {
		return 0, &ConfigError{Weekday: weekday, Field: field, Value: value, Reason: "component out of range"}
	}

	return hour*3600 + minute*60 + second, nil
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
