package agenda

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TaskRef points at a tracked task. ID is the stable identifier when the
// source carries one; Name is the display label used as the compatibility
// dedup fallback.
type TaskRef struct {
	ID   string
	Name string
	Link string
}

// TimesheetEntry is one timed note from a day's timesheet. Time is wall-clock
// "HH:MM:SS" (seconds optional); the label may itself describe a deadline.
type TimesheetEntry struct {
	Time  string
	Label string
	Link  string
}

// DayRecord is the denormalized per-day calendar record supplied by the
// attendance service. The aggregator consumes the three task lists; the
// weekend and vacation flags belong to the month-grid path.
type DayRecord struct {
	Day           time.Time
	IsVacation    bool
	IsWeekend     bool
	TaskDeadlines []TaskRef
	Timesheet     []TimesheetEntry
	ActiveTasks   []TaskRef
}

// Meeting is one meeting record from the meeting service. StartsAt is kept as
// the raw transport string so that an unparsable date can be skipped with a
// warning instead of failing the whole aggregation.
type Meeting struct {
	ID             string
	Name           string
	Description    string
	StartsAt       string
	CreatorID      string
	Link           string
	ParticipantIDs []string
}

// Kind distinguishes deadline-style events from meetings.
type Kind string

const (
	// KindDeadline covers task deadlines, timesheet mentions and active-task markers.
	KindDeadline Kind = "deadline"
	// KindMeeting covers meeting occurrences.
	KindMeeting Kind = "meeting"
)

// Event is a single deduplicated item of the upcoming-events panel. Time is
// "HH:MM" for timed events and empty for day-only entries, which therefore
// sort ahead of every timed event of the same day.
type Event struct {
	Time        string
	Label       string
	Link        string
	Kind        Kind
	Day         time.Time
	MeetingID   string
	Highlighted bool
}

// DayGroup holds one day's events in ascending time order.
type DayGroup struct {
	Day    time.Time
	Events []Event
}

// Timeline is the aggregation result. Empty is the explicit "no events in
// window" signal, distinct from a timeline that was never computed.
type Timeline struct {
	Days     []DayGroup
	Empty    bool
	Warnings []string
}

// Options tunes a single aggregation pass.
type Options struct {
	// WindowDays bounds the look-ahead horizon from now. Zero means the
	// default two-week window.
	WindowDays int
	// HighlightedMeetingID marks the matching meeting event for emphasis.
	HighlightedMeetingID string
}

// DefaultWindowDays is the rolling look-ahead horizon of the upcoming-events
// panel.
const DefaultWindowDays = 14

// deadlineLabelPrefix decorates task-deadline labels. The dedup key strips it
// again so the same task mentioned in a timesheet entry does not double-count.
const deadlineLabelPrefix = "Дедлайн задачи"

// Aggregate merges day records and meetings into one deduplicated,
// chronologically ordered timeline restricted to the rolling window from now.
// It is pure and stateless: callers re-invoke it whenever now, the records,
// or the meetings change.
func Aggregate(currentUserID string, records []DayRecord, meetings []Meeting, now time.Time, opts Options) Timeline {
	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	windowEnd := now.AddDate(0, 0, windowDays)

	groups := make(map[string]*DayGroup)
	seen := make(map[string]map[string]struct{})
	var warnings []string

	// appendEvent drops duplicates by key within a day. Aliases are recorded
	// alongside the key so later name-only mentions collapse onto an id-keyed
	// event, but they never suppress the event themselves: two distinct ids
	// sharing a display name both survive.
	appendEvent := func(day time.Time, key string, event Event, aliases ...string) {
		dk := day.Format(dayLayout)
		keys, ok := seen[dk]
		if !ok {
			keys = make(map[string]struct{})
			seen[dk] = keys
		}
		if _, dup := keys[key]; dup {
			return
		}
		keys[key] = struct{}{}
		for _, alias := range aliases {
			keys[alias] = struct{}{}
		}

		group, ok := groups[dk]
		if !ok {
			group = &DayGroup{Day: startOfDay(day)}
			groups[dk] = group
		}
		group.Events = append(group.Events, event)
	}

	for _, record := range records {
		if !inDayWindow(record.Day, now, windowEnd) {
			continue
		}

		for _, task := range record.TaskDeadlines {
			appendEvent(record.Day, taskKey(task), Event{
				Label: fmt.Sprintf("%s \"%s\"", deadlineLabelPrefix, task.Name),
				Link:  task.Link,
				Kind:  KindDeadline,
				Day:   startOfDay(record.Day),
			}, taskAliases(task)...)
		}

		for _, entry := range record.Timesheet {
			appendEvent(record.Day, nameKey(entry.Label), Event{
				Time:  clockMinutes(entry.Time),
				Label: entry.Label,
				Link:  entry.Link,
				Kind:  KindDeadline,
				Day:   startOfDay(record.Day),
			})
		}

		for _, task := range record.ActiveTasks {
			appendEvent(record.Day, taskKey(task), Event{
				Label: task.Name,
				Link:  task.Link,
				Kind:  KindDeadline,
				Day:   startOfDay(record.Day),
			}, taskAliases(task)...)
		}
	}

	for _, meeting := range meetings {
		if !participates(meeting, currentUserID) {
			continue
		}

		startsAt, err := parseMeetingTime(meeting.StartsAt, now.Location())
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("meeting %s (%s) skipped: %v", meeting.ID, meeting.Name, err))
			continue
		}
		if startsAt.Before(now) || startsAt.After(windowEnd) {
			continue
		}

		appendEvent(startsAt, meetingKey(meeting), Event{
			Time:        startsAt.Format("15:04"),
			Label:       meeting.Name,
			Link:        meeting.Link,
			Kind:        KindMeeting,
			Day:         startOfDay(startsAt),
			MeetingID:   meeting.ID,
			Highlighted: opts.HighlightedMeetingID != "" && meeting.ID == opts.HighlightedMeetingID,
		})
	}

	days := make([]DayGroup, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group.Events, func(i, j int) bool {
			return group.Events[i].Time < group.Events[j].Time
		})
		days = append(days, *group)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day.Before(days[j].Day)
	})

	return Timeline{
		Days:     days,
		Empty:    len(days) == 0,
		Warnings: warnings,
	}
}

const dayLayout = "2006-01-02"

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// inDayWindow compares at day granularity so that a record for today survives
// even when now is already past midnight-adjacent times.
func inDayWindow(day, now, windowEnd time.Time) bool {
	d := startOfDay(day)
	return !d.Before(startOfDay(now)) && !d.After(startOfDay(windowEnd))
}

func participates(meeting Meeting, userID string) bool {
	for _, id := range meeting.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

var meetingTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseMeetingTime(raw string, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range meetingTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", raw)
}

// clockMinutes reduces "HH:MM:SS" to the "HH:MM" display form.
func clockMinutes(value string) string {
	if len(value) > 5 {
		return value[:5]
	}
	return value
}

func taskKey(task TaskRef) string {
	if task.ID != "" {
		return "task:" + task.ID
	}
	return nameKey(task.Name)
}

// taskAliases yields the name key of an id-bearing task so that name-only
// mentions of the same task in other source lists dedup against it.
func taskAliases(task TaskRef) []string {
	if task.ID == "" {
		return nil
	}
	return []string{nameKey(task.Name)}
}

func meetingKey(meeting Meeting) string {
	if meeting.ID != "" {
		return "meeting:" + meeting.ID
	}
	return nameKey(meeting.Name)
}

// nameKey is the compatibility dedup key derived from display text: the
// deadline prefix and any surrounding quote decoration are stripped so the
// same task named across the three source lists collapses to one event.
func nameKey(label string) string {
	s := strings.TrimSpace(label)
	s = strings.TrimPrefix(s, deadlineLabelPrefix)
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'«»„“”")
	return "name:" + strings.TrimSpace(s)
}
