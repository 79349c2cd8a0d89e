package monthgrid

import "time"

// DayFacts carries the externally supplied per-day flags for one calendar
// date. The classifier copies these flags as given; it never recomputes them.
type DayFacts struct {
	Day        time.Time
	IsWeekend  bool
	IsVacation bool
	HasEvents  bool
}

// SelectedTask is the optional task whose deadline and status drive the
// highlight facts of the grid. EndDate is compared at day granularity, so a
// timezone suffix or time-of-day in the raw value is ignored.
type SelectedTask struct {
	EndDate     string
	StatusAlias string
}

// DayCell is one classified day of a rendered month grid.
type DayCell struct {
	Date           time.Time
	InCurrentMonth bool
	IsToday        bool
	IsWeekend      bool
	IsVacation     bool
	HasEvents      bool
	IsDeadlineDay  bool
	// StatusClass is set only on the deadline cell so the style token is a
	// per-cell fact rather than a month-wide constant.
	StatusClass string
}

const dayLayout = "2006-01-02"

// BuildMonthGrid classifies every day of the given month. The result depends
// only on the arguments, so rebuilding the same month with the same facts
// yields identical cells. Dates without a matching facts record default to
// all-false flags.
func BuildMonthGrid(year int, month time.Month, facts []DayFacts, today time.Time, selected *SelectedTask) []DayCell {
	byDate := make(map[string]DayFacts, len(facts))
	for _, f := range facts {
		byDate[f.Day.Format(dayLayout)] = f
	}

	todayKey := today.Format(dayLayout)

	deadlineKey := ""
	statusClass := ""
	if selected != nil {
		deadlineKey = dayKey(selected.EndDate)
		statusClass = StatusClass(selected.StatusAlias)
	}

	total := daysIn(year, month)
	cells := make([]DayCell, 0, total)
	for day := 1; day <= total; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
		key := date.Format(dayLayout)

		cell := DayCell{
			Date:           date,
			InCurrentMonth: true,
			IsToday:        key == todayKey,
			IsDeadlineDay:  deadlineKey != "" && key == deadlineKey,
		}
		if cell.IsDeadlineDay {
			cell.StatusClass = statusClass
		}
		if f, ok := byDate[key]; ok {
			cell.IsWeekend = f.IsWeekend
			cell.IsVacation = f.IsVacation
			cell.HasEvents = f.HasEvents
		}
		cells = append(cells, cell)
	}
	return cells
}

// NextMonth advances the displayed month with year rollover.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// PrevMonth steps the displayed month back with year rollover.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// PadToWeeks surrounds a month grid with blank cells so it starts on
// weekStart and ends on a full week. Padding cells carry no facts and are
// marked as outside the current month.
func PadToWeeks(cells []DayCell, weekStart time.Weekday) []DayCell {
	if len(cells) == 0 {
		return cells
	}

	leading := (int(cells[0].Date.Weekday()) - int(weekStart) + 7) % 7
	padded := make([]DayCell, 0, leading+len(cells)+6)
	for i := 0; i < leading; i++ {
		padded = append(padded, DayCell{Date: cells[0].Date.AddDate(0, 0, i-leading)})
	}
	padded = append(padded, cells...)
	for len(padded)%7 != 0 {
		last := padded[len(padded)-1].Date
		padded = append(padded, DayCell{Date: last.AddDate(0, 0, 1)})
	}
	return padded
}

// statusClasses is the closed alias-to-style-token mapping used by the task
// highlight. Unknown aliases fail safe to the default class.
var statusClasses = map[string]string{
	"new":         "secondary",
	"in-progress": "info",
	"on-review":   "warning",
	"done":        "success",
	"closed":      "success",
	"overdue":     "danger",
	"blocked":     "danger",
}

// DefaultStatusClass is applied when a status alias is unknown.
const DefaultStatusClass = "primary"

// StatusClass maps a task status alias to its style token.
func StatusClass(alias string) string {
	if class, ok := statusClasses[alias]; ok {
		return class
	}
	return DefaultStatusClass
}

// dayKey reduces a raw date string to its day-granularity prefix.
func dayKey(raw string) string {
	if len(raw) > len(dayLayout) {
		return raw[:len(dayLayout)]
	}
	return raw
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
