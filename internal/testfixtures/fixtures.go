package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

var (
	employeeCounter uint64
	vacationCounter uint64
	meetingCounter  uint64
	dayCounter      uint64
)

// referenceTime is a Monday so that the standard weekly schedule fixtures
// evaluate to "working" at the baseline instant.
var referenceTime = time.Date(2025, time.March, 17, 10, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Employee fixtures ---------------------------

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*persistence.Employee)

// NewEmployeeFixture returns a deterministic employee record with optional
// overrides.
func NewEmployeeFixture(opts ...EmployeeOption) persistence.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	id := fmt.Sprintf("employee-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Employee{
		ID:        id,
		FullName:  fmt.Sprintf("Employee %03d", idx),
		Email:     fmt.Sprintf("%s@example.com", id),
		Position:  "Engineer",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmployeeID overrides the generated identifier.
func WithEmployeeID(id string) EmployeeOption {
	return func(e *persistence.Employee) { e.ID = id }
}

// WithEmployeeEmail overrides the generated email.
func WithEmployeeEmail(email string) EmployeeOption {
	return func(e *persistence.Employee) { e.Email = email }
}

// WithPosition overrides the position.
func WithPosition(position string) EmployeeOption {
	return func(e *persistence.Employee) { e.Position = position }
}

// --------------------------- Schedule fixtures ---------------------------

// StandardWeek returns a Monday-to-Friday 09:00-18:00 schedule with a
// 13:00-14:00 lunch break. Weekend rows are present with equal start and
// end, marking them non-working.
func StandardWeek(employeeID string) []persistence.ScheduleDay {
	days := make([]persistence.ScheduleDay, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		day := persistence.ScheduleDay{
			EmployeeID: employeeID,
			Weekday:    wd,
			Start:      "00:00:00",
			End:        "00:00:00",
		}
		if wd >= time.Monday && wd <= time.Friday {
			day.Start = "09:00:00"
			day.End = "18:00:00"
			day.LunchStart = "13:00:00"
			day.LunchEnd = "14:00:00"
		}
		days = append(days, day)
	}
	return days
}

// --------------------------- Vacation fixtures ---------------------------

// VacationOption configures the generated vacation fixture.
type VacationOption func(*persistence.Vacation)

// NewVacationFixture returns a deterministic two-week vacation with optional
// overrides.
func NewVacationFixture(employeeID string, opts ...VacationOption) persistence.Vacation {
	idx := atomic.AddUint64(&vacationCounter, 1)
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(idx))
	fixture := persistence.Vacation{
		ID:         fmt.Sprintf("vacation-%03d", idx),
		EmployeeID: employeeID,
		StartDay:   start,
		EndDay:     start.AddDate(0, 0, 13),
		CreatedAt:  referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithVacationDays overrides the vacation range.
func WithVacationDays(start, end time.Time) VacationOption {
	return func(v *persistence.Vacation) {
		v.StartDay = start
		v.EndDay = end
	}
}

// ------------------------- Calendar day fixtures -------------------------

// CalendarDayOption configures the generated calendar-day fixture.
type CalendarDayOption func(*persistence.CalendarDay)

// NewCalendarDayFixture returns a deterministic calendar-day record one day
// after the previous fixture, carrying one task deadline.
func NewCalendarDayFixture(employeeID string, opts ...CalendarDayOption) persistence.CalendarDay {
	idx := atomic.AddUint64(&dayCounter, 1)
	day := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(idx))
	fixture := persistence.CalendarDay{
		ID:         fmt.Sprintf("calendar-day-%03d", idx),
		EmployeeID: employeeID,
		Day:        day,
		TaskDeadlines: []persistence.TaskLink{
			{ID: fmt.Sprintf("task-%03d", idx), Name: fmt.Sprintf("Task %03d", idx)},
		},
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithDay overrides the calendar date.
func WithDay(day time.Time) CalendarDayOption {
	return func(c *persistence.CalendarDay) { c.Day = day }
}

// WithVacationFlag marks the day as vacation.
func WithVacationFlag() CalendarDayOption {
	return func(c *persistence.CalendarDay) { c.IsVacation = true }
}

// WithTimesheet replaces the timesheet entries.
func WithTimesheet(items ...persistence.TimesheetItem) CalendarDayOption {
	return func(c *persistence.CalendarDay) { c.Timesheet = items }
}

// WithActiveTasks replaces the active-task markers.
func WithActiveTasks(tasks ...persistence.TaskLink) CalendarDayOption {
	return func(c *persistence.CalendarDay) { c.ActiveTasks = tasks }
}

// --------------------------- Meeting fixtures ----------------------------

// MeetingOption configures the generated meeting fixture.
type MeetingOption func(*persistence.Meeting)

// NewMeetingFixture returns a deterministic meeting one hour after the
// previous fixture, created by the given employee who also participates.
func NewMeetingFixture(creatorID string, opts ...MeetingOption) persistence.Meeting {
	idx := atomic.AddUint64(&meetingCounter, 1)
	starts := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := persistence.Meeting{
		ID:             fmt.Sprintf("meeting-%03d", idx),
		Name:           fmt.Sprintf("Meeting %03d", idx),
		StartsAt:       starts,
		CreatorID:      creatorID,
		ParticipantIDs: []string{creatorID},
		CreatedAt:      referenceTime,
		UpdatedAt:      referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithStartsAt overrides the meeting start.
func WithStartsAt(at time.Time) MeetingOption {
	return func(m *persistence.Meeting) { m.StartsAt = at }
}

// WithParticipants replaces the participant list.
func WithParticipants(ids ...string) MeetingOption {
	return func(m *persistence.Meeting) { m.ParticipantIDs = ids }
}
