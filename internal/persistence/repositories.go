package persistence

import (
	"context"
	"time"
)

// EmployeeRepository exposes CRUD operations for the employee directory.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// ScheduleRepository stores weekly work schedules, one row per weekday.
type ScheduleRepository interface {
	UpsertScheduleWeek(ctx context.Context, employeeID string, days []ScheduleDay) error
	GetScheduleWeek(ctx context.Context, employeeID string) ([]ScheduleDay, error)
}

// VacationRepository stores vacation ranges per employee.
type VacationRepository interface {
	CreateVacation(ctx context.Context, vacation Vacation) error
	ListVacationsForEmployee(ctx context.Context, employeeID string) ([]Vacation, error)
	DeleteVacation(ctx context.Context, id string) error
}

// DayRange bounds calendar-day queries at day granularity. Nil bounds are
// open.
type DayRange struct {
	From *time.Time
	To   *time.Time
}

// CalendarDayRepository stores the denormalized per-day calendar records.
type CalendarDayRepository interface {
	UpsertCalendarDay(ctx context.Context, day CalendarDay) error
	ListCalendarDays(ctx context.Context, employeeID string, rng DayRange) ([]CalendarDay, error)
}

// MeetingFilter narrows meeting queries.
type MeetingFilter struct {
	ParticipantID string
	StartsAfter   *time.Time
	EndsBefore    *time.Time
}

// MeetingRepository stores meetings and their participant associations.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) error
	UpdateMeeting(ctx context.Context, meeting Meeting) error
	GetMeeting(ctx context.Context, id string) (Meeting, error)
	ListMeetings(ctx context.Context, filter MeetingFilter) ([]Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
}
