package application

import (
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/monthgrid"
)

// EmployeeInput captures caller provided employee attributes.
type EmployeeInput struct {
	FullName     string
	Email        string
	Position     string
	DepartmentID *string
}

// Employee represents a directory entry exposed by the application services.
type Employee struct {
	ID           string
	FullName     string
	Email        string
	Position     string
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkDayInput is one weekday row of a weekly schedule submission.
type WorkDayInput struct {
	Weekday    time.Weekday
	Start      string
	End        string
	LunchStart string
	LunchEnd   string
}

// VacationInput captures a vacation range submission.
type VacationInput struct {
	EmployeeID string
	StartDay   time.Time
	EndDay     time.Time
}

// Vacation represents a stored vacation range.
type Vacation struct {
	ID         string
	EmployeeID string
	StartDay   time.Time
	EndDay     time.Time
}

// MonthGridParams selects the month grid to build for an employee.
type MonthGridParams struct {
	EmployeeID   string
	Year         int
	Month        time.Month
	SelectedTask *monthgrid.SelectedTask
}

// UpcomingEventsParams selects the upcoming-events window for an employee.
type UpcomingEventsParams struct {
	EmployeeID           string
	WindowDays           int
	HighlightedMeetingID string
}
