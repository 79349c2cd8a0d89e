package persistence

import "time"

// Employee represents a directory entry of the organization.
type Employee struct {
	ID           string
	FullName     string
	Email        string
	Position     string
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScheduleDay is one weekday row of an employee's weekly work schedule. All
// time fields are wall-clock "HH:MM:SS" strings; equal start and end mark a
// non-working day.
type ScheduleDay struct {
	EmployeeID string
	Weekday    time.Weekday
	Start      string
	End        string
	LunchStart string
	LunchEnd   string
}

// Vacation marks an employee absent between two dates, both inclusive.
type Vacation struct {
	ID         string
	EmployeeID string
	StartDay   time.Time
	EndDay     time.Time
	CreatedAt  time.Time
}

// TaskLink is a named reference to a tracked task.
type TaskLink struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

// TimesheetItem is a timed note from a day's timesheet.
type TimesheetItem struct {
	Time  string `json:"time"`
	Label string `json:"label"`
	Link  string `json:"link,omitempty"`
}

// CalendarDay is the denormalized per-day calendar record supplied to the
// calendar views. The three task lists are stored as JSON, mirroring the
// shape the attendance service delivers them in.
type CalendarDay struct {
	ID            string
	EmployeeID    string
	Day           time.Time
	IsVacation    bool
	IsWeekend     bool
	TaskDeadlines []TaskLink
	Timesheet     []TimesheetItem
	ActiveTasks   []TaskLink
	UpdatedAt     time.Time
}

// Meeting represents a meeting with its participant associations.
type Meeting struct {
	ID             string
	Name           string
	Description    string
	StartsAt       time.Time
	CreatorID      string
	Link           string
	ParticipantIDs []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
