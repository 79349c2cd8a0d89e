package status

import (
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/vacation"
	"github.com/Gn4ik/sync-project-tracker/internal/workday"
)

// Status labels an employee's current duty state.
type Status string

const (
	// StatusOnVacation means the current date falls inside a vacation range.
	StatusOnVacation Status = "on-vacation"
	// StatusWorking means the current instant is inside the day's work window.
	StatusWorking Status = "working"
	// StatusOffDuty means neither vacation nor the work window applies.
	StatusOffDuty Status = "off-duty"
)

// Snapshot is the result of one status evaluation. Diagnostic is non-empty
// when a schedule configuration problem forced the off-duty fallback.
type Snapshot struct {
	Status      Status
	EvaluatedAt time.Time
	Diagnostic  string
}

// Resolve computes the employee status for the given instant. Vacation takes
// precedence over the work schedule; schedule configuration errors degrade to
// off-duty with the diagnostic preserved. The computation is pure and is
// expected to be re-invoked on every tick rather than maintained
// incrementally.
func Resolve(schedule workday.WeeklySchedule, ranges []vacation.Range, now time.Time) Snapshot {
	snapshot := Snapshot{EvaluatedAt: now}

	if vacation.OnVacation(ranges, now) {
		snapshot.Status = StatusOnVacation
		return snapshot
	}

	working, err := workday.IsWorkingAt(schedule, now)
	if err != nil {
		snapshot.Status = StatusOffDuty
		snapshot.Diagnostic = err.Error()
		return snapshot
	}

	if working {
		snapshot.Status = StatusWorking
	} else {
		snapshot.Status = StatusOffDuty
	}
	return snapshot
}
