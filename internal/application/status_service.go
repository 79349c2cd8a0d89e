package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
	"github.com/Gn4ik/sync-project-tracker/internal/status"
	"github.com/Gn4ik/sync-project-tracker/internal/vacation"
	"github.com/Gn4ik/sync-project-tracker/internal/workday"
)

// StatusService resolves the current duty status of an employee from the
// stored schedule and vacation data. Resolution itself is pure; the service
// only loads the inputs and delegates.
type StatusService struct {
	schedules persistence.ScheduleRepository
	vacations persistence.VacationRepository
	now       func() time.Time
	logger    *slog.Logger
}

// NewStatusService wires dependencies for status resolution.
func NewStatusService(schedules persistence.ScheduleRepository, vacations persistence.VacationRepository, now func() time.Time, logger *slog.Logger) *StatusService {
	if now == nil {
		now = time.Now
	}
	return &StatusService{
		schedules: schedules,
		vacations: vacations,
		now:       now,
		logger:    logger,
	}
}

// CurrentStatus evaluates the employee's status at the injected current time.
func (s *StatusService) CurrentStatus(ctx context.Context, employeeID string) (status.Snapshot, error) {
	schedule, ranges, err := s.loadInputs(ctx, employeeID)
	if err != nil {
		return status.Snapshot{}, err
	}

	snapshot := status.Resolve(schedule, ranges, s.now())
	if snapshot.Diagnostic != "" {
		serviceLogger(ctx, s.logger, "status", "current_status",
			"employee_id", employeeID).Warn("schedule configuration problem", "diagnostic", snapshot.Diagnostic)
	}
	return snapshot, nil
}

// FetchFunc adapts the service's data loading for the periodic monitor.
func (s *StatusService) FetchFunc() status.FetchFunc {
	return s.loadInputs
}

func (s *StatusService) loadInputs(ctx context.Context, employeeID string) (workday.WeeklySchedule, []vacation.Range, error) {
	if s == nil || s.schedules == nil || s.vacations == nil {
		return nil, nil, fmt.Errorf("status repositories not configured")
	}

	rows, err := s.schedules.GetScheduleWeek(ctx, employeeID)
	if err != nil {
		return nil, nil, mapRepoError(err)
	}

	stored, err := s.vacations.ListVacationsForEmployee(ctx, employeeID)
	if err != nil {
		return nil, nil, mapRepoError(err)
	}

	schedule := make(workday.WeeklySchedule, len(rows))
	for _, row := range rows {
		schedule[row.Weekday] = workday.WorkDay{
			Start:      row.Start,
			End:        row.End,
			LunchStart: row.LunchStart,
			LunchEnd:   row.LunchEnd,
		}
	}

	ranges := make([]vacation.Range, 0, len(stored))
	for _, item := range stored {
		ranges = append(ranges, vacation.Range{
			ID:         item.ID,
			EmployeeID: item.EmployeeID,
			Start:      item.StartDay,
			End:        item.EndDay,
		})
	}

	return schedule, ranges, nil
}
