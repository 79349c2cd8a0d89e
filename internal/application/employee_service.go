package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
	"github.com/Gn4ik/sync-project-tracker/internal/workday"
)

// EmployeeDirectory captures the persistence interactions needed by the service.
type EmployeeDirectory interface {
	CreateEmployee(ctx context.Context, employee persistence.Employee) error
	UpdateEmployee(ctx context.Context, employee persistence.Employee) error
	GetEmployee(ctx context.Context, id string) (persistence.Employee, error)
	ListEmployees(ctx context.Context) ([]persistence.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// EmployeeService orchestrates validation and persistence for the employee
// directory, weekly schedules and vacation submissions.
type EmployeeService struct {
	employees   EmployeeDirectory
	schedules   persistence.ScheduleRepository
	vacations   persistence.VacationRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEmployeeService wires dependencies for directory operations.
func NewEmployeeService(employees EmployeeDirectory, schedules persistence.ScheduleRepository, vacations persistence.VacationRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees:   employees,
		schedules:   schedules,
		vacations:   vacations,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateEmployee validates the input before delegating to persistence.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput) (Employee, error) {
	if s == nil || s.employees == nil {
		return Employee{}, fmt.Errorf("employee directory not configured")
	}

	vErr := &ValidationError{}
	validateEmployeeInput(input, vErr)
	if vErr.HasErrors() {
		return Employee{}, vErr
	}

	createdAt := s.now()
	record := persistence.Employee{
		ID:           s.idGenerator(),
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
		Position:     strings.TrimSpace(input.Position),
		DepartmentID: input.DepartmentID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if err := s.employees.CreateEmployee(ctx, record); err != nil {
		mapped := mapRepoError(err)
		serviceLogger(ctx, s.logger, "employee", "create").Warn("create failed",
			"error", mapped, "kind", ErrorKind(mapped))
		return Employee{}, mapped
	}

	return toEmployee(record), nil
}

// UpdateEmployee applies validation before updating the directory entry.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, employeeID string, input EmployeeInput) (Employee, error) {
	if s == nil || s.employees == nil {
		return Employee{}, fmt.Errorf("employee directory not configured")
	}

	existing, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	validateEmployeeInput(input, vErr)
	if vErr.HasErrors() {
		return Employee{}, vErr
	}

	existing.FullName = strings.TrimSpace(input.FullName)
	existing.Email = strings.TrimSpace(input.Email)
	existing.Position = strings.TrimSpace(input.Position)
	existing.DepartmentID = input.DepartmentID
	existing.UpdatedAt = s.now()

	if err := s.employees.UpdateEmployee(ctx, existing); err != nil {
		return Employee{}, mapRepoError(err)
	}
	return toEmployee(existing), nil
}

// GetEmployee retrieves one directory entry.
func (s *EmployeeService) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	record, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, mapRepoError(err)
	}
	return toEmployee(record), nil
}

// ListEmployees enumerates the directory.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]Employee, error) {
	records, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	employees := make([]Employee, 0, len(records))
	for _, record := range records {
		employees = append(employees, toEmployee(record))
	}
	return employees, nil
}

// DeleteEmployee removes a directory entry.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, employeeID string) error {
	if err := s.employees.DeleteEmployee(ctx, employeeID); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// SetScheduleWeek validates and stores the employee's weekly schedule. The
// same configuration rules apply as at evaluation time, so an overnight or
// unparsable window is rejected at submission instead of surfacing later as
// an off-duty diagnostic.
func (s *EmployeeService) SetScheduleWeek(ctx context.Context, employeeID string, days []WorkDayInput) error {
	if s == nil || s.schedules == nil {
		return fmt.Errorf("schedule repository not configured")
	}

	schedule := make(workday.WeeklySchedule, len(days))
	rows := make([]persistence.ScheduleDay, 0, len(days))
	for _, day := range days {
		schedule[day.Weekday] = workday.WorkDay{
			Start:      day.Start,
			End:        day.End,
			LunchStart: day.LunchStart,
			LunchEnd:   day.LunchEnd,
		}
		rows = append(rows, persistence.ScheduleDay{
			EmployeeID: employeeID,
			Weekday:    day.Weekday,
			Start:      day.Start,
			End:        day.End,
			LunchStart: day.LunchStart,
			LunchEnd:   day.LunchEnd,
		})
	}

	if err := workday.Validate(schedule); err != nil {
		vErr := &ValidationError{}
		vErr.add("schedule", err.Error())
		return vErr
	}

	if err := s.schedules.UpsertScheduleWeek(ctx, employeeID, rows); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// AddVacation validates and stores a vacation range.
func (s *EmployeeService) AddVacation(ctx context.Context, input VacationInput) (Vacation, error) {
	if s == nil || s.vacations == nil {
		return Vacation{}, fmt.Errorf("vacation repository not configured")
	}

	vErr := &ValidationError{}
	if input.EmployeeID == "" {
		vErr.add("employee_id", "employee is required")
	}
	if input.StartDay.IsZero() || input.EndDay.IsZero() {
		vErr.add("range", "start and end days are required")
	} else if input.EndDay.Before(input.StartDay) {
		vErr.add("range", "end day must not precede start day")
	}
	if vErr.HasErrors() {
		return Vacation{}, vErr
	}

	record := persistence.Vacation{
		ID:         s.idGenerator(),
		EmployeeID: input.EmployeeID,
		StartDay:   input.StartDay,
		EndDay:     input.EndDay,
		CreatedAt:  s.now(),
	}
	if err := s.vacations.CreateVacation(ctx, record); err != nil {
		return Vacation{}, mapRepoError(err)
	}
	return Vacation{ID: record.ID, EmployeeID: record.EmployeeID, StartDay: record.StartDay, EndDay: record.EndDay}, nil
}

// ListVacations returns the employee's stored vacation ranges.
func (s *EmployeeService) ListVacations(ctx context.Context, employeeID string) ([]Vacation, error) {
	records, err := s.vacations.ListVacationsForEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	vacations := make([]Vacation, 0, len(records))
	for _, record := range records {
		vacations = append(vacations, Vacation{
			ID:         record.ID,
			EmployeeID: record.EmployeeID,
			StartDay:   record.StartDay,
			EndDay:     record.EndDay,
		})
	}
	return vacations, nil
}

func validateEmployeeInput(input EmployeeInput, vErr *ValidationError) {
	if strings.TrimSpace(input.FullName) == "" {
		vErr.add("full_name", "full name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		vErr.add("email", "email must contain @")
	}
}

func toEmployee(record persistence.Employee) Employee {
	return Employee{
		ID:           record.ID,
		FullName:     record.FullName,
		Email:        record.Email,
		Position:     record.Position,
		DepartmentID: record.DepartmentID,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("employee_id", "related employee does not exist")
		return vErr
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("range", "end day must not precede start day")
		return vErr
	}
	return err
}
