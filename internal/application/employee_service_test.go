package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

type employeeRepoStub struct {
	created   persistence.Employee
	updated   persistence.Employee
	stored    persistence.Employee
	list      []persistence.Employee
	err       error
	deleteErr error
}

func (s *employeeRepoStub) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	if s.err != nil {
		return s.err
	}
	s.created = employee
	return nil
}

func (s *employeeRepoStub) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	if s.err != nil {
		return s.err
	}
	s.updated = employee
	return nil
}

func (s *employeeRepoStub) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	if s.err != nil {
		return persistence.Employee{}, s.err
	}
	if s.stored.ID == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return s.stored, nil
}

func (s *employeeRepoStub) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]persistence.Employee, len(s.list))
	copy(out, s.list)
	return out, nil
}

func (s *employeeRepoStub) DeleteEmployee(ctx context.Context, id string) error {
	return s.deleteErr
}

type scheduleRepoStub struct {
	week []persistence.ScheduleDay
	err  error
}

func (s *scheduleRepoStub) UpsertScheduleWeek(ctx context.Context, employeeID string, days []persistence.ScheduleDay) error {
	if s.err != nil {
		return s.err
	}
	s.week = days
	return nil
}

func (s *scheduleRepoStub) GetScheduleWeek(ctx context.Context, employeeID string) ([]persistence.ScheduleDay, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]persistence.ScheduleDay, len(s.week))
	copy(out, s.week)
	return out, nil
}

type vacationRepoStub struct {
	created persistence.Vacation
	list    []persistence.Vacation
	err     error
}

func (s *vacationRepoStub) CreateVacation(ctx context.Context, vacation persistence.Vacation) error {
	if s.err != nil {
		return s.err
	}
	s.created = vacation
	return nil
}

func (s *vacationRepoStub) ListVacationsForEmployee(ctx context.Context, employeeID string) ([]persistence.Vacation, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]persistence.Vacation, len(s.list))
	copy(out, s.list)
	return out, nil
}

func (s *vacationRepoStub) DeleteVacation(ctx context.Context, id string) error {
	return s.err
}

func fixedNow(t *testing.T) func() time.Time {
	t.Helper()
	at := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newEmployeeService(employees *employeeRepoStub, schedules *scheduleRepoStub, vacations *vacationRepoStub, t *testing.T) *EmployeeService {
	t.Helper()
	return NewEmployeeService(employees, schedules, vacations,
		func() string { return "id-1" }, fixedNow(t), nil)
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	t.Parallel()

	repo := &employeeRepoStub{}
	svc := newEmployeeService(repo, &scheduleRepoStub{}, &vacationRepoStub{}, t)

	employee, err := svc.CreateEmployee(context.Background(), EmployeeInput{
		FullName: "  Anna Petrova ",
		Email:    "anna@example.com",
		Position: "Engineer",
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	if employee.ID != "id-1" {
		t.Fatalf("expected generated id, got %q", employee.ID)
	}
	if employee.FullName != "Anna Petrova" {
		t.Fatalf("expected trimmed name, got %q", employee.FullName)
	}
	if repo.created.CreatedAt.IsZero() || !repo.created.CreatedAt.Equal(repo.created.UpdatedAt) {
		t.Fatalf("expected created/updated timestamps set from clock, got %v / %v",
			repo.created.CreatedAt, repo.created.UpdatedAt)
	}
}

func TestEmployeeService_CreateEmployee_Validation(t *testing.T) {
	t.Parallel()

	svc := newEmployeeService(&employeeRepoStub{}, &scheduleRepoStub{}, &vacationRepoStub{}, t)

	_, err := svc.CreateEmployee(context.Background(), EmployeeInput{
		FullName: "",
		Email:    "not-an-email",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["full_name"]; !ok {
		t.Fatalf("expected full_name error, got %v", vErr.FieldErrors)
	}
	if _, ok := vErr.FieldErrors["email"]; !ok {
		t.Fatalf("expected email error, got %v", vErr.FieldErrors)
	}
}

func TestEmployeeService_CreateEmployee_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := &employeeRepoStub{err: persistence.ErrDuplicate}
	svc := newEmployeeService(repo, &scheduleRepoStub{}, &vacationRepoStub{}, t)

	_, err := svc.CreateEmployee(context.Background(), EmployeeInput{
		FullName: "Anna Petrova",
		Email:    "anna@example.com",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestEmployeeService_UpdateEmployee_NotFound(t *testing.T) {
	t.Parallel()

	svc := newEmployeeService(&employeeRepoStub{}, &scheduleRepoStub{}, &vacationRepoStub{}, t)

	_, err := svc.UpdateEmployee(context.Background(), "missing", EmployeeInput{
		FullName: "Anna Petrova",
		Email:    "anna@example.com",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmployeeService_SetScheduleWeek(t *testing.T) {
	t.Parallel()

	schedules := &scheduleRepoStub{}
	svc := newEmployeeService(&employeeRepoStub{}, schedules, &vacationRepoStub{}, t)

	err := svc.SetScheduleWeek(context.Background(), "emp-1", []WorkDayInput{
		{Weekday: time.Monday, Start: "09:00:00", End: "18:00:00", LunchStart: "13:00:00", LunchEnd: "14:00:00"},
		{Weekday: time.Saturday, Start: "00:00:00", End: "00:00:00"},
	})
	if err != nil {
		t.Fatalf("SetScheduleWeek returned error: %v", err)
	}
	if len(schedules.week) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(schedules.week))
	}
}

func TestEmployeeService_SetScheduleWeek_RejectsOvernight(t *testing.T) {
	t.Parallel()

	svc := newEmployeeService(&employeeRepoStub{}, &scheduleRepoStub{}, &vacationRepoStub{}, t)

	err := svc.SetScheduleWeek(context.Background(), "emp-1", []WorkDayInput{
		{Weekday: time.Monday, Start: "22:00:00", End: "06:00:00"},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["schedule"]; !ok {
		t.Fatalf("expected schedule error, got %v", vErr.FieldErrors)
	}
}

func TestEmployeeService_AddVacation_InvertedRange(t *testing.T) {
	t.Parallel()

	svc := newEmployeeService(&employeeRepoStub{}, &scheduleRepoStub{}, &vacationRepoStub{}, t)

	_, err := svc.AddVacation(context.Background(), VacationInput{
		EmployeeID: "emp-1",
		StartDay:   time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
		EndDay:     time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["range"]; !ok {
		t.Fatalf("expected range error, got %v", vErr.FieldErrors)
	}
}

func TestEmployeeService_AddVacation(t *testing.T) {
	t.Parallel()

	vacations := &vacationRepoStub{}
	svc := newEmployeeService(&employeeRepoStub{}, &scheduleRepoStub{}, vacations, t)

	created, err := svc.AddVacation(context.Background(), VacationInput{
		EmployeeID: "emp-1",
		StartDay:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDay:     time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddVacation returned error: %v", err)
	}
	if created.ID != "id-1" {
		t.Fatalf("expected generated id, got %q", created.ID)
	}
	if vacations.created.CreatedAt.IsZero() {
		t.Fatalf("expected created timestamp set from clock")
	}
}

func TestEmployeeService_AddVacation_UnknownEmployee(t *testing.T) {
	t.Parallel()

	vacations := &vacationRepoStub{err: persistence.ErrForeignKeyViolation}
	svc := newEmployeeService(&employeeRepoStub{}, &scheduleRepoStub{}, vacations, t)

	_, err := svc.AddVacation(context.Background(), VacationInput{
		EmployeeID: "ghost",
		StartDay:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDay:     time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["employee_id"]; !ok {
		t.Fatalf("expected employee_id error, got %v", vErr.FieldErrors)
	}
}
