package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
	"github.com/Gn4ik/sync-project-tracker/internal/persistence/sqlite"
	"github.com/Gn4ik/sync-project-tracker/internal/testfixtures"
)

func TestMigrateIsIdempotent(t *testing.T) {
	pool, err := sqlite.NewConnectionPool(":memory:")
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestEmployeeRepository(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	employee := testfixtures.NewEmployeeFixture(testfixtures.WithPosition("разработчик"))
	if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := harness.Employees.GetEmployee(ctx, employee.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FullName != employee.FullName || got.Email != employee.Email {
		t.Fatalf("unexpected employee %+v", got)
	}

	duplicate := testfixtures.NewEmployeeFixture(testfixtures.WithEmployeeEmail(employee.Email))
	if err := harness.Employees.CreateEmployee(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused email, got %v", err)
	}

	if _, err := harness.Employees.GetEmployee(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	employee.Position = "тимлид"
	if err := harness.Employees.UpdateEmployee(ctx, employee); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = harness.Employees.GetEmployee(ctx, employee.ID)
	if err != nil || got.Position != "тимлид" {
		t.Fatalf("update not persisted: %+v, %v", got, err)
	}

	if err := harness.Employees.DeleteEmployee(ctx, employee.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := harness.Employees.DeleteEmployee(ctx, employee.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestScheduleRepository(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	employee := testfixtures.NewEmployeeFixture()
	if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	week := testfixtures.StandardWeek(employee.ID)
	if err := harness.Schedules.UpsertScheduleWeek(ctx, employee.ID, week); err != nil {
		t.Fatalf("upsert week: %v", err)
	}

	days, err := harness.Schedules.GetScheduleWeek(ctx, employee.ID)
	if err != nil {
		t.Fatalf("get week: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("expected 7 weekday rows, got %d", len(days))
	}
	if days[1].Weekday != time.Monday || days[1].Start != "09:00:00" {
		t.Fatalf("unexpected Monday row %+v", days[1])
	}
	if days[0].Weekday != time.Sunday || days[0].Start != days[0].End {
		t.Fatalf("expected non-working Sunday row, got %+v", days[0])
	}

	// Replacing the week drops rows not present anymore.
	if err := harness.Schedules.UpsertScheduleWeek(ctx, employee.ID, week[:1]); err != nil {
		t.Fatalf("replace week: %v", err)
	}
	days, err = harness.Schedules.GetScheduleWeek(ctx, employee.ID)
	if err != nil || len(days) != 1 {
		t.Fatalf("expected 1 row after replacement, got %d (%v)", len(days), err)
	}

	// A schedule for an unknown employee violates the foreign key.
	err = harness.Schedules.UpsertScheduleWeek(ctx, "ghost", testfixtures.StandardWeek("ghost"))
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestVacationRepository(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	employee := testfixtures.NewEmployeeFixture()
	if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	vacation := testfixtures.NewVacationFixture(employee.ID, testfixtures.WithVacationDays(
		time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	))
	if err := harness.Vacations.CreateVacation(ctx, vacation); err != nil {
		t.Fatalf("create vacation: %v", err)
	}

	list, err := harness.Vacations.ListVacationsForEmployee(ctx, employee.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one vacation, got %d", len(list))
	}
	if !list[0].StartDay.Equal(vacation.StartDay) || !list[0].EndDay.Equal(vacation.EndDay) {
		t.Fatalf("dates not preserved: %+v", list[0])
	}

	// Inverted ranges are rejected by the check constraint.
	inverted := testfixtures.NewVacationFixture(employee.ID, testfixtures.WithVacationDays(
		vacation.EndDay, vacation.StartDay,
	))
	if err := harness.Vacations.CreateVacation(ctx, inverted); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}

	if err := harness.Vacations.DeleteVacation(ctx, vacation.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestCalendarDayRepository(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	employee := testfixtures.NewEmployeeFixture()
	if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	record := testfixtures.NewCalendarDayFixture(employee.ID,
		testfixtures.WithDay(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)),
		testfixtures.WithTimesheet(persistence.TimesheetItem{
			Time: "10:00:00", Label: `Дедлайн задачи "Task 2"`, Link: "https://tracker.example/t/2",
		}),
		testfixtures.WithActiveTasks(persistence.TaskLink{Name: "Task 3"}),
	)
	if err := harness.CalendarDays.UpsertCalendarDay(ctx, record); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Second upsert for the same day replaces the facts.
	record.IsVacation = true
	if err := harness.CalendarDays.UpsertCalendarDay(ctx, record); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	from := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	days, err := harness.CalendarDays.ListCalendarDays(ctx, employee.ID, persistence.DayRange{From: &from, To: &to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected one record, got %d", len(days))
	}
	got := days[0]
	if !got.IsVacation {
		t.Fatalf("upsert did not replace facts: %+v", got)
	}
	if len(got.TaskDeadlines) != 1 || got.TaskDeadlines[0].Name != record.TaskDeadlines[0].Name {
		t.Fatalf("task deadlines not preserved: %+v", got.TaskDeadlines)
	}
	if len(got.Timesheet) != 1 || got.Timesheet[0].Time != "10:00:00" {
		t.Fatalf("timesheet not preserved: %+v", got.Timesheet)
	}

	outside := time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC)
	days, err = harness.CalendarDays.ListCalendarDays(ctx, employee.ID, persistence.DayRange{From: &outside})
	if err != nil || len(days) != 0 {
		t.Fatalf("expected empty result outside the range, got %d (%v)", len(days), err)
	}
}

func TestMeetingRepository(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	starts := time.Date(2024, time.January, 15, 11, 0, 0, 0, time.UTC)
	meeting := testfixtures.NewMeetingFixture("e1",
		testfixtures.WithStartsAt(starts),
		testfixtures.WithParticipants("e1", "e2"),
	)
	meeting.Name = "Планирование спринта"
	if err := harness.Meetings.CreateMeeting(ctx, meeting); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := harness.Meetings.GetMeeting(ctx, meeting.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.ParticipantIDs) != 2 {
		t.Fatalf("participants not stored: %+v", got.ParticipantIDs)
	}
	if !got.StartsAt.Equal(starts) {
		t.Fatalf("start time not preserved: %v", got.StartsAt)
	}

	// Participant filter only returns meetings the employee belongs to.
	list, err := harness.Meetings.ListMeetings(ctx, persistence.MeetingFilter{ParticipantID: "e2"})
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one meeting for e2, got %d (%v)", len(list), err)
	}
	list, err = harness.Meetings.ListMeetings(ctx, persistence.MeetingFilter{ParticipantID: "stranger"})
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no meetings for stranger, got %d (%v)", len(list), err)
	}

	meeting.ParticipantIDs = []string{"e3"}
	meeting.Name = "Перенесённое планирование"
	if err := harness.Meetings.UpdateMeeting(ctx, meeting); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = harness.Meetings.GetMeeting(ctx, meeting.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Name != "Перенесённое планирование" || len(got.ParticipantIDs) != 1 || got.ParticipantIDs[0] != "e3" {
		t.Fatalf("update did not replace participants: %+v", got)
	}

	if err := harness.Meetings.DeleteMeeting(ctx, meeting.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := harness.Meetings.GetMeeting(ctx, meeting.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
