package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
	"github.com/Gn4ik/sync-project-tracker/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Employees    persistence.EmployeeRepository
	Schedules    persistence.ScheduleRepository
	Vacations    persistence.VacationRepository
	CalendarDays persistence.CalendarDayRepository
	Meetings     persistence.MeetingRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "tracker.db")

	pool, err := sqlite.NewConnectionPool("file:" + path)
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Employees:    sqlite.NewEmployeeRepository(pool),
		Schedules:    sqlite.NewScheduleRepository(pool),
		Vacations:    sqlite.NewVacationRepository(pool),
		CalendarDays: sqlite.NewCalendarDayRepository(pool),
		Meetings:     sqlite.NewMeetingRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
