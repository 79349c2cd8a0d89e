package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

// CalendarDayRepository implements persistence.CalendarDayRepository over
// SQLite. The three task lists are stored as JSON text, matching the
// denormalized shape the calendar views consume.
type CalendarDayRepository struct {
	pool *ConnectionPool
}

// NewCalendarDayRepository creates a calendar-day repository.
func NewCalendarDayRepository(pool *ConnectionPool) *CalendarDayRepository {
	return &CalendarDayRepository{pool: pool}
}

const calendarDayLayout = "2006-01-02"

// UpsertCalendarDay inserts or replaces the record for one employee-day.
func (r *CalendarDayRepository) UpsertCalendarDay(ctx context.Context, day persistence.CalendarDay) error {
	deadlines, err := json.Marshal(day.TaskDeadlines)
	if err != nil {
		return fmt.Errorf("sqlite: encode task deadlines: %w", err)
	}
	timesheet, err := json.Marshal(day.Timesheet)
	if err != nil {
		return fmt.Errorf("sqlite: encode timesheet: %w", err)
	}
	active, err := json.Marshal(day.ActiveTasks)
	if err != nil {
		return fmt.Errorf("sqlite: encode active tasks: %w", err)
	}

	_, err = r.pool.db.ExecContext(ctx, `
		INSERT INTO calendar_days (id, employee_id, day, is_vacation, is_weekend, task_deadlines, timesheet, active_tasks, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, day) DO UPDATE SET
			is_vacation = excluded.is_vacation,
			is_weekend = excluded.is_weekend,
			task_deadlines = excluded.task_deadlines,
			timesheet = excluded.timesheet,
			active_tasks = excluded.active_tasks,
			updated_at = excluded.updated_at`,
		day.ID,
		day.EmployeeID,
		day.Day.Format(calendarDayLayout),
		boolToInt(day.IsVacation),
		boolToInt(day.IsWeekend),
		string(deadlines),
		string(timesheet),
		string(active),
		day.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// ListCalendarDays returns the employee's records inside the range ordered by
// day.
func (r *CalendarDayRepository) ListCalendarDays(ctx context.Context, employeeID string, rng persistence.DayRange) ([]persistence.CalendarDay, error) {
	query := `
		SELECT id, employee_id, day, is_vacation, is_weekend, task_deadlines, timesheet, active_tasks, updated_at
		FROM calendar_days WHERE employee_id = ?`
	args := []any{employeeID}

	if rng.From != nil {
		query += ` AND day >= ?`
		args = append(args, rng.From.Format(calendarDayLayout))
	}
	if rng.To != nil {
		query += ` AND day <= ?`
		args = append(args, rng.To.Format(calendarDayLayout))
	}
	query += ` ORDER BY day`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var days []persistence.CalendarDay
	for rows.Next() {
		var (
			record     persistence.CalendarDay
			day        string
			isVacation int
			isWeekend  int
			deadlines  string
			timesheet  string
			active     string
			updatedAt  string
		)
		if err := rows.Scan(&record.ID, &record.EmployeeID, &day, &isVacation, &isWeekend, &deadlines, &timesheet, &active, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		record.Day, _ = time.Parse(calendarDayLayout, day)
		record.IsVacation = isVacation != 0
		record.IsWeekend = isWeekend != 0
		record.UpdatedAt = parseStoredTime(updatedAt)

		if err := json.Unmarshal([]byte(deadlines), &record.TaskDeadlines); err != nil {
			return nil, fmt.Errorf("sqlite: decode task deadlines for %s: %w", record.ID, err)
		}
		if err := json.Unmarshal([]byte(timesheet), &record.Timesheet); err != nil {
			return nil, fmt.Errorf("sqlite: decode timesheet for %s: %w", record.ID, err)
		}
		if err := json.Unmarshal([]byte(active), &record.ActiveTasks); err != nil {
			return nil, fmt.Errorf("sqlite: decode active tasks for %s: %w", record.ID, err)
		}
		days = append(days, record)
	}
	return days, mapError(rows.Err())
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
