package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

// ScheduleRepository implements persistence.ScheduleRepository over SQLite.
type ScheduleRepository struct {
	pool *ConnectionPool
}

// NewScheduleRepository creates a work-schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// UpsertScheduleWeek replaces the employee's weekly schedule with the given
// weekday rows in one transaction.
func (r *ScheduleRepository) UpsertScheduleWeek(ctx context.Context, employeeID string, days []persistence.ScheduleDay) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM schedule_days WHERE employee_id = ?`, employeeID); err != nil {
			return mapError(err)
		}
		for _, day := range days {
			_, err := tx.Exec(`
				INSERT INTO schedule_days (employee_id, weekday, start_time, end_time, lunch_start, lunch_end)
				VALUES (?, ?, ?, ?, ?, ?)`,
				employeeID,
				int(day.Weekday),
				day.Start,
				day.End,
				day.LunchStart,
				day.LunchEnd,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetScheduleWeek returns the employee's weekday rows ordered by weekday.
// An employee without a stored schedule yields an empty week, not an error.
func (r *ScheduleRepository) GetScheduleWeek(ctx context.Context, employeeID string) ([]persistence.ScheduleDay, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT employee_id, weekday, start_time, end_time, lunch_start, lunch_end
		FROM schedule_days WHERE employee_id = ? ORDER BY weekday`, employeeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var days []persistence.ScheduleDay
	for rows.Next() {
		var (
			day     persistence.ScheduleDay
			weekday int
		)
		if err := rows.Scan(&day.EmployeeID, &weekday, &day.Start, &day.End, &day.LunchStart, &day.LunchEnd); err != nil {
			return nil, mapError(err)
		}
		day.Weekday = time.Weekday(weekday % 7)
		days = append(days, day)
	}
	return days, mapError(rows.Err())
}
