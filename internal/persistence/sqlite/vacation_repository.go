package sqlite

import (
	"context"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

// VacationRepository implements persistence.VacationRepository over SQLite.
type VacationRepository struct {
	pool *ConnectionPool
}

// NewVacationRepository creates a vacation repository.
func NewVacationRepository(pool *ConnectionPool) *VacationRepository {
	return &VacationRepository{pool: pool}
}

const vacationDayLayout = "2006-01-02"

// CreateVacation inserts a vacation range.
func (r *VacationRepository) CreateVacation(ctx context.Context, vacation persistence.Vacation) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO vacations (id, employee_id, start_day, end_day, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		vacation.ID,
		vacation.EmployeeID,
		vacation.StartDay.Format(vacationDayLayout),
		vacation.EndDay.Format(vacationDayLayout),
		vacation.CreatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// ListVacationsForEmployee returns the employee's ranges ordered by start day.
func (r *VacationRepository) ListVacationsForEmployee(ctx context.Context, employeeID string) ([]persistence.Vacation, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, employee_id, start_day, end_day, created_at
		FROM vacations WHERE employee_id = ? ORDER BY start_day, id`, employeeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var vacations []persistence.Vacation
	for rows.Next() {
		var (
			vacation  persistence.Vacation
			startDay  string
			endDay    string
			createdAt string
		)
		if err := rows.Scan(&vacation.ID, &vacation.EmployeeID, &startDay, &endDay, &createdAt); err != nil {
			return nil, mapError(err)
		}
		vacation.StartDay, _ = time.Parse(vacationDayLayout, startDay)
		vacation.EndDay, _ = time.Parse(vacationDayLayout, endDay)
		vacation.CreatedAt = parseStoredTime(createdAt)
		vacations = append(vacations, vacation)
	}
	return vacations, mapError(rows.Err())
}

// DeleteVacation removes a vacation range.
func (r *VacationRepository) DeleteVacation(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM vacations WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}
