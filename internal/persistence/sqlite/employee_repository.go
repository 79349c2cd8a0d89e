package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository over SQLite.
type EmployeeRepository struct {
	pool *ConnectionPool
}

// NewEmployeeRepository creates an employee repository.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// CreateEmployee inserts a new directory entry.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO employees (id, full_name, email, position, department_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		employee.ID,
		employee.FullName,
		employee.Email,
		employee.Position,
		nullString(employee.DepartmentID),
		employee.CreatedAt.UTC().Format(time.RFC3339),
		employee.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateEmployee updates an existing directory entry.
func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE employees
		SET full_name = ?, email = ?, position = ?, department_id = ?, updated_at = ?
		WHERE id = ?`,
		employee.FullName,
		employee.Email,
		employee.Position,
		nullString(employee.DepartmentID),
		employee.UpdatedAt.UTC().Format(time.RFC3339),
		employee.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// GetEmployee retrieves a directory entry by id.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, position, department_id, created_at, updated_at
		FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

// ListEmployees enumerates the directory ordered by full name.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, full_name, email, position, department_id, created_at, updated_at
		FROM employees ORDER BY full_name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, mapError(rows.Err())
}

// DeleteEmployee removes a directory entry and, via cascades, its schedule,
// vacations and calendar records.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var (
		employee     persistence.Employee
		departmentID sql.NullString
		createdAt    string
		updatedAt    string
	)
	err := row.Scan(&employee.ID, &employee.FullName, &employee.Email, &employee.Position, &departmentID, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Employee{}, mapError(err)
	}
	if departmentID.Valid {
		employee.DepartmentID = &departmentID.String
	}
	employee.CreatedAt = parseStoredTime(createdAt)
	employee.UpdatedAt = parseStoredTime(updatedAt)
	return employee, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func parseStoredTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
