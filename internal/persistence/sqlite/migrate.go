package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations is the ordered schema history. Each entry runs once; applied
// versions are tracked in schema_migrations.
var migrations = []string{
	`CREATE TABLE employees (
		id            TEXT PRIMARY KEY,
		full_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		position      TEXT NOT NULL DEFAULT '',
		department_id TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE schedule_days (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		weekday     INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		lunch_start TEXT NOT NULL DEFAULT '',
		lunch_end   TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (employee_id, weekday)
	)`,
	`CREATE TABLE vacations (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		start_day   TEXT NOT NULL,
		end_day     TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		CHECK (start_day <= end_day)
	)`,
	`CREATE TABLE calendar_days (
		id             TEXT PRIMARY KEY,
		employee_id    TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		day            TEXT NOT NULL,
		is_vacation    INTEGER NOT NULL DEFAULT 0,
		is_weekend     INTEGER NOT NULL DEFAULT 0,
		task_deadlines TEXT NOT NULL DEFAULT '[]',
		timesheet      TEXT NOT NULL DEFAULT '[]',
		active_tasks   TEXT NOT NULL DEFAULT '[]',
		updated_at     TEXT NOT NULL,
		UNIQUE (employee_id, day)
	)`,
	`CREATE TABLE meetings (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		starts_at   TEXT NOT NULL,
		creator_id  TEXT NOT NULL,
		link        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE meeting_participants (
		meeting_id  TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		employee_id TEXT NOT NULL,
		PRIMARY KEY (meeting_id, employee_id)
	)`,
	`CREATE INDEX idx_meetings_starts_at ON meetings(starts_at)`,
	`CREATE INDEX idx_calendar_days_day ON calendar_days(employee_id, day)`,
}

// Migrate applies every pending migration in order.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: initialize schema_migrations: %w", err)
	}

	var current int
	err := cp.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}

	for version := current + 1; version <= len(migrations); version++ {
		statement := migrations[version-1]
		err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(statement); err != nil {
				return fmt.Errorf("sqlite: migration %d: %w", version, err)
			}
			if _, err := tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, version); err != nil {
				return fmt.Errorf("sqlite: record migration %d: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
