package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Gn4ik/sync-project-tracker/internal/persistence"
)

// MeetingRepository implements persistence.MeetingRepository over SQLite.
// Participant associations live in a join table and are replaced wholesale on
// update.
type MeetingRepository struct {
	pool *ConnectionPool
}

// NewMeetingRepository creates a meeting repository.
func NewMeetingRepository(pool *ConnectionPool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

// CreateMeeting inserts a meeting with its participants.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO meetings (id, name, description, starts_at, creator_id, link, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			meeting.ID,
			meeting.Name,
			meeting.Description,
			meeting.StartsAt.UTC().Format(time.RFC3339),
			meeting.CreatorID,
			meeting.Link,
			meeting.CreatedAt.UTC().Format(time.RFC3339),
			meeting.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}
		return insertParticipants(tx, meeting.ID, meeting.ParticipantIDs)
	})
}

// UpdateMeeting updates a meeting and replaces its participant set.
func (r *MeetingRepository) UpdateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE meetings
			SET name = ?, description = ?, starts_at = ?, creator_id = ?, link = ?, updated_at = ?
			WHERE id = ?`,
			meeting.Name,
			meeting.Description,
			meeting.StartsAt.UTC().Format(time.RFC3339),
			meeting.CreatorID,
			meeting.Link,
			meeting.UpdatedAt.UTC().Format(time.RFC3339),
			meeting.ID,
		)
		if err != nil {
			return mapError(err)
		}
		if err := requireRow(result); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM meeting_participants WHERE meeting_id = ?`, meeting.ID); err != nil {
			return mapError(err)
		}
		return insertParticipants(tx, meeting.ID, meeting.ParticipantIDs)
	})
}

// GetMeeting retrieves a meeting with its participants.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id string) (persistence.Meeting, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, name, description, starts_at, creator_id, link, created_at, updated_at
		FROM meetings WHERE id = ?`, id)

	meeting, err := scanMeeting(row)
	if err != nil {
		return persistence.Meeting{}, err
	}

	participants, err := r.listParticipants(ctx, id)
	if err != nil {
		return persistence.Meeting{}, err
	}
	meeting.ParticipantIDs = participants
	return meeting, nil
}

// ListMeetings enumerates meetings matching the filter ordered by start time.
func (r *MeetingRepository) ListMeetings(ctx context.Context, filter persistence.MeetingFilter) ([]persistence.Meeting, error) {
	query := `
		SELECT DISTINCT m.id, m.name, m.description, m.starts_at, m.creator_id, m.link, m.created_at, m.updated_at
		FROM meetings m`
	var args []any

	if filter.ParticipantID != "" {
		query += ` JOIN meeting_participants mp ON mp.meeting_id = m.id AND mp.employee_id = ?`
		args = append(args, filter.ParticipantID)
	}

	query += ` WHERE 1 = 1`
	if filter.StartsAfter != nil {
		query += ` AND m.starts_at >= ?`
		args = append(args, filter.StartsAfter.UTC().Format(time.RFC3339))
	}
	if filter.EndsBefore != nil {
		query += ` AND m.starts_at <= ?`
		args = append(args, filter.EndsBefore.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY m.starts_at, m.id`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var meetings []persistence.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range meetings {
		participants, err := r.listParticipants(ctx, meetings[i].ID)
		if err != nil {
			return nil, err
		}
		meetings[i].ParticipantIDs = participants
	}
	return meetings, nil
}

// DeleteMeeting removes a meeting; participants cascade.
func (r *MeetingRepository) DeleteMeeting(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

func (r *MeetingRepository) listParticipants(ctx context.Context, meetingID string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT employee_id FROM meeting_participants WHERE meeting_id = ? ORDER BY employee_id`, meetingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err())
}

func insertParticipants(tx *sql.Tx, meetingID string, participantIDs []string) error {
	for _, participantID := range participantIDs {
		if participantID == "" {
			continue
		}
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO meeting_participants (meeting_id, employee_id) VALUES (?, ?)`,
			meetingID, participantID)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func scanMeeting(row rowScanner) (persistence.Meeting, error) {
	var (
		meeting   persistence.Meeting
		startsAt  string
		createdAt string
		updatedAt string
	)
	err := row.Scan(&meeting.ID, &meeting.Name, &meeting.Description, &startsAt, &meeting.CreatorID, &meeting.Link, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Meeting{}, mapError(err)
	}
	meeting.StartsAt = parseStoredTime(startsAt)
	meeting.CreatedAt = parseStoredTime(createdAt)
	meeting.UpdatedAt = parseStoredTime(updatedAt)
	return meeting, nil
}
