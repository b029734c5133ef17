package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"jobtrack/internal/models"
)

// ActivityRow is an audit entry with whatever of its application and company still exists.
type ActivityRow struct {
	models.ActivityLog
	JobTitle    sql.NullString `db:"job_title"`
	CompanyName sql.NullString `db:"company_name"`
}

type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts an audit entry and fills in its id.
func (r *ActivityRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	err := r.db.Querier(ctx).GetContext(ctx, &entry.ID, `
		INSERT INTO activity_logs (application_id, user_id, old_status, new_status, changed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		entry.ApplicationID, entry.UserID, entry.OldStatus, entry.NewStatus, entry.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// Recent returns the user's latest audit entries, newest first, left-joined to the
// application and company so deleted references come back NULL.
func (r *ActivityRepository) Recent(ctx context.Context, userID int64, limit int) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := r.db.Querier(ctx).SelectContext(ctx, &rows, `
		SELECT l.id, l.application_id, l.user_id, l.old_status, l.new_status, l.changed_at,
		       a.job_title AS job_title, c.name AS company_name
		FROM activity_logs l
		LEFT JOIN applications a ON a.id = l.application_id
		LEFT JOIN companies c ON c.id = a.company_id
		WHERE l.user_id = $1
		ORDER BY l.changed_at DESC, l.id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return rows, nil
}

// History returns every audit entry for one application in chronological order.
func (r *ActivityRepository) History(ctx context.Context, userID, applicationID int64) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := r.db.Querier(ctx).SelectContext(ctx, &logs, `
		SELECT id, application_id, user_id, old_status, new_status, changed_at
		FROM activity_logs
		WHERE user_id = $1 AND application_id = $2
		ORDER BY changed_at ASC, id ASC`, userID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("activity history: %w", err)
	}
	return logs, nil
}
