// internal/models/activity.go
package models

import "time"

// Fallbacks used when an audit entry outlives its application or company.
const (
	DeletedJobTitle    = "Deleted"
	UnknownCompanyName = "Unknown"
)

// ActivityLog is one append-only audit entry for a status change.
// ApplicationID is not a foreign key and may point at a deleted application.
type ActivityLog struct {
	ID            int64     `json:"id" db:"id"`
	ApplicationID int64     `json:"applicationId" db:"application_id"`
	UserID        int64     `json:"userId" db:"user_id"`
	OldStatus     Status    `json:"oldStatus" db:"old_status"`
	NewStatus     Status    `json:"newStatus" db:"new_status"`
	ChangedAt     time.Time `json:"changedAt" db:"changed_at"`
}

// ActivityFeedItem is an ActivityLog enriched for display.
type ActivityFeedItem struct {
	ActivityLog
	JobTitle    string `json:"jobTitle"`
	CompanyName string `json:"companyName"`
}
