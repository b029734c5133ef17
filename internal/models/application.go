// internal/models/application.go
package models

import "time"

// Status is the lifecycle stage of an Application.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// Statuses lists the known lifecycle stages in display order.
var Statuses = []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// Known reports whether s is one of the four lifecycle stages.
func (s Status) Known() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

type Application struct {
	ID          int64     `json:"id" db:"id"`
	JobTitle    string    `json:"jobTitle" db:"job_title"`
	Status      Status    `json:"status" db:"status"`
	AppliedDate time.Time `json:"appliedDate" db:"applied_date"`
	Notes       string    `json:"notes" db:"notes"`
	CompanyID   int64     `json:"companyId" db:"company_id"`
	UserID      int64     `json:"userId" db:"user_id"`
}

// ApplicationDetail is an Application joined with its owning Company.
type ApplicationDetail struct {
	Application
	Company Company `json:"company"`
}
