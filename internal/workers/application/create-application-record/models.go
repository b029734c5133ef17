// internal/workers/application/create-application-record/models.go
package createapplicationrecord

type Input struct {
	UserID    int64   `json:"userId"`
	CompanyID int64   `json:"companyId"`
	JobTitle  string  `json:"jobTitle"`
	Status    *string `json:"status,omitempty"` // Applied when absent
	Notes     string  `json:"notes,omitempty"`
}

type Output struct {
	ApplicationID     int64  `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	CompanyName       string `json:"companyName"`
	AppliedDate       string `json:"appliedDate"` // YYYY-MM-DD
}
