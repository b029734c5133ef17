// internal/workers/application/update-application-status/models.go
package updateapplicationstatus

type Input struct {
	UserID        int64   `json:"userId"`
	ApplicationID int64   `json:"applicationId"`
	Status        *string `json:"status,omitempty"`
	JobTitle      *string `json:"jobTitle,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CompanyID     *int64  `json:"companyId,omitempty"`
}

type Output struct {
	ApplicationID int64  `json:"applicationId"`
	JobTitle      string `json:"jobTitle"`
	Status        string `json:"status"`
	CompanyID     int64  `json:"companyId"`
	CompanyName   string `json:"companyName"`
	AppliedDate   string `json:"appliedDate"` // YYYY-MM-DD
}
