package applications

import (
	"fmt"
	"strings"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/models"
)

const maxStatusLength = 50

type CreateInput struct {
	JobTitle  string  `json:"jobTitle" validate:"notblank,max=255"`
	Status    *string `json:"status"`
	Notes     string  `json:"notes" validate:"max=10000"`
	CompanyID int64   `json:"companyId" validate:"gt=0"`
}

// UpdateInput is a partial update. A nil field leaves the stored value untouched.
type UpdateInput struct {
	JobTitle  *string `json:"jobTitle" validate:"omitnil,notblank,max=255"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes" validate:"omitnil,max=10000"`
	CompanyID *int64  `json:"companyId" validate:"omitnil,gt=0"`
}

// ApplyTo merges the provided fields into app.
func (in UpdateInput) ApplyTo(app *models.Application) {
	if in.JobTitle != nil {
		app.JobTitle = *in.JobTitle
	}
	if in.Status != nil {
		app.Status = models.Status(*in.Status)
	}
	if in.Notes != nil {
		app.Notes = *in.Notes
	}
	if in.CompanyID != nil {
		app.CompanyID = *in.CompanyID
	}
}

// Empty reports whether the update carries no fields at all.
func (in UpdateInput) Empty() bool {
	return in.JobTitle == nil && in.Status == nil && in.Notes == nil && in.CompanyID == nil
}

// ListFilter selects one page of applications. Nil Page and PerPage take the defaults.
type ListFilter struct {
	Status    *string
	CompanyID *int64
	Search    string
	Page      *int
	PerPage   *int
}

func (s *Service) parseStatus(raw string) (models.Status, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.NewValidationError("status is required")
	}
	if len(raw) > maxStatusLength {
		return "", apperrors.NewValidationError(fmt.Sprintf("status must be at most %d characters", maxStatusLength))
	}
	status := models.Status(raw)
	if !status.Known() && !s.config.AllowCustomStatus {
		return "", apperrors.NewValidationError("status must be one of Applied, Interview, Offer, Rejected")
	}
	return status, nil
}
