package companies

import (
	"context"
	"errors"
	"strings"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/validation"
	"jobtrack/internal/models"
	"jobtrack/internal/repository/postgres"
)

type CreateInput struct {
	Name string `json:"name" validate:"notblank,max=255"`
}

type Service struct {
	companies *postgres.CompanyRepository
	logger    logger.Logger
}

func NewService(db *postgres.DB, log logger.Logger) *Service {
	return &Service{
		companies: postgres.NewCompanyRepository(db),
		logger:    log.WithFields(map[string]interface{}{"component": "companies"}),
	}
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*models.Company, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c := &models.Company{Name: strings.TrimSpace(in.Name), UserID: userID}
	if err := s.companies.Insert(ctx, c); err != nil {
		return nil, apperrors.NewDatabaseError("create company", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]models.Company, error) {
	list, err := s.companies.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list companies", err)
	}
	return list, nil
}

// Delete removes the company together with its applications.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.companies.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return apperrors.NewNotFoundError("company", id)
		}
		return apperrors.NewDatabaseError("delete company", err)
	}
	s.logger.Info("company deleted", map[string]interface{}{"userId": userID, "companyId": id})
	return nil
}
