// Package applications is the application store: ownership-scoped CRUD over job
// applications with a transactional audit trail of status changes.
package applications

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/metrics"
	"jobtrack/internal/common/observability"
	"jobtrack/internal/common/validation"
	"jobtrack/internal/models"
	"jobtrack/internal/repository/postgres"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
)

// ExportHeader is the first row of every CSV export.
var ExportHeader = []string{"Job Title", "Company", "Status", "Applied Date", "Notes"}

const exportDateLayout = "2006-01-02"

var readOnlySnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

type Service struct {
	db        *postgres.DB
	apps      *postgres.ApplicationRepository
	companies *postgres.CompanyRepository
	activity  *postgres.ActivityRepository
	config    *Config
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

func NewService(db *postgres.DB, cfg *Config, obs *observability.Observability, log logger.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		db:        db,
		apps:      postgres.NewApplicationRepository(db),
		companies: postgres.NewCompanyRepository(db),
		activity:  postgres.NewActivityRepository(db),
		config:    cfg,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "application-store"}),
		now:       time.Now,
	}
}

func (s *Service) track(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, op, attrs...)
	return ctx, func(errp *error) {
		observability.EndSpan(span, *errp)
		s.obs.RecordOperation(ctx, op, time.Since(start), *errp)
	}
}

// Create inserts a new application under a company the user owns. Creation never
// writes an audit entry.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (detail *models.ApplicationDetail, err error) {
	ctx, done := s.track(ctx, "applications.create", attribute.Int64("user.id", userID))
	defer done(&err)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	status := models.StatusApplied
	if in.Status != nil {
		if status, err = s.parseStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	app := &models.Application{
		JobTitle:    in.JobTitle,
		Status:      status,
		AppliedDate: s.now().UTC(),
		Notes:       in.Notes,
		CompanyID:   in.CompanyID,
		UserID:      userID,
	}

	err = s.db.WithTx(ctx, nil, func(ctx context.Context) error {
		if err := s.requireCompany(ctx, userID, in.CompanyID); err != nil {
			return err
		}
		if err := s.apps.Insert(ctx, app); err != nil {
			return err
		}
		detail, err = s.apps.GetDetail(ctx, userID, app.ID)
		return err
	})
	if err != nil {
		return nil, s.mapError("create", err)
	}

	s.logger.Info("application created", map[string]interface{}{
		"userId":        userID,
		"applicationId": app.ID,
		"status":        status.String(),
	})
	return detail, nil
}

// Get returns one application joined with its company.
func (s *Service) Get(ctx context.Context, userID, id int64) (*models.ApplicationDetail, error) {
	detail, err := s.apps.GetDetail(ctx, userID, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("application", id)
		}
		return nil, s.mapError("get", err)
	}
	return detail, nil
}

// Update applies a partial update. When the status changes, exactly one audit entry
// is appended in the same transaction as the field update. A serialization failure
// is retried once before surfacing as TRANSACTION_CONFLICT.
func (s *Service) Update(ctx context.Context, userID, id int64, in UpdateInput) (detail *models.ApplicationDetail, err error) {
	ctx, done := s.track(ctx, "applications.update",
		attribute.Int64("user.id", userID), attribute.Int64("application.id", id))
	defer done(&err)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Status != nil {
		if _, err := s.parseStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	var entry *models.ActivityLog
	attempt := func() error {
		entry = nil
		txErr := s.db.WithTx(ctx, nil, func(ctx context.Context) error {
			app, err := s.apps.GetForUpdate(ctx, userID, id)
			if err != nil {
				if errors.Is(err, postgres.ErrNotFound) {
					return apperrors.NewNotFoundError("application", id)
				}
				return err
			}

			if in.CompanyID != nil && *in.CompanyID != app.CompanyID {
				if err := s.requireCompany(ctx, userID, *in.CompanyID); err != nil {
					return err
				}
			}

			if in.Status != nil && models.Status(*in.Status) != app.Status {
				entry = &models.ActivityLog{
					ApplicationID: app.ID,
					UserID:        userID,
					OldStatus:     app.Status,
					NewStatus:     models.Status(*in.Status),
					ChangedAt:     s.now().UTC(),
				}
				if err := s.activity.Append(ctx, entry); err != nil {
					return err
				}
			}

			in.ApplyTo(app)
			if err := s.apps.Save(ctx, app); err != nil {
				return err
			}

			detail, err = s.apps.GetDetail(ctx, userID, id)
			return err
		})
		if txErr != nil && !postgres.IsSerializationFailure(txErr) {
			return backoff.Permanent(txErr)
		}
		return txErr
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.config.RetryDelay), 1), ctx)
	err = backoff.RetryNotify(attempt, policy, func(err error, wait time.Duration) {
		metrics.TransactionRetries.WithLabelValues("update").Inc()
		s.logger.Warn("retrying application update after serialization failure", map[string]interface{}{
			"applicationId": id,
			"wait":          wait.String(),
			"error":         err,
		})
	})
	if err != nil {
		return nil, s.mapError("update", err)
	}

	if entry != nil {
		metrics.ActivityLogsWritten.Inc()
		metrics.StatusTransitions.WithLabelValues(
			metrics.StatusLabel(entry.OldStatus.String(), entry.OldStatus.Known()),
			metrics.StatusLabel(entry.NewStatus.String(), entry.NewStatus.Known()),
		).Inc()
		s.logger.Info("application status changed", map[string]interface{}{
			"userId":        userID,
			"applicationId": id,
			"oldStatus":     entry.OldStatus.String(),
			"newStatus":     entry.NewStatus.String(),
			"activityLogId": entry.ID,
		})
	}
	return detail, nil
}

// Delete removes the application. Its audit entries are kept.
func (s *Service) Delete(ctx context.Context, userID, id int64) (err error) {
	ctx, done := s.track(ctx, "applications.delete",
		attribute.Int64("user.id", userID), attribute.Int64("application.id", id))
	defer done(&err)

	if err := s.apps.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return apperrors.NewNotFoundError("application", id)
		}
		return s.mapError("delete", err)
	}
	return nil
}

// List returns one page of the user's applications, newest applied date first.
func (s *Service) List(ctx context.Context, userID int64, f ListFilter) (page *models.Page[models.ApplicationDetail], err error) {
	ctx, done := s.track(ctx, "applications.list", attribute.Int64("user.id", userID))
	defer done(&err)

	repoFilter, pageNo, perPage, err := s.resolveFilter(f)
	if err != nil {
		return nil, err
	}

	var (
		total int
		items []models.ApplicationDetail
	)
	err = s.db.WithTx(ctx, readOnlySnapshot, func(ctx context.Context) error {
		var err error
		if total, err = s.apps.Count(ctx, userID, repoFilter); err != nil {
			return err
		}
		items, err = s.apps.List(ctx, userID, repoFilter, perPage, (pageNo-1)*perPage)
		return err
	})
	if err != nil {
		return nil, s.mapError("list", err)
	}

	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	return &models.Page[models.ApplicationDetail]{
		Items:   items,
		Total:   total,
		Page:    pageNo,
		PerPage: perPage,
		Pages:   pages,
	}, nil
}

func (s *Service) resolveFilter(f ListFilter) (postgres.ApplicationFilter, int, int, error) {
	var out postgres.ApplicationFilter

	pageNo, perPage := 1, s.config.DefaultPageSize
	if f.Page != nil {
		pageNo = *f.Page
	}
	if f.PerPage != nil {
		perPage = *f.PerPage
	}
	if pageNo < 1 {
		return out, 0, 0, apperrors.NewValidationError("page must be at least 1")
	}
	if perPage < 1 || perPage > s.config.MaxPageSize {
		return out, 0, 0, apperrors.NewValidationError(
			fmt.Sprintf("perPage must be between 1 and %d", s.config.MaxPageSize))
	}

	if f.Status != nil {
		status, err := s.parseStatus(*f.Status)
		if err != nil {
			return out, 0, 0, err
		}
		out.Status = &status
	}
	if f.CompanyID != nil {
		if *f.CompanyID <= 0 {
			return out, 0, 0, apperrors.NewValidationError("companyId must be greater than 0")
		}
		out.CompanyID = f.CompanyID
	}
	out.Search = f.Search

	return out, pageNo, perPage, nil
}

// Export writes every application of the user as CSV, in List order.
func (s *Service) Export(ctx context.Context, userID int64, w io.Writer) (err error) {
	ctx, done := s.track(ctx, "applications.export", attribute.Int64("user.id", userID))
	defer done(&err)

	items, err := s.apps.List(ctx, userID, postgres.ApplicationFilter{}, 0, 0)
	if err != nil {
		return s.mapError("export", err)
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, a := range items {
		if err := cw.Write([]string{
			a.JobTitle,
			a.Company.Name,
			a.Status.String(),
			a.AppliedDate.UTC().Format(exportDateLayout),
			a.Notes,
		}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// History returns the audit trail of one application in chronological order. It
// still answers after the application has been deleted.
func (s *Service) History(ctx context.Context, userID, id int64) ([]models.ActivityLog, error) {
	logs, err := s.activity.History(ctx, userID, id)
	if err != nil {
		return nil, s.mapError("history", err)
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	return logs, nil
}

func (s *Service) requireCompany(ctx context.Context, userID, companyID int64) error {
	owned, err := s.companies.OwnedBy(ctx, companyID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return apperrors.NewNotFoundError("company", companyID)
	}
	return nil
}

func (s *Service) mapError(op string, err error) error {
	if stdErr, ok := apperrors.As(err); ok {
		return stdErr
	}
	if postgres.IsSerializationFailure(err) {
		metrics.TransactionConflicts.WithLabelValues(op).Inc()
		return apperrors.NewTransactionConflictError(err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.logger.Error("application store failure", map[string]interface{}{
		"operation": op,
		"error":     err,
	})
	return apperrors.NewDatabaseError(op, err)
}
