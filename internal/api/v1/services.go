package v1

import (
	"context"
	"io"

	"jobtrack/internal/common/auth"
	"jobtrack/internal/models"
	"jobtrack/internal/services/applications"
	"jobtrack/internal/services/companies"
	"jobtrack/internal/services/users"
)

// The handlers depend on these rather than on the concrete services.

type UserService interface {
	Register(ctx context.Context, in users.Credentials) (*models.User, error)
	Login(ctx context.Context, in users.Credentials) (*users.Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID int64) (*models.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

type CompanyService interface {
	Create(ctx context.Context, userID int64, in companies.CreateInput) (*models.Company, error)
	List(ctx context.Context, userID int64) ([]models.Company, error)
	Delete(ctx context.Context, userID, id int64) error
}

type ApplicationService interface {
	Create(ctx context.Context, userID int64, in applications.CreateInput) (*models.ApplicationDetail, error)
	Get(ctx context.Context, userID, id int64) (*models.ApplicationDetail, error)
	Update(ctx context.Context, userID, id int64, in applications.UpdateInput) (*models.ApplicationDetail, error)
	Delete(ctx context.Context, userID, id int64) error
	List(ctx context.Context, userID int64, f applications.ListFilter) (*models.Page[models.ApplicationDetail], error)
	Export(ctx context.Context, userID int64, w io.Writer) error
	History(ctx context.Context, userID, id int64) ([]models.ActivityLog, error)
}

type DashboardService interface {
	Summarize(ctx context.Context, userID int64) (*models.Dashboard, error)
}
