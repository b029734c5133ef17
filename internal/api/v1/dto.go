package v1

import (
	"time"

	"jobtrack/internal/models"

	"github.com/samber/lo"
)

type CompanyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ApplicationResponse struct {
	ID          int64           `json:"id"`
	JobTitle    string          `json:"jobTitle"`
	Status      string          `json:"status"`
	AppliedDate time.Time       `json:"appliedDate"`
	Notes       string          `json:"notes"`
	Company     CompanyResponse `json:"company"`
}

type ApplicationListResponse struct {
	Items   []ApplicationResponse `json:"items"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"perPage"`
	Pages   int                   `json:"pages"`
}

type ActivityResponse struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
	ChangedAt     time.Time `json:"changedAt"`
	JobTitle      string    `json:"jobTitle,omitempty"`
	CompanyName   string    `json:"companyName,omitempty"`
}

type DashboardResponse struct {
	Total          int                   `json:"total"`
	Applied        int                   `json:"applied"`
	Interview      int                   `json:"interview"`
	Offer          int                   `json:"offer"`
	Rejected       int                   `json:"rejected"`
	ConversionRate float64               `json:"conversionRate"`
	Recent         []ApplicationResponse `json:"recent"`
	RecentActivity []ActivityResponse    `json:"recentActivity"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func toCompany(c models.Company, _ int) CompanyResponse {
	return CompanyResponse{ID: c.ID, Name: c.Name}
}

func toApplication(a models.ApplicationDetail, _ int) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobTitle:    a.JobTitle,
		Status:      a.Status.String(),
		AppliedDate: a.AppliedDate,
		Notes:       a.Notes,
		Company:     toCompany(a.Company, 0),
	}
}

func toActivity(l models.ActivityLog, _ int) ActivityResponse {
	return ActivityResponse{
		ID:            l.ID,
		ApplicationID: l.ApplicationID,
		OldStatus:     l.OldStatus.String(),
		NewStatus:     l.NewStatus.String(),
		ChangedAt:     l.ChangedAt,
	}
}

func toFeedItem(f models.ActivityFeedItem, i int) ActivityResponse {
	r := toActivity(f.ActivityLog, i)
	r.JobTitle = f.JobTitle
	r.CompanyName = f.CompanyName
	return r
}

func toApplicationList(p *models.Page[models.ApplicationDetail]) ApplicationListResponse {
	return ApplicationListResponse{
		Items:   lo.Map(p.Items, toApplication),
		Total:   p.Total,
		Page:    p.Page,
		PerPage: p.PerPage,
		Pages:   p.Pages,
	}
}

func toDashboard(d *models.Dashboard) DashboardResponse {
	return DashboardResponse{
		Total:          d.Total,
		Applied:        d.Applied,
		Interview:      d.Interview,
		Offer:          d.Offer,
		Rejected:       d.Rejected,
		ConversionRate: d.ConversionRate,
		Recent:         lo.Map(d.Recent, toApplication),
		RecentActivity: lo.Map(d.RecentActivity, toFeedItem),
	}
}

func toUser(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
