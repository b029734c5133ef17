// Package analytics builds the per-user dashboard. It keeps no state: every call
// rescans applications and the activity log inside one read-only snapshot.
package analytics

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/metrics"
	"jobtrack/internal/common/observability"
	"jobtrack/internal/models"
	"jobtrack/internal/repository/postgres"

	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultRecentLimit   = 5
	DefaultActivityLimit = 10
)

type Config struct {
	RecentLimit   int
	ActivityLimit int
}

type Service struct {
	db       *postgres.DB
	apps     *postgres.ApplicationRepository
	activity *postgres.ActivityRepository
	config   *Config
	obs      *observability.Observability
	logger   logger.Logger
}

func NewService(db *postgres.DB, cfg *Config, obs *observability.Observability, log logger.Logger) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = DefaultRecentLimit
	}
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = DefaultActivityLimit
	}
	return &Service{
		db:       db,
		apps:     postgres.NewApplicationRepository(db),
		activity: postgres.NewActivityRepository(db),
		config:   cfg,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "analytics"}),
	}
}

// Summarize computes the dashboard for userID.
func (s *Service) Summarize(ctx context.Context, userID int64) (dash *models.Dashboard, err error) {
	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, "analytics.summarize", attribute.Int64("user.id", userID))
	defer func() {
		observability.EndSpan(span, err)
		s.obs.RecordOperation(ctx, "analytics.summarize", time.Since(start), err)
		metrics.DashboardBuildDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		counts   map[models.Status]int
		recent   []models.ApplicationDetail
		activity []postgres.ActivityRow
	)
	err = s.db.WithTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, func(ctx context.Context) error {
		var err error
		if counts, err = s.apps.CountByStatus(ctx, userID); err != nil {
			return err
		}
		if recent, err = s.apps.List(ctx, userID, postgres.ApplicationFilter{}, s.config.RecentLimit, 0); err != nil {
			return err
		}
		activity, err = s.activity.Recent(ctx, userID, s.config.ActivityLimit)
		return err
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("dashboard query failed", map[string]interface{}{"userId": userID, "error": err})
		return nil, apperrors.NewDatabaseError("summarize", err)
	}

	dash = &models.Dashboard{
		Applied:        counts[models.StatusApplied],
		Interview:      counts[models.StatusInterview],
		Offer:          counts[models.StatusOffer],
		Rejected:       counts[models.StatusRejected],
		Recent:         recent,
		RecentActivity: Enrich(activity),
	}
	for _, n := range counts {
		dash.Total += n
	}
	dash.ConversionRate = ConversionRate(dash.Offer, dash.Total)
	if dash.Recent == nil {
		dash.Recent = []models.ApplicationDetail{}
	}

	return dash, nil
}

// ConversionRate is offer/total as a percentage rounded to one decimal place.
// Rounding applies to the float quotient and breaks exact ties to even, so
// 1 of 16 gives 6.2. It is exactly 0 when total is 0.
func ConversionRate(offer, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(offer) / float64(total) * 100
	// FormatFloat rounds the exact binary value, not its shortest decimal form.
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(rate, 'f', 1, 64), 64)
	if err != nil {
		return 0
	}
	return rounded
}

// Enrich attaches job title and company name to audit rows, substituting the
// Deleted and Unknown fallbacks for references that no longer resolve.
func Enrich(rows []postgres.ActivityRow) []models.ActivityFeedItem {
	out := make([]models.ActivityFeedItem, 0, len(rows))
	for _, r := range rows {
		item := models.ActivityFeedItem{
			ActivityLog: r.ActivityLog,
			JobTitle:    models.DeletedJobTitle,
			CompanyName: models.UnknownCompanyName,
		}
		if r.JobTitle.Valid {
			item.JobTitle = r.JobTitle.String
		}
		if r.CompanyName.Valid {
			item.CompanyName = r.CompanyName.String
		}
		out = append(out, item)
	}
	return out
}
