// internal/workers/analytics/build-dashboard-summary/models.go
package builddashboardsummary

import "jobtrack/internal/models"

type Input struct {
	UserID int64 `json:"userId"`
}

// Output repeats the headline numbers at the top level so gateways can branch on them.
type Output struct {
	Total          int               `json:"total"`
	Offer          int               `json:"offer"`
	ConversionRate float64           `json:"conversionRate"`
	Dashboard      *models.Dashboard `json:"dashboard"`
}
