// internal/models/dashboard.go
package models

// Dashboard is the per-user summary computed on every request.
type Dashboard struct {
	Total          int                 `json:"total"`
	Applied        int                 `json:"applied"`
	Interview      int                 `json:"interview"`
	Offer          int                 `json:"offer"`
	Rejected       int                 `json:"rejected"`
	ConversionRate float64             `json:"conversionRate"`
	Recent         []ApplicationDetail `json:"recent"`
	RecentActivity []ActivityFeedItem  `json:"recentActivity"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
	Pages   int `json:"pages"`
}
