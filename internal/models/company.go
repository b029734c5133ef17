// internal/models/company.go
package models

type Company struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	UserID int64  `json:"userId" db:"user_id"`
}
