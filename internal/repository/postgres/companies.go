package postgres

import (
	"context"
	"fmt"

	"jobtrack/internal/models"
)

type CompanyRepository struct {
	db *DB
}

func NewCompanyRepository(db *DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Insert(ctx context.Context, c *models.Company) error {
	err := r.db.Querier(ctx).GetContext(ctx, &c.ID,
		`INSERT INTO companies (name, user_id) VALUES ($1, $2) RETURNING id`, c.Name, c.UserID)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) ListByUser(ctx context.Context, userID int64) ([]models.Company, error) {
	companies := []models.Company{}
	err := r.db.Querier(ctx).SelectContext(ctx, &companies,
		`SELECT id, name, user_id FROM companies WHERE user_id = $1 ORDER BY name ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// OwnedBy reports whether companyID exists and belongs to userID.
func (r *CompanyRepository) OwnedBy(ctx context.Context, companyID, userID int64) (bool, error) {
	var owned bool
	err := r.db.Querier(ctx).GetContext(ctx, &owned,
		`SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1 AND user_id = $2)`, companyID, userID)
	if err != nil {
		return false, fmt.Errorf("check company ownership: %w", err)
	}
	return owned, nil
}

// Delete removes the company; its applications go with it through ON DELETE CASCADE.
func (r *CompanyRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx,
		`DELETE FROM companies WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return requireRow(res)
}
