package postgres

import (
	"context"
	"fmt"
	"strings"

	"jobtrack/internal/models"
)

// ApplicationFilter narrows a listing. All set fields are AND-ed.
type ApplicationFilter struct {
	Status    *models.Status
	CompanyID *int64
	// Search is matched case-insensitively against job title or notes.
	Search string
}

type ApplicationRepository struct {
	db *DB
}

func NewApplicationRepository(db *DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const selectApplicationDetail = `
	SELECT a.id, a.job_title, a.status, a.applied_date, a.notes, a.company_id, a.user_id,
	       c.name AS company_name, c.user_id AS company_user_id
	FROM applications a
	JOIN companies c ON c.id = a.company_id`

const listOrder = ` ORDER BY a.applied_date DESC, a.id ASC`

type applicationDetailRow struct {
	models.Application
	CompanyName   string `db:"company_name"`
	CompanyUserID int64  `db:"company_user_id"`
}

func (r applicationDetailRow) detail() models.ApplicationDetail {
	return models.ApplicationDetail{
		Application: r.Application,
		Company: models.Company{
			ID:     r.CompanyID,
			Name:   r.CompanyName,
			UserID: r.CompanyUserID,
		},
	}
}

func (r *ApplicationRepository) Insert(ctx context.Context, app *models.Application) error {
	err := r.db.Querier(ctx).GetContext(ctx, &app.ID, `
		INSERT INTO applications (job_title, status, applied_date, notes, company_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		app.JobTitle, app.Status, app.AppliedDate, app.Notes, app.CompanyID, app.UserID,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetForUpdate loads and row-locks an application owned by userID.
func (r *ApplicationRepository) GetForUpdate(ctx context.Context, userID, id int64) (*models.Application, error) {
	var app models.Application
	err := r.db.Querier(ctx).GetContext(ctx, &app, `
		SELECT id, job_title, status, applied_date, notes, company_id, user_id
		FROM applications
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

// Save writes the mutable fields back. applied_date is never changed.
func (r *ApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx, `
		UPDATE applications
		SET job_title = $1, status = $2, notes = $3, company_id = $4
		WHERE id = $5 AND user_id = $6`,
		app.JobTitle, app.Status, app.Notes, app.CompanyID, app.ID, app.UserID,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return requireRow(res)
}

func (r *ApplicationRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.Querier(ctx).ExecContext(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return requireRow(res)
}

func (r *ApplicationRepository) GetDetail(ctx context.Context, userID, id int64) (*models.ApplicationDetail, error) {
	var row applicationDetailRow
	err := r.db.Querier(ctx).GetContext(ctx, &row,
		selectApplicationDetail+` WHERE a.id = $1 AND a.user_id = $2`, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	d := row.detail()
	return &d, nil
}

func (r *ApplicationRepository) Count(ctx context.Context, userID int64, f ApplicationFilter) (int, error) {
	where, args := f.where(userID)
	var total int
	if err := r.db.Querier(ctx).GetContext(ctx, &total,
		`SELECT COUNT(*) FROM applications a WHERE `+where, args...); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return total, nil
}

// List returns applications joined with their company, newest applied date first and
// ties in insertion order. limit <= 0 returns every match.
func (r *ApplicationRepository) List(ctx context.Context, userID int64, f ApplicationFilter, limit, offset int) ([]models.ApplicationDetail, error) {
	where, args := f.where(userID)
	query := selectApplicationDetail + ` WHERE ` + where + listOrder
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	var rows []applicationDetailRow
	if err := r.db.Querier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	out := make([]models.ApplicationDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.detail())
	}
	return out, nil
}

// CountByStatus returns the number of applications per stored status string.
func (r *ApplicationRepository) CountByStatus(ctx context.Context, userID int64) (map[models.Status]int, error) {
	rows, err := r.db.Querier(ctx).QueryxContext(ctx, `
		SELECT status, COUNT(*) AS n
		FROM applications
		WHERE user_id = $1
		GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status models.Status
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (f ApplicationFilter) where(userID int64) (string, []interface{}) {
	clauses := []string{"a.user_id = $1"}
	args := []interface{}{userID}

	if f.Status != nil {
		args = append(args, string(*f.Status))
		clauses = append(clauses, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if f.CompanyID != nil {
		args = append(args, *f.CompanyID)
		clauses = append(clauses, fmt.Sprintf("a.company_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(`(a.job_title ILIKE $%d ESCAPE '\' OR a.notes ILIKE $%d ESCAPE '\')`, n, n))
	}

	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
