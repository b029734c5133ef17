package companies

import (
	"context"
	"testing"

	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	log := logger.NewTestLogger(t)
	return NewService(postgres.NewDB(sqlx.NewDb(raw, "sqlmock"), log), log), mock
}

func TestCreate_TrimsName(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`INSERT INTO companies`).WithArgs("Acme", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	c, err := svc.Create(context.Background(), 1, CreateInput{Name: "  Acme "})

	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID)
	assert.Equal(t, "Acme", c.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_BlankName(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.Create(context.Background(), 1, CreateInput{Name: "\t"})

	assert.True(t, apperrors.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`FROM companies WHERE user_id`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}))

	list, err := svc.List(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDelete_NotOwned(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(`DELETE FROM companies`).WithArgs(int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Delete(context.Background(), 1, 3)

	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
