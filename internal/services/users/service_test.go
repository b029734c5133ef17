package users

import (
	"context"
	"testing"
	"time"

	"jobtrack/internal/common/auth"
	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

var userColumns = []string{"id", "email", "hashed_password", "created_at"}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	log := logger.NewTestLogger(t)
	svc := NewService(
		postgres.NewDB(sqlx.NewDb(raw, "sqlmock"), log),
		auth.NewHasher(4),
		auth.NewTokenIssuer(secret, time.Hour, "jobtrack"),
		auth.NewRevoker(redis.NewClient(&redis.Options{Addr: mr.Addr()})),
		log,
	)
	return svc, mock, mr
}

func TestRegister_NormalizesEmailAndHashes(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(`INSERT INTO users`).WithArgs("ada@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "ada@example.com", "$2a$04$x", time.Now()))

	u, err := svc.Register(context.Background(), Credentials{Email: " Ada@Example.com", Password: "hunter22!"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Duplicate(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})

	_, err := svc.Register(context.Background(), Credentials{Email: "ada@example.com", Password: "hunter22!"})

	assert.True(t, apperrors.IsConflict(err))
}

func TestRegister_Validation(t *testing.T) {
	svc, mock, _ := newTestService(t)

	_, err := svc.Register(context.Background(), Credentials{Email: "not-an-email", Password: "short"})

	require.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password must be at least 8")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_AndLogout(t *testing.T) {
	svc, mock, mr := newTestService(t)
	hashed, err := auth.NewHasher(4).Hash("hunter22!")
	require.NoError(t, err)

	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "ada@example.com", hashed, time.Now()))

	session, err := svc.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "hunter22!"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", session.TokenType)

	claims, err := auth.NewTokenIssuer(secret, time.Hour, "jobtrack").Parse(session.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	assert.True(t, mr.Exists("token:revoked:"+claims.ID))
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, mock, _ := newTestService(t)
	hashed, err := auth.NewHasher(4).Hash("hunter22!")
	require.NoError(t, err)

	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "ada@example.com", hashed, time.Now()))
	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, wrongPassword := svc.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "nope-nope"})
	_, unknown := svc.Login(context.Background(), Credentials{Email: "bob@example.com", Password: "hunter22!"})

	assert.True(t, apperrors.IsUnauthorized(wrongPassword))
	assert.True(t, apperrors.IsUnauthorized(unknown))
	assert.Equal(t, wrongPassword.(*apperrors.StandardError).Details, unknown.(*apperrors.StandardError).Details)
}

func TestDeleteAccount_NotFound(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.True(t, apperrors.IsNotFound(svc.DeleteAccount(context.Background(), 1)))
}
