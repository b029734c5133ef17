// Package users handles registration, login, logout and account deletion.
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobtrack/internal/common/auth"
	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/validation"
	"jobtrack/internal/models"
	"jobtrack/internal/repository/postgres"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *models.User `json:"user"`
}

type Service struct {
	users   *postgres.UserRepository
	hasher  *auth.Hasher
	tokens  *auth.TokenIssuer
	revoker *auth.Revoker
	logger  logger.Logger
}

func NewService(db *postgres.DB, hasher *auth.Hasher, tokens *auth.TokenIssuer, revoker *auth.Revoker, log logger.Logger) *Service {
	return &Service{
		users:   postgres.NewUserRepository(db),
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		logger:  log.WithFields(map[string]interface{}{"component": "users"}),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in Credentials) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	u := &models.User{Email: in.Email, HashedPassword: hashed}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Email already registered", in.Email)
		}
		return nil, apperrors.NewDatabaseError("register user", err)
	}

	s.logger.Info("user registered", map[string]interface{}{"userId": u.ID})
	return u, nil
}

// Login checks the credentials and issues an access token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in Credentials) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid email or password")
		}
		return nil, apperrors.NewDatabaseError("login", err)
	}
	if err := s.hasher.Compare(u.HashedPassword, in.Password); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	token, expires, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{AccessToken: token, TokenType: "Bearer", ExpiresAt: expires, User: u}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user", userID)
		}
		return nil, apperrors.NewDatabaseError("get user", err)
	}
	return u, nil
}

// DeleteAccount removes the user. Companies, applications and audit entries cascade.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return apperrors.NewNotFoundError("user", userID)
		}
		return apperrors.NewDatabaseError("delete user", err)
	}
	s.logger.Info("user deleted", map[string]interface{}{"userId": userID})
	return nil
}
