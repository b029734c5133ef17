package middleware

import (
	"context"
	"strings"

	"jobtrack/internal/common/auth"
	apperrors "jobtrack/internal/common/errors"
	"jobtrack/internal/common/logger"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userId"
	ctxClaims = "claims"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticate resolves the bearer token into a user id. Revoked tokens are
// rejected; if the revocation store is unreachable the request is refused.
func Authenticate(tokens TokenParser, revoked RevocationChecker, fallback logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.NewUnauthorizedError("missing authorization header"))
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, apperrors.NewUnauthorizedError("invalid authorization header format"))
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			logger.FromContext(c.Request.Context(), fallback).Debug("token rejected", map[string]interface{}{"error": err})
			abort(c, apperrors.NewUnauthorizedError("invalid or expired token"))
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			abort(c, apperrors.NewInternalError(err))
			return
		}
		if isRevoked {
			abort(c, apperrors.NewUnauthorizedError("token has been revoked"))
			return
		}

		userID, _ := claims.UserID()
		c.Set(ctxUserID, userID)
		c.Set(ctxClaims, claims)

		scoped := logger.FromContext(c.Request.Context(), fallback).WithFields(map[string]interface{}{"userId": userID})
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), scoped))
		c.Next()
	}
}

// UserID returns the authenticated user. Only valid behind Authenticate.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
