package v1

import (
	"net/http"

	"jobtrack/internal/api/middleware"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/services/users"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service UserService
	log     logger.Logger
}

func NewUserHandler(service UserService, log logger.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// Register handles POST /api/users/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req users.Credentials
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toUser(u))
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req users.Credentials
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresAt:   session.ExpiresAt,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toUser(u))
}

// DeleteAccount removes the caller and everything they own.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), middleware.UserID(c)); err != nil {
		_ = c.Error(err)
		return
	}
	// the token is useless now, but revoke it anyway
	_ = h.service.Logout(c.Request.Context(), middleware.GetClaims(c))
	c.Status(http.StatusNoContent)
}
