package v1

import (
	"net/http"

	"jobtrack/internal/api/middleware"
	"jobtrack/internal/common/logger"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service DashboardService
	log     logger.Logger
}

func NewDashboardHandler(service DashboardService, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, log: log}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	dash, err := h.service.Summarize(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toDashboard(dash))
}
