package v1

import (
	"net/http"

	"jobtrack/internal/api/middleware"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/services/companies"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type CompanyHandler struct {
	service CompanyService
	log     logger.Logger
}

func NewCompanyHandler(service CompanyService, log logger.Logger) *CompanyHandler {
	return &CompanyHandler{service: service, log: log}
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var req companies.CreateInput
	if !bindJSON(c, &req) {
		return
	}

	company, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toCompany(*company, 0))
}

func (h *CompanyHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(list, toCompany))
}

// Delete also removes the company's applications.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
