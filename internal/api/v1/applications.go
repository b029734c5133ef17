package v1

import (
	"bytes"
	"net/http"

	"jobtrack/internal/api/middleware"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/services/applications"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ApplicationHandler struct {
	service ApplicationService
	log     logger.Logger
}

func NewApplicationHandler(service ApplicationService, log logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{service: service, log: log}
}

// Create handles POST /api/applications.
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req applications.CreateInput
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, toApplication(*app, 0))
}

// List handles GET /api/applications?status=&companyId=&search=&page=&perPage=.
func (h *ApplicationHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		_ = c.Error(err)
		return
	}
	perPage, err := queryInt(c, "perPage")
	if err != nil {
		_ = c.Error(err)
		return
	}
	companyID, err := queryInt(c, "companyId")
	if err != nil {
		_ = c.Error(err)
		return
	}

	filter := applications.ListFilter{
		Status:  queryString(c, "status"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	}
	if companyID != nil {
		filter.CompanyID = lo.ToPtr(int64(*companyID))
	}

	result, err := h.service.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toApplicationList(result))
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	app, err := h.service.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toApplication(*app, 0))
}

// Update handles PUT and PATCH /api/applications/:id. Both are partial: omitted
// fields keep their stored value.
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req applications.UpdateInput
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toApplication(*app, 0))
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
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

// History handles GET /api/applications/:id/history.
func (h *ApplicationHandler) History(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	logs, err := h.service.History(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(logs, toActivity))
}

// Export handles GET /api/applications/export. The CSV is buffered so a storage
// error can still be reported as JSON.
func (h *ApplicationHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), middleware.UserID(c), &buf); err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="applications.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
