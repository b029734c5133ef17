package v1

import (
	"fmt"
	"strconv"

	apperrors "jobtrack/internal/common/errors"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// queryInt returns nil when the parameter is absent.
func queryInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be an integer", name))
	}
	return lo.ToPtr(n), nil
}

func queryString(c *gin.Context, name string) *string {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	return lo.ToPtr(raw)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperrors.NewValidationError("malformed request body: " + err.Error()))
		return false
	}
	return true
}
