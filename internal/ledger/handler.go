package ledger

import (
	"net/http"
	"strconv"

	"barslot/internal/api"
	"barslot/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// writeError maps ledger kinds to 400 with a code and anything else to 500.
func writeError(c *gin.Context, err error) {
	if code := Code(err); code != "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	logger.Error("ledger request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + name, Code: "validation_failed"})
		return 0, false
	}
	return id, true
}
