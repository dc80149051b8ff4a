package bar

import (
	"errors"
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

// ListBars godoc
// @Summary      List bars
// @Description  Returns all active bars ordered by name.
// @Tags         bars
// @Produce      json
// @Success      200  {array}   Bar
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bars/ [get]
func (h *Handler) ListBars(c *gin.Context) {
	bars, err := h.service.List(c.Request.Context())
	if err != nil {
		logger.Error("failed to list bars", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bars"})
		return
	}

	c.JSON(http.StatusOK, bars)
}

// GetBar godoc
// @Summary      Get bar
// @Description  Returns a single bar by ID.
// @Tags         bars
// @Produce      json
// @Param        id   path      int  true  "Bar ID"
// @Success      200  {object}  Bar
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /bars/{id} [get]
func (h *Handler) GetBar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid bar ID"})
		return
	}

	bar, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bar)
}

// CreateBar godoc
// @Summary      Create bar
// @Description  Creates a new bar. Admin only.
// @Tags         bars
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBarRequest  true  "Bar data"
// @Success      201      {object}  Bar
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /bars/ [post]
func (h *Handler) CreateBar(c *gin.Context) {
	var req CreateBarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	bar, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	logger.Info("bar created", "bar_id", bar.ID, "name", bar.Name)
	c.JSON(http.StatusCreated, bar)
}

// UpdateBar godoc
// @Summary      Update bar
// @Description  Partially updates a bar. Admin only.
// @Tags         bars
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int               true  "Bar ID"
// @Param        request  body      UpdateBarRequest  true  "Fields to change"
// @Success      200      {object}  Bar
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /bars/{id} [put]
func (h *Handler) UpdateBar(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid bar ID"})
		return
	}

	var req UpdateBarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	bar, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bar)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBarNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Bar not found", Code: "not_found"})
	case errors.Is(err, ErrInvalidPriceRange):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: "validation_failed"})
	default:
		logger.Error("bar request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}
