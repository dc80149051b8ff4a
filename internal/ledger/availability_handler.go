package ledger

import (
	"fmt"
	"net/http"

	"barslot/internal/api"

	"github.com/gin-gonic/gin"
)

// UpsertSlot godoc
// @Summary      Create or update a slot
// @Description  Creates the slot for (bar, date, time slot) or overwrites its capacity. Shrinking below the reserved count is rejected.
// @Tags         availability
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpsertSlotRequest  true  "Slot data"
// @Success      201      {object}  Slot
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /availability/ [post]
func (h *Handler) UpsertSlot(c *gin.Context) {
	var req UpsertSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	slot, err := h.service.UpsertSlot(c.Request.Context(), SlotInput{
		BarID:         req.BarID,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		TotalCapacity: *req.TotalCapacity,
		IsAvailable:   req.IsAvailable,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// ProvisionRange godoc
// @Summary      Provision slots for upcoming days
// @Description  Creates missing slots for the next N days starting today. Existing slots are left untouched.
// @Tags         availability
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ProvisionRequest  true  "Provisioning window"
// @Success      201      {object}  api.CountResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /availability/bulk [post]
func (h *Handler) ProvisionRange(c *gin.Context) {
	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	count, err := h.service.ProvisionRange(c.Request.Context(), ProvisionInput{
		BarID:     req.BarID,
		Days:      req.Days,
		TimeSlots: req.TimeSlots,
		Capacity:  req.Capacity,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.CountResponse{
		Message: fmt.Sprintf("Created %d slots", count),
		Count:   count,
	})
}

// ListAvailability godoc
// @Summary      List bar availability
// @Description  Returns the bar's slots ordered by date and time slot, optionally filtered by an inclusive date range.
// @Tags         availability
// @Produce      json
// @Param        id          path      int     true   "Bar ID"
// @Param        start_date  query     string  false  "First date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "Last date (YYYY-MM-DD)"
// @Success      200         {array}   Slot
// @Failure      400         {object}  api.ErrorResponse
// @Router       /availability/bar/{id} [get]
func (h *Handler) ListAvailability(c *gin.Context) {
	barID, ok := pathID(c, "id")
	if !ok {
		return
	}

	slots, err := h.service.ListAvailability(c.Request.Context(), barID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// GetSlot godoc
// @Summary      Get slot
// @Description  Returns a single slot by ID.
// @Tags         availability
// @Produce      json
// @Param        id   path      int  true  "Slot ID"
// @Success      200  {object}  Slot
// @Failure      400  {object}  api.ErrorResponse
// @Router       /availability/{id} [get]
func (h *Handler) GetSlot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	slot, err := h.service.GetSlot(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, slot)
}

// DeleteSlot godoc
// @Summary      Delete slot
// @Description  Removes a slot that has no reserved units.
// @Tags         availability
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Slot ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /availability/{id} [delete]
func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Slot deleted"})
}
