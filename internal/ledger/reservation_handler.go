package ledger

import (
	"net/http"

	"barslot/internal/api"
	"barslot/internal/auth"

	"github.com/gin-gonic/gin"
)

// CreateReservation godoc
// @Summary      Book a reservation
// @Description  Claims one unit of the (bar, date, time slot) capacity and creates a confirmed reservation. The slot is created with the default capacity when missing.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReservationRequest  true  "Reservation data"
// @Success      201      {object}  Reservation
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /reservations/ [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	reservation, err := h.service.Book(c.Request.Context(), userID, BookingInput{
		BarID:           req.BarID,
		FullName:        req.FullName,
		Phone:           req.Phone,
		PartySize:       req.NumPeople,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// ListMyReservations godoc
// @Summary      List my reservations
// @Description  Returns the caller's reservations, newest date first.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Reservation
// @Failure      401  {object}  api.ErrorResponse
// @Router       /reservations/my-reservations [get]
func (h *Handler) ListMyReservations(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	reservations, err := h.service.ListUserReservations(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// ListBarReservations godoc
// @Summary      List bar reservations
// @Description  Returns every reservation of a bar, newest date first. Admin only.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Bar ID"
// @Success      200  {array}   Reservation
// @Failure      401  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Router       /reservations/bar/{id} [get]
func (h *Handler) ListBarReservations(c *gin.Context) {
	barID, ok := pathID(c, "id")
	if !ok {
		return
	}

	reservations, err := h.service.ListBarReservations(c.Request.Context(), barID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// CancelReservation godoc
// @Summary      Cancel reservation
// @Description  Cancels one of the caller's reservations and releases its capacity unit. Cancelling twice is a no-op.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Reservation ID"
// @Success      200  {object}  CancelResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /reservations/{id}/cancel [put]
func (h *Handler) CancelReservation(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reservation, err := h.service.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CancelResponse{Message: "Reservation cancelled", Reservation: *reservation})
}
