package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"training-portal-backend/internal/model"
	"training-portal-backend/internal/store"
)

// ListBookings lists bookings, optionally filtered by trainer, client or
// status. Responses are served through the GET cache.
func (h *Handler) ListBookings(c *gin.Context) {
	filter := store.BookingFilter{
		TrainerID: c.Query("trainer_id"),
		ClientID:  c.Query("client_id"),
	}
	if status := c.Query("status"); status != "" {
		filter.Status = model.BookingStatus(status)
		if !filter.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + status})
			return
		}
	}

	bookings, err := h.store.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

type updateStatusBody struct {
	Status model.BookingStatus `json:"status" binding:"required"`
}

// UpdateBookingStatus moves a booking to a new status. Cancelled is terminal.
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	var body updateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !body.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + string(body.Status)})
		return
	}

	booking, err := h.store.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if booking.Status == model.StatusCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "cancelled bookings cannot change status"})
		return
	}

	if err := h.store.UpdateBookingStatus(c.Request.Context(), booking.ID, body.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": booking.ID, "status": body.Status})
}
