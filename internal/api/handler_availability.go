package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"training-portal-backend/internal/model"
	"training-portal-backend/internal/schedule"
	"training-portal-backend/internal/store"
)

// defaultAlternativeCount is how many open slots to suggest when the caller
// does not ask for a specific number.
const defaultAlternativeCount = 3

// ListAvailability returns a trainer's availability windows.
func (h *Handler) ListAvailability(c *gin.Context) {
	windows, err := h.store.ListAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": windows})
}

type createAvailabilityBody struct {
	TrainerID   string             `json:"trainerId" binding:"required"`
	Date        string             `json:"date" binding:"required"`
	StartTime   string             `json:"startTime" binding:"required"`
	EndTime     string             `json:"endTime" binding:"required"`
	MaxTrainees int                `json:"maxTrainees"`
	Status      model.WindowStatus `json:"status"`
}

// CreateAvailability opens a new availability window for a trainer.
func (h *Handler) CreateAvailability(c *gin.Context) {
	var body createAvailabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot := schedule.TimeSlot{Date: body.Date, StartTime: body.StartTime, EndTime: body.EndTime}
	if err := slot.Validate(); err != nil {
		respondError(c, err)
		return
	}

	window := model.AvailabilityWindow{
		TrainerID:   body.TrainerID,
		Date:        body.Date,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		MaxTrainees: body.MaxTrainees,
		Status:      body.Status,
	}
	if window.MaxTrainees <= 0 {
		window.MaxTrainees = 50
	}
	if window.Status == "" {
		window.Status = model.WindowOpen
	}
	if err := h.store.CreateAvailability(c.Request.Context(), &window); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, window)
}

type updateAvailabilityBody struct {
	Date        *string             `json:"date"`
	StartTime   *string             `json:"startTime"`
	EndTime     *string             `json:"endTime"`
	MaxTrainees *int                `json:"maxTrainees"`
	Status      *model.WindowStatus `json:"status"`
}

// UpdateAvailability patches an availability window.
func (h *Handler) UpdateAvailability(c *gin.Context) {
	var body updateAvailabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, err := h.store.GetAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if body.Date != nil {
		window.Date = *body.Date
	}
	if body.StartTime != nil {
		window.StartTime = *body.StartTime
	}
	if body.EndTime != nil {
		window.EndTime = *body.EndTime
	}
	if body.MaxTrainees != nil {
		window.MaxTrainees = *body.MaxTrainees
	}
	if body.Status != nil {
		window.Status = *body.Status
	}

	slot := schedule.TimeSlot{Date: window.Date, StartTime: window.StartTime, EndTime: window.EndTime}
	if err := slot.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.SaveAvailability(c.Request.Context(), &window); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, window)
}

// DeleteAvailability removes an availability window.
func (h *Handler) DeleteAvailability(c *gin.Context) {
	if err := h.store.DeleteAvailability(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// CheckSlot reports whether a trainer can take the requested slot: the slot
// must sit inside a single open window and clear of existing bookings.
func (h *Handler) CheckSlot(c *gin.Context) {
	trainerID := c.Param("id")
	slot := schedule.TimeSlot{
		Date:      c.Query("date"),
		StartTime: c.Query("start"),
		EndTime:   c.Query("end"),
	}

	windows, err := h.store.ListAvailability(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{TrainerID: trainerID})
	if err != nil {
		respondError(c, err)
		return
	}

	verdict, err := schedule.CheckAvailability(slot, trainerID, windows, occupying(bookings))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// SuggestAlternatives proposes fully open availability windows for a trainer.
func (h *Handler) SuggestAlternatives(c *gin.Context) {
	trainerID := c.Param("id")
	count := defaultAlternativeCount
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a non-negative integer"})
			return
		}
		count = parsed
	}

	windows, err := h.store.ListAvailability(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{TrainerID: trainerID})
	if err != nil {
		respondError(c, err)
		return
	}

	alternatives, err := schedule.GenerateAlternatives(trainerID, windows, occupying(bookings), count)
	if err != nil {
		respondError(c, err)
		return
	}
	if alternatives == nil {
		alternatives = []schedule.TimeSlot{}
	}
	c.JSON(http.StatusOK, gin.H{"alternatives": alternatives})
}
