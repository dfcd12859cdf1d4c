package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"training-portal-backend/internal/model"
	"training-portal-backend/internal/schedule"
	"training-portal-backend/internal/store"
)

type createRequestBody struct {
	Title     string  `json:"title"`
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"startTime" binding:"required"`
	EndTime   string  `json:"endTime" binding:"required"`
	TrainerID *string `json:"trainerId"`
	ClientID  string  `json:"clientId" binding:"required"`
}

// CreateRequest stores a pending training request and returns a conflict
// preview so the client can see up front whether approval will displace
// existing bookings.
func (h *Handler) CreateRequest(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot := schedule.TimeSlot{Date: body.Date, StartTime: body.StartTime, EndTime: body.EndTime}
	if err := slot.Validate(); err != nil {
		respondError(c, err)
		return
	}

	var conflicts []model.Booking
	var resolution *schedule.Resolution
	if body.TrainerID != nil {
		bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{TrainerID: *body.TrainerID})
		if err != nil {
			respondError(c, err)
			return
		}
		conflicts, err = schedule.FindConflicts(slot, occupying(bookings), body.TrainerID)
		if err != nil {
			respondError(c, err)
			return
		}
		priorities, err := h.store.ClientPriorities(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		res, err := schedule.ResolveByPriority(schedule.Request{ClientID: body.ClientID, TimeSlot: slot}, conflicts, priorities)
		if err != nil {
			respondError(c, err)
			return
		}
		resolution = &res
	}

	booking := model.Booking{
		Title:     body.Title,
		Date:      body.Date,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		TrainerID: body.TrainerID,
		ClientID:  body.ClientID,
		Status:    model.StatusPending,
	}
	if err := h.store.CreateBooking(c.Request.Context(), &booking); err != nil {
		respondError(c, err)
		return
	}

	if len(conflicts) > 0 {
		notice := model.Notification{
			UserID:  adminUserID,
			Type:    model.NotifyWarning,
			Message: "Training request conflicts with an existing booking. Priority resolution needed.",
		}
		if err := h.store.CreateNotification(c.Request.Context(), &notice); err == nil {
			h.dispatch([]string{notice.ID})
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"request":    booking,
		"conflicts":  conflicts,
		"resolution": resolution,
	})
}

// ListRequests lists training requests, pending ones by default.
func (h *Handler) ListRequests(c *gin.Context) {
	status := model.BookingStatus(c.DefaultQuery("status", string(model.StatusPending)))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + string(status)})
		return
	}
	requests, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{Status: status})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

type approveRequestBody struct {
	TrainerID *string `json:"trainerId"`
}

// ApproveRequest resolves the request against current bookings by client
// priority. When the requester wins, the request is approved and losing
// bookings are marked rescheduled; when an incumbent holds equal or higher
// priority the approval is refused with the computed resolution attached.
func (h *Handler) ApproveRequest(c *gin.Context) {
	var body approveRequestBody
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.store.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if request.Status != model.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
		return
	}

	trainerID := request.TrainerID
	if body.TrainerID != nil {
		trainerID = body.TrainerID
	}
	if trainerID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a trainer must be assigned before approval"})
		return
	}

	bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{TrainerID: *trainerID})
	if err != nil {
		respondError(c, err)
		return
	}
	slot := schedule.TimeSlot{Date: request.Date, StartTime: request.StartTime, EndTime: request.EndTime}
	conflicts, err := schedule.FindConflicts(slot, occupying(bookings), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	priorities, err := h.store.ClientPriorities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resolution, err := schedule.ResolveByPriority(schedule.Request{ClientID: request.ClientID, TimeSlot: slot}, conflicts, priorities)
	if err != nil {
		respondError(c, err)
		return
	}

	if resolution.Winner == schedule.WinnerExisting {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "existing client has equal or higher priority",
			"resolution": resolution,
		})
		return
	}

	if request.TrainerID == nil || *request.TrainerID != *trainerID {
		if err := h.store.AssignTrainer(c.Request.Context(), request.ID, *trainerID); err != nil {
			respondError(c, err)
			return
		}
	}

	notificationIDs, err := h.store.ApplyResolution(c.Request.Context(), request.ID, resolution, model.StatusAdminApproved)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dispatch(notificationIDs)

	c.JSON(http.StatusOK, gin.H{"resolution": resolution})
}

type rejectRequestBody struct {
	Comment string `json:"comment"`
}

// RejectRequest marks a pending request rejected and notifies the client.
func (h *Handler) RejectRequest(c *gin.Context) {
	var body rejectRequestBody
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.store.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if request.Status != model.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
		return
	}

	notificationIDs, err := h.store.RejectRequest(c.Request.Context(), request.ID, body.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dispatch(notificationIDs)

	c.JSON(http.StatusOK, gin.H{"status": model.StatusRejected})
}
