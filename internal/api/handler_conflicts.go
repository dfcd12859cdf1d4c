package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"training-portal-backend/internal/model"
	"training-portal-backend/internal/schedule"
	"training-portal-backend/internal/store"
)

// overlapPair is one detected overlap between two scheduled bookings.
type overlapPair struct {
	Type      string        `json:"type"`
	Booking1  model.Booking `json:"booking1"`
	Booking2  model.Booking `json:"booking2"`
	TrainerID string        `json:"trainerId"`
}

// requestConflict pairs a pending request with the scheduled bookings it
// overlaps and the priority resolution that resolving it would apply.
type requestConflict struct {
	Request    model.Booking       `json:"request"`
	Conflicts  []model.Booking     `json:"conflicts"`
	Resolution schedule.Resolution `json:"resolution"`
}

// ListConflicts scans all bookings for overlapping scheduled pairs and for
// pending requests that collide with the current schedule.
func (h *Handler) ListConflicts(c *gin.Context) {
	bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{})
	if err != nil {
		respondError(c, err)
		return
	}

	active := occupying(bookings)

	overlaps := []overlapPair{}
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			if a.TrainerID == nil || b.TrainerID == nil || *a.TrainerID != *b.TrainerID {
				continue
			}
			slotA := schedule.TimeSlot{Date: a.Date, StartTime: a.StartTime, EndTime: a.EndTime}
			slotB := schedule.TimeSlot{Date: b.Date, StartTime: b.StartTime, EndTime: b.EndTime}
			if schedule.Overlaps(slotA, slotB) {
				overlaps = append(overlaps, overlapPair{
					Type:      "overlap",
					Booking1:  a,
					Booking2:  b,
					TrainerID: *a.TrainerID,
				})
			}
		}
	}

	var priorities map[string]int
	requestConflicts := []requestConflict{}
	for _, b := range bookings {
		if b.Status != model.StatusPending || b.TrainerID == nil {
			continue
		}
		slot := schedule.TimeSlot{Date: b.Date, StartTime: b.StartTime, EndTime: b.EndTime}
		conflicts, err := schedule.FindConflicts(slot, active, b.TrainerID)
		if err != nil || len(conflicts) == 0 {
			continue
		}
		if priorities == nil {
			if priorities, err = h.store.ClientPriorities(c.Request.Context()); err != nil {
				respondError(c, err)
				return
			}
		}
		resolution, err := schedule.ResolveByPriority(schedule.Request{ClientID: b.ClientID, TimeSlot: slot}, conflicts, priorities)
		if err != nil {
			continue
		}
		requestConflicts = append(requestConflicts, requestConflict{
			Request:    b,
			Conflicts:  conflicts,
			Resolution: resolution,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"overlaps":         overlaps,
		"requestConflicts": requestConflicts,
	})
}

type resolveConflictBody struct {
	RequestID string `json:"requestId" binding:"required"`
}

// ResolveConflict applies priority resolution to one pending request: the
// request is approved and its losing conflicts rescheduled if the requester
// outranks every incumbent, otherwise the request is rejected.
func (h *Handler) ResolveConflict(c *gin.Context) {
	var body resolveConflictBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.store.GetBooking(c.Request.Context(), body.RequestID)
	if err != nil {
		respondError(c, err)
		return
	}
	if request.Status != model.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "request is not pending"})
		return
	}
	if request.TrainerID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request has no trainer assigned"})
		return
	}

	bookings, err := h.store.ListBookings(c.Request.Context(), store.BookingFilter{TrainerID: *request.TrainerID})
	if err != nil {
		respondError(c, err)
		return
	}
	// The request itself is pending, so occupying() keeps it out of its own
	// conflict set.
	active := occupying(bookings)

	slot := schedule.TimeSlot{Date: request.Date, StartTime: request.StartTime, EndTime: request.EndTime}
	conflicts, err := schedule.FindConflicts(slot, active, request.TrainerID)
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

	var notificationIDs []string
	if resolution.Winner == schedule.WinnerNew {
		notificationIDs, err = h.store.ApplyResolution(c.Request.Context(), request.ID, resolution, model.StatusApproved)
	} else {
		notificationIDs, err = h.store.RejectRequest(c.Request.Context(), request.ID, "")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	h.dispatch(notificationIDs)

	c.JSON(http.StatusOK, gin.H{"resolution": resolution})
}
