package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"training-portal-backend/internal/model"
	"training-portal-backend/internal/notification"
	"training-portal-backend/internal/schedule"
	"training-portal-backend/internal/store"
)

// adminUserID is the feed address for portal-wide administrative notices.
const adminUserID = "admin"

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	pool    *notification.WorkerPool
	webpush *webpush.Options
}

// NewHandler creates a new API handler. pool may be nil (e.g. in tests), in
// which case notifications are stored but not pushed.
func NewHandler(s store.Store, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		pool:    pool,
		webpush: webpushOptions,
	}
}

// dispatch queues stored notifications for push delivery.
func (h *Handler) dispatch(notificationIDs []string) {
	if h.pool == nil {
		return
	}
	h.pool.DispatchAll(notificationIDs)
}

// scheduled reports whether a booking occupies its trainer's calendar.
// Pending, rejected, rescheduled and cancelled bookings never block a slot.
func scheduled(b model.Booking) bool {
	switch b.Status {
	case model.StatusApproved, model.StatusAdminApproved, model.StatusInProgress:
		return true
	}
	return false
}

// occupying filters bookings down to those that hold calendar time.
func occupying(bookings []model.Booking) []model.Booking {
	kept := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if scheduled(b) {
			kept = append(kept, b)
		}
	}
	return kept
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, schedule.ErrInvalidSlot):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrStaleResolution):
		status = http.StatusConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
