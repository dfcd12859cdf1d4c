package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"training-portal-backend/internal/model"
	"training-portal-backend/internal/schedule"
)

// ErrStaleResolution is returned when the conflict set re-validated at commit
// time no longer matches the one the resolution was computed from: another
// commit slipped in between the decision and its persistence. Callers should
// re-run the resolver against fresh data.
var ErrStaleResolution = errors.New("conflict set changed since resolution was computed")

// ApplyResolution persists the effects of a winner=new resolution in one
// transaction: the request transitions to approveStatus, every affected booking
// becomes rescheduled, and notifications are written for the displaced clients,
// the requesting client and the trainer. The scheduling decision itself is pure
// (see the schedule package); this is the serialization point guarding against
// two overlapping decisions committing contradictory state.
func (s *gormStore) ApplyResolution(ctx context.Context, requestID string, res schedule.Resolution, approveStatus model.BookingStatus) ([]string, error) {
	if res.Winner != schedule.WinnerNew {
		return nil, fmt.Errorf("resolution winner is %q; only winner=new resolutions are committed", res.Winner)
	}

	var notifyIDs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req model.Booking
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			return err
		}
		if req.TrainerID == nil {
			return fmt.Errorf("request %s has no trainer assigned", requestID)
		}

		// Optimistic-concurrency check: recompute the conflict set against the
		// rows as they are inside this transaction. Only statuses that occupy
		// the calendar count; pending or rejected requests never block. Any
		// overlap that was not in the resolution's affected set means our
		// decision is stale.
		var current []model.Booking
		if err := tx.
			Where("trainer_id = ? AND date = ? AND status IN ?", *req.TrainerID, req.Date, []model.BookingStatus{
				model.StatusApproved, model.StatusAdminApproved, model.StatusInProgress,
			}).
			Find(&current).Error; err != nil {
			return fmt.Errorf("failed to re-fetch bookings: %w", err)
		}
		fresh, err := schedule.FindConflicts(
			schedule.TimeSlot{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime},
			current, req.TrainerID,
		)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(res.Affected))
		for _, b := range res.Affected {
			known[b.ID] = true
		}
		for _, c := range fresh {
			if c.ID == req.ID {
				continue
			}
			if !known[c.ID] {
				return ErrStaleResolution
			}
		}

		if err := tx.Model(&model.Booking{}).Where("id = ?", req.ID).Update("status", approveStatus).Error; err != nil {
			return fmt.Errorf("failed to approve request %s: %w", req.ID, err)
		}

		for _, b := range res.Affected {
			if err := tx.Model(&model.Booking{}).Where("id = ?", b.ID).Update("status", model.StatusRescheduled).Error; err != nil {
				return fmt.Errorf("failed to reschedule booking %s: %w", b.ID, err)
			}
			id, err := writeNotification(tx, b.ClientID, model.NotifyWarning,
				fmt.Sprintf("Your training %q on %s has been rescheduled due to higher priority client.", b.Title, b.Date))
			if err != nil {
				return err
			}
			notifyIDs = append(notifyIDs, id)
		}

		id, err := writeNotification(tx, req.ClientID, model.NotifySuccess,
			fmt.Sprintf("Your training request %q on %s has been approved.", req.Title, req.Date))
		if err != nil {
			return err
		}
		notifyIDs = append(notifyIDs, id)

		id, err = writeNotification(tx, *req.TrainerID, model.NotifyInfo,
			fmt.Sprintf("New training request approved: %s on %s %s-%s", req.Title, req.Date, req.StartTime, req.EndTime))
		if err != nil {
			return err
		}
		notifyIDs = append(notifyIDs, id)

		return nil
	})
	if err != nil {
		return nil, err
	}
	return notifyIDs, nil
}

// RejectRequest marks a pending request rejected and notifies its client.
func (s *gormStore) RejectRequest(ctx context.Context, requestID, message string) ([]string, error) {
	var notifyIDs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req model.Booking
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Booking{}).Where("id = ?", req.ID).Update("status", model.StatusRejected).Error; err != nil {
			return err
		}
		if message == "" {
			message = "Your training request was rejected due to scheduling conflict."
		}
		id, err := writeNotification(tx, req.ClientID, model.NotifyInfo, message)
		if err != nil {
			return err
		}
		notifyIDs = append(notifyIDs, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notifyIDs, nil
}

func writeNotification(tx *gorm.DB, userID string, typ model.NotificationType, message string) (string, error) {
	n := model.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    typ,
		Message: message,
	}
	if err := tx.Create(&n).Error; err != nil {
		return "", fmt.Errorf("failed to write notification for user %s: %w", userID, err)
	}
	return n.ID, nil
}
