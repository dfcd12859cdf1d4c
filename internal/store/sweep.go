package store

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"training-portal-backend/internal/model"
)

// slotLayout glues a zone-naive date and wall-clock time back into an instant
// under the portal's configured timezone.
const slotLayout = "2006-01-02 15:04"

// SweepStatuses advances lifecycle statuses whose wall-clock boundary has
// passed: approved/admin_approved bookings whose slot started become
// in-progress, and any running or approved booking whose slot ended becomes
// completed. Bookings with unparseable stored times are logged and skipped.
func (s *gormStore) SweepStatuses(ctx context.Context, now time.Time, loc *time.Location) (started, completed []string, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active []model.Booking
		if err := tx.Where("status IN ?", []model.BookingStatus{
			model.StatusApproved, model.StatusAdminApproved, model.StatusInProgress,
		}).Find(&active).Error; err != nil {
			return err
		}

		for _, b := range active {
			startAt, serr := time.ParseInLocation(slotLayout, b.Date+" "+b.StartTime, loc)
			endAt, eerr := time.ParseInLocation(slotLayout, b.Date+" "+b.EndTime, loc)
			if serr != nil || eerr != nil {
				log.Printf("Warning: booking %s has unparseable slot (%s %s-%s); skipping sweep", b.ID, b.Date, b.StartTime, b.EndTime)
				continue
			}

			switch {
			case !now.Before(endAt):
				if err := tx.Model(&model.Booking{}).Where("id = ?", b.ID).Update("status", model.StatusCompleted).Error; err != nil {
					return err
				}
				completed = append(completed, b.ID)
			case !now.Before(startAt) && b.Status != model.StatusInProgress:
				if err := tx.Model(&model.Booking{}).Where("id = ?", b.ID).Update("status", model.StatusInProgress).Error; err != nil {
					return err
				}
				started = append(started, b.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return started, completed, nil
}
