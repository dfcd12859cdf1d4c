package schedule

import "training-portal-backend/internal/model"

// Overlaps reports whether two slots overlap. Slots on different calendar days
// never overlap. On the same day the intervals are treated as half-open, so
// touching endpoints do not conflict and back-to-back sessions are allowed.
//
// Overlaps assumes well-formed inputs and does not validate start < end; the
// exported entry points below do that. Malformed times read as no overlap.
func Overlaps(a, b TimeSlot) bool {
	if a.Date != b.Date {
		return false
	}
	aStart, aEnd, ok := a.interval()
	if !ok {
		return false
	}
	bStart, bEnd, ok := b.interval()
	if !ok {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// bookingSlot lifts a booking's stored date and times into a TimeSlot.
func bookingSlot(b model.Booking) TimeSlot {
	return TimeSlot{Date: b.Date, StartTime: b.StartTime, EndTime: b.EndTime}
}

// FindConflicts returns every active booking whose slot overlaps the candidate,
// preserving the input order. Cancelled bookings never conflict. When trainerID
// is non-nil only that trainer's bookings are considered; bookings with no
// trainer assigned never match a non-nil filter.
func FindConflicts(candidate TimeSlot, bookings []model.Booking, trainerID *string) ([]model.Booking, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	var conflicts []model.Booking
	for _, b := range bookings {
		if b.Status == model.StatusCancelled {
			continue
		}
		if trainerID != nil {
			if b.TrainerID == nil || *b.TrainerID != *trainerID {
				continue
			}
		}
		if Overlaps(candidate, bookingSlot(b)) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}
