package schedule

import "training-portal-backend/internal/model"

// Availability reasons reported to callers. The reason strings are part of the
// API responses the dashboards render, so they stay stable.
const (
	ReasonNotAvailable  = "Trainer not available for this time slot"
	ReasonAlreadyBooked = "Time slot already booked"
)

// Verdict is the result of an availability check.
type Verdict struct {
	Available bool            `json:"available"`
	Reason    string          `json:"reason,omitempty"`
	Conflicts []model.Booking `json:"conflicts,omitempty"`
}

// CheckAvailability decides whether a trainer can take the slot. The slot must
// be fully contained within a single open window on the same date; a slot
// spanning two adjacent windows is not available even if their union covers it.
// Booking conflicts are only considered after containment, so an out-of-window
// slot reports "not available" even when nothing overlaps it.
func CheckAvailability(slot TimeSlot, trainerID string, windows []model.AvailabilityWindow, bookings []model.Booking) (Verdict, error) {
	if err := slot.Validate(); err != nil {
		return Verdict{}, err
	}

	slotStart, slotEnd, _ := slot.interval()
	contained := false
	for _, w := range windows {
		if w.TrainerID != trainerID || w.Date != slot.Date || w.Status != model.WindowOpen {
			continue
		}
		wStart, wEnd, ok := TimeSlot{Date: w.Date, StartTime: w.StartTime, EndTime: w.EndTime}.interval()
		if !ok {
			continue
		}
		if wStart <= slotStart && slotEnd <= wEnd {
			contained = true
			break
		}
	}
	if !contained {
		return Verdict{Available: false, Reason: ReasonNotAvailable}, nil
	}

	conflicts, err := FindConflicts(slot, bookings, &trainerID)
	if err != nil {
		return Verdict{}, err
	}
	if len(conflicts) > 0 {
		return Verdict{Available: false, Reason: ReasonAlreadyBooked, Conflicts: conflicts}, nil
	}
	return Verdict{Available: true}, nil
}

// GenerateAlternatives proposes replacement slots for a trainer: first-fit over
// the trainer's declared windows in their given order, taking each window's
// whole span as the candidate, keeping those that pass CheckAvailability and
// stopping once count are collected. It searches all the trainer's windows, not
// only one date, does not deduplicate by date and does not rank by proximity.
// count <= 0 yields an empty result. Windows whose stored interval is malformed
// are skipped.
func GenerateAlternatives(trainerID string, windows []model.AvailabilityWindow, bookings []model.Booking, count int) ([]TimeSlot, error) {
	if count <= 0 {
		return nil, nil
	}

	var alternatives []TimeSlot
	for _, w := range windows {
		if len(alternatives) >= count {
			break
		}
		if w.TrainerID != trainerID {
			continue
		}
		candidate := TimeSlot{Date: w.Date, StartTime: w.StartTime, EndTime: w.EndTime}
		if candidate.Validate() != nil {
			continue
		}
		verdict, err := CheckAvailability(candidate, trainerID, windows, bookings)
		if err != nil {
			return nil, err
		}
		if verdict.Available {
			alternatives = append(alternatives, candidate)
		}
	}
	return alternatives, nil
}
