package schedule

import (
	"fmt"

	"training-portal-backend/internal/model"
)

// Winner names which side of a conflict keeps the slot.
type Winner string

const (
	WinnerNew      Winner = "new"
	WinnerExisting Winner = "existing"
)

// Request is a new training request entering conflict resolution.
type Request struct {
	ClientID string `json:"clientId"`
	TimeSlot
}

// Resolution is the outcome of applying the priority rule to a request and its
// conflict set. It is computed fresh on every call and never stored; callers
// persist its effects (status changes, notifications), not the object itself.
type Resolution struct {
	Winner   Winner          `json:"winner"`
	Request  Request         `json:"request"`
	Affected []model.Booking `json:"affectedTrainings"`
	Reason   string          `json:"reason"`
}

// ResolveByPriority decides who keeps a contested slot. Clients missing from the
// priority snapshot count as priority 0. With no conflicts the request wins
// outright. A strictly higher request priority displaces every conflicting
// booking. Otherwise the incumbents win, ties included, since incumbents have
// already committed the slot; only the highest-priority incumbent(s) are
// reported as affected, because lower-priority overlaps are not the blocker.
func ResolveByPriority(req Request, conflicts []model.Booking, priorities map[string]int) (Resolution, error) {
	if err := req.Validate(); err != nil {
		return Resolution{}, err
	}

	newPriority := priorities[req.ClientID]

	if len(conflicts) == 0 {
		return Resolution{
			Winner:  WinnerNew,
			Request: req,
			Reason:  "No conflicts",
		}, nil
	}

	maxConflictPriority := priorities[conflicts[0].ClientID]
	for _, c := range conflicts[1:] {
		if p := priorities[c.ClientID]; p > maxConflictPriority {
			maxConflictPriority = p
		}
	}

	if newPriority > maxConflictPriority {
		affected := make([]model.Booking, len(conflicts))
		copy(affected, conflicts)
		return Resolution{
			Winner:   WinnerNew,
			Request:  req,
			Affected: affected,
			Reason:   fmt.Sprintf("Higher priority client (%d vs %d)", newPriority, maxConflictPriority),
		}, nil
	}

	var affected []model.Booking
	for _, c := range conflicts {
		if priorities[c.ClientID] == maxConflictPriority {
			affected = append(affected, c)
		}
	}
	return Resolution{
		Winner:   WinnerExisting,
		Request:  req,
		Affected: affected,
		Reason:   fmt.Sprintf("Existing client has equal or higher priority (%d vs %d)", maxConflictPriority, newPriority),
	}, nil
}
