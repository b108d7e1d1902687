package domain

import (
	"fmt"
	"time"
)

type RentalStatus string

const (
	RentalStatusPendingApproval RentalStatus = "PENDING_APPROVAL"
	RentalStatusApproved        RentalStatus = "APPROVED"
	RentalStatusActive          RentalStatus = "ACTIVE"
	RentalStatusCompleted       RentalStatus = "COMPLETED"
	RentalStatusRejected        RentalStatus = "REJECTED"
	RentalStatusCancelled       RentalStatus = "CANCELLED"
)

const (
	MinRentalDurationHours = 1
	MaxRentalDurationHours = 360 // 15 days
)

type Rental struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	ResourceID     string       `json:"resource_id"`
	StartTime      time.Time    `json:"start_time"`
	EndTime        time.Time    `json:"end_time"`
	RequestTime    time.Time    `json:"request_time"`
	Status         RentalStatus `json:"status"`
	TotalCostCents int64        `json:"total_cost_cents"` // zero until COMPLETED
}

// rentalTransitions is the single source of truth for the rental
// lifecycle. REJECTED, CANCELLED and COMPLETED are terminal.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPendingApproval: {RentalStatusApproved, RentalStatusRejected, RentalStatusCancelled},
	RentalStatusApproved:        {RentalStatusActive, RentalStatusCompleted},
	RentalStatusActive:          {RentalStatusCompleted},
}

// CanTransitionTo reports whether the lifecycle permits moving from s
// to next.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are accepted.
func (s RentalStatus) IsTerminal() bool {
	return len(rentalTransitions[s]) == 0
}

// TransitionTo moves the rental to next, or returns ErrInvalidState
// naming the current status.
func (r *Rental) TransitionTo(next RentalStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: rental %s is %s, cannot transition to %s", ErrInvalidState, r.ID, r.Status, next)
	}
	r.Status = next
	return nil
}

// Billable reports whether the rental can be settled by the billing
// engine.
func (r *Rental) Billable() bool {
	return r.Status == RentalStatusApproved || r.Status == RentalStatusActive
}
