package jobs

import (
	"context"
	"time"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/logger"
)

// ReportNegativeBalances warns about every account whose balance went
// negative after a settlement. Such accounts cannot file new rental
// requests until the balance is restored; nothing here suspends them.
func (jr *JobRunner) ReportNegativeBalances() {
	jr.runWithRecovery("ReportNegativeBalances", func() {
		ctx := context.Background()
		users, err := jr.userRepo.List(ctx)
		if err != nil {
			logger.Error("Failed to list users", "error", err)
			return
		}

		count := 0
		for _, user := range users {
			if user.BalanceCents < 0 {
				count++
				logger.Warn("Account has a negative balance",
					"user_id", user.ID, "username", user.Username, "balance_cents", user.BalanceCents)
			}
		}
		logger.Info("Negative balance report finished", "accounts_flagged", count)
	})
}

// ReportOverdueRentals warns about APPROVED or ACTIVE rentals whose
// requested end time has passed without a completion trigger. The job
// only reports; no rental is expired automatically.
func (jr *JobRunner) ReportOverdueRentals() {
	jr.runWithRecovery("ReportOverdueRentals", func() {
		ctx := context.Background()
		now := time.Now()

		count := 0
		for _, status := range []domain.RentalStatus{domain.RentalStatusApproved, domain.RentalStatusActive} {
			rentals, err := jr.rentalRepo.ListByStatus(ctx, status)
			if err != nil {
				logger.Error("Failed to list rentals", "status", status, "error", err)
				return
			}
			for _, rental := range rentals {
				if rental.EndTime.Before(now) {
					count++
					logger.Warn("Rental is past its requested end time",
						"rental_id", rental.ID, "user_id", rental.UserID,
						"resource_id", rental.ResourceID, "status", rental.Status,
						"end_time", rental.EndTime)
				}
			}
		}
		logger.Info("Overdue rental report finished", "rentals_flagged", count)
	})
}
