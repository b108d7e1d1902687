package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloudrental-backend/internal/clock"
	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/identity"
	"cloudrental-backend/internal/logger"
	"cloudrental-backend/internal/repository"
)

type billingService struct {
	mu           sync.Mutex
	billRepo     repository.BillRepository
	rentalRepo   repository.RentalRepository
	resourceRepo repository.ResourceRepository
	userRepo     repository.UserRepository
	ids          identity.Generator
	clk          clock.Clock
}

func NewBillingService(
	billRepo repository.BillRepository,
	rentalRepo repository.RentalRepository,
	resourceRepo repository.ResourceRepository,
	userRepo repository.UserRepository,
	ids identity.Generator,
	clk clock.Clock,
) BillingService {
	return &billingService{
		billRepo:     billRepo,
		rentalRepo:   rentalRepo,
		resourceRepo: resourceRepo,
		userRepo:     userRepo,
		ids:          ids,
		clk:          clk,
	}
}

// billableHours is the settlement window in whole hours: the duration
// truncates toward zero and a sub-hour rental is billed as one hour.
// A rental of 1h30m therefore bills as 1 hour, not 2.
func billableHours(start, end time.Time) int64 {
	hours := int64(end.Sub(start) / time.Hour)
	if hours < 1 {
		hours = 1
	}
	return hours
}

func (s *billingService) CompleteRental(ctx context.Context, rentalID string) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rental.Billable() {
		return nil, fmt.Errorf("%w: rental %s is %s, only APPROVED or ACTIVE rentals can be completed", domain.ErrInvalidState, rentalID, rental.Status)
	}

	// Both references must resolve before anything is mutated; a
	// dangling rental must not be partially settled.
	resource, err := s.resourceRepo.GetByID(ctx, rental.ResourceID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, rental.UserID)
	if err != nil {
		return nil, err
	}

	hours := billableHours(rental.StartTime, rental.EndTime)
	cost := hours * resource.PricePerHourCents

	rental.TotalCostCents = cost
	if err := rental.TransitionTo(domain.RentalStatusCompleted); err != nil {
		return nil, err
	}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}
	if err := s.resourceRepo.Release(ctx, rental.ResourceID); err != nil {
		return nil, err
	}

	newBalance, err := s.userRepo.AdjustBalance(ctx, user.ID, -cost)
	if err != nil {
		return nil, err
	}

	bill := &domain.Bill{
		ID:          s.ids.NewID(identity.PrefixBill),
		RentalID:    rental.ID,
		UserID:      user.ID,
		AmountCents: cost,
		IssuedAt:    s.clk.Now(),
		Paid:        true, // direct-deduction settlement, no deferred-payment path
	}
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	logger.Info("Rental completed and settled",
		"rental_id", rental.ID, "bill_id", bill.ID, "user_id", user.ID,
		"billable_hours", hours, "amount_cents", cost, "balance_cents", newBalance)
	if newBalance < 0 {
		// Non-fatal: the account is not suspended, but new rental
		// requests are refused until the balance is restored.
		logger.Warn("User balance is negative after settlement", "user_id", user.ID, "username", user.Username, "balance_cents", newBalance)
	}
	return bill, nil
}

func (s *billingService) ListByUser(ctx context.Context, actor domain.Principal, userID string) ([]domain.Bill, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	return s.billRepo.ListByUser(ctx, userID)
}

func (s *billingService) ListAll(ctx context.Context, actor domain.Principal) ([]domain.Bill, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.billRepo.List(ctx)
}
