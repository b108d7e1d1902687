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

type rentalService struct {
	mu           sync.Mutex
	rentalRepo   repository.RentalRepository
	resourceRepo repository.ResourceRepository
	userRepo     repository.UserRepository
	ids          identity.Generator
	clk          clock.Clock
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	resourceRepo repository.ResourceRepository,
	userRepo repository.UserRepository,
	ids identity.Generator,
	clk clock.Clock,
) RentalService {
	return &rentalService{
		rentalRepo:   rentalRepo,
		resourceRepo: resourceRepo,
		userRepo:     userRepo,
		ids:          ids,
		clk:          clk,
	}
}

// SubmitRequest files a rental request for a resource. Preconditions
// are checked in a fixed order and the first failure wins. The
// resource stays IDLE; availability only changes at approval.
func (s *rentalService) SubmitRequest(ctx context.Context, actor domain.Principal, resourceID string, durationHours int) (*domain.Rental, error) {
	if actor.IsZero() {
		return nil, fmt.Errorf("%w: rental requests require a logged-in user", domain.ErrNotAuthenticated)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, fmt.Errorf("%w: account %s is %s", domain.ErrPermissionDenied, user.Username, user.Status)
	}
	if user.BalanceCents < 0 {
		return nil, fmt.Errorf("%w: account %s has a negative balance, new rentals are refused until it is restored", domain.ErrPermissionDenied, user.Username)
	}

	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource.Status != domain.ResourceStatusIdle {
		return nil, fmt.Errorf("%w: resource %s is %s", domain.ErrResourceUnavailable, resourceID, resource.Status)
	}

	if durationHours < domain.MinRentalDurationHours || durationHours > domain.MaxRentalDurationHours {
		return nil, fmt.Errorf("%w: duration must be between %d and %d hours, got %d",
			domain.ErrInvalidArgument, domain.MinRentalDurationHours, domain.MaxRentalDurationHours, durationHours)
	}

	now := s.clk.Now()
	rental := &domain.Rental{
		ID:          s.ids.NewID(identity.PrefixRental),
		UserID:      user.ID,
		ResourceID:  resourceID,
		StartTime:   now,
		EndTime:     now.Add(time.Duration(durationHours) * time.Hour),
		RequestTime: now,
		Status:      domain.RentalStatusPendingApproval,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	logger.Info("Rental request submitted", "rental_id", rental.ID, "user_id", user.ID, "resource_id", resourceID, "duration_hours", durationHours)
	return rental, nil
}

// Approve moves a pending rental to APPROVED and claims the resource.
// The claim is the only concurrency-safety check needed: a resource
// already held by another approved rental is not IDLE, so the second
// approval fails without mutating anything.
func (s *rentalService) Approve(ctx context.Context, actor domain.Principal, rentalID string) (*domain.Rental, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusPendingApproval {
		return nil, fmt.Errorf("%w: rental %s is %s, only PENDING_APPROVAL rentals can be approved", domain.ErrInvalidState, rentalID, rental.Status)
	}

	if _, err := s.resourceRepo.GetByID(ctx, rental.ResourceID); err != nil {
		return nil, err
	}
	if err := s.resourceRepo.Claim(ctx, rental.ResourceID); err != nil {
		return nil, err
	}

	if err := rental.TransitionTo(domain.RentalStatusApproved); err != nil {
		_ = s.resourceRepo.Release(ctx, rental.ResourceID)
		return nil, err
	}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		_ = s.resourceRepo.Release(ctx, rental.ResourceID)
		return nil, err
	}

	logger.Info("Rental approved", "rental_id", rentalID, "resource_id", rental.ResourceID, "admin_id", actor.UserID)
	return rental, nil
}

// Reject moves a pending rental to REJECTED. The reason is carried for
// operator visibility only and is not persisted on the rental.
func (s *rentalService) Reject(ctx context.Context, actor domain.Principal, rentalID string, reason string) (*domain.Rental, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusPendingApproval {
		return nil, fmt.Errorf("%w: rental %s is %s, only PENDING_APPROVAL rentals can be rejected", domain.ErrInvalidState, rentalID, rental.Status)
	}

	if err := rental.TransitionTo(domain.RentalStatusRejected); err != nil {
		return nil, err
	}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	logger.Info("Rental rejected", "rental_id", rentalID, "admin_id", actor.UserID, "reason", reason)
	return rental, nil
}

// Cancel is the owner's side exit from PENDING_APPROVAL. Admins may
// not cancel on another user's behalf.
func (s *rentalService) Cancel(ctx context.Context, actor domain.Principal, rentalID string) (*domain.Rental, error) {
	if actor.IsZero() {
		return nil, fmt.Errorf("%w: cancelling a rental requires a logged-in user", domain.ErrNotAuthenticated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: rental %s is not owned by user %s", domain.ErrPermissionDenied, rentalID, actor.UserID)
	}
	if rental.Status != domain.RentalStatusPendingApproval {
		return nil, fmt.Errorf("%w: rental %s is %s, only PENDING_APPROVAL rentals can be cancelled", domain.ErrInvalidState, rentalID, rental.Status)
	}

	if err := rental.TransitionTo(domain.RentalStatusCancelled); err != nil {
		return nil, err
	}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	logger.Info("Rental cancelled", "rental_id", rentalID, "user_id", actor.UserID)
	return rental, nil
}

func (s *rentalService) Get(ctx context.Context, actor domain.Principal, rentalID string) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(actor, rental.UserID); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) ListByUser(ctx context.Context, actor domain.Principal, userID string) ([]domain.Rental, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	return s.rentalRepo.ListByUser(ctx, userID)
}

func (s *rentalService) ListPending(ctx context.Context, actor domain.Principal) ([]domain.Rental, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.rentalRepo.ListByStatus(ctx, domain.RentalStatusPendingApproval)
}

func (s *rentalService) ListAll(ctx context.Context, actor domain.Principal) ([]domain.Rental, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.rentalRepo.List(ctx)
}

// requireAdmin gates admin-only operations.
func requireAdmin(actor domain.Principal) error {
	if actor.IsZero() {
		return fmt.Errorf("%w: operation requires a logged-in user", domain.ErrNotAuthenticated)
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: operation requires the ADMIN role", domain.ErrPermissionDenied)
	}
	return nil
}

// requireSelfOrAdmin gates owner-scoped reads: the owner may read
// their own records, admins may read anyone's.
func requireSelfOrAdmin(actor domain.Principal, ownerID string) error {
	if actor.IsZero() {
		return fmt.Errorf("%w: operation requires a logged-in user", domain.ErrNotAuthenticated)
	}
	if actor.UserID != ownerID && !actor.IsAdmin() {
		return fmt.Errorf("%w: records of user %s are not readable by user %s", domain.ErrPermissionDenied, ownerID, actor.UserID)
	}
	return nil
}
