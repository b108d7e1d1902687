package repository

import (
	"context"

	"cloudrental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// AdjustBalance applies a signed delta atomically and returns the
	// resulting balance.
	AdjustBalance(ctx context.Context, id string, deltaCents int64) (int64, error)
	List(ctx context.Context) ([]domain.User, error)
}

type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	Update(ctx context.Context, resource *domain.Resource) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Resource, error)
	ListByType(ctx context.Context, t domain.ResourceType) ([]domain.Resource, error)

	// Claim atomically flips the resource from IDLE to IN_USE. It
	// returns domain.ErrResourceUnavailable if the resource is not
	// IDLE, which is what keeps a resource bound to at most one
	// approved rental under concurrent approval attempts.
	Claim(ctx context.Context, id string) error
	// Release flips the resource back to IDLE.
	Release(ctx context.Context, id string) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListByUser(ctx context.Context, userID string) ([]domain.Rental, error)
	ListByResource(ctx context.Context, resourceID string) ([]domain.Rental, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	List(ctx context.Context) ([]domain.Rental, error)
}

type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, id string) (*domain.Bill, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Bill, error)
	List(ctx context.Context) ([]domain.Bill, error)
}
