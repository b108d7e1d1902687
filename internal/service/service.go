package service

import (
	"context"

	"cloudrental-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string, role domain.UserRole, name string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

type RentalService interface {
	SubmitRequest(ctx context.Context, actor domain.Principal, resourceID string, durationHours int) (*domain.Rental, error)
	Approve(ctx context.Context, actor domain.Principal, rentalID string) (*domain.Rental, error)
	Reject(ctx context.Context, actor domain.Principal, rentalID string, reason string) (*domain.Rental, error)
	Cancel(ctx context.Context, actor domain.Principal, rentalID string) (*domain.Rental, error)
	Get(ctx context.Context, actor domain.Principal, rentalID string) (*domain.Rental, error)
	ListByUser(ctx context.Context, actor domain.Principal, userID string) ([]domain.Rental, error)
	ListPending(ctx context.Context, actor domain.Principal) ([]domain.Rental, error)
	ListAll(ctx context.Context, actor domain.Principal) ([]domain.Rental, error)
}

type BillingService interface {
	// CompleteRental settles an APPROVED or ACTIVE rental: cost is
	// computed from the rental window and the resource's hourly rate,
	// the balance is debited, the resource is released, and a paid
	// bill is returned. Any caller may trigger completion.
	CompleteRental(ctx context.Context, rentalID string) (*domain.Bill, error)
	ListByUser(ctx context.Context, actor domain.Principal, userID string) ([]domain.Bill, error)
	ListAll(ctx context.Context, actor domain.Principal) ([]domain.Bill, error)
}

type CatalogService interface {
	AddResource(ctx context.Context, actor domain.Principal, resourceType domain.ResourceType, name string, specs map[string]string, pricePerHourCents int64) (*domain.Resource, error)
	ModifyResource(ctx context.Context, actor domain.Principal, resourceID, name string, specs map[string]string, pricePerHourCents int64) (*domain.Resource, error)
	DeleteResource(ctx context.Context, actor domain.Principal, resourceID string) error
	Get(ctx context.Context, resourceID string) (*domain.Resource, error)
	List(ctx context.Context) ([]domain.Resource, error)
	ListByType(ctx context.Context, resourceType domain.ResourceType) ([]domain.Resource, error)
}

type DirectoryService interface {
	AddUser(ctx context.Context, actor domain.Principal, username, password string, role domain.UserRole, name string) (*domain.User, error)
	ModifyUser(ctx context.Context, actor domain.Principal, username, name string, role domain.UserRole, status domain.UserStatus, balanceCents int64) (*domain.User, error)
	SetUserStatus(ctx context.Context, actor domain.Principal, username string, status domain.UserStatus) error
	ListUsers(ctx context.Context, actor domain.Principal) ([]domain.User, error)
	GetProfile(ctx context.Context, actor domain.Principal) (*domain.User, error)
	UpdateName(ctx context.Context, actor domain.Principal, name string) error
	UpdatePassword(ctx context.Context, actor domain.Principal, password string) error
}
