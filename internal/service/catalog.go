package service

import (
	"context"
	"fmt"

	"cloudrental-backend/internal/clock"
	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/identity"
	"cloudrental-backend/internal/logger"
	"cloudrental-backend/internal/repository"
)

type catalogService struct {
	resourceRepo repository.ResourceRepository
	rentalRepo   repository.RentalRepository
	ids          identity.Generator
	clk          clock.Clock
}

func NewCatalogService(
	resourceRepo repository.ResourceRepository,
	rentalRepo repository.RentalRepository,
	ids identity.Generator,
	clk clock.Clock,
) CatalogService {
	return &catalogService{
		resourceRepo: resourceRepo,
		rentalRepo:   rentalRepo,
		ids:          ids,
		clk:          clk,
	}
}

func validResourceType(t domain.ResourceType) bool {
	switch t {
	case domain.ResourceTypeCompute, domain.ResourceTypeAccelerator, domain.ResourceTypeStorage:
		return true
	}
	return false
}

func (s *catalogService) AddResource(ctx context.Context, actor domain.Principal, resourceType domain.ResourceType, name string, specs map[string]string, pricePerHourCents int64) (*domain.Resource, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !validResourceType(resourceType) {
		return nil, fmt.Errorf("%w: unknown resource type %q", domain.ErrInvalidArgument, resourceType)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: resource name must not be empty", domain.ErrInvalidArgument)
	}
	if pricePerHourCents < 0 {
		return nil, fmt.Errorf("%w: hourly price must not be negative, got %d", domain.ErrInvalidArgument, pricePerHourCents)
	}

	resource := &domain.Resource{
		ID:                s.ids.NewID(identity.PrefixResource),
		Type:              resourceType,
		Name:              name,
		Specs:             specs,
		PricePerHourCents: pricePerHourCents,
		Status:            domain.ResourceStatusIdle,
		CreatedOn:         s.clk.Now(),
	}
	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, err
	}

	logger.Info("Resource added", "resource_id", resource.ID, "type", resourceType, "name", name, "price_per_hour_cents", pricePerHourCents)
	return resource, nil
}

func (s *catalogService) ModifyResource(ctx context.Context, actor domain.Principal, resourceID, name string, specs map[string]string, pricePerHourCents int64) (*domain.Resource, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if pricePerHourCents < 0 {
		return nil, fmt.Errorf("%w: hourly price must not be negative, got %d", domain.ErrInvalidArgument, pricePerHourCents)
	}

	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	resource.Name = name
	resource.Specs = specs
	resource.PricePerHourCents = pricePerHourCents
	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, err
	}

	logger.Info("Resource modified", "resource_id", resourceID, "admin_id", actor.UserID)
	return resource, nil
}

// DeleteResource removes a resource from the catalog. A resource
// referenced by a rental in PENDING_APPROVAL, APPROVED or ACTIVE state
// must not be deleted.
func (s *catalogService) DeleteResource(ctx context.Context, actor domain.Principal, resourceID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if _, err := s.resourceRepo.GetByID(ctx, resourceID); err != nil {
		return err
	}

	rentals, err := s.rentalRepo.ListByResource(ctx, resourceID)
	if err != nil {
		return err
	}
	for _, rental := range rentals {
		switch rental.Status {
		case domain.RentalStatusPendingApproval, domain.RentalStatusApproved, domain.RentalStatusActive:
			return fmt.Errorf("%w: resource %s is referenced by rental %s in %s state", domain.ErrInvalidState, resourceID, rental.ID, rental.Status)
		}
	}

	if err := s.resourceRepo.Delete(ctx, resourceID); err != nil {
		return err
	}
	logger.Info("Resource deleted", "resource_id", resourceID, "admin_id", actor.UserID)
	return nil
}

func (s *catalogService) Get(ctx context.Context, resourceID string) (*domain.Resource, error) {
	return s.resourceRepo.GetByID(ctx, resourceID)
}

func (s *catalogService) List(ctx context.Context) ([]domain.Resource, error) {
	return s.resourceRepo.List(ctx)
}

func (s *catalogService) ListByType(ctx context.Context, resourceType domain.ResourceType) ([]domain.Resource, error) {
	if !validResourceType(resourceType) {
		return nil, fmt.Errorf("%w: unknown resource type %q", domain.ErrInvalidArgument, resourceType)
	}
	return s.resourceRepo.ListByType(ctx, resourceType)
}
