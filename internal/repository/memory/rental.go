package memory

import (
	"context"
	"fmt"
	"sync"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository"
)

type rentalRepository struct {
	mu      sync.RWMutex
	rentals map[string]*domain.Rental
	order   []string
}

func NewRentalRepository() repository.RentalRepository {
	return &rentalRepository{
		rentals: make(map[string]*domain.Rental),
	}
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rentals[rental.ID]; ok {
		return fmt.Errorf("%w: rental %s already exists", domain.ErrInvalidArgument, rental.ID)
	}
	cp := *rental
	r.rentals[rental.ID] = &cp
	r.order = append(r.order, rental.ID)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.rentals[id]
	if !ok {
		return nil, fmt.Errorf("%w: rental %s", domain.ErrNotFound, id)
	}
	cp := *rt
	return &cp, nil
}

func (r *rentalRepository) Update(ctx context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rentals[rental.ID]; !ok {
		return fmt.Errorf("%w: rental %s", domain.ErrNotFound, rental.ID)
	}
	cp := *rental
	r.rentals[rental.ID] = &cp
	return nil
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID string) ([]domain.Rental, error) {
	return r.listWhere(func(rt *domain.Rental) bool { return rt.UserID == userID })
}

func (r *rentalRepository) ListByResource(ctx context.Context, resourceID string) ([]domain.Rental, error) {
	return r.listWhere(func(rt *domain.Rental) bool { return rt.ResourceID == resourceID })
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	return r.listWhere(func(rt *domain.Rental) bool { return rt.Status == status })
}

func (r *rentalRepository) List(ctx context.Context) ([]domain.Rental, error) {
	return r.listWhere(func(*domain.Rental) bool { return true })
}

func (r *rentalRepository) listWhere(match func(*domain.Rental) bool) ([]domain.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rentals []domain.Rental
	for _, id := range r.order {
		if match(r.rentals[id]) {
			rentals = append(rentals, *r.rentals[id])
		}
	}
	return rentals, nil
}
