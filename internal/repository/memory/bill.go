package memory

import (
	"context"
	"fmt"
	"sync"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository"
)

type billRepository struct {
	mu    sync.RWMutex
	bills map[string]*domain.Bill
	order []string
}

func NewBillRepository() repository.BillRepository {
	return &billRepository{
		bills: make(map[string]*domain.Bill),
	}
}

func (r *billRepository) Create(ctx context.Context, bill *domain.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bills[bill.ID]; ok {
		return fmt.Errorf("%w: bill %s already exists", domain.ErrInvalidArgument, bill.ID)
	}
	cp := *bill
	r.bills[bill.ID] = &cp
	r.order = append(r.order, bill.ID)
	return nil
}

func (r *billRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bills[id]
	if !ok {
		return nil, fmt.Errorf("%w: bill %s", domain.ErrNotFound, id)
	}
	cp := *b
	return &cp, nil
}

func (r *billRepository) ListByUser(ctx context.Context, userID string) ([]domain.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bills []domain.Bill
	for _, id := range r.order {
		if r.bills[id].UserID == userID {
			bills = append(bills, *r.bills[id])
		}
	}
	return bills, nil
}

func (r *billRepository) List(ctx context.Context) ([]domain.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bills := make([]domain.Bill, 0, len(r.order))
	for _, id := range r.order {
		bills = append(bills, *r.bills[id])
	}
	return bills, nil
}
