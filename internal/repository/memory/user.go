package memory

import (
	"context"
	"fmt"
	"sync"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	order []string
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{
		users: make(map[string]*domain.User),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("%w: user %s", domain.ErrDuplicateUsername, user.ID)
	}
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateUsername, user.Username)
		}
	}

	cp := *user
	r.users[user.ID] = &cp
	r.order = append(r.order, user.ID)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	cp := *u
	return &cp, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, user.ID)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *userRepository) AdjustBalance(ctx context.Context, id string, deltaCents int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return 0, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	u.BalanceCents += deltaCents
	return u.BalanceCents, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, *r.users[id])
	}
	return users, nil
}
