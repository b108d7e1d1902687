package memory

import (
	"context"
	"fmt"
	"sync"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository"
)

type resourceRepository struct {
	mu        sync.RWMutex
	resources map[string]*domain.Resource
	order     []string
}

func NewResourceRepository() repository.ResourceRepository {
	return &resourceRepository{
		resources: make(map[string]*domain.Resource),
	}
}

func copyResource(res *domain.Resource) *domain.Resource {
	cp := *res
	if res.Specs != nil {
		cp.Specs = make(map[string]string, len(res.Specs))
		for k, v := range res.Specs {
			cp.Specs[k] = v
		}
	}
	return &cp
}

func (r *resourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[resource.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateResource, resource.ID)
	}
	r.resources[resource.ID] = copyResource(resource)
	r.order = append(r.order, resource.ID)
	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[id]
	if !ok {
		return nil, fmt.Errorf("%w: resource %s", domain.ErrNotFound, id)
	}
	return copyResource(res), nil
}

func (r *resourceRepository) Update(ctx context.Context, resource *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[resource.ID]; !ok {
		return fmt.Errorf("%w: resource %s", domain.ErrNotFound, resource.ID)
	}
	r.resources[resource.ID] = copyResource(resource)
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resources[id]; !ok {
		return fmt.Errorf("%w: resource %s", domain.ErrNotFound, id)
	}
	delete(r.resources, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *resourceRepository) List(ctx context.Context) ([]domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resources := make([]domain.Resource, 0, len(r.order))
	for _, id := range r.order {
		resources = append(resources, *copyResource(r.resources[id]))
	}
	return resources, nil
}

func (r *resourceRepository) ListByType(ctx context.Context, t domain.ResourceType) ([]domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var resources []domain.Resource
	for _, id := range r.order {
		if r.resources[id].Type == t {
			resources = append(resources, *copyResource(r.resources[id]))
		}
	}
	return resources, nil
}

func (r *resourceRepository) Claim(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[id]
	if !ok {
		return fmt.Errorf("%w: resource %s", domain.ErrNotFound, id)
	}
	if res.Status != domain.ResourceStatusIdle {
		return fmt.Errorf("%w: resource %s is %s", domain.ErrResourceUnavailable, id, res.Status)
	}
	res.Status = domain.ResourceStatusInUse
	return nil
}

func (r *resourceRepository) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[id]
	if !ok {
		return fmt.Errorf("%w: resource %s", domain.ErrNotFound, id)
	}
	res.Status = domain.ResourceStatusIdle
	return nil
}
