package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository"
)

type resourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) repository.ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	specs, err := json.Marshal(res.Specs)
	if err != nil {
		return err
	}
	query := `INSERT INTO resources (id, type, name, specs, price_per_hour_cents, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query, res.ID, res.Type, res.Name, specs, res.PricePerHourCents, res.Status, res.CreatedOn)
	return err
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	res := &domain.Resource{}
	var specs []byte
	query := `SELECT id, type, name, specs, price_per_hour_cents, status, created_on FROM resources WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&res.ID, &res.Type, &res.Name, &specs, &res.PricePerHourCents, &res.Status, &res.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: resource %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(specs, &res.Specs); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *resourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	specs, err := json.Marshal(res.Specs)
	if err != nil {
		return err
	}
	query := `UPDATE resources SET type=$1, name=$2, specs=$3, price_per_hour_cents=$4, status=$5 WHERE id=$6`
	result, err := r.db.ExecContext(ctx, query, res.Type, res.Name, specs, res.PricePerHourCents, res.Status, res.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: resource %s", domain.ErrNotFound, res.ID)
	}
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: resource %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *resourceRepository) List(ctx context.Context) ([]domain.Resource, error) {
	return r.listWhere(ctx, `SELECT id, type, name, specs, price_per_hour_cents, status, created_on FROM resources ORDER BY id`)
}

func (r *resourceRepository) ListByType(ctx context.Context, t domain.ResourceType) ([]domain.Resource, error) {
	return r.listWhere(ctx, `SELECT id, type, name, specs, price_per_hour_cents, status, created_on FROM resources WHERE type = $1 ORDER BY id`, t)
}

func (r *resourceRepository) listWhere(ctx context.Context, query string, args ...interface{}) ([]domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		var res domain.Resource
		var specs []byte
		if err := rows.Scan(&res.ID, &res.Type, &res.Name, &specs, &res.PricePerHourCents, &res.Status, &res.CreatedOn); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(specs, &res.Specs); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

// Claim is the availability gate: the WHERE clause only matches an
// IDLE row, so of two concurrent approvals exactly one sees
// RowsAffected == 1.
func (r *resourceRepository) Claim(ctx context.Context, id string) error {
	query := `UPDATE resources SET status = $1 WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, domain.ResourceStatusInUse, id, domain.ResourceStatusIdle)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a missing resource from a busy one.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: resource %s is %s", domain.ErrResourceUnavailable, id, domain.ResourceStatusInUse)
	}
	return nil
}

func (r *resourceRepository) Release(ctx context.Context, id string) error {
	query := `UPDATE resources SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, domain.ResourceStatusIdle, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: resource %s", domain.ErrNotFound, id)
	}
	return nil
}
