package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, user_id, resource_id, start_time, end_time, request_time, status, total_cost_cents`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (` + rentalColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, rt.ID, rt.UserID, rt.ResourceID, rt.StartTime, rt.EndTime, rt.RequestTime, rt.Status, rt.TotalCostCents)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	rt := &domain.Rental{}
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rt.ID, &rt.UserID, &rt.ResourceID, &rt.StartTime, &rt.EndTime, &rt.RequestTime, &rt.Status, &rt.TotalCostCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rental %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET start_time=$1, end_time=$2, status=$3, total_cost_cents=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, rt.StartTime, rt.EndTime, rt.Status, rt.TotalCostCents, rt.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: rental %s", domain.ErrNotFound, rt.ID)
	}
	return nil
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID string) ([]domain.Rental, error) {
	return r.listWhere(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE user_id = $1 ORDER BY request_time`, userID)
}

func (r *rentalRepository) ListByResource(ctx context.Context, resourceID string) ([]domain.Rental, error) {
	return r.listWhere(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE resource_id = $1 ORDER BY request_time`, resourceID)
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	return r.listWhere(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE status = $1 ORDER BY request_time`, status)
}

func (r *rentalRepository) List(ctx context.Context) ([]domain.Rental, error) {
	return r.listWhere(ctx, `SELECT `+rentalColumns+` FROM rentals ORDER BY request_time`)
}

func (r *rentalRepository) listWhere(ctx context.Context, query string, args ...interface{}) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.ResourceID, &rt.StartTime, &rt.EndTime, &rt.RequestTime, &rt.Status, &rt.TotalCostCents); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
