package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository"
)

type billRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) repository.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, b *domain.Bill) error {
	query := `INSERT INTO bills (id, rental_id, user_id, amount_cents, issued_at, paid)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.RentalID, b.UserID, b.AmountCents, b.IssuedAt, b.Paid)
	return err
}

func (r *billRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	b := &domain.Bill{}
	query := `SELECT id, rental_id, user_id, amount_cents, issued_at, paid FROM bills WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.RentalID, &b.UserID, &b.AmountCents, &b.IssuedAt, &b.Paid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: bill %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *billRepository) ListByUser(ctx context.Context, userID string) ([]domain.Bill, error) {
	return r.listWhere(ctx, `SELECT id, rental_id, user_id, amount_cents, issued_at, paid FROM bills WHERE user_id = $1 ORDER BY issued_at`, userID)
}

func (r *billRepository) List(ctx context.Context) ([]domain.Bill, error) {
	return r.listWhere(ctx, `SELECT id, rental_id, user_id, amount_cents, issued_at, paid FROM bills ORDER BY issued_at`)
}

func (r *billRepository) listWhere(ctx context.Context, query string, args ...interface{}) ([]domain.Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []domain.Bill
	for rows.Next() {
		var b domain.Bill
		if err := rows.Scan(&b.ID, &b.RentalID, &b.UserID, &b.AmountCents, &b.IssuedAt, &b.Paid); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}
