package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, username, password_hash, role, balance_cents, status, name)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.Role, u.BalanceCents, u.Status, u.Name)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, username, password_hash, role, balance_cents, status, name FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.BalanceCents, &u.Status, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, username, password_hash, role, balance_cents, status, name FROM users WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.BalanceCents, &u.Status, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET username=$1, password_hash=$2, role=$3, balance_cents=$4, status=$5, name=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, u.Username, u.PasswordHash, u.Role, u.BalanceCents, u.Status, u.Name, u.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, u.ID)
	}
	return nil
}

func (r *userRepository) AdjustBalance(ctx context.Context, id string, deltaCents int64) (int64, error) {
	var balance int64
	query := `UPDATE users SET balance_cents = balance_cents + $1 WHERE id = $2 RETURNING balance_cents`
	err := r.db.QueryRowContext(ctx, query, deltaCents, id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, username, password_hash, role, balance_cents, status, name FROM users ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.BalanceCents, &u.Status, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
