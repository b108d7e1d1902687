// Package postgres provides the persistent backing store. The
// lifecycle logic depends only on the repository interfaces, so this
// store swaps in for the in-memory one without touching the services.
package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"cloudrental-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ResourceRepository
	repository.RentalRepository
	repository.BillRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		UserRepository:     NewUserRepository(db),
		ResourceRepository: NewResourceRepository(db),
		RentalRepository:   NewRentalRepository(db),
		BillRepository:     NewBillRepository(db),
	}
}
