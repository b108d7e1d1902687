// Package memory provides the in-memory backing store. It is the
// default store and keeps no state across restarts. Every repository
// guards its collection with a mutex and hands out copies, never
// aliases into the store.
package memory

import (
	"cloudrental-backend/internal/repository"
)

type Store struct {
	repository.UserRepository
	repository.ResourceRepository
	repository.RentalRepository
	repository.BillRepository
}

func NewStore() *Store {
	return &Store{
		UserRepository:     NewUserRepository(),
		ResourceRepository: NewResourceRepository(),
		RentalRepository:   NewRentalRepository(),
		BillRepository:     NewBillRepository(),
	}
}
