// Package identity mints entity identifiers. IDs carry an entity-type
// prefix for readability and a random token for uniqueness; deriving
// ids from collection size would collide after deletions.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

type Generator interface {
	NewID(prefix string) string
}

type uuidGenerator struct{}

// NewGenerator returns the production generator backed by random
// UUIDs.
func NewGenerator() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// Entity-type prefixes used across the system.
const (
	PrefixUser     = "user"
	PrefixResource = "res"
	PrefixRental   = "rental"
	PrefixBill     = "bill"
)
