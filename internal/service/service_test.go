package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cloudrental-backend/internal/clock"
	"cloudrental-backend/internal/domain"
	"cloudrental-backend/internal/repository/memory"
	"cloudrental-backend/internal/security"
)

// seqGenerator mints predictable IDs so tests can assert on them.
type seqGenerator struct {
	n atomic.Int64
}

func (g *seqGenerator) NewID(prefix string) string {
	return fmt.Sprintf("%s_%04d", prefix, g.n.Add(1))
}

var testBaseTime = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *memory.Store
	clk       *clock.Fixed
	ids       *seqGenerator
	auth      AuthService
	rental    RentalService
	billing   BillingService
	catalog   CatalogService
	directory DirectoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	clk := clock.NewFixed(testBaseTime)
	ids := &seqGenerator{}
	tokens := security.NewTokenManager("test-secret-test-secret-test-secret!", time.Hour)

	return &testEnv{
		store:     store,
		clk:       clk,
		ids:       ids,
		auth:      NewAuthService(store.UserRepository, tokens, ids),
		rental:    NewRentalService(store.RentalRepository, store.ResourceRepository, store.UserRepository, ids, clk),
		billing:   NewBillingService(store.BillRepository, store.RentalRepository, store.ResourceRepository, store.UserRepository, ids, clk),
		catalog:   NewCatalogService(store.ResourceRepository, store.RentalRepository, ids, clk),
		directory: NewDirectoryService(store.UserRepository, ids),
	}
}

// seedUser creates a user directly in the store, bypassing auth. The
// password hash is a placeholder; use env.auth.Register when the test
// needs a real credential.
func (env *testEnv) seedUser(t *testing.T, username string, role domain.UserRole, balanceCents int64) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           env.ids.NewID("user"),
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		BalanceCents: balanceCents,
		Status:       domain.UserStatusActive,
		Name:         username,
	}
	require.NoError(t, env.store.UserRepository.Create(context.Background(), user))
	return user
}

func (env *testEnv) seedResource(t *testing.T, name string, pricePerHourCents int64) *domain.Resource {
	t.Helper()

	res := &domain.Resource{
		ID:                env.ids.NewID("res"),
		Type:              domain.ResourceTypeCompute,
		Name:              name,
		Specs:             map[string]string{"cores": "4"},
		PricePerHourCents: pricePerHourCents,
		Status:            domain.ResourceStatusIdle,
		CreatedOn:         env.clk.Now(),
	}
	require.NoError(t, env.store.ResourceRepository.Create(context.Background(), res))
	return res
}

// seedApprovedRental places a rental directly into APPROVED with the
// resource claimed, as if it had gone through submit and approval.
func (env *testEnv) seedApprovedRental(t *testing.T, userID, resourceID string, window time.Duration) *domain.Rental {
	t.Helper()

	ctx := context.Background()
	now := env.clk.Now()
	rental := &domain.Rental{
		ID:          env.ids.NewID("rental"),
		UserID:      userID,
		ResourceID:  resourceID,
		StartTime:   now,
		EndTime:     now.Add(window),
		RequestTime: now,
		Status:      domain.RentalStatusApproved,
	}
	require.NoError(t, env.store.RentalRepository.Create(ctx, rental))
	require.NoError(t, env.store.ResourceRepository.Claim(ctx, resourceID))
	return rental
}

func principalOf(user *domain.User) domain.Principal {
	return domain.Principal{UserID: user.ID, Role: user.Role}
}
