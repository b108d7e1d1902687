package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudrental-backend/internal/domain"
)

func TestBillableHours(t *testing.T) {
	start := testBaseTime
	tests := []struct {
		name   string
		window time.Duration
		want   int64
	}{
		{"two hours", 2 * time.Hour, 2},
		{"exactly one hour", time.Hour, 1},
		{"thirty minutes clamps to one", 30 * time.Minute, 1},
		{"ninety minutes truncates to one", 90 * time.Minute, 1},
		{"just under three hours", 3*time.Hour - time.Second, 2},
		{"fifteen days", 360 * time.Hour, 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billableHours(start, start.Add(tt.window)))
		})
	}
}

// Full settlement: a 2 hour rental at 1000 cents/hour debits 2000,
// completes the rental, frees the resource and issues a paid bill.
func TestCompleteRental(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin01", domain.UserRoleAdmin, 0)
	user := env.seedUser(t, "alice", domain.UserRoleStudent, 5000)
	res := env.seedResource(t, "compute-1", 1000)

	rental, err := env.rental.SubmitRequest(ctx, principalOf(user), res.ID, 2)
	require.NoError(t, err)
	_, err = env.rental.Approve(ctx, principalOf(admin), rental.ID)
	require.NoError(t, err)

	env.clk.Advance(2 * time.Hour)
	bill, err := env.billing.CompleteRental(ctx, rental.ID)
	require.NoError(t, err)

	assert.Equal(t, rental.ID, bill.RentalID)
	assert.Equal(t, user.ID, bill.UserID)
	assert.Equal(t, int64(2000), bill.AmountCents)
	assert.True(t, bill.Paid)
	assert.Equal(t, testBaseTime.Add(2*time.Hour), bill.IssuedAt)

	storedUser, err := env.store.UserRepository.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), storedUser.BalanceCents)

	storedRental, err := env.store.RentalRepository.GetByID(ctx, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCompleted, storedRental.Status)
	assert.Equal(t, int64(2000), storedRental.TotalCostCents)

	storedRes, err := env.store.ResourceRepository.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceStatusIdle, storedRes.Status)

	bills, err := env.store.BillRepository.List(ctx)
	require.NoError(t, err)
	assert.Len(t, bills, 1, "settlement issues exactly one bill")
}

// Settlement debits unconditionally: a 2500 cent bill against a 1500
// cent balance leaves the account at -1000, still marked paid.
func TestCompleteRentalDrivesBalanceNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "bob", domain.UserRoleTeacher, 1500)
	res := env.seedResource(t, "gpu-1", 2500)
	rental := env.seedApprovedRental(t, user.ID, res.ID, time.Hour)

	bill, err := env.billing.CompleteRental(ctx, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), bill.AmountCents)
	assert.True(t, bill.Paid)

	storedUser, err := env.store.UserRepository.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), storedUser.BalanceCents)

	// The negative balance now blocks new requests.
	_, err = env.rental.SubmitRequest(ctx, principalOf(user), res.ID, 1)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

// A rental window under one hour bills as a full hour.
func TestCompleteRentalMinimumOneHour(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice", domain.UserRoleStudent, 5000)
	res := env.seedResource(t, "compute-1", 1000)
	rental := env.seedApprovedRental(t, user.ID, res.ID, 30*time.Minute)

	bill, err := env.billing.CompleteRental(ctx, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bill.AmountCents)
}

func TestCompleteRentalInvalidStates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice", domain.UserRoleStudent, 5000)
	res := env.seedResource(t, "compute-1", 1000)

	rental, err := env.rental.SubmitRequest(ctx, principalOf(user), res.ID, 2)
	require.NoError(t, err)

	// Pending rentals cannot be settled.
	_, err = env.billing.CompleteRental(ctx, rental.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = env.billing.CompleteRental(ctx, "rental_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteRentalTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice", domain.UserRoleStudent, 5000)
	res := env.seedResource(t, "compute-1", 1000)
	rental := env.seedApprovedRental(t, user.ID, res.ID, 2*time.Hour)

	_, err := env.billing.CompleteRental(ctx, rental.ID)
	require.NoError(t, err)

	_, err = env.billing.CompleteRental(ctx, rental.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Only the first settlement debited and billed.
	storedUser, err := env.store.UserRepository.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), storedUser.BalanceCents)

	bills, err := env.store.BillRepository.List(ctx)
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

// A dangling resource reference fails the settlement before anything
// is mutated.
func TestCompleteRentalDanglingResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice", domain.UserRoleStudent, 5000)
	res := env.seedResource(t, "compute-1", 1000)
	rental := env.seedApprovedRental(t, user.ID, res.ID, 2*time.Hour)

	require.NoError(t, env.store.ResourceRepository.Delete(ctx, res.ID))

	_, err := env.billing.CompleteRental(ctx, rental.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	storedRental, err := env.store.RentalRepository.GetByID(ctx, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusApproved, storedRental.Status)

	storedUser, err := env.store.UserRepository.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), storedUser.BalanceCents)
}

func TestBillReads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin01", domain.UserRoleAdmin, 0)
	alice := env.seedUser(t, "alice", domain.UserRoleStudent, 5000)
	bob := env.seedUser(t, "bob", domain.UserRoleTeacher, 5000)
	res := env.seedResource(t, "compute-1", 1000)
	rental := env.seedApprovedRental(t, alice.ID, res.ID, time.Hour)

	_, err := env.billing.CompleteRental(ctx, rental.ID)
	require.NoError(t, err)

	mine, err := env.billing.ListByUser(ctx, principalOf(alice), alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = env.billing.ListByUser(ctx, principalOf(bob), alice.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	all, err := env.billing.ListAll(ctx, principalOf(admin))
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = env.billing.ListAll(ctx, principalOf(alice))
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}
