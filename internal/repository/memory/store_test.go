package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudrental-backend/internal/domain"
)

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &domain.User{ID: "user_1", Username: "alice", Role: domain.UserRoleStudent, Status: domain.UserStatusActive}
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, &domain.User{ID: "user_2", Username: "alice"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "user_1", got.ID)

	_, err = repo.GetByID(ctx, "user_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The store hands out copies; mutating a result must not leak back.
	got.BalanceCents = 9999
	fresh, err := repo.GetByID(ctx, "user_1")
	require.NoError(t, err)
	assert.Zero(t, fresh.BalanceCents)
}

func TestUserRepositoryAdjustBalance(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "user_1", Username: "alice", BalanceCents: 1500}))

	balance, err := repo.AdjustBalance(ctx, "user_1", -2500)
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), balance)

	balance, err = repo.AdjustBalance(ctx, "user_1", 3000)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), balance)

	_, err = repo.AdjustBalance(ctx, "user_missing", 100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepositoryAdjustBalanceConcurrent(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "user_1", Username: "alice"}))

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AdjustBalance(ctx, "user_1", -100)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, int64(-100*workers), got.BalanceCents)
}

func TestResourceRepositoryClaimRelease(t *testing.T) {
	repo := NewResourceRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.Resource{ID: "res_1", Status: domain.ResourceStatusIdle}))

	require.NoError(t, repo.Claim(ctx, "res_1"))

	got, err := repo.GetByID(ctx, "res_1")
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceStatusInUse, got.Status)

	err = repo.Claim(ctx, "res_1")
	assert.ErrorIs(t, err, domain.ErrResourceUnavailable)

	require.NoError(t, repo.Release(ctx, "res_1"))
	require.NoError(t, repo.Claim(ctx, "res_1"))

	assert.ErrorIs(t, repo.Claim(ctx, "res_missing"), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Release(ctx, "res_missing"), domain.ErrNotFound)
}

// Racing claims on one IDLE resource: exactly one wins.
func TestResourceRepositoryClaimConcurrent(t *testing.T) {
	repo := NewResourceRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.Resource{ID: "res_1", Status: domain.ResourceStatusIdle}))

	const workers = 50
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Claim(ctx, "res_1"); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
}

func TestResourceRepositorySpecsCopied(t *testing.T) {
	repo := NewResourceRepository()
	ctx := context.Background()
	specs := map[string]string{"cores": "8"}
	require.NoError(t, repo.Create(ctx, &domain.Resource{ID: "res_1", Specs: specs}))

	got, err := repo.GetByID(ctx, "res_1")
	require.NoError(t, err)
	got.Specs["cores"] = "tampered"

	fresh, err := repo.GetByID(ctx, "res_1")
	require.NoError(t, err)
	assert.Equal(t, "8", fresh.Specs["cores"])
}

func TestRentalRepositoryFilters(t *testing.T) {
	repo := NewRentalRepository()
	ctx := context.Background()
	now := time.Now()

	rentals := []*domain.Rental{
		{ID: "rental_1", UserID: "user_a", ResourceID: "res_1", Status: domain.RentalStatusPendingApproval, RequestTime: now},
		{ID: "rental_2", UserID: "user_a", ResourceID: "res_2", Status: domain.RentalStatusApproved, RequestTime: now},
		{ID: "rental_3", UserID: "user_b", ResourceID: "res_1", Status: domain.RentalStatusPendingApproval, RequestTime: now},
	}
	for _, r := range rentals {
		require.NoError(t, repo.Create(ctx, r))
	}

	byUser, err := repo.ListByUser(ctx, "user_a")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byResource, err := repo.ListByResource(ctx, "res_1")
	require.NoError(t, err)
	assert.Len(t, byResource, 2)

	byStatus, err := repo.ListByStatus(ctx, domain.RentalStatusApproved)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "rental_2", byStatus[0].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.ErrorIs(t, repo.Create(ctx, rentals[0]), domain.ErrInvalidArgument)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Rental{ID: "rental_missing"}), domain.ErrNotFound)
}

func TestBillRepository(t *testing.T) {
	repo := NewBillRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Bill{ID: "bill_1", UserID: "user_a", AmountCents: 2000, Paid: true}))
	require.NoError(t, repo.Create(ctx, &domain.Bill{ID: "bill_2", UserID: "user_b", AmountCents: 500, Paid: true}))

	byUser, err := repo.ListByUser(ctx, "user_a")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, int64(2000), byUser[0].AmountCents)

	got, err := repo.GetByID(ctx, "bill_2")
	require.NoError(t, err)
	assert.Equal(t, "user_b", got.UserID)

	_, err = repo.GetByID(ctx, "bill_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
