package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudrental-backend/internal/domain"
)

func TestAddResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin01", domain.UserRoleAdmin, 0)

	res, err := env.catalog.AddResource(ctx, principalOf(admin), domain.ResourceTypeAccelerator, "gpu-1",
		map[string]string{"vram": "24GB"}, 2500)
	require.NoError(t, err)

	assert.Equal(t, domain.ResourceTypeAccelerator, res.Type)
	assert.Equal(t, domain.ResourceStatusIdle, res.Status)
	assert.Equal(t, int64(2500), res.PricePerHourCents)
	assert.Equal(t, testBaseTime, res.CreatedOn)
	assert.NotEmpty(t, res.ID)
}

func TestAddResourceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin01", domain.UserRoleAdmin, 0)
	user := env.seedUser(t, "alice", domain.UserRoleStudent, 0)

	_, err := env.catalog.AddResource(ctx, principalOf(user), domain.ResourceTypeCompute, "x", nil, 100)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = env.catalog.AddResource(ctx, principalOf(admin), domain.ResourceType("MAINFRAME"), "x", nil, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = env.catalog.AddResource(ctx, principalOf(admin), domain.ResourceTypeCompute, "", nil, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = env.catalog.AddResource(ctx, principalOf(admin), domain.ResourceTypeCompute, "x", nil, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	// A free tier resource is allowed.
	_, err = env.catalog.AddResource(ctx, principalOf(admin), domain.ResourceTypeCompute, "sandbox", nil, 0)
	assert.NoError(t, err)
}

func TestModifyResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin01", domain.UserRoleAdmin, 0)
	res := env.seedResource(t, "compute-1", 1000)

	updated, err := env.catalog.ModifyResource(ctx, principalOf(admin), res.ID, "compute-1-renamed",
		map[string]string{"cores": "16"}, 1500)
	require.NoError(t, err)
	assert.Equal(t, "compute-1-renamed", updated.Name)
	assert.Equal(t, int64(1500), updated.PricePerHourCents)
	assert.Equal(t, "16", updated.Specs["cores"])

	_, err = env.catalog.ModifyResource(ctx, principalOf(admin), "res_missing", "x", nil, 100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin01", domain.UserRoleAdmin, 0)
	res := env.seedResource(t, "compute-1", 1000)

	require.NoError(t, env.catalog.DeleteResource(ctx, principalOf(admin), res.ID))

	_, err := env.store.ResourceRepository.GetByID(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = env.catalog.DeleteResource(ctx, principalOf(admin), res.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// A resource referenced by a live rental must not be deleted; once the
// rental reaches a terminal state the deletion goes through.
func TestDeleteResourceReferencedByRental(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin01", domain.UserRoleAdmin, 0)
	user := env.seedUser(t, "alice", domain.UserRoleStudent, 5000)
	res := env.seedResource(t, "compute-1", 1000)

	rental, err := env.rental.SubmitRequest(ctx, principalOf(user), res.ID, 2)
	require.NoError(t, err)

	err = env.catalog.DeleteResource(ctx, principalOf(admin), res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = env.rental.Approve(ctx, principalOf(admin), rental.ID)
	require.NoError(t, err)
	err = env.catalog.DeleteResource(ctx, principalOf(admin), res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	env.clk.Advance(2 * time.Hour)
	_, err = env.billing.CompleteRental(ctx, rental.ID)
	require.NoError(t, err)

	assert.NoError(t, env.catalog.DeleteResource(ctx, principalOf(admin), res.ID))
}

func TestCatalogReads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin01", domain.UserRoleAdmin, 0)

	_, err := env.catalog.AddResource(ctx, principalOf(admin), domain.ResourceTypeCompute, "compute-1", nil, 1000)
	require.NoError(t, err)
	gpu, err := env.catalog.AddResource(ctx, principalOf(admin), domain.ResourceTypeAccelerator, "gpu-1", nil, 2500)
	require.NoError(t, err)

	// Reads are open, no principal needed.
	all, err := env.catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	accelerators, err := env.catalog.ListByType(ctx, domain.ResourceTypeAccelerator)
	require.NoError(t, err)
	require.Len(t, accelerators, 1)
	assert.Equal(t, gpu.ID, accelerators[0].ID)

	_, err = env.catalog.ListByType(ctx, domain.ResourceType("MAINFRAME"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	got, err := env.catalog.Get(ctx, gpu.ID)
	require.NoError(t, err)
	assert.Equal(t, "gpu-1", got.Name)
}
