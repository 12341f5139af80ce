package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louagetn/station-client/internal/core/domain"
)

func TestStaffRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStaffRepository()

	created, err := repo.Create(ctx, &domain.StaffAccount{
		Identity: domain.Identity{CIN: "12345678", FirstName: "Ahmed", LastName: "Ben Ali", Role: domain.RoleWorker},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, &domain.StaffAccount{Identity: domain.Identity{CIN: "12345678"}})
	assert.ErrorIs(t, err, domain.ErrStaffExists)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678", byID.CIN)

	byID.PhoneNumber = "+21620000000"
	require.NoError(t, repo.Update(ctx, byID))
	byCIN, err := repo.FindByCIN(ctx, "12345678")
	require.NoError(t, err)
	assert.Equal(t, "+21620000000", byCIN.PhoneNumber)

	_, err = repo.FindByCIN(ctx, "00000000")
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.StaffAccount{Identity: domain.Identity{CIN: "00000000"}}), domain.ErrStaffNotFound)
}
