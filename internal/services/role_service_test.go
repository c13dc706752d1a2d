package services

import (
	"context"
	"testing"

	"shophub_backend/internal/models"
	"shophub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleService(roleRepo *fakeRoleRepo) RoleService {
	return NewRoleService(roleRepo, &fakeTxManager{db: newMemDB()})
}

func TestSeedRolesIsIdempotent(t *testing.T) {
	roleRepo := &fakeRoleRepo{}
	svc := newRoleService(roleRepo)

	require.NoError(t, svc.SeedRoles(context.Background()))
	assert.Len(t, roleRepo.roles, 3)

	require.NoError(t, svc.SeedRoles(context.Background()))
	assert.Len(t, roleRepo.roles, 3)

	byName := make(map[models.RoleName]models.Role)
	for _, r := range roleRepo.roles {
		byName[r.Name] = r
	}
	assert.True(t, byName[models.RoleAdminShop].IsForShop)
	assert.False(t, byName[models.RoleAdmin].IsForShop)
}

func TestAssignRoleToUser(t *testing.T) {
	roleRepo := &fakeRoleRepo{}
	svc := newRoleService(roleRepo)
	require.NoError(t, svc.SeedRoles(context.Background()))

	t.Run("shop role requires shop id", func(t *testing.T) {
		err := svc.AssignRoleToUser(context.Background(), "user-1", models.RoleAdminShop, "")
		requireAppError(t, err, apperrors.CodeValidationFailed)
	})

	t.Run("unknown role", func(t *testing.T) {
		err := svc.AssignRoleToUser(context.Background(), "user-1", models.RoleName("moderator"), "")
		requireAppError(t, err, apperrors.CodeNotFound)
	})

	t.Run("assignment is idempotent", func(t *testing.T) {
		require.NoError(t, svc.AssignRoleToUser(context.Background(), "user-1", models.RoleAdminShop, "shop-1"))
		require.NoError(t, svc.AssignRoleToUser(context.Background(), "user-1", models.RoleAdminShop, "shop-1"))
		assert.Len(t, roleRepo.assignments, 1)

		has, err := svc.CheckUserRole(context.Background(), "user-1", models.RoleAdminShop, "shop-1")
		require.NoError(t, err)
		assert.True(t, has)
	})
}

func TestAllowedFileTypes(t *testing.T) {
	roleRepo := &fakeRoleRepo{}
	svc := newRoleService(roleRepo)
	require.NoError(t, svc.SeedRoles(context.Background()))

	require.NoError(t, svc.AssignRoleToUser(context.Background(), "platform-admin", models.RoleAdmin, ""))
	require.NoError(t, svc.AssignRoleToUser(context.Background(), "shop-admin", models.RoleAdminShop, "shop-1"))

	t.Run("platform admin has full access", func(t *testing.T) {
		types, err := svc.AllowedFileTypes(context.Background(), "platform-admin", "shop-1")
		require.NoError(t, err)
		assert.Nil(t, types)
	})

	t.Run("shop admin manages media only", func(t *testing.T) {
		types, err := svc.AllowedFileTypes(context.Background(), "shop-admin", "shop-1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []models.FileType{
			models.FileTypeLogo, models.FileTypeBanner, models.FileTypeVideo,
		}, types)
		assert.NotContains(t, types, models.FileTypeDoc)
		assert.NotContains(t, types, models.FileTypeContract)
	})

	t.Run("shop admin of another shop is rejected", func(t *testing.T) {
		_, err := svc.AllowedFileTypes(context.Background(), "shop-admin", "shop-2")
		requireAppError(t, err, apperrors.CodeForbidden)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		_, err := svc.AllowedFileTypes(context.Background(), "stranger", "shop-1")
		requireAppError(t, err, apperrors.CodeForbidden)
	})
}
