package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ninjapark-backend/models"
)

func TestSeedDatabaseCreatesDefaultAdminOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, SeedDatabase(ctx, db, discardLogger()))
	require.NoError(t, SeedDatabase(ctx, db, discardLogger()))

	var admins []models.AdminUser
	require.NoError(t, db.Preload("Role").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, DefaultAdminEmail, admins[0].Email)
	assert.Equal(t, models.RoleSuperAdmin, admins[0].Role.Name)
	assert.True(t, CheckPassword(admins[0].Password, DefaultAdminPassword))

	var settings int64
	require.NoError(t, db.Model(&models.GlobalSettings{}).Count(&settings).Error)
	assert.Equal(t, int64(1), settings)
}

func TestEnsureSuperAdminResetsExistingAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	roles, err := EnsureRoles(ctx, db)
	require.NoError(t, err)

	users := NewAdminUserService(db, nil, discardLogger(), "Ninja Park", "")
	viewer := roles[len(roles)-1]
	require.Equal(t, models.RoleViewer, viewer.Name)
	existing, err := users.Create(AdminUserInput{
		Name: "Priya", Email: "priya@ninja.com", Password: "password1", RoleID: &viewer.ID, IsActive: ptr(false),
	})
	require.NoError(t, err)

	admin, created, err := EnsureSuperAdmin(ctx, db, "PRIYA@ninja.com", "newpass", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, admin.ID)
	assert.Equal(t, "Priya", admin.Name, "an empty name keeps the current one")
	assert.True(t, admin.IsActive)

	reloaded, err := users.Get(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, reloaded.Role.Name)
	assert.True(t, CheckPassword(reloaded.Password, "newpass"))

	_, _, err = EnsureSuperAdmin(ctx, db, "priya@ninja.com", "123", "")
	assert.EqualError(t, err, "Password must be at least 6 characters")
}

func TestSeedDatabaseKeepsEditedRolePermissions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, SeedDatabase(ctx, db, discardLogger()))

	var staff models.Role
	require.NoError(t, db.Where("name = ?", models.RoleStaff).First(&staff).Error)
	roles := NewRoleService(db)
	_, _, err := roles.SetPermissions(staff.ID, []string{"bookings:read"})
	require.NoError(t, err)

	require.NoError(t, SeedDatabase(ctx, db, discardLogger()))

	reloaded, err := roles.Get(staff.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bookings:read"}, reloaded.PermissionList())

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultRoles)), count)

	// The explicit reset still restores the defaults.
	_, err = EnsureRoles(ctx, db)
	require.NoError(t, err)
	reloaded, err = roles.Get(staff.ID)
	require.NoError(t, err)
	assert.Contains(t, reloaded.PermissionList(), "bookings:write")
}

func TestSeedMissingRolesOnlyAddsAbsentRoles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := SeedMissingRoles(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRoles), created)

	var viewer models.Role
	require.NoError(t, db.Where("name = ?", models.RoleViewer).First(&viewer).Error)
	require.NoError(t, db.Where("role_id = ?", viewer.ID).Delete(&models.RolePermission{}).Error)
	require.NoError(t, db.Delete(&viewer).Error)
	created, err = SeedMissingRoles(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = SeedMissingRoles(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
