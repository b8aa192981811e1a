package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ninjapark-backend/models"
)

func TestAdminUserLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	roles, err := EnsureRoles(ctx, db)
	require.NoError(t, err)
	owner, _, err := EnsureSuperAdmin(ctx, db, "owner@ninja.com", "password", "Owner")
	require.NoError(t, err)

	mailer := &recordingMailer{}
	svc := NewAdminUserService(db, mailer, discardLogger(), "Ninja Park", "https://admin.ninjapark.in/login")
	staffRole := roles[2]
	require.Equal(t, models.RoleStaff, staffRole.Name)

	_, err = svc.Create(AdminUserInput{Name: "Sam", Email: "sam@ninja.com", Password: "short", RoleID: &staffRole.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"password"}, verr.Keys())

	_, err = svc.Create(AdminUserInput{Name: "Sam", Email: "sam@ninja.com", Password: "password1", RoleID: ptr(uint(999))})
	assert.EqualError(t, err, "Role does not exist")

	sam, err := svc.Create(AdminUserInput{Name: "Sam", Email: "Sam@Ninja.com", Password: "password1", RoleID: &staffRole.ID})
	require.NoError(t, err)
	assert.True(t, sam.IsActive)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "sam@ninja.com", mailer.sent[0].To)

	_, err = svc.Create(AdminUserInput{Name: "Sam 2", Email: "sam@ninja.com", Password: "password1", RoleID: &staffRole.ID})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, after, err := svc.Update(sam.ID, owner.ID, AdminUserInput{Name: "Samir"})
	require.NoError(t, err)
	assert.Equal(t, "Samir", after.Name)
	assert.Equal(t, models.RoleStaff, after.Role.Name)

	_, _, err = svc.Update(owner.ID, owner.ID, AdminUserInput{IsActive: ptr(false)})
	assert.EqualError(t, err, "You cannot deactivate your own account")

	toggled, err := svc.Toggle(sam.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Inactive)
	assert.Equal(t, int64(1), stats.RoleDistribution[models.RoleStaff])

	_, err = svc.Delete(owner.ID, owner.ID)
	assert.EqualError(t, err, "You cannot delete your own account")

	audit := NewAuditService(db, discardLogger())
	audit.Record(ctx, Actor{AdminID: sam.ID}, models.AuditLogin, "auth", sam.ID, nil)
	_, err = svc.Delete(sam.ID, owner.ID)
	require.NoError(t, err)

	logs, total, err := audit.List(AuditFilter{Action: models.AuditLogin}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Nil(t, logs[0].AdminID, "audit rows outlive the admin")
}
