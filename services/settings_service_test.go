package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ninjapark-backend/models"
)

func TestSettingsGetCreatesDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	s, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "Ninja Inflatable Park", s.ParkName)
	assert.True(t, s.OnlineBookingEnabled)
	assert.Equal(t, DefaultSessionCapacity, s.SessionCapacity)

	again, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)

	var n int64
	require.NoError(t, db.Model(&models.GlobalSettings{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestSettingsUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	hours := json.RawMessage(`{"weekdays":"12:00 PM - 9:00 PM"}`)
	before, after, err := svc.Update(SettingsInput{
		ParkName:     ptr("  Ninja Park JP Nagar "),
		AdultPrice:   ptr(999.0),
		OpeningHours: &hours,
	}, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "Ninja Inflatable Park", before.ParkName)
	assert.Equal(t, "Ninja Park JP Nagar", after.ParkName)
	assert.Equal(t, 999.0, after.AdultPrice)
	assert.JSONEq(t, `{"weekdays":"12:00 PM - 9:00 PM"}`, string(after.OpeningHours))
	assert.Contains(t, Changes(before, after), "parkName")
}

func TestSettingsCriticalTogglesNeedSuperAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	_, _, err := svc.Update(SettingsInput{MaintenanceMode: ptr(true)}, models.RoleManager)
	assert.ErrorIs(t, err, ErrForbidden)

	// Sending the current value is not a change.
	_, _, err = svc.Update(SettingsInput{OnlineBookingEnabled: ptr(true)}, models.RoleManager)
	assert.NoError(t, err)

	_, after, err := svc.Update(SettingsInput{MaintenanceMode: ptr(true)}, models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.True(t, after.MaintenanceMode)
}
