package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ninjapark-backend/models"
)

func TestChanges(t *testing.T) {
	before := models.Voucher{Code: "A", DiscountValue: 10, IsActive: true}
	after := before
	after.DiscountValue = 20
	after.IsActive = false

	assert.Equal(t, []string{"discountValue", "isActive"}, Changes(before, after))
	assert.Empty(t, Changes(before, before))
	assert.Nil(t, Changes(nil, after))
}

func TestAuditRecordAndList(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(db, discardLogger())
	ctx := context.Background()

	before := models.Customer{Name: "Old"}
	after := models.Customer{Name: "New"}
	svc.Record(ctx, Actor{IPAddress: "127.0.0.1", UserAgent: "test"}, models.AuditUpdate, "customer", 7, &AuditDetails{Before: before, After: after})
	svc.Record(ctx, Actor{}, models.AuditDelete, "voucher", 3, nil)

	logs, total, err := svc.List(AuditFilter{Entity: "customer"}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, "7", entry.EntityID)
	assert.Equal(t, "127.0.0.1", entry.IPAddress)
	assert.Nil(t, entry.AdminID)

	var details AuditDetails
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, []string{"name"}, details.Changes)

	_, total, err = svc.List(AuditFilter{}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
