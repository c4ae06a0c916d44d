package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloship/veloship/internal/actor"
)

func TestStatusChangeName(t *testing.T) {
	assert.Equal(t, "booking.status.updated", StatusChange{Kind: KindBooking}.Name())
	assert.Equal(t, "shipment.status.updated", StatusChange{Kind: KindShipment}.Name())
}

func TestISOTime(t *testing.T) {
	assert.Nil(t, ISOTime(nil))

	var zero time.Time
	assert.Nil(t, ISOTime(&zero))

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "2026-03-14T09:26:53Z", ISOTime(&ts))
}

func TestUpdatedBy(t *testing.T) {
	assert.Nil(t, UpdatedBy(actor.System(), "Robot", "system"))
	assert.Nil(t, UpdatedBy(actor.Actor{}, "", "system"))

	block, ok := UpdatedBy(actor.Customer(7), "Alice Mwangi", "customer").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(7), block["id"])
	assert.Equal(t, "Alice Mwangi", block["name"])
	assert.Equal(t, "customer", block["role"])
}

func TestUpdatedByNameFallback(t *testing.T) {
	block, ok := UpdatedBy(actor.Staff(3, "ops"), "", "admin").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Unknown", block["name"])
	assert.Equal(t, "ops", block["role"])
}

func TestUpdatedByRoleDefault(t *testing.T) {
	staff := actor.Actor{Kind: actor.KindStaff, ID: 3}
	block, ok := UpdatedBy(staff, "Grace", "admin").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", block["role"])
}
