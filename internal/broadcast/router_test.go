package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veloship/veloship/internal/event"
)

func TestChannelsForBooking(t *testing.T) {
	channels := Channels(event.KindBooking, 7, "")
	assert.Equal(t, []string{"customer.7", "admin.bookings", "admin.dashboard"}, channels)
}

func TestChannelsPerKind(t *testing.T) {
	assert.Contains(t, Channels(event.KindQuote, 1, ""), "admin.quotes")
	assert.Contains(t, Channels(event.KindPayment, 1, ""), "admin.payments")
	assert.Contains(t, Channels(event.KindDocument, 1, ""), "admin.documents")
	assert.Contains(t, Channels(event.KindShipment, 1, ""), "admin.shipments")
}

func TestChannelsForShipmentIncludesTracking(t *testing.T) {
	channels := Channels(event.KindShipment, 9, "TRK123")
	assert.Equal(t, []string{"customer.9", "admin.shipments", "admin.dashboard", "tracking.TRK123"}, channels)
}

func TestChannelsTrackingOnlyForShipments(t *testing.T) {
	channels := Channels(event.KindBooking, 9, "TRK123")
	assert.NotContains(t, channels, "tracking.TRK123")

	// A shipment without a tracking number gets no public channel.
	channels = Channels(event.KindShipment, 9, "   ")
	assert.Len(t, channels, 3)
}
