package broadcast

import (
	"strconv"
	"strings"

	"github.com/veloship/veloship/internal/event"
)

// Channel namespaces. Channel identity is a namespace plus an id; the
// router only computes names, it never touches channel state.
const (
	NamespaceCustomer = "customer."
	NamespaceAdmin    = "admin."
	NamespaceTracking = "tracking."

	// ChannelDashboard aggregates every change for the staff dashboard.
	ChannelDashboard = "admin.dashboard"
)

// CustomerChannel is the private channel of the entity owner.
func CustomerChannel(customerID int64) string {
	return NamespaceCustomer + strconv.FormatInt(customerID, 10)
}

// AdminChannel is the staff aggregate channel for one entity kind.
func AdminChannel(kind event.Kind) string {
	return NamespaceAdmin + string(kind) + "s"
}

// TrackingChannel is the public shipment channel. Anyone holding the
// tracking number may subscribe; tracking links are meant to be shared.
func TrackingChannel(trackingNumber string) string {
	return NamespaceTracking + strings.TrimSpace(trackingNumber)
}

// Channels computes the fan-out set for a change on one entity: the
// owner's private channel, the per-kind staff channel and the dashboard
// channel, plus the public tracking channel for shipments.
func Channels(kind event.Kind, customerID int64, trackingNumber string) []string {
	channels := []string{
		CustomerChannel(customerID),
		AdminChannel(kind),
		ChannelDashboard,
	}
	if kind == event.KindShipment && strings.TrimSpace(trackingNumber) != "" {
		channels = append(channels, TrackingChannel(trackingNumber))
	}
	return channels
}
