package event

import (
	"time"

	"github.com/veloship/veloship/internal/actor"
)

// Kind names a tracked entity category.
type Kind string

const (
	KindBooking  Kind = "booking"
	KindQuote    Kind = "quote"
	KindPayment  Kind = "payment"
	KindDocument Kind = "document"
	KindShipment Kind = "shipment"
)

// StatusChange is the transient record of a single applied transition. It
// is built by the executor after the status write lands, consumed by the
// dispatcher, then discarded; it is never persisted or shared.
type StatusChange struct {
	Kind           Kind
	EntityID       int64
	PreviousStatus string
	NewStatus      string
	Actor          actor.Actor
	Reason         string
	OccurredAt     time.Time
}

// Name returns the broadcast event name for this change.
func (c StatusChange) Name() string {
	return string(c.Kind) + ".status.updated"
}

// ISOTime formats an optional timestamp for the wire payload. Unset dates
// degrade to nil rather than erroring.
func ISOTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// UpdatedBy builds the nullable actor block. System-triggered changes
// carry a nil block; otherwise role falls back to the per-kind default.
func UpdatedBy(a actor.Actor, name, defaultRole string) any {
	if a.IsSystem() {
		return nil
	}
	if name == "" {
		name = "Unknown"
	}
	return map[string]any{
		"id":   a.ID,
		"name": name,
		"role": a.RoleOr(defaultRole),
	}
}
