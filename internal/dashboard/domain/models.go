package domain

import "context"

// Stats is the staff dashboard aggregate recomputed after transitions.
type Stats struct {
	ActiveBookings     int64   `json:"active_bookings"`
	PendingQuotes      int64   `json:"pending_quotes"`
	PendingDocuments   int64   `json:"pending_documents"`
	InTransitShipments int64   `json:"in_transit_shipments"`
	DelayedShipments   int64   `json:"delayed_shipments"`
	CompletedRevenue   float64 `json:"completed_revenue"`
}

type Service interface {
	GetStats(ctx context.Context) (Stats, error)

	// BroadcastStats recomputes the aggregate and publishes it on the
	// dashboard channel. Best effort; errors are logged, not returned.
	BroadcastStats(ctx context.Context, triggerEvent string)
}
