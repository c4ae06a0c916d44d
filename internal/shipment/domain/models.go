package domain

import (
	"time"

	"github.com/veloship/veloship/internal/transition"
	"gorm.io/datatypes"
)

const (
	StatusPreparing = "preparing"
	StatusInTransit = "in_transit"
	StatusCustoms   = "customs"
	StatusDelayed   = "delayed"
	StatusDelivered = "delivered"
)

// StatusTransitions is the shipment allow-list. Delayed is a detour
// state that can rejoin the route at any later stage; delivered is the
// only terminal status.
var StatusTransitions = transition.Table{
	StatusPreparing: {StatusInTransit, StatusDelayed},
	StatusInTransit: {StatusCustoms, StatusDelivered, StatusDelayed},
	StatusCustoms:   {StatusDelivered, StatusDelayed},
	StatusDelayed:   {StatusInTransit, StatusCustoms, StatusDelivered},
	StatusDelivered: {},
}

type Shipment struct {
	ID               int64             `gorm:"primaryKey" json:"id"`
	TrackingNumber   string            `gorm:"not null;uniqueIndex" json:"tracking_number"`
	BookingID        int64             `gorm:"not null;index" json:"booking_id"`
	CustomerID       int64             `gorm:"not null;index" json:"customer_id"`
	Status           string            `gorm:"not null;default:preparing;index" json:"status"`
	CarrierName      string            `json:"carrier_name,omitempty"`
	VesselName       string            `json:"vessel_name,omitempty"`
	ContainerNumber  string            `json:"container_number,omitempty"`
	DeparturePort    string            `json:"departure_port,omitempty"`
	ArrivalPort      string            `json:"arrival_port,omitempty"`
	CurrentLocation  string            `json:"current_location,omitempty"`
	DepartureDate    *time.Time        `json:"departure_date,omitempty"`
	EstimatedArrival *time.Time        `json:"estimated_arrival,omitempty"`
	ActualArrival    *time.Time        `json:"actual_arrival,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null" json:"updated_at"`
}
