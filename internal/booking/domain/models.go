package domain

import (
	"time"

	"github.com/veloship/veloship/internal/transition"
	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusInTransit = "in_transit"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// StatusTransitions is the booking allow-list. Delivered and cancelled
// are terminal.
var StatusTransitions = transition.Table{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

type Booking struct {
	ID                 int64             `gorm:"primaryKey" json:"id"`
	BookingReference   string            `gorm:"not null;uniqueIndex" json:"booking_reference"`
	CustomerID         int64             `gorm:"not null;index" json:"customer_id"`
	QuoteID            *int64            `gorm:"index" json:"quote_id,omitempty"`
	VehicleDescription string            `json:"vehicle_description,omitempty"`
	PickupLocation     string            `json:"pickup_location,omitempty"`
	DeliveryLocation   string            `json:"delivery_location,omitempty"`
	Status             string            `gorm:"not null;default:pending;index" json:"status"`
	TotalAmount        float64           `gorm:"not null" json:"total_amount"`
	PaidAmount         float64           `gorm:"not null;default:0" json:"paid_amount"`
	Currency           string            `gorm:"not null;default:USD" json:"currency"`
	PickupDate         *time.Time        `json:"pickup_date,omitempty"`
	DeliveryDate       *time.Time        `json:"delivery_date,omitempty"`
	EstimatedDelivery  *time.Time        `json:"estimated_delivery,omitempty"`
	Metadata           datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt          time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null" json:"updated_at"`
}
