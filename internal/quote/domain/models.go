package domain

import (
	"time"

	"github.com/veloship/veloship/internal/transition"
	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusConverted = "converted"
	StatusExpired   = "expired"
)

// StatusTransitions is the quote allow-list. Rejected, converted and
// expired are terminal.
var StatusTransitions = transition.Table{
	StatusPending:   {StatusApproved, StatusRejected, StatusExpired},
	StatusApproved:  {StatusConverted, StatusExpired},
	StatusRejected:  {},
	StatusConverted: {},
	StatusExpired:   {},
}

type Quote struct {
	ID                 int64             `gorm:"primaryKey" json:"id"`
	QuoteReference     string            `gorm:"not null;uniqueIndex" json:"quote_reference"`
	CustomerID         int64             `gorm:"not null;index" json:"customer_id"`
	VehicleDescription string            `json:"vehicle_description,omitempty"`
	PickupLocation     string            `json:"pickup_location,omitempty"`
	DeliveryLocation   string            `json:"delivery_location,omitempty"`
	Status             string            `gorm:"not null;default:pending;index" json:"status"`
	TotalAmount        float64           `gorm:"not null" json:"total_amount"`
	Currency           string            `gorm:"not null;default:USD" json:"currency"`
	ValidUntil         *time.Time        `json:"valid_until,omitempty"`
	ApprovedBy         *int64            `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time        `json:"approved_at,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	RejectionReason    string            `json:"rejection_reason,omitempty"`
	Metadata           datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt          time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null" json:"updated_at"`
}

// IsExpired reports whether the quote's validity window has passed.
func (q Quote) IsExpired(now time.Time) bool {
	return q.ValidUntil != nil && q.ValidUntil.Before(now)
}

// IsValid reports whether the quote can still be acted on.
func (q Quote) IsValid(now time.Time) bool {
	return (q.Status == StatusPending || q.Status == StatusApproved) && !q.IsExpired(now)
}

// DaysUntilExpiry returns the whole days remaining, or 0 when unset or
// already past.
func (q Quote) DaysUntilExpiry(now time.Time) int {
	if q.ValidUntil == nil || q.ValidUntil.Before(now) {
		return 0
	}
	return int(q.ValidUntil.Sub(now).Hours() / 24)
}
