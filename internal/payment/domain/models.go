package domain

import (
	"time"

	"github.com/veloship/veloship/internal/transition"
	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
	StatusCancelled = "cancelled"
)

// StatusTransitions is the payment allow-list. A failed payment may be
// retried back to pending; refunded and cancelled are terminal.
var StatusTransitions = transition.Table{
	StatusPending:   {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted: {StatusRefunded},
	StatusFailed:    {StatusPending, StatusCancelled},
	StatusRefunded:  {},
	StatusCancelled: {},
}

type Payment struct {
	ID               int64             `gorm:"primaryKey" json:"id"`
	PaymentReference string            `gorm:"not null;uniqueIndex" json:"payment_reference"`
	BookingID        int64             `gorm:"not null;index" json:"booking_id"`
	CustomerID       int64             `gorm:"not null;index" json:"customer_id"`
	Amount           float64           `gorm:"not null" json:"amount"`
	Currency         string            `gorm:"not null;default:USD" json:"currency"`
	Status           string            `gorm:"not null;default:pending;index" json:"status"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	PaymentGateway   string            `json:"payment_gateway,omitempty"`
	TransactionID    string            `json:"transaction_id,omitempty"`
	PaymentDate      *time.Time        `json:"payment_date,omitempty"`
	RefundAmount     *float64          `json:"refund_amount,omitempty"`
	RefundReason     string            `json:"refund_reason,omitempty"`
	FailureReason    string            `json:"failure_reason,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null" json:"updated_at"`
}
