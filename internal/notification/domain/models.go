package domain

import "time"

const (
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingDelivered = "booking_delivered"
	TypeBookingCancelled = "booking_cancelled"
	TypeQuoteApproved    = "quote_approved"
	TypeQuoteRejected    = "quote_rejected"
	TypePaymentCompleted = "payment_completed"
	TypePaymentRefunded  = "payment_refunded"
	TypeDocumentApproved = "document_approved"
	TypeDocumentRejected = "document_rejected"
	TypeShipmentDelivered = "shipment_delivered"
	TypeShipmentDelayed   = "shipment_delayed"
)

type Notification struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	CustomerID int64      `gorm:"not null;index" json:"customer_id"`
	Type       string     `gorm:"not null" json:"type"`
	Title      string     `gorm:"not null" json:"title"`
	Message    string     `gorm:"not null" json:"message"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`
}
