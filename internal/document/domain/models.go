package domain

import (
	"time"

	"github.com/veloship/veloship/internal/transition"
	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// StatusTransitions is the document allow-list. An approved document
// can only age out; rejected and expired are terminal.
var StatusTransitions = transition.Table{
	StatusPending:  {StatusApproved, StatusRejected, StatusExpired},
	StatusApproved: {StatusExpired},
	StatusRejected: {},
	StatusExpired:  {},
}

const (
	TypeRegistration = "registration"
	TypeInsurance    = "insurance"
	TypeCustoms      = "customs"
	TypeInvoice      = "invoice"
	TypeBillOfLading = "bill_of_lading"
)

type Document struct {
	ID              int64             `gorm:"primaryKey" json:"id"`
	BookingID       int64             `gorm:"not null;index" json:"booking_id"`
	CustomerID      int64             `gorm:"not null;index" json:"customer_id"`
	DocumentType    string            `gorm:"not null" json:"document_type"`
	FileName        string            `gorm:"not null" json:"file_name"`
	FilePath        string            `json:"file_path,omitempty"`
	Status          string            `gorm:"not null;default:pending;index" json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	VerifiedBy      *int64            `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time        `json:"verified_at,omitempty"`
	ExpiryDate      *time.Time        `json:"expiry_date,omitempty"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}
