package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Customer struct {
	ID        int64             `gorm:"primaryKey" json:"id"`
	FullName  string            `gorm:"not null" json:"full_name"`
	Email     string            `gorm:"not null;uniqueIndex" json:"email"`
	Phone     string            `json:"phone,omitempty"`
	Country   string            `json:"country,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null" json:"updated_at"`
}
