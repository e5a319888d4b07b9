// Package catalog holds the clinic's priced service list. Read-only
// input to scheduling and billing; owned by clinic configuration.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	ClinicID uuid.UUID `gorm:"column:clinic_id;type:uuid;not null;index" json:"clinic_id"`
	Name     string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Category string    `gorm:"column:category;type:varchar(100)" json:"category,omitempty"`

	// Price is the list price; TechnicianCost is the lab/material cost
	// deducted from gross revenue before the doctor's share is computed.
	Price          int64 `gorm:"column:price;not null" json:"price"`
	TechnicianCost int64 `gorm:"column:technician_cost;not null;default:0" json:"technician_cost"`
}

func (Service) TableName() string {
	return "clinical.services"
}

type CreateServiceCommand struct {
	ClinicID       uuid.UUID
	Name           string
	Category       string
	Price          int64
	TechnicianCost int64
}
