package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	ClinicID  uuid.UUID `gorm:"column:clinic_id;type:uuid;not null;index" json:"clinic_id"`
	FirstName string    `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	Specialty string    `gorm:"column:specialty;type:varchar(100)" json:"specialty"`
	Phone     string    `gorm:"column:phone;type:varchar(20)" json:"phone"`

	// Percentage is the contractual share of net revenue (gross minus
	// allocated technician cost) paid to the doctor, 0–100.
	Percentage int `gorm:"column:percentage;not null;default:0" json:"percentage"`

	IsActive bool `gorm:"column:is_active;default:true;index" json:"is_active"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

// FullName is "lastName firstName" — the form legacy transaction rows
// stored, and the one name-fallback attribution matches against.
func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.LastName + " " + d.FirstName)
}

type CreateDoctorCommand struct {
	ClinicID   uuid.UUID
	FirstName  string
	LastName   string
	Specialty  string
	Phone      string
	Percentage int
}
