package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	ClinicID    uuid.UUID  `gorm:"column:clinic_id;type:uuid;not null;index" json:"clinic_id"`
	FirstName   string     `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName    string     `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	Phone       string     `gorm:"column:phone;type:varchar(20)" json:"phone"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Address     string     `gorm:"column:address;type:text" json:"address,omitempty"`
	Notes       string     `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

// FullName is the display name legacy transaction rows were keyed on.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.LastName + " " + p.FirstName)
}

type CreatePatientCommand struct {
	ClinicID    uuid.UUID
	FirstName   string
	LastName    string
	Phone       string
	DateOfBirth *time.Time
	Address     string
	Notes       string
	CreatedBy   uuid.UUID
}

type ListPatientsQuery struct {
	ClinicID uuid.UUID
	Search   string
	Page     int
	PageSize int
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
