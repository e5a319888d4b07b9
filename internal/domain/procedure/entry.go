package procedure

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is the durable form of a committed ledger item: one append-only
// row per unit of work, keyed by the visit's appointment. Entries are
// never updated or deleted; corrections are new visits.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	ClinicID      uuid.UUID `gorm:"column:clinic_id;type:uuid;not null;index" json:"clinic_id"`
	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;index" json:"appointment_id"`
	PatientID     uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index" json:"doctor_id"`

	ServiceID   uuid.UUID `gorm:"column:service_id;type:uuid;not null;index" json:"service_id"`
	ServiceName string    `gorm:"column:service_name;type:varchar(255);not null" json:"service_name"`
	ToothNumber *int      `gorm:"column:tooth_number" json:"tooth_number,omitempty"`
	Price       int64     `gorm:"column:price;not null" json:"price"`
	Note        string    `gorm:"column:note;type:text" json:"note,omitempty"`
}

func (Entry) TableName() string {
	return "clinical.procedure_entries"
}

func (e *Entry) Item() Item {
	return Item{
		ID:          e.ID,
		ServiceID:   e.ServiceID,
		ServiceName: e.ServiceName,
		ToothNumber: e.ToothNumber,
		Price:       e.Price,
		Note:        e.Note,
	}
}

type Repository interface {
	// CreateBatch appends the committed ledger rows in one transaction.
	CreateBatch(ctx context.Context, entries []*Entry) error

	// ListByAppointment returns entries in commit order.
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Entry, error)

	// ListByPatient returns a patient's full procedure history, newest
	// first — drives the per-tooth history view.
	ListByPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]*Entry, error)
}
