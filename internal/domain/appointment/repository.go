package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new appointment. The storage layer enforces slot
	// uniqueness among non-cancelled rows and returns ErrDoctorSlotTaken
	// or ErrPatientSlotTaken on violation.
	Create(ctx context.Context, a *Appointment) error

	// GetByID returns ErrAppointmentNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// UpdateStatus persists status, notes and cancellation/completion fields.
	UpdateStatus(ctx context.Context, a *Appointment) error

	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// ListOnDay returns all appointments for one clinic on one calendar
	// day, cancelled included — the advisory conflict pre-check filters.
	ListOnDay(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]*Appointment, error)

	// FindActiveByPatientOnDay supports the idempotent visit-completion
	// path: at most one non-cancelled appointment per patient per day is
	// reused instead of duplicated. Returns ErrAppointmentNotFound when
	// there is none.
	FindActiveByPatientOnDay(ctx context.Context, clinicID, patientID uuid.UUID, day time.Time) (*Appointment, error)

	// HardDelete physically removes a row. Administrative cleanup only;
	// normal flow cancels instead.
	HardDelete(ctx context.Context, id uuid.UUID) error
}
