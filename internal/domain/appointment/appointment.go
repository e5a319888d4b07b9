package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/klinika/dentis/pkg/dateutil"
)

// State transitions:
//
//	pending → confirmed | checked_in → completed
//	pending/confirmed/checked_in → cancelled
//	pending/confirmed/checked_in → no_show
//
// completed, cancelled and no_show are terminal. Transitions are accepted
// unconditionally by the service layer; CanTransitionTo is advisory and
// exists for UI callers that want to hide illegal buttons.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	ClinicID  uuid.UUID `gorm:"column:clinic_id;type:uuid;not null;index" json:"clinic_id"`
	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index" json:"doctor_id"`

	// Date is the calendar day (stored at midnight UTC); StartMin is the
	// minute-of-day the slot begins. Duration is stored but not consulted
	// for conflict detection.
	Date         time.Time `gorm:"column:date;type:date;not null;index" json:"date"`
	StartMin     int       `gorm:"column:start_min;not null" json:"start_min"`
	DurationMins int       `gorm:"column:duration_mins;not null;default:30" json:"duration_mins"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes  string `gorm:"column:notes;type:text" json:"notes"`

	CancelledAt        *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text" json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// StartsAt combines the calendar day and the minute-of-day offset.
func (a *Appointment) StartsAt() time.Time {
	return dateutil.At(a.Date, a.StartMin)
}

func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt().Add(time.Duration(a.DurationMins) * time.Minute)
}

// IsActive reports whether the appointment still occupies its slot.
// Cancelled appointments release the slot; every other status holds it.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.DeletedAt == nil
}

func (a *Appointment) CanTransitionTo(next Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled, StatusNoShow},
		StatusConfirmed: {StatusCheckedIn, StatusCompleted, StatusCancelled, StatusNoShow},
		StatusCheckedIn: {StatusCompleted, StatusCancelled, StatusNoShow},
		StatusCompleted: {},
		StatusCancelled: {},
		StatusNoShow:    {},
	}

	for _, s := range allowed[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel(reason string) {
	now := time.Now()
	a.Status = StatusCancelled
	a.CancelledAt = &now
	a.CancellationReason = reason
}

func (a *Appointment) Complete() {
	now := time.Now()
	a.Status = StatusCompleted
	a.CompletedAt = &now
}

type CreateAppointmentCommand struct {
	ClinicID     uuid.UUID
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	Date         time.Time
	StartMin     int
	DurationMins int
	Notes        string
	CreatedBy    uuid.UUID
}

type UpdateStatusCommand struct {
	Status    Status
	Notes     *string
	Reason    string
	UpdatedBy uuid.UUID
}

type ListAppointmentsQuery struct {
	ClinicID  uuid.UUID
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
