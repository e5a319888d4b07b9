// Package repository provides the gorm-backed implementations of the
// domain repository interfaces.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/dentis/internal/domain/appointment"
	"github.com/klinika/dentis/pkg/dateutil"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return translateSlotConflict(err)
	}
	return nil
}

// translateSlotConflict maps a partial-unique-index violation to the
// matching domain sentinel, so the storage-level guarantee surfaces as
// the same error the advisory pre-check would have produced.
func translateSlotConflict(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "uq_appointments_doctor_slot"):
		return appointment.ErrDoctorSlotTaken
	case strings.Contains(msg, "uq_appointments_patient_slot"):
		return appointment.ErrPatientSlotTaken
	}
	return err
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	res := r.db.WithContext(ctx).Model(a).
		Select("status", "notes", "cancelled_at", "cancellation_reason", "completed_at").
		Updates(a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("clinic_id = ? AND deleted_at IS NULL", q.ClinicID)

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("date >= ?", dateutil.DayStart(*q.DateFrom))
	}
	if q.DateTo != nil {
		tx = tx.Where("date <= ?", dateutil.DayStart(*q.DateTo))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var appts []*appointment.Appointment
	err := tx.Order("date ASC, start_min ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}

	return &appointment.PagedAppointments{
		Appointments: appts,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages(total, q.PageSize),
	}, nil
}

func (r *AppointmentRepository) ListOnDay(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND date = ? AND deleted_at IS NULL", clinicID, dateutil.DayStart(day)).
		Order("start_min ASC").
		Find(&appts).Error
	return appts, err
}

func (r *AppointmentRepository) FindActiveByPatientOnDay(ctx context.Context, clinicID, patientID uuid.UUID, day time.Time) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ? AND date = ? AND status <> ? AND deleted_at IS NULL",
			clinicID, patientID, dateutil.DayStart(day), appointment.StatusCancelled).
		Order("start_min ASC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&appointment.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
