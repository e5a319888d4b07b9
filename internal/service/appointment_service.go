package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/domain"
	"github.com/klinika/dentis/internal/domain/appointment"
	"github.com/klinika/dentis/internal/domain/patient"
	"github.com/klinika/dentis/pkg/dateutil"
	"github.com/klinika/dentis/pkg/metrics"
)

type AppointmentService struct {
	repo        appointment.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
	m           *metrics.Collector
	now         func() time.Time
}

func NewAppointmentService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
	m *metrics.Collector,
) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		patientRepo: patientRepo,
		auditSvc:    auditSvc,
		log:         log,
		m:           m,
		now:         time.Now,
	}
}

// Book validates a candidate slot and persists the appointment in
// pending status. The in-memory conflict check against the day's
// snapshot is advisory; the partial unique indexes behind the
// repository close the race window two concurrent bookers leave open.
func (s *AppointmentService) Book(
	ctx context.Context,
	cmd *appointment.CreateAppointmentCommand,
	callerID uuid.UUID,
	callerRole string,
	ip string,
) (*appointment.Appointment, error) {
	if cmd.StartMin < 0 || cmd.StartMin >= 24*60 {
		return nil, appointment.ErrInvalidStartMinute
	}
	if cmd.DurationMins < 5 || cmd.DurationMins > 480 {
		return nil, appointment.ErrInvalidDuration
	}

	cand := appointment.Candidate{
		ClinicID:  cmd.ClinicID,
		PatientID: cmd.PatientID,
		DoctorID:  cmd.DoctorID,
		Date:      cmd.Date,
		StartMin:  cmd.StartMin,
	}
	if cand.InPast(s.now()) {
		s.countConflict("past_time")
		return nil, appointment.ErrScheduledInPast
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	existing, err := s.repo.ListOnDay(ctx, cmd.ClinicID, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("loading day schedule: %w", err)
	}
	// Doctor conflict reported first when both fire.
	if c := appointment.CheckConflict(existing, cand); c.Doctor {
		s.countConflict("doctor")
		return nil, appointment.ErrDoctorSlotTaken
	} else if c.Patient {
		s.countConflict("patient")
		return nil, appointment.ErrPatientSlotTaken
	}

	a := &appointment.Appointment{
		ClinicID:     cmd.ClinicID,
		PatientID:    cmd.PatientID,
		DoctorID:     cmd.DoctorID,
		Date:         dateutil.DayStart(cmd.Date),
		StartMin:     cmd.StartMin,
		DurationMins: cmd.DurationMins,
		Status:       appointment.StatusPending,
		Notes:        cmd.Notes,
		CreatedBy:    cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if err == appointment.ErrDoctorSlotTaken || err == appointment.ErrPatientSlotTaken {
			// Lost the race to a concurrent booker after a clean pre-check.
			return nil, err
		}
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	if s.m != nil {
		s.m.AppointmentsTotal.WithLabelValues(string(appointment.StatusPending)).Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentService) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// UpdateStatus applies a status transition. Any transition on an
// existing appointment is accepted; only an unknown id errors. UI
// callers wanting stricter flow gate on CanTransitionTo themselves.
func (s *AppointmentService) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	cmd *appointment.UpdateStatusCommand,
	callerID uuid.UUID,
	callerRole string,
	ip string,
) (*appointment.Appointment, error) {
	if !cmd.Status.IsValid() {
		return nil, appointment.ErrInvalidStatus
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch cmd.Status {
	case appointment.StatusCancelled:
		a.Cancel(cmd.Reason)
	case appointment.StatusCompleted:
		a.Complete()
	default:
		a.Status = cmd.Status
	}
	if cmd.Notes != nil {
		a.Notes = *cmd.Notes
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	if s.m != nil {
		s.m.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q}`, cmd.Status),
	})

	return a, nil
}

// HardDelete physically removes an appointment. Administrative cleanup
// only; regular flows cancel instead.
func (s *AppointmentService) HardDelete(ctx context.Context, id uuid.UUID, callerRole string, callerID uuid.UUID, ip string) error {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
	})
	return nil
}

func (s *AppointmentService) countConflict(kind string) {
	if s.m != nil {
		s.m.BookingConflicts.WithLabelValues(kind).Inc()
	}
}
