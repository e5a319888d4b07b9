package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/domain/appointment"
	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
	"github.com/klinika/dentis/internal/domain/patient"
	"github.com/klinika/dentis/internal/domain/procedure"
	"github.com/klinika/dentis/pkg/dateutil"
	"github.com/klinika/dentis/pkg/metrics"
)

// VisitItem is one unit of work as submitted from the chair-side form.
// A zero Price takes the catalog list price.
type VisitItem struct {
	ServiceID   uuid.UUID
	ToothNumber *int
	Price       int64
	Note        string
}

type CompleteVisitCommand struct {
	ClinicID  uuid.UUID
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Items     []VisitItem
	Paid      int64
	Debt      int64
	Method    billing.PaymentMethod
	CreatedBy uuid.UUID
}

type VisitResult struct {
	Appointment *appointment.Appointment
	Entries     []*procedure.Entry
	Settlement  *SettleResult
}

// VisitService closes out a patient's visit in one operation: the day's
// appointment is found or created and completed, performed work is
// committed to the procedure ledger and mirrored into the appointment
// notes, and the payment split is settled.
type VisitService struct {
	apptRepo    appointment.Repository
	procRepo    procedure.Repository
	catalogRepo catalog.Repository
	doctorRepo  doctor.Repository
	patientRepo patient.Repository
	billingSvc  *BillingService
	auditSvc    *AuditService
	log         *zap.Logger
	m           *metrics.Collector
	now         func() time.Time
}

func NewVisitService(
	apptRepo appointment.Repository,
	procRepo procedure.Repository,
	catalogRepo catalog.Repository,
	doctorRepo doctor.Repository,
	patientRepo patient.Repository,
	billingSvc *BillingService,
	auditSvc *AuditService,
	log *zap.Logger,
	m *metrics.Collector,
) *VisitService {
	return &VisitService{
		apptRepo:    apptRepo,
		procRepo:    procRepo,
		catalogRepo: catalogRepo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		billingSvc:  billingSvc,
		auditSvc:    auditSvc,
		log:         log,
		m:           m,
		now:         time.Now,
	}
}

// CompleteVisit is idempotent per patient per day: a retried submission
// finds the same appointment, sees its notes block already present,
// skips re-inserting ledger rows, and the settlement fingerprint
// returns the original postings.
func (s *VisitService) CompleteVisit(
	ctx context.Context,
	cmd *CompleteVisitCommand,
	callerRole string,
	ip string,
) (*VisitResult, error) {
	if len(cmd.Items) == 0 {
		return nil, &ValidationError{Fields: []string{"items: at least one procedure is required"}}
	}

	pat, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, err
	}
	doc, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.buildLedger(ctx, cmd.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	appt, created, err := s.resolveAppointment(ctx, cmd, now)
	if err != nil {
		return nil, err
	}

	block := ledger.Render()
	updated, appended := procedure.AppendBlock(appt.Notes, block, now)
	appt.Notes = updated
	appt.Complete()
	if err := s.apptRepo.UpdateStatus(ctx, appt); err != nil {
		return nil, fmt.Errorf("completing appointment: %w", err)
	}

	var entries []*procedure.Entry
	if appended {
		entries = s.toEntries(appt, cmd, ledger.Items())
		if err := s.procRepo.CreateBatch(ctx, entries); err != nil {
			return nil, fmt.Errorf("recording procedures: %w", err)
		}
		if s.m != nil {
			s.m.ProceduresRecorded.Add(float64(len(entries)))
		}
	} else {
		entries, err = s.procRepo.ListByAppointment(ctx, appt.ID)
		if err != nil {
			return nil, fmt.Errorf("loading recorded procedures: %w", err)
		}
	}

	result := &VisitResult{Appointment: appt, Entries: entries}

	if cmd.Paid > 0 || cmd.Debt > 0 {
		req := billing.SettleRequest{
			ClinicID:     cmd.ClinicID,
			PatientID:    &cmd.PatientID,
			PatientName:  pat.FullName(),
			DoctorID:     &cmd.DoctorID,
			DoctorName:   doc.FullName(),
			Date:         dateutil.DayStart(now),
			ServiceLabel: serviceLabel(ledger.Items()),
			Method:       cmd.Method,
			Paid:         cmd.Paid,
			Debt:         cmd.Debt,
			CreatedBy:    cmd.CreatedBy,
		}
		settlement, err := s.billingSvc.Settle(ctx, req, serviceIDs(cmd.Items), cmd.CreatedBy, callerRole, ip)
		if err != nil {
			return nil, err
		}
		result.Settlement = settlement
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: cmd.CreatedBy, UserRole: callerRole,
		Action: "create", ResourceType: "visit", ResourceID: appt.ID.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"procedures":%d,"walk_in":%t}`, ledger.Len(), created),
	})

	return result, nil
}

// History returns the patient's committed procedure rows, newest first.
func (s *VisitService) History(ctx context.Context, clinicID, patientID uuid.UUID) ([]*procedure.Entry, error) {
	return s.procRepo.ListByPatient(ctx, clinicID, patientID)
}

func (s *VisitService) buildLedger(ctx context.Context, items []VisitItem) (*procedure.Ledger, error) {
	ledger := procedure.NewLedger()
	for i, in := range items {
		svc, err := s.catalogRepo.GetByID(ctx, in.ServiceID)
		if err != nil {
			if errors.Is(err, catalog.ErrServiceNotFound) {
				return nil, &ValidationError{Fields: []string{fmt.Sprintf("items[%d].service_id: unknown service", i)}}
			}
			return nil, err
		}
		price := in.Price
		if price <= 0 {
			price = svc.Price
		}
		ledger.Add(procedure.Item{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			ToothNumber: in.ToothNumber,
			Price:       price,
			Note:        in.Note,
		})
	}
	return ledger, nil
}

// resolveAppointment reuses the patient's active appointment for the
// day; a walk-in with no booking gets one created at the current time.
func (s *VisitService) resolveAppointment(ctx context.Context, cmd *CompleteVisitCommand, now time.Time) (*appointment.Appointment, bool, error) {
	appt, err := s.apptRepo.FindActiveByPatientOnDay(ctx, cmd.ClinicID, cmd.PatientID, now)
	if err == nil {
		return appt, false, nil
	}
	if !errors.Is(err, appointment.ErrAppointmentNotFound) {
		return nil, false, err
	}

	appt = &appointment.Appointment{
		ClinicID:     cmd.ClinicID,
		PatientID:    cmd.PatientID,
		DoctorID:     cmd.DoctorID,
		Date:         dateutil.DayStart(now),
		StartMin:     dateutil.MinuteOfDay(now),
		DurationMins: 30,
		Status:       appointment.StatusCheckedIn,
		CreatedBy:    cmd.CreatedBy,
	}
	if err := s.apptRepo.Create(ctx, appt); err != nil {
		return nil, false, fmt.Errorf("creating walk-in appointment: %w", err)
	}
	return appt, true, nil
}

func (s *VisitService) toEntries(appt *appointment.Appointment, cmd *CompleteVisitCommand, items []procedure.Item) []*procedure.Entry {
	entries := make([]*procedure.Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, &procedure.Entry{
			ClinicID:      cmd.ClinicID,
			AppointmentID: appt.ID,
			PatientID:     cmd.PatientID,
			DoctorID:      cmd.DoctorID,
			ServiceID:     it.ServiceID,
			ServiceName:   it.ServiceName,
			ToothNumber:   it.ToothNumber,
			Price:         it.Price,
			Note:          it.Note,
		})
	}
	return entries
}

// serviceLabel joins the visit's distinct service names in performed
// order; it is what the settlement postings carry.
func serviceLabel(items []procedure.Item) string {
	seen := make(map[string]struct{}, len(items))
	names := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ServiceName]; ok {
			continue
		}
		seen[it.ServiceName] = struct{}{}
		names = append(names, it.ServiceName)
	}
	return strings.Join(names, ", ")
}

func serviceIDs(items []VisitItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ServiceID)
	}
	return ids
}
