package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/domain"
	"github.com/klinika/dentis/internal/domain/appointment"
	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
	"github.com/klinika/dentis/internal/domain/patient"
	"github.com/klinika/dentis/internal/domain/procedure"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppointmentRepo) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.PagedAppointments), args.Error(1)
}

func (m *mockAppointmentRepo) ListOnDay(ctx context.Context, clinicID uuid.UUID, day time.Time) ([]*appointment.Appointment, error) {
	args := m.Called(ctx, clinicID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*appointment.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) FindActiveByPatientOnDay(ctx context.Context, clinicID, patientID uuid.UUID, day time.Time) (*appointment.Appointment, error) {
	args := m.Called(ctx, clinicID, patientID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockTransactionRepo struct{ mock.Mock }

func (m *mockTransactionRepo) Create(ctx context.Context, t *billing.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTransactionRepo) CreateBatch(ctx context.Context, txns []*billing.Transaction) error {
	return m.Called(ctx, txns).Error(0)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*billing.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) Update(ctx context.Context, t *billing.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTransactionRepo) List(ctx context.Context, q *billing.ListTransactionsQuery) (*billing.PagedTransactions, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PagedTransactions), args.Error(1)
}

func (m *mockTransactionRepo) ListByFingerprint(ctx context.Context, clinicID uuid.UUID, fingerprint string) ([]*billing.Transaction, error) {
	args := m.Called(ctx, clinicID, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) ListOutstanding(ctx context.Context, clinicID uuid.UUID) ([]*billing.Transaction, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) ListInRange(ctx context.Context, clinicID uuid.UUID, from, to time.Time) ([]*billing.Transaction, error) {
	args := m.Called(ctx, clinicID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Transaction), args.Error(1)
}

type mockProcedureRepo struct{ mock.Mock }

func (m *mockProcedureRepo) CreateBatch(ctx context.Context, entries []*procedure.Entry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *mockProcedureRepo) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*procedure.Entry, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*procedure.Entry), args.Error(1)
}

func (m *mockProcedureRepo) ListByPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]*procedure.Entry, error) {
	args := m.Called(ctx, clinicID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*procedure.Entry), args.Error(1)
}

type mockPatientRepo struct{ mock.Mock }

func (m *mockPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *mockPatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.PagedPatients), args.Error(1)
}

func (m *mockPatientRepo) Update(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

type mockDoctorRepo struct{ mock.Mock }

func (m *mockDoctorRepo) Create(ctx context.Context, d *doctor.Doctor) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctor.Doctor), args.Error(1)
}

func (m *mockDoctorRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*doctor.Doctor, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*doctor.Doctor), args.Error(1)
}

func (m *mockDoctorRepo) Update(ctx context.Context, d *doctor.Doctor) error {
	return m.Called(ctx, d).Error(0)
}

type mockCatalogRepo struct{ mock.Mock }

func (m *mockCatalogRepo) Create(ctx context.Context, s *catalog.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *mockCatalogRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*catalog.Service, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Service), args.Error(1)
}

func (m *mockCatalogRepo) Update(ctx context.Context, s *catalog.Service) error {
	return m.Called(ctx, s).Error(0)
}

type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

// newTestAuditService returns an audit service whose writes are
// accepted and discarded.
func newTestAuditService() *AuditService {
	repo := &mockAuditRepo{}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewAuditService(repo, testLogger(), nil)
}
