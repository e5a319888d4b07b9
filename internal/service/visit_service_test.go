package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/klinika/dentis/internal/domain/appointment"
	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
	"github.com/klinika/dentis/internal/domain/patient"
	"github.com/klinika/dentis/internal/domain/procedure"
)

type visitFixture struct {
	apptRepo    *mockAppointmentRepo
	procRepo    *mockProcedureRepo
	catalogRepo *mockCatalogRepo
	doctorRepo  *mockDoctorRepo
	patientRepo *mockPatientRepo
	txnRepo     *mockTransactionRepo
	svc         *VisitService

	clinicID  uuid.UUID
	patientID uuid.UUID
	doctorID  uuid.UUID
	serviceID uuid.UUID
}

func newVisitFixture(t *testing.T) *visitFixture {
	t.Helper()
	f := &visitFixture{
		apptRepo:    &mockAppointmentRepo{},
		procRepo:    &mockProcedureRepo{},
		catalogRepo: &mockCatalogRepo{},
		doctorRepo:  &mockDoctorRepo{},
		patientRepo: &mockPatientRepo{},
		txnRepo:     &mockTransactionRepo{},
		clinicID:    uuid.New(),
		patientID:   uuid.New(),
		doctorID:    uuid.New(),
		serviceID:   uuid.New(),
	}

	billingSvc := NewBillingService(f.txnRepo, newTestAuditService(), testLogger(), nil, 30*24*time.Hour)
	billingSvc.now = func() time.Time { return fixedNow }

	f.svc = NewVisitService(
		f.apptRepo, f.procRepo, f.catalogRepo, f.doctorRepo, f.patientRepo,
		billingSvc, newTestAuditService(), testLogger(), nil,
	)
	f.svc.now = func() time.Time { return fixedNow }

	f.patientRepo.On("GetByID", mock.Anything, f.patientID).
		Return(&patient.Patient{ID: f.patientID, FirstName: "Dilnoza", LastName: "Karimova"}, nil)
	f.doctorRepo.On("GetByID", mock.Anything, f.doctorID).
		Return(&doctor.Doctor{ID: f.doctorID, FirstName: "Aziz", LastName: "Yusupov", Percentage: 40}, nil)
	f.catalogRepo.On("GetByID", mock.Anything, f.serviceID).
		Return(&catalog.Service{ID: f.serviceID, Name: "Plomba", Price: 150000, TechnicianCost: 50000}, nil)

	return f
}

func (f *visitFixture) cmd(paid, debt int64) *CompleteVisitCommand {
	tooth := 36
	return &CompleteVisitCommand{
		ClinicID:  f.clinicID,
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Items:     []VisitItem{{ServiceID: f.serviceID, ToothNumber: &tooth}},
		Paid:      paid,
		Debt:      debt,
		Method:    billing.MethodCash,
		CreatedBy: uuid.New(),
	}
}

func TestCompleteVisit(t *testing.T) {
	t.Run("walk-in creates the appointment and settles", func(t *testing.T) {
		f := newVisitFixture(t)
		f.apptRepo.On("FindActiveByPatientOnDay", mock.Anything, f.clinicID, f.patientID, mock.Anything).
			Return(nil, appointment.ErrAppointmentNotFound)
		f.apptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.apptRepo.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
		f.procRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
		f.txnRepo.On("ListByFingerprint", mock.Anything, f.clinicID, mock.Anything).Return([]*billing.Transaction{}, nil)
		f.txnRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

		res, err := f.svc.CompleteVisit(context.Background(), f.cmd(100000, 50000), "doctor", "")
		require.NoError(t, err)

		assert.Equal(t, appointment.StatusCompleted, res.Appointment.Status)
		assert.Contains(t, res.Appointment.Notes, "Bajarilgan ishlar:")
		assert.Contains(t, res.Appointment.Notes, "- Plomba (Tish #36)")

		require.Len(t, res.Entries, 1)
		assert.Equal(t, int64(150000), res.Entries[0].Price)
		assert.Equal(t, "Plomba", res.Entries[0].ServiceName)

		require.NotNil(t, res.Settlement)
		require.Len(t, res.Settlement.Transactions, 2)
		assert.Equal(t, "Karimova Dilnoza", res.Settlement.Transactions[0].PatientName)
		assert.Equal(t, "Yusupov Aziz", res.Settlement.Transactions[0].DoctorName)
		assert.True(t, strings.HasSuffix(res.Settlement.Transactions[0].ServiceLabel, "(Qisman to'lov)"))
		assert.True(t, strings.HasSuffix(res.Settlement.Transactions[1].ServiceLabel, "(Qarz)"))
	})

	t.Run("booked appointment is reused and completed", func(t *testing.T) {
		f := newVisitFixture(t)
		booked := &appointment.Appointment{
			ID:        uuid.New(),
			ClinicID:  f.clinicID,
			PatientID: f.patientID,
			DoctorID:  f.doctorID,
			Date:      fixedNow,
			StartMin:  9 * 60,
			Status:    appointment.StatusCheckedIn,
		}
		f.apptRepo.On("FindActiveByPatientOnDay", mock.Anything, f.clinicID, f.patientID, mock.Anything).Return(booked, nil)
		f.apptRepo.On("UpdateStatus", mock.Anything, booked).Return(nil)
		f.procRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
		f.txnRepo.On("ListByFingerprint", mock.Anything, f.clinicID, mock.Anything).Return([]*billing.Transaction{}, nil)
		f.txnRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

		res, err := f.svc.CompleteVisit(context.Background(), f.cmd(150000, 0), "doctor", "")
		require.NoError(t, err)
		assert.Equal(t, booked.ID, res.Appointment.ID)
		f.apptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("retried submission does not duplicate work or billing", func(t *testing.T) {
		f := newVisitFixture(t)
		apptID := uuid.New()
		// notes already carry the exact block from the first submission
		completed := &appointment.Appointment{
			ID:        apptID,
			ClinicID:  f.clinicID,
			PatientID: f.patientID,
			DoctorID:  f.doctorID,
			Date:      fixedNow,
			Status:    appointment.StatusCompleted,
			Notes:     "Bajarilgan ishlar:\n- Plomba (Tish #36)",
		}
		priorEntries := []*procedure.Entry{{AppointmentID: apptID, ServiceName: "Plomba", Price: 150000}}
		priorTxns := []*billing.Transaction{{Amount: 150000, Status: billing.StatusPaid}}

		f.apptRepo.On("FindActiveByPatientOnDay", mock.Anything, f.clinicID, f.patientID, mock.Anything).Return(completed, nil)
		f.apptRepo.On("UpdateStatus", mock.Anything, completed).Return(nil)
		f.procRepo.On("ListByAppointment", mock.Anything, apptID).Return(priorEntries, nil)
		f.txnRepo.On("ListByFingerprint", mock.Anything, f.clinicID, mock.Anything).Return(priorTxns, nil)

		res, err := f.svc.CompleteVisit(context.Background(), f.cmd(150000, 0), "doctor", "")
		require.NoError(t, err)

		f.procRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
		f.txnRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
		assert.True(t, res.Settlement.Duplicate)
		assert.Equal(t, priorEntries, res.Entries)
		// the block appears once, not twice
		assert.Equal(t, 1, strings.Count(res.Appointment.Notes, "- Plomba (Tish #36)"))
	})

	t.Run("free visit records work without billing", func(t *testing.T) {
		f := newVisitFixture(t)
		f.apptRepo.On("FindActiveByPatientOnDay", mock.Anything, f.clinicID, f.patientID, mock.Anything).
			Return(nil, appointment.ErrAppointmentNotFound)
		f.apptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.apptRepo.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
		f.procRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

		res, err := f.svc.CompleteVisit(context.Background(), f.cmd(0, 0), "doctor", "")
		require.NoError(t, err)
		assert.Nil(t, res.Settlement)
		f.txnRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("unknown service id is a validation error", func(t *testing.T) {
		f := newVisitFixture(t)
		badID := uuid.New()
		f.catalogRepo.On("GetByID", mock.Anything, badID).Return(nil, catalog.ErrServiceNotFound)

		cmd := f.cmd(10000, 0)
		cmd.Items = []VisitItem{{ServiceID: badID}}
		_, err := f.svc.CompleteVisit(context.Background(), cmd, "doctor", "")

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("no items is rejected", func(t *testing.T) {
		f := newVisitFixture(t)
		cmd := f.cmd(10000, 0)
		cmd.Items = nil
		_, err := f.svc.CompleteVisit(context.Background(), cmd, "doctor", "")

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("price override replaces the list price", func(t *testing.T) {
		f := newVisitFixture(t)
		f.apptRepo.On("FindActiveByPatientOnDay", mock.Anything, f.clinicID, f.patientID, mock.Anything).
			Return(nil, appointment.ErrAppointmentNotFound)
		f.apptRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.apptRepo.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
		f.procRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

		cmd := f.cmd(0, 0)
		cmd.Items[0].Price = 120000
		res, err := f.svc.CompleteVisit(context.Background(), cmd, "doctor", "")
		require.NoError(t, err)
		assert.Equal(t, int64(120000), res.Entries[0].Price)
	})
}
