package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
)

func TestDoctorReport(t *testing.T) {
	clinicID := uuid.New()
	doctorID := uuid.New()
	target := &doctor.Doctor{ID: doctorID, FirstName: "Aziz", LastName: "Yusupov", Percentage: 40}

	txnRepo := &mockTransactionRepo{}
	doctorRepo := &mockDoctorRepo{}
	catalogRepo := &mockCatalogRepo{}

	doctorRepo.On("GetByID", mock.Anything, doctorID).Return(target, nil)
	doctorRepo.On("ListByClinic", mock.Anything, clinicID).Return([]*doctor.Doctor{target}, nil)
	catalogRepo.On("ListByClinic", mock.Anything, clinicID).Return([]*catalog.Service{
		{Name: "Plomba", Price: 150000, TechnicianCost: 50000},
	}, nil)
	txnRepo.On("ListInRange", mock.Anything, clinicID, mock.Anything, mock.Anything).Return([]*billing.Transaction{
		{Amount: 150000, ServiceLabel: "Plomba", DoctorID: &doctorID, Status: billing.StatusPaid},
		{Amount: 150000, ServiceLabel: "Plomba (Qarz)", DoctorID: &doctorID, Status: billing.StatusPending},
	}, nil)

	svc := NewAnalyticsService(txnRepo, doctorRepo, catalogRepo, testLogger())
	svc.now = func() time.Time { return fixedNow }

	rep, err := svc.DoctorReport(context.Background(), clinicID, doctorID, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "Yusupov Aziz", rep.DoctorName)
	assert.Equal(t, int64(300000), rep.Summary.GrossRevenue)
	assert.Equal(t, int64(100000), rep.Summary.TechnicianCosts)
	assert.Equal(t, int64(200000), rep.Summary.NetRevenue)
	assert.Equal(t, int64(80000), rep.Summary.DoctorSalary)

	// zero period defaults to the current week
	assert.Equal(t, time.Monday, rep.From.Weekday())
	assert.True(t, rep.From.Before(rep.To))
}

func TestDoctorReportUnknownDoctor(t *testing.T) {
	doctorRepo := &mockDoctorRepo{}
	doctorRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, doctor.ErrDoctorNotFound)

	svc := NewAnalyticsService(&mockTransactionRepo{}, doctorRepo, &mockCatalogRepo{}, testLogger())
	_, err := svc.DoctorReport(context.Background(), uuid.New(), uuid.New(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)
}

func TestDebtorsReport(t *testing.T) {
	clinicID := uuid.New()
	txnRepo := &mockTransactionRepo{}
	txnRepo.On("ListOutstanding", mock.Anything, clinicID).Return([]*billing.Transaction{
		{PatientName: "Karimova Dilnoza", Amount: 40000, Date: fixedNow.AddDate(0, 0, -10), Status: billing.StatusPending},
		{PatientName: "Rahimov Bekzod", Amount: 90000, Date: fixedNow.AddDate(0, 0, -3), Status: billing.StatusPending},
		{PatientName: "Karimova Dilnoza", Amount: 20000, Date: fixedNow.AddDate(0, 0, -2), Status: billing.StatusOverdue},
	}, nil)

	svc := NewAnalyticsService(txnRepo, &mockDoctorRepo{}, &mockCatalogRepo{}, testLogger())
	svc.now = func() time.Time { return fixedNow }

	debtors, err := svc.Debtors(context.Background(), clinicID)
	require.NoError(t, err)
	require.Len(t, debtors, 2)

	assert.Equal(t, "Rahimov Bekzod", debtors[0].PatientName)
	assert.Equal(t, int64(90000), debtors[0].Amount)
	assert.Equal(t, "Karimova Dilnoza", debtors[1].PatientName)
	assert.Equal(t, int64(60000), debtors[1].Amount)
	assert.Equal(t, 10, debtors[1].DaysOverdue)
}
