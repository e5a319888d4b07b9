package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
	"github.com/klinika/dentis/pkg/dateutil"
)

// DoctorReport is the per-doctor earnings report for one period.
type DoctorReport struct {
	DoctorID   uuid.UUID       `json:"doctor_id"`
	DoctorName string          `json:"doctor_name"`
	Percentage int             `json:"percentage"`
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Summary    billing.Summary `json:"summary"`
}

type AnalyticsService struct {
	txnRepo     billing.Repository
	doctorRepo  doctor.Repository
	catalogRepo catalog.Repository
	log         *zap.Logger
	now         func() time.Time
}

func NewAnalyticsService(
	txnRepo billing.Repository,
	doctorRepo doctor.Repository,
	catalogRepo catalog.Repository,
	log *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		txnRepo:     txnRepo,
		doctorRepo:  doctorRepo,
		catalogRepo: catalogRepo,
		log:         log,
		now:         time.Now,
	}
}

// Debtors returns the clinic's outstanding balances ranked by amount.
func (s *AnalyticsService) Debtors(ctx context.Context, clinicID uuid.UUID) ([]billing.DebtorView, error) {
	outstanding, err := s.txnRepo.ListOutstanding(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("listing outstanding transactions: %w", err)
	}
	return billing.AggregateDebtors(outstanding, s.now()), nil
}

// DoctorReport computes one doctor's revenue allocation over [from, to].
// A zero period defaults to the current week.
func (s *AnalyticsService) DoctorReport(ctx context.Context, clinicID, doctorID uuid.UUID, from, to time.Time) (*DoctorReport, error) {
	target, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if from.IsZero() || to.IsZero() {
		now := s.now()
		from, to = dateutil.WeekStart(now), dateutil.WeekEnd(now)
	}
	from, to = dateutil.DayStart(from), dateutil.DayEnd(to)

	txns, err := s.txnRepo.ListInRange(ctx, clinicID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing transactions in range: %w", err)
	}
	doctors, err := s.doctorRepo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("listing clinic doctors: %w", err)
	}
	services, err := s.catalogRepo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("listing clinic services: %w", err)
	}

	return &DoctorReport{
		DoctorID:   target.ID,
		DoctorName: target.FullName(),
		Percentage: target.Percentage,
		From:       from,
		To:         to,
		Summary:    billing.Allocate(txns, target, doctors, services),
	}, nil
}
