package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/pkg/dateutil"
	"github.com/klinika/dentis/pkg/metrics"
)

type BillingService struct {
	repo         billing.Repository
	auditSvc     *AuditService
	log          *zap.Logger
	m            *metrics.Collector
	overdueAfter time.Duration
	now          func() time.Time
}

func NewBillingService(
	repo billing.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
	m *metrics.Collector,
	overdueAfter time.Duration,
) *BillingService {
	return &BillingService{
		repo:         repo,
		auditSvc:     auditSvc,
		log:          log,
		m:            m,
		overdueAfter: overdueAfter,
		now:          time.Now,
	}
}

// SettleResult carries a settlement's postings plus whether they were
// produced by this call or recovered from an earlier identical one.
type SettleResult struct {
	Transactions []*billing.Transaction
	Duplicate    bool
}

// Settle posts an episode's payment split. Retrying the same episode
// (same clinic, patient, day, total and procedure set) returns the
// original postings instead of double-billing.
func (s *BillingService) Settle(
	ctx context.Context,
	req billing.SettleRequest,
	procedureIDs []uuid.UUID,
	callerID uuid.UUID,
	callerRole string,
	ip string,
) (*SettleResult, error) {
	if req.Fingerprint == "" {
		req.Fingerprint = billing.Fingerprint(req.ClinicID, req.PatientID, req.Date, req.Total(), procedureIDs)
	}

	prior, err := s.repo.ListByFingerprint(ctx, req.ClinicID, req.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("checking for prior settlement: %w", err)
	}
	if len(prior) > 0 {
		if s.m != nil {
			s.m.DuplicateSettles.Inc()
		}
		s.log.Info("duplicate settlement suppressed",
			zap.String("fingerprint", req.Fingerprint),
			zap.String("patient", req.PatientName),
		)
		return &SettleResult{Transactions: prior, Duplicate: true}, nil
	}

	txns, err := billing.Settle(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateBatch(ctx, txns); err != nil {
		// A concurrent call with the same fingerprint can win the
		// insert between our pre-check and here; recover its postings.
		if errors.Is(err, billing.ErrAlreadySettled) {
			prior, lerr := s.repo.ListByFingerprint(ctx, req.ClinicID, req.Fingerprint)
			if lerr == nil && len(prior) > 0 {
				if s.m != nil {
					s.m.DuplicateSettles.Inc()
				}
				return &SettleResult{Transactions: prior, Duplicate: true}, nil
			}
		}
		s.log.Error("failed to persist settlement", zap.Error(err))
		return nil, fmt.Errorf("persisting settlement: %w", err)
	}

	s.recordSettlement(txns, req)
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "settlement", ResourceID: req.Fingerprint, IPAddress: ip,
		Changes: fmt.Sprintf(`{"paid":%d,"debt":%d}`, req.Paid, req.Debt),
	})

	return &SettleResult{Transactions: txns}, nil
}

// Repay applies a payment against an outstanding transaction.
func (s *BillingService) Repay(
	ctx context.Context,
	id uuid.UUID,
	amount int64,
	callerID uuid.UUID,
	callerRole string,
	ip string,
) ([]*billing.Transaction, error) {
	orig, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	paid, err := billing.Repay(orig, amount, s.now(), callerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, orig); err != nil {
		return nil, fmt.Errorf("updating repaid transaction: %w", err)
	}
	out := []*billing.Transaction{orig}
	if paid != nil {
		if err := s.repo.Create(ctx, paid); err != nil {
			return nil, fmt.Errorf("recording repayment: %w", err)
		}
		out = append(out, paid)
	}

	if s.m != nil {
		s.m.DebtsRepaidTotal.Inc()
		s.m.SettledAmount.WithLabelValues(string(billing.StatusPaid)).Add(float64(amount))
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "transaction", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"repaid":%d}`, amount),
	})

	return out, nil
}

// RecordManual posts a single hand-entered transaction outside the
// settlement flow, e.g. an imported historical record.
func (s *BillingService) RecordManual(
	ctx context.Context,
	cmd *billing.CreateTransactionCommand,
	callerID uuid.UUID,
	callerRole string,
	ip string,
) (*billing.Transaction, error) {
	if cmd.Amount <= 0 {
		return nil, billing.ErrNegativeAmount
	}
	if !cmd.Method.IsValid() {
		return nil, billing.ErrInvalidMethod
	}
	if cmd.Status != billing.StatusPaid && cmd.Status != billing.StatusPending {
		cmd.Status = billing.StatusPaid
	}

	t := &billing.Transaction{
		ClinicID:     cmd.ClinicID,
		PatientID:    cmd.PatientID,
		PatientName:  cmd.PatientName,
		Date:         cmd.Date,
		Amount:       cmd.Amount,
		Method:       cmd.Method,
		ServiceLabel: cmd.ServiceLabel,
		Status:       cmd.Status,
		DoctorID:     cmd.DoctorID,
		DoctorName:   cmd.DoctorName,
		CreatedBy:    cmd.CreatedBy,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	if s.m != nil {
		s.m.SettledAmount.WithLabelValues(string(t.Status)).Add(float64(t.Amount))
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "transaction", ResourceID: t.ID.String(), IPAddress: ip,
	})

	return t, nil
}

func (s *BillingService) Get(ctx context.Context, id uuid.UUID) (*billing.Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BillingService) List(ctx context.Context, q *billing.ListTransactionsQuery) (*billing.PagedTransactions, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

// MarkOverdue flips pending transactions older than the configured
// grace period to overdue. Run periodically; already-overdue rows are
// left alone.
func (s *BillingService) MarkOverdue(ctx context.Context, clinicID uuid.UUID) (int, error) {
	outstanding, err := s.repo.ListOutstanding(ctx, clinicID)
	if err != nil {
		return 0, fmt.Errorf("listing outstanding transactions: %w", err)
	}

	cutoff := s.now().Add(-s.overdueAfter)
	marked := 0
	for _, t := range outstanding {
		if t.Status != billing.StatusPending || !t.Date.Before(dateutil.DayStart(cutoff)) {
			continue
		}
		t.Status = billing.StatusOverdue
		if err := s.repo.Update(ctx, t); err != nil {
			return marked, fmt.Errorf("marking transaction %s overdue: %w", t.ID, err)
		}
		marked++
	}

	if marked > 0 {
		s.log.Info("marked transactions overdue",
			zap.String("clinic_id", clinicID.String()),
			zap.Int("count", marked),
		)
	}
	return marked, nil
}

func (s *BillingService) recordSettlement(txns []*billing.Transaction, req billing.SettleRequest) {
	if s.m == nil {
		return
	}
	shape := "full_payment"
	switch {
	case req.Paid > 0 && req.Debt > 0:
		shape = "partial"
	case req.Paid == 0:
		shape = "full_debt"
	}
	s.m.SettlementsTotal.WithLabelValues(shape).Inc()
	for _, t := range txns {
		s.m.SettledAmount.WithLabelValues(string(t.Status)).Add(float64(t.Amount))
	}
}
