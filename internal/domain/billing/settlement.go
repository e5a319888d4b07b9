package billing

import (
	"time"

	"github.com/google/uuid"
)

// Service-label suffixes marking how an episode was settled.
const (
	suffixPartial    = " (Qisman to'lov)" // partial payment
	suffixDebt       = " (Qarz)"          // debt
	suffixDebtClosed = " (Qarz yopildi)"  // debt closed
)

type SettleRequest struct {
	ClinicID     uuid.UUID
	PatientID    *uuid.UUID
	PatientName  string
	DoctorID     *uuid.UUID
	DoctorName   string
	Date         time.Time
	ServiceLabel string
	Method       PaymentMethod
	Paid         int64
	Debt         int64
	Fingerprint  string
	CreatedBy    uuid.UUID
}

// Total is derived from the two amounts; the engine never trusts a
// caller-computed total.
func (r SettleRequest) Total() int64 {
	return r.Paid + r.Debt
}

// Settle converts an episode total into postings. Exactly one of three
// shapes comes back:
//
//	debt == 0 → one paid transaction for the full amount
//	paid == 0 → one pending transaction for the full amount
//	both  > 0 → a paid/pending pair summing to the total
//
// The emitted amounts always sum to Paid+Debt exactly and every posting
// is strictly positive. Settle itself is pure; idempotency across
// retried calls is the caller's job via the fingerprint.
func Settle(req SettleRequest) ([]*Transaction, error) {
	if req.Paid < 0 || req.Debt < 0 {
		return nil, ErrNegativeAmount
	}
	if req.Total() <= 0 {
		return nil, ErrNothingToSettle
	}
	if !req.Method.IsValid() {
		return nil, ErrInvalidMethod
	}

	base := func(amount int64, status Status, label string) *Transaction {
		return &Transaction{
			ClinicID:     req.ClinicID,
			PatientID:    req.PatientID,
			PatientName:  req.PatientName,
			Date:         req.Date,
			Amount:       amount,
			Method:       req.Method,
			ServiceLabel: label,
			Status:       status,
			DoctorID:     req.DoctorID,
			DoctorName:   req.DoctorName,
			Fingerprint:  req.Fingerprint,
			CreatedBy:    req.CreatedBy,
		}
	}

	switch {
	case req.Debt <= 0:
		return []*Transaction{base(req.Paid, StatusPaid, req.ServiceLabel)}, nil
	case req.Paid <= 0:
		return []*Transaction{base(req.Debt, StatusPending, req.ServiceLabel)}, nil
	default:
		return []*Transaction{
			base(req.Paid, StatusPaid, req.ServiceLabel+suffixPartial),
			base(req.Debt, StatusPending, req.ServiceLabel+suffixDebt),
		}, nil
	}
}

// Repay applies a repayment to an outstanding transaction.
//
// amount < outstanding: split — a new paid transaction for the repaid
// amount is returned and the original is reduced by the same quantity,
// remaining pending for the rest. amount >= outstanding: the original
// itself flips to paid and its amount is overwritten to the new value.
// The original is mutated in place; the caller persists both records.
func Repay(orig *Transaction, amount int64, now time.Time, createdBy uuid.UUID) (*Transaction, error) {
	if !orig.Status.Outstanding() {
		return nil, ErrNotOutstanding
	}
	if amount <= 0 {
		return nil, ErrNegativeAmount
	}

	if amount >= orig.Amount {
		orig.Status = StatusPaid
		orig.Amount = amount
		// The settlement's own paid posting may already hold
		// (clinic, fingerprint, paid); the flipped row must not
		// land on the same key.
		orig.Fingerprint = ""
		return nil, nil
	}

	paid := &Transaction{
		ClinicID:     orig.ClinicID,
		PatientID:    orig.PatientID,
		PatientName:  orig.PatientName,
		Date:         now,
		Amount:       amount,
		Method:       orig.Method,
		ServiceLabel: orig.ServiceLabel + suffixDebtClosed,
		Status:       StatusPaid,
		DoctorID:     orig.DoctorID,
		DoctorName:   orig.DoctorName,
		CreatedBy:    createdBy,
	}
	orig.Amount -= amount
	return paid, nil
}
