// Package billing converts clinical episodes into financial records:
// settlement of a visit total into paid/owed postings, debt repayment,
// per-doctor revenue allocation and the clinic's debtor ranking.
//
// All amounts are whole currency units (so'm); no fractional-currency
// arithmetic happens anywhere in the package.
package billing

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	MethodCash      PaymentMethod = "cash"
	MethodCard      PaymentMethod = "card"
	MethodInsurance PaymentMethod = "insurance"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodInsurance:
		return true
	}
	return false
}

type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
)

// Outstanding reports whether the transaction represents unpaid debt.
func (s Status) Outstanding() bool {
	return s == StatusPending || s == StatusOverdue
}

// Transaction is one monetary posting. A partially paid episode is two
// transactions (one paid, one pending) summing to the episode total —
// never one transaction with a "partial" status. Amount is always > 0.
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ClinicID uuid.UUID `gorm:"column:clinic_id;type:uuid;not null;index" json:"clinic_id"`

	// PatientID is nil on legacy rows imported from the old ledger; those
	// are matched by PatientName instead (see resolver precedence notes).
	PatientID   *uuid.UUID `gorm:"column:patient_id;type:uuid;index" json:"patient_id,omitempty"`
	PatientName string     `gorm:"column:patient_name;type:varchar(255);not null;index" json:"patient_name"`

	Date         time.Time     `gorm:"column:date;type:date;not null;index" json:"date"`
	Amount       int64         `gorm:"column:amount;not null" json:"amount"`
	Method       PaymentMethod `gorm:"column:method;type:varchar(20);not null" json:"method"`
	ServiceLabel string        `gorm:"column:service_label;type:text;not null" json:"service_label"`
	Status       Status        `gorm:"column:status;type:varchar(20);not null;index" json:"status"`

	// Optional revenue attribution. Legacy rows may carry only a name.
	DoctorID   *uuid.UUID `gorm:"column:doctor_id;type:uuid;index" json:"doctor_id,omitempty"`
	DoctorName string     `gorm:"column:doctor_name;type:varchar(255)" json:"doctor_name,omitempty"`

	// Fingerprint groups the postings of one settlement call; a reposted
	// fingerprint returns the original batch instead of new rows.
	Fingerprint string `gorm:"column:fingerprint;type:varchar(64);index" json:"-"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
}

func (Transaction) TableName() string {
	return "billing.transactions"
}

type CreateTransactionCommand struct {
	ClinicID     uuid.UUID
	PatientID    *uuid.UUID
	PatientName  string
	Date         time.Time
	Amount       int64
	Method       PaymentMethod
	ServiceLabel string
	Status       Status
	DoctorID     *uuid.UUID
	DoctorName   string
	CreatedBy    uuid.UUID
}

type ListTransactionsQuery struct {
	ClinicID  uuid.UUID
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedTransactions struct {
	Transactions []*Transaction
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
