package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/pkg/dateutil"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *billing.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) CreateBatch(ctx context.Context, txns []*billing.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range txns {
			if err := tx.Create(t).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && strings.Contains(err.Error(), "uq_transactions_fingerprint") {
		return billing.ErrAlreadySettled
	}
	return err
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*billing.Transaction, error) {
	var t billing.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *billing.Transaction) error {
	res := r.db.WithContext(ctx).Model(t).
		Select("amount", "status", "service_label", "fingerprint").
		Updates(t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return billing.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, q *billing.ListTransactionsQuery) (*billing.PagedTransactions, error) {
	tx := r.db.WithContext(ctx).Model(&billing.Transaction{}).
		Where("clinic_id = ?", q.ClinicID)

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

	var txns []*billing.Transaction
	err := tx.Order("date DESC, created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}

	return &billing.PagedTransactions{
		Transactions: txns,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages(total, q.PageSize),
	}, nil
}

func (r *TransactionRepository) ListByFingerprint(ctx context.Context, clinicID uuid.UUID, fingerprint string) ([]*billing.Transaction, error) {
	var txns []*billing.Transaction
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND fingerprint = ?", clinicID, fingerprint).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) ListOutstanding(ctx context.Context, clinicID uuid.UUID) ([]*billing.Transaction, error) {
	var txns []*billing.Transaction
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND status IN ?", clinicID,
			[]billing.Status{billing.StatusPending, billing.StatusOverdue}).
		Order("date ASC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) ListInRange(ctx context.Context, clinicID uuid.UUID, from, to time.Time) ([]*billing.Transaction, error) {
	var txns []*billing.Transaction
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND date >= ? AND date <= ?",
			clinicID, dateutil.DayStart(from), dateutil.DayStart(to)).
		Order("date ASC").
		Find(&txns).Error
	return txns, err
}
