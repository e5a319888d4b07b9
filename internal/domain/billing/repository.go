package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Transaction) error

	// CreateBatch persists one settlement's postings atomically.
	CreateBatch(ctx context.Context, txns []*Transaction) error

	// GetByID returns ErrTransactionNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// Update persists amount/status changes made by a repayment.
	Update(ctx context.Context, t *Transaction) error

	List(ctx context.Context, q *ListTransactionsQuery) (*PagedTransactions, error)

	// ListByFingerprint returns a prior settlement's postings, empty when
	// the fingerprint has never been posted.
	ListByFingerprint(ctx context.Context, clinicID uuid.UUID, fingerprint string) ([]*Transaction, error)

	// ListOutstanding returns every pending/overdue transaction for the
	// clinic — input to the debtor ranking.
	ListOutstanding(ctx context.Context, clinicID uuid.UUID) ([]*Transaction, error)

	// ListInRange returns all transactions dated within [from, to] —
	// input to per-doctor revenue allocation.
	ListInRange(ctx context.Context, clinicID uuid.UUID, from, to time.Time) ([]*Transaction, error)
}
