package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error

	// GetByID returns ErrPatientNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)

	Update(ctx context.Context, p *Patient) error
}
