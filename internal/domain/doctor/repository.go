package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error

	// GetByID returns ErrDoctorNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// ListByClinic returns all active doctors for a clinic. Revenue
	// attribution needs the full set to apply the single-doctor shortcut.
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Doctor, error)

	Update(ctx context.Context, d *Doctor) error
}
