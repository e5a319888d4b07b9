package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Service) error

	// GetByID returns ErrServiceNotFound when the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)

	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Service, error)

	Update(ctx context.Context, s *Service) error
}
