package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/dentis/internal/domain/procedure"
)

type ProcedureRepository struct {
	db *gorm.DB
}

func NewProcedureRepository(db *gorm.DB) *ProcedureRepository {
	return &ProcedureRepository{db: db}
}

func (r *ProcedureRepository) CreateBatch(ctx context.Context, entries []*procedure.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProcedureRepository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*procedure.Entry, error) {
	var entries []*procedure.Entry
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ProcedureRepository) ListByPatient(ctx context.Context, clinicID, patientID uuid.UUID) ([]*procedure.Entry, error) {
	var entries []*procedure.Entry
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
