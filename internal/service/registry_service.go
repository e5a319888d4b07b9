package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/domain"
	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
	"github.com/klinika/dentis/internal/domain/patient"
)

// RegistryService manages the clinic's reference data: patients,
// doctors and the priced service catalog.
type RegistryService struct {
	patientRepo patient.Repository
	doctorRepo  doctor.Repository
	catalogRepo catalog.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewRegistryService(
	patientRepo patient.Repository,
	doctorRepo doctor.Repository,
	catalogRepo catalog.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *RegistryService {
	return &RegistryService{
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		catalogRepo: catalogRepo,
		auditSvc:    auditSvc,
		log:         log,
	}
}

func (s *RegistryService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand, callerID uuid.UUID, callerRole, ip string) (*patient.Patient, error) {
	if strings.TrimSpace(cmd.FirstName) == "" || strings.TrimSpace(cmd.LastName) == "" {
		return nil, patient.ErrNameRequired
	}

	p := &patient.Patient{
		ClinicID:    cmd.ClinicID,
		FirstName:   strings.TrimSpace(cmd.FirstName),
		LastName:    strings.TrimSpace(cmd.LastName),
		Phone:       cmd.Phone,
		DateOfBirth: cmd.DateOfBirth,
		Address:     cmd.Address,
		Notes:       cmd.Notes,
		CreatedBy:   cmd.CreatedBy,
	}
	if err := s.patientRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "patient", ResourceID: p.ID.String(), IPAddress: ip,
	})
	return p, nil
}

func (s *RegistryService) GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.patientRepo.GetByID(ctx, id)
}

func (s *RegistryService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.patientRepo.List(ctx, q)
}

func (s *RegistryService) UpdatePatient(ctx context.Context, p *patient.Patient, callerID uuid.UUID, callerRole, ip string) error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return patient.ErrNameRequired
	}
	if err := s.patientRepo.Update(ctx, p); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "patient", ResourceID: p.ID.String(), IPAddress: ip,
	})
	return nil
}

func (s *RegistryService) CreateDoctor(ctx context.Context, cmd *doctor.CreateDoctorCommand, callerID uuid.UUID, callerRole, ip string) (*doctor.Doctor, error) {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if cmd.Percentage < 0 || cmd.Percentage > 100 {
		return nil, doctor.ErrInvalidPercentage
	}

	d := &doctor.Doctor{
		ClinicID:   cmd.ClinicID,
		FirstName:  strings.TrimSpace(cmd.FirstName),
		LastName:   strings.TrimSpace(cmd.LastName),
		Specialty:  cmd.Specialty,
		Phone:      cmd.Phone,
		Percentage: cmd.Percentage,
		IsActive:   true,
	}
	if err := s.doctorRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "doctor", ResourceID: d.ID.String(), IPAddress: ip,
	})
	return d, nil
}

func (s *RegistryService) GetDoctor(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.doctorRepo.GetByID(ctx, id)
}

func (s *RegistryService) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*doctor.Doctor, error) {
	return s.doctorRepo.ListByClinic(ctx, clinicID)
}

func (s *RegistryService) UpdateDoctor(ctx context.Context, d *doctor.Doctor, callerID uuid.UUID, callerRole, ip string) error {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return ErrForbidden
	}
	if d.Percentage < 0 || d.Percentage > 100 {
		return doctor.ErrInvalidPercentage
	}
	if err := s.doctorRepo.Update(ctx, d); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "doctor", ResourceID: d.ID.String(), IPAddress: ip,
	})
	return nil
}

func (s *RegistryService) CreateService(ctx context.Context, cmd *catalog.CreateServiceCommand, callerID uuid.UUID, callerRole, ip string) (*catalog.Service, error) {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if cmd.Price <= 0 {
		return nil, catalog.ErrInvalidPrice
	}

	svc := &catalog.Service{
		ClinicID:       cmd.ClinicID,
		Name:           strings.TrimSpace(cmd.Name),
		Category:       cmd.Category,
		Price:          cmd.Price,
		TechnicianCost: cmd.TechnicianCost,
	}
	if svc.Name == "" {
		return nil, &ValidationError{Fields: []string{"name: service name is required"}}
	}
	if err := s.catalogRepo.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "service", ResourceID: svc.ID.String(), IPAddress: ip,
	})
	return svc, nil
}

func (s *RegistryService) ListServices(ctx context.Context, clinicID uuid.UUID) ([]*catalog.Service, error) {
	return s.catalogRepo.ListByClinic(ctx, clinicID)
}

func (s *RegistryService) UpdateService(ctx context.Context, svc *catalog.Service, callerID uuid.UUID, callerRole, ip string) error {
	if domain.Role(callerRole) != domain.RoleAdmin {
		return ErrForbidden
	}
	if svc.Price <= 0 {
		return catalog.ErrInvalidPrice
	}
	if err := s.catalogRepo.Update(ctx, svc); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "service", ResourceID: svc.ID.String(), IPAddress: ip,
	})
	return nil
}
