package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
	"github.com/klinika/dentis/internal/domain/patient"
	"github.com/klinika/dentis/internal/service"
)

type RegistryHandler struct {
	registrySvc *service.RegistryService
}

func NewRegistryHandler(registrySvc *service.RegistryService) *RegistryHandler {
	return &RegistryHandler{registrySvc: registrySvc}
}

type createPatientRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

func (h *RegistryHandler) CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		d, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			respondError(c, 400, "invalid date_of_birth: expected YYYY-MM-DD")
			return
		}
		dob = &d
	}

	claims := callerClaims(c)
	p, err := h.registrySvc.CreatePatient(c.Request.Context(), &patient.CreatePatientCommand{
		ClinicID:    claims.ClinicID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		DateOfBirth: dob,
		Address:     req.Address,
		Notes:       req.Notes,
		CreatedBy:   claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *RegistryHandler) GetPatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.registrySvc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *RegistryHandler) ListPatients(c *gin.Context) {
	claims := callerClaims(c)
	page, err := h.registrySvc.ListPatients(c.Request.Context(), &patient.ListPatientsQuery{
		ClinicID: claims.ClinicID,
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type updatePatientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}

func (h *RegistryHandler) UpdatePatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.registrySvc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	p.FirstName = req.FirstName
	p.LastName = req.LastName
	p.Phone = req.Phone
	p.Address = req.Address
	p.Notes = req.Notes

	claims := callerClaims(c)
	if err := h.registrySvc.UpdatePatient(c.Request.Context(), p, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type createDoctorRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Specialty  string `json:"specialty"`
	Phone      string `json:"phone"`
	Percentage int    `json:"percentage"`
}

func (h *RegistryHandler) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	d, err := h.registrySvc.CreateDoctor(c.Request.Context(), &doctor.CreateDoctorCommand{
		ClinicID:   claims.ClinicID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Specialty:  req.Specialty,
		Phone:      req.Phone,
		Percentage: req.Percentage,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, d)
}

func (h *RegistryHandler) ListDoctors(c *gin.Context) {
	claims := callerClaims(c)
	doctors, err := h.registrySvc.ListDoctors(c.Request.Context(), claims.ClinicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doctors)
}

type updateDoctorRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Specialty  string `json:"specialty"`
	Phone      string `json:"phone"`
	Percentage int    `json:"percentage"`
	IsActive   *bool  `json:"is_active"`
}

func (h *RegistryHandler) UpdateDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.registrySvc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	d.FirstName = req.FirstName
	d.LastName = req.LastName
	d.Specialty = req.Specialty
	d.Phone = req.Phone
	d.Percentage = req.Percentage
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	claims := callerClaims(c)
	if err := h.registrySvc.UpdateDoctor(c.Request.Context(), d, claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

type createServiceRequest struct {
	Name           string `json:"name" binding:"required"`
	Category       string `json:"category"`
	Price          int64  `json:"price" binding:"required"`
	TechnicianCost int64  `json:"technician_cost"`
}

func (h *RegistryHandler) CreateService(c *gin.Context) {
	var req createServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	svc, err := h.registrySvc.CreateService(c.Request.Context(), &catalog.CreateServiceCommand{
		ClinicID:       claims.ClinicID,
		Name:           req.Name,
		Category:       req.Category,
		Price:          req.Price,
		TechnicianCost: req.TechnicianCost,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, svc)
}

func (h *RegistryHandler) ListServices(c *gin.Context) {
	claims := callerClaims(c)
	services, err := h.registrySvc.ListServices(c.Request.Context(), claims.ClinicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, services)
}
