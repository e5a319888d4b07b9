package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinika/dentis/internal/domain/appointment"
	"github.com/klinika/dentis/internal/service"
)

type AppointmentHandler struct {
	apptSvc *service.AppointmentService
}

func NewAppointmentHandler(apptSvc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{apptSvc: apptSvc}
}

type createAppointmentRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID     uuid.UUID `json:"doctor_id" binding:"required"`
	Date         string    `json:"date" binding:"required"`
	StartMin     int       `json:"start_min"`
	DurationMins int       `json:"duration_mins"`
	Notes        string    `json:"notes"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, 400, "invalid date: expected YYYY-MM-DD")
		return
	}
	if req.DurationMins == 0 {
		req.DurationMins = 30
	}

	claims := callerClaims(c)
	a, err := h.apptSvc.Book(c.Request.Context(), &appointment.CreateAppointmentCommand{
		ClinicID:     claims.ClinicID,
		PatientID:    req.PatientID,
		DoctorID:     req.DoctorID,
		Date:         day,
		StartMin:     req.StartMin,
		DurationMins: req.DurationMins,
		Notes:        req.Notes,
		CreatedBy:    claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	a, err := h.apptSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	claims := callerClaims(c)
	q := &appointment.ListAppointmentsQuery{
		ClinicID: claims.ClinicID,
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("patient_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.PatientID = &id
		}
	}
	if raw := c.Query("doctor_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.DoctorID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		st := appointment.Status(raw)
		if st.IsValid() {
			q.Status = &st
		}
	}
	if from := parseQueryDate(c, "from"); !from.IsZero() {
		q.DateFrom = &from
	}
	if to := parseQueryDate(c, "to"); !to.IsZero() {
		q.DateTo = &to
	}

	page, err := h.apptSvc.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type updateStatusRequest struct {
	Status appointment.Status `json:"status" binding:"required"`
	Notes  *string            `json:"notes"`
	Reason string             `json:"reason"`
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	a, err := h.apptSvc.UpdateStatus(c.Request.Context(), id, &appointment.UpdateStatusCommand{
		Status:    req.Status,
		Notes:     req.Notes,
		Reason:    req.Reason,
		UpdatedBy: claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	claims := callerClaims(c)
	if err := h.apptSvc.HardDelete(c.Request.Context(), id, string(claims.Role), claims.UserID, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(204)
}
