package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/service"
)

type VisitHandler struct {
	visitSvc *service.VisitService
}

func NewVisitHandler(visitSvc *service.VisitService) *VisitHandler {
	return &VisitHandler{visitSvc: visitSvc}
}

type visitItemRequest struct {
	ServiceID   uuid.UUID `json:"service_id" binding:"required"`
	ToothNumber *int      `json:"tooth_number"`
	Price       int64     `json:"price"`
	Note        string    `json:"note"`
}

type completeVisitRequest struct {
	PatientID uuid.UUID             `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID             `json:"doctor_id" binding:"required"`
	Items     []visitItemRequest    `json:"items" binding:"required"`
	Paid      int64                 `json:"paid"`
	Debt      int64                 `json:"debt"`
	Method    billing.PaymentMethod `json:"method"`
}

// Complete closes out a visit: records the work performed, completes
// the day's appointment and settles the payment split in one call.
// Resubmitting the same visit is safe.
func (h *VisitHandler) Complete(c *gin.Context) {
	var req completeVisitRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.VisitItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.VisitItem{
			ServiceID:   it.ServiceID,
			ToothNumber: it.ToothNumber,
			Price:       it.Price,
			Note:        it.Note,
		})
	}
	if req.Method == "" {
		req.Method = billing.MethodCash
	}

	claims := callerClaims(c)
	res, err := h.visitSvc.CompleteVisit(c.Request.Context(), &service.CompleteVisitCommand{
		ClinicID:  claims.ClinicID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Items:     items,
		Paid:      req.Paid,
		Debt:      req.Debt,
		Method:    req.Method,
		CreatedBy: claims.UserID,
	}, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, res)
}

// History lists a patient's committed procedures, newest first.
func (h *VisitHandler) History(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	claims := callerClaims(c)
	entries, err := h.visitSvc.History(c.Request.Context(), claims.ClinicID, patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entries)
}
