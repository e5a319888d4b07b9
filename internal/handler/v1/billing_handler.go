package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/service"
)

type BillingHandler struct {
	billingSvc *service.BillingService
}

func NewBillingHandler(billingSvc *service.BillingService) *BillingHandler {
	return &BillingHandler{billingSvc: billingSvc}
}

type settleRequest struct {
	PatientID    *uuid.UUID            `json:"patient_id"`
	PatientName  string                `json:"patient_name" binding:"required"`
	DoctorID     *uuid.UUID            `json:"doctor_id"`
	DoctorName   string                `json:"doctor_name"`
	Date         string                `json:"date"`
	ServiceLabel string                `json:"service_label" binding:"required"`
	Method       billing.PaymentMethod `json:"method" binding:"required"`
	Paid         int64                 `json:"paid"`
	Debt         int64                 `json:"debt"`
	ProcedureIDs []uuid.UUID           `json:"procedure_ids"`
}

// Settle posts an episode's payment split. A retried identical request
// answers 200 with the original postings instead of 201.
func (h *BillingHandler) Settle(c *gin.Context) {
	var req settleRequest
	if !bindJSON(c, &req) {
		return
	}

	date := time.Now()
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(c, 400, "invalid date: expected YYYY-MM-DD")
			return
		}
		date = d
	}

	claims := callerClaims(c)
	res, err := h.billingSvc.Settle(c.Request.Context(), billing.SettleRequest{
		ClinicID:     claims.ClinicID,
		PatientID:    req.PatientID,
		PatientName:  req.PatientName,
		DoctorID:     req.DoctorID,
		DoctorName:   req.DoctorName,
		Date:         date,
		ServiceLabel: req.ServiceLabel,
		Method:       req.Method,
		Paid:         req.Paid,
		Debt:         req.Debt,
		CreatedBy:    claims.UserID,
	}, req.ProcedureIDs, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if res.Duplicate {
		c.JSON(http.StatusOK, APIResponse[any]{Data: res.Transactions, Message: "already settled"})
		return
	}
	respondCreated(c, res.Transactions)
}

type repayRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (h *BillingHandler) Repay(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req repayRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := callerClaims(c)
	txns, err := h.billingSvc.Repay(c.Request.Context(), id, req.Amount, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, txns)
}

type createTransactionRequest struct {
	PatientID    *uuid.UUID            `json:"patient_id"`
	PatientName  string                `json:"patient_name" binding:"required"`
	DoctorID     *uuid.UUID            `json:"doctor_id"`
	DoctorName   string                `json:"doctor_name"`
	Date         string                `json:"date" binding:"required"`
	Amount       int64                 `json:"amount" binding:"required"`
	Method       billing.PaymentMethod `json:"method" binding:"required"`
	ServiceLabel string                `json:"service_label"`
	Status       billing.Status        `json:"status"`
}

func (h *BillingHandler) Create(c *gin.Context) {
	var req createTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, 400, "invalid date: expected YYYY-MM-DD")
		return
	}

	claims := callerClaims(c)
	txn, err := h.billingSvc.RecordManual(c.Request.Context(), &billing.CreateTransactionCommand{
		ClinicID:     claims.ClinicID,
		PatientID:    req.PatientID,
		PatientName:  req.PatientName,
		Date:         date,
		Amount:       req.Amount,
		Method:       req.Method,
		ServiceLabel: req.ServiceLabel,
		Status:       req.Status,
		DoctorID:     req.DoctorID,
		DoctorName:   req.DoctorName,
		CreatedBy:    claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, txn)
}

func (h *BillingHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	txn, err := h.billingSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, txn)
}

func (h *BillingHandler) List(c *gin.Context) {
	claims := callerClaims(c)
	q := &billing.ListTransactionsQuery{
		ClinicID: claims.ClinicID,
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("patient_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.PatientID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		st := billing.Status(raw)
		q.Status = &st
	}
	if from := parseQueryDate(c, "from"); !from.IsZero() {
		q.DateFrom = &from
	}
	if to := parseQueryDate(c, "to"); !to.IsZero() {
		q.DateTo = &to
	}

	page, err := h.billingSvc.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}
