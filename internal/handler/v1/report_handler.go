package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/service"
)

type ReportHandler struct {
	analyticsSvc *service.AnalyticsService
	billingSvc   *service.BillingService
	log          *zap.Logger
}

func NewReportHandler(analyticsSvc *service.AnalyticsService, billingSvc *service.BillingService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{analyticsSvc: analyticsSvc, billingSvc: billingSvc, log: log}
}

// Debtors returns outstanding balances grouped by patient, largest
// first. Aged pending debts are flipped to overdue on the way.
func (h *ReportHandler) Debtors(c *gin.Context) {
	claims := callerClaims(c)
	if _, err := h.billingSvc.MarkOverdue(c.Request.Context(), claims.ClinicID); err != nil {
		h.log.Warn("overdue marking failed", zap.Error(err))
	}
	debtors, err := h.analyticsSvc.Debtors(c.Request.Context(), claims.ClinicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, debtors)
}

// DoctorReport returns one doctor's revenue allocation for the period
// given by from/to query params; default is the current week.
func (h *ReportHandler) DoctorReport(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims := callerClaims(c)
	rep, err := h.analyticsSvc.DoctorReport(
		c.Request.Context(),
		claims.ClinicID,
		doctorID,
		parseQueryDate(c, "from"),
		parseQueryDate(c, "to"),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rep)
}
