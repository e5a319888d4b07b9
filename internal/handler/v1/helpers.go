package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/klinika/dentis/internal/domain"
	"github.com/klinika/dentis/internal/domain/appointment"
	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
	"github.com/klinika/dentis/internal/domain/patient"
	"github.com/klinika/dentis/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, catalog.ErrServiceNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, billing.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrDoctorSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DOCTOR_SLOT_TAKEN"})

	case errors.Is(err, appointment.ErrPatientSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "PATIENT_SLOT_TAKEN"})

	case errors.Is(err, appointment.ErrScheduledInPast):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "SLOT_IN_PAST"})

	case errors.Is(err, appointment.ErrInvalidDuration),
		errors.Is(err, appointment.ErrInvalidStartMinute),
		errors.Is(err, appointment.ErrInvalidStatus),
		errors.Is(err, billing.ErrNegativeAmount),
		errors.Is(err, billing.ErrNothingToSettle),
		errors.Is(err, billing.ErrInvalidMethod),
		errors.Is(err, billing.ErrNotOutstanding),
		errors.Is(err, patient.ErrNameRequired),
		errors.Is(err, doctor.ErrInvalidPercentage),
		errors.Is(err, catalog.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// parseQueryDate accepts YYYY-MM-DD; a missing or malformed value
// yields the zero time.
func parseQueryDate(c *gin.Context, key string) time.Time {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// callerClaims pulls the authenticated identity set by the auth
// middleware. The middleware aborts unauthenticated requests, so a
// missing value means a route was wired outside the auth group.
func callerClaims(c *gin.Context) *domain.Claims {
	v, ok := c.Get("claims")
	if !ok {
		return &domain.Claims{}
	}
	claims, ok := v.(*domain.Claims)
	if !ok {
		return &domain.Claims{}
	}
	return claims
}
