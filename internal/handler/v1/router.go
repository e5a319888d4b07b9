package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/config"
	"github.com/klinika/dentis/internal/service"
	"github.com/klinika/dentis/pkg/auth"
	"github.com/klinika/dentis/pkg/metrics"
)

type RouterDeps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Collector
	JWTManager *auth.JWTManager

	AuthSvc        *service.AuthService
	AppointmentSvc *service.AppointmentService
	VisitSvc       *service.VisitService
	BillingSvc     *service.BillingService
	AnalyticsSvc   *service.AnalyticsService
	RegistrySvc    *service.RegistryService
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		RequestID(),
		Recovery(deps.Logger),
		Logger(deps.Logger),
		Metrics(deps.Metrics),
		CORS(deps.Config.CORS),
		RateLimit(deps.Config.RateLimit),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": deps.Config.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authH := NewAuthHandler(deps.AuthSvc)
	apptH := NewAppointmentHandler(deps.AppointmentSvc)
	visitH := NewVisitHandler(deps.VisitSvc)
	billingH := NewBillingHandler(deps.BillingSvc)
	reportH := NewReportHandler(deps.AnalyticsSvc, deps.BillingSvc, deps.Logger)
	registryH := NewRegistryHandler(deps.RegistrySvc)

	api := r.Group("/api/v1")

	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)

	authed := api.Group("", Auth(deps.JWTManager))
	{
		authed.POST("/appointments", apptH.Create)
		authed.GET("/appointments", apptH.List)
		authed.GET("/appointments/:id", apptH.Get)
		authed.PATCH("/appointments/:id/status", apptH.UpdateStatus)
		authed.DELETE("/appointments/:id", apptH.Delete)

		authed.POST("/visits/complete", visitH.Complete)

		authed.POST("/transactions", billingH.Create)
		authed.GET("/transactions", billingH.List)
		authed.GET("/transactions/:id", billingH.Get)
		authed.POST("/transactions/settle", billingH.Settle)
		authed.PATCH("/transactions/:id/repay", billingH.Repay)

		authed.GET("/reports/debtors", reportH.Debtors)
		authed.GET("/reports/doctors/:id", reportH.DoctorReport)

		authed.POST("/patients", registryH.CreatePatient)
		authed.GET("/patients", registryH.ListPatients)
		authed.GET("/patients/:id", registryH.GetPatient)
		authed.PUT("/patients/:id", registryH.UpdatePatient)
		authed.GET("/patients/:id/procedures", visitH.History)

		authed.POST("/doctors", registryH.CreateDoctor)
		authed.GET("/doctors", registryH.ListDoctors)
		authed.PUT("/doctors/:id", registryH.UpdateDoctor)

		authed.POST("/services", registryH.CreateService)
		authed.GET("/services", registryH.ListServices)
	}

	return r
}
