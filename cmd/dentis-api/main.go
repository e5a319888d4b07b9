package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/klinika/dentis/internal/config"
	v1 "github.com/klinika/dentis/internal/handler/v1"
	"github.com/klinika/dentis/internal/repository"
	"github.com/klinika/dentis/internal/service"
	"github.com/klinika/dentis/pkg/auth"
	"github.com/klinika/dentis/pkg/database"
	"github.com/klinika/dentis/pkg/logger"
	"github.com/klinika/dentis/pkg/metrics"
	"github.com/klinika/dentis/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("starting dentis-api",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			log.Fatal("failed to init tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Prometheus namespaces cannot contain '-'.
	m := metrics.NewCollector("dentis")
	if err := database.InstrumentQueries(db, m); err != nil {
		log.Warn("failed to instrument database queries", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		go func() {
			for range time.Tick(15 * time.Second) {
				m.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}()
	}
	jwtManager := auth.NewJWTManager(cfg.JWT)

	apptRepo := repository.NewAppointmentRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	procRepo := repository.NewProcedureRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log, m)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, log)
	apptSvc := service.NewAppointmentService(apptRepo, patientRepo, auditSvc, log, m)
	billingSvc := service.NewBillingService(txnRepo, auditSvc, log, m, cfg.Billing.OverdueAfter)
	visitSvc := service.NewVisitService(apptRepo, procRepo, serviceRepo, doctorRepo, patientRepo, billingSvc, auditSvc, log, m)
	analyticsSvc := service.NewAnalyticsService(txnRepo, doctorRepo, serviceRepo, log)
	registrySvc := service.NewRegistryService(patientRepo, doctorRepo, serviceRepo, auditSvc, log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:         cfg,
		Logger:         log,
		Metrics:        m,
		JWTManager:     jwtManager,
		AuthSvc:        authSvc,
		AppointmentSvc: apptSvc,
		VisitSvc:       visitSvc,
		BillingSvc:     billingSvc,
		AnalyticsSvc:   analyticsSvc,
		RegistrySvc:    registrySvc,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
