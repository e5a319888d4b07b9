package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/klinika/dentis/internal/config"
	"github.com/klinika/dentis/internal/domain"
	"github.com/klinika/dentis/internal/domain/appointment"
	"github.com/klinika/dentis/internal/domain/billing"
	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
	"github.com/klinika/dentis/internal/domain/patient"
	"github.com/klinika/dentis/internal/domain/procedure"
	"github.com/klinika/dentis/pkg/metrics"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DNS(),
			PreferSimpleProtocol: false,
		}), gormCfg)
		if err == nil {
			break
		}
		if attempt < connectAttempts {
			time.Sleep(time.Duration(attempt) * connectBackoff)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

const queryStartKey = "metrics:query_start"

// InstrumentQueries hooks gorm callbacks to record per-query latency.
func InstrumentQueries(db *gorm.DB, m *metrics.Collector) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			m.DBQueryDuration.WithLabelValues(op, tx.Statement.Table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	steps := []error{
		cb.Create().Before("gorm:create").Register("metrics:before_create", before),
		cb.Create().After("gorm:create").Register("metrics:after_create", after("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", before),
		cb.Query().After("gorm:query").Register("metrics:after_query", after("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", before),
		cb.Update().After("gorm:update").Register("metrics:after_update", after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", before),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", after("delete")),
	}
	for _, err := range steps {
		if err != nil {
			return fmt.Errorf("registering query callbacks: %w", err)
		}
	}
	return nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "billing", "auth", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&patient.Patient{},
		&doctor.Doctor{},
		&catalog.Service{},
		&appointment.Appointment{},
		&procedure.Entry{},
		&billing.Transaction{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Slot uniqueness is guaranteed here, not in application code: the
		// advisory conflict pre-check can race against concurrent writers,
		// these two indexes cannot.
		{
			name:  "uq_appointments_doctor_slot",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_doctor_slot ON clinical.appointments (clinic_id, doctor_id, date, start_min) WHERE deleted_at IS NULL AND status <> 'cancelled'`,
		},
		{
			name:  "uq_appointments_patient_slot",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_patient_slot ON clinical.appointments (clinic_id, patient_id, date, start_min) WHERE deleted_at IS NULL AND status <> 'cancelled'`,
		},
		// One settlement batch per episode fingerprint and posting status.
		{
			name:  "uq_transactions_fingerprint",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS uq_transactions_fingerprint ON billing.transactions (clinic_id, fingerprint, status) WHERE fingerprint <> ''`,
		},
		{
			name:  "idx_transactions_outstanding",
			query: `CREATE INDEX IF NOT EXISTS idx_transactions_outstanding ON billing.transactions (clinic_id, patient_name, date) WHERE status IN ('pending', 'overdue')`,
		},
		{
			name:  "idx_appointments_day",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_day ON clinical.appointments (clinic_id, date, status) WHERE deleted_at IS NULL`,
		},
		// Patient search: GIN index for full-text search on name fields
		{
			name:  "idx_patients_name_search",
			query: `CREATE INDEX IF NOT EXISTS idx_patients_name_trgm ON clinical.patients USING gin ((first_name || ' ' || last_name) gin_trgm_ops) WHERE deleted_at IS NULL`,
		},
	}

	_ = db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
