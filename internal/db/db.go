package db

import (
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/parqio/spot-booking/internal/config"
	"github.com/parqio/spot-booking/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Spot{},
		&models.Availability{},
		&models.Booking{},
		&models.TimeChange{},
		&models.Payment{},
		&models.Payout{},
		&models.CheckLog{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := db.Exec(`
        UPDATE spots
        SET timezone = 'UTC'
        WHERE timezone IS NULL OR timezone = ''
    `).Error; err != nil {
		log.Fatalf("failed to backfill spot timezones: %v", err)
	}

	// Structural guard against double booking: the application-level conflict
	// check runs under FOR UPDATE, and this constraint catches anything that
	// still slips through (surfaced via httperr.IsExclusionConflict). Booting
	// without it is not an option.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Fatalf("failed to create btree_gist extension: %v", err)
	}
	err = db.Exec(`
        ALTER TABLE bookings
        ADD CONSTRAINT bookings_no_overlap
        EXCLUDE USING gist (
            spot_id WITH =,
            tstzrange(start_at, end_at) WITH &&
        )
        WHERE (status = 'accepted')
    `).Error
	if err != nil && !isDuplicateObject(err) {
		log.Fatalf("failed to add bookings_no_overlap constraint: %v", err)
	}

	return db
}

// isDuplicateObject matches SQLSTATE 42710. ADD CONSTRAINT has no IF NOT
// EXISTS, so every boot after the first trips it.
func isDuplicateObject(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42710"
}
