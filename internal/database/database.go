package database

import (
	"fmt"
	"time"

	"linkbird-backend/internal/database/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the connection pool and schema handling
type Options struct {
	LogLevel        logger.LogLevel
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	SkipAutoMigrate bool
}

// DefaultOptions returns the pool settings used by the server
func DefaultOptions() Options {
	return Options{
		LogLevel:        logger.Error,
		MaxOpenConns:    20,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// withDefaults fills zero fields from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LogLevel == 0 {
		o.LogLevel = d.LogLevel
	}
	if o.MaxOpenConns == 0 {
		o.MaxOpenConns = d.MaxOpenConns
	}
	if o.MaxIdleConns == 0 {
		o.MaxIdleConns = d.MaxIdleConns
	}
	if o.ConnMaxLifetime == 0 {
		o.ConnMaxLifetime = d.ConnMaxLifetime
	}
	if o.ConnMaxIdleTime == 0 {
		o.ConnMaxIdleTime = d.ConnMaxIdleTime
	}
	return o
}

// leadIndexes back the owner-scoped list filters and the per-campaign stats aggregate
var leadIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_leads_user_status ON leads (user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_campaign_status ON leads (campaign_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_campaigns_user_created ON campaigns (user_id, created_at DESC)`,
}

// Initialize opens a pooled Postgres connection and creates the campaigns and leads tables.
// Auth tables belong to the external identity provider and are not managed here.
func Initialize(dsn string, opts *Options) (*gorm.DB, error) {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	o = o.withDefaults()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(o.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(o.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(o.ConnMaxIdleTime)

	if !o.SkipAutoMigrate {
		if err := Migrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or updates the campaigns and leads tables. Leads reference
// campaigns with ON DELETE RESTRICT, so a campaign with leads cannot be dropped.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Campaign{}, &models.Lead{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, stmt := range leadIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Close releases the pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
