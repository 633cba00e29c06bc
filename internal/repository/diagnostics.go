package repository

import (
	"context"
	"fmt"

	"linkbird-backend/internal/database/models"

	"gorm.io/gorm"
)

// PoolStats is a JSON-friendly subset of sql.DBStats
type PoolStats struct {
	OpenConnections int   `json:"openConnections"`
	InUse           int   `json:"inUse"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"waitCount"`
	MaxOpen         int   `json:"maxOpenConnections"`
}

// DiagnosticsRepository runs unscoped inspection queries for the debug endpoints
type DiagnosticsRepository struct {
	db *gorm.DB
}

// NewDiagnosticsRepository creates a new diagnostics repository
func NewDiagnosticsRepository(db *gorm.DB) *DiagnosticsRepository {
	return &DiagnosticsRepository{db: db}
}

// TableCounts returns the row count of every application table
func (r *DiagnosticsRepository) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 2)
	for name, model := range map[string]interface{}{
		models.Campaign{}.TableName(): &models.Campaign{},
		models.Lead{}.TableName():     &models.Lead{},
	} {
		var n int64
		if err := r.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}

// PoolStats reports the state of the connection pool
func (r *DiagnosticsRepository) PoolStats() (*PoolStats, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}
	s := sqlDB.Stats()
	return &PoolStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
		WaitCount:       s.WaitCount,
		MaxOpen:         s.MaxOpenConnections,
	}, nil
}
