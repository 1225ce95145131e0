package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const postgresAttempts = 10

// ConnectPostgres opens a GORM handle, retrying while the database comes up.
func ConnectPostgres(dsn string, retryDelay time.Duration) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required for the postgres backend")
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= postgresAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			zap.L().Info("Connected to PostgreSQL")
			return db, nil
		}
		zap.L().Warn("PostgreSQL connection failed", zap.Int("attempt", i), zap.Int("max_attempts", postgresAttempts), zap.Error(err))
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
}

// ClosePostgres closes the pool behind db.
func ClosePostgres(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
