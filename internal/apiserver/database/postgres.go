package database

import (
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgres creates a Store backed by PostgreSQL.
func NewPostgres(cfg *config.DatabaseConfig) (Store, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return newStore(gormDB)
}
