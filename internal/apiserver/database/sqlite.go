package database

import (
	"github.com/glebarez/sqlite"
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite creates a Store backed by SQLite. Useful for development and
// tests; the DSN may be ":memory:" for an in-memory database.
func NewSQLite(cfg *config.DatabaseConfig) (Store, error) {
	gormDB, err := gorm.Open(sqlite.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return newStore(gormDB)
}
