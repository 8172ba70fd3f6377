package database

import (
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewMySQL creates a Store backed by MySQL.
func NewMySQL(cfg *config.DatabaseConfig) (Store, error) {
	gormDB, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return newStore(gormDB)
}
