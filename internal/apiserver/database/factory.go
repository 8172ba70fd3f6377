package database

import (
	"fmt"

	"github.com/sentinela-gov/sentinela/internal/common/config"
)

// NewStore creates a Store for the configured driver.
func NewStore(cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Type {
	case "postgres":
		return NewPostgres(cfg)
	case "mysql":
		return NewMySQL(cfg)
	case "sqlite":
		return NewSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
