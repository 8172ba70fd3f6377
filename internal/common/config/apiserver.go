package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type (
	// APIServerConfig represents the full api server configuration
	APIServerConfig struct {
		Port      int             `yaml:"port"`
		Database  DatabaseConfig  `yaml:"database"`
		Logger    LoggerConfig    `yaml:"logger"`
		JWT       JWTConfig       `yaml:"jwt"`
		PNCP      PNCPConfig      `yaml:"pncp"`
		Sync      SyncConfig      `yaml:"sync"`
		Metrics   MetricsConfig   `yaml:"metrics"`
		I18n      I18nConfig      `yaml:"i18n"`
		Bootstrap BootstrapConfig `yaml:"bootstrap"`
	}

	// DatabaseConfig represents the relational store configuration
	DatabaseConfig struct {
		Type     string `yaml:"type"`     // postgres, mysql, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 5432 (postgres), 3306 (mysql)
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`  // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"` // disable (for postgres)
	}
)

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
			panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
		}
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}
