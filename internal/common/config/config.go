package config

import "time"

type (
	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone"`   // time zone for log timestamps, default is local
		TimeFormat string `yaml:"time_format"` // time format for log timestamps
	}

	// JWTConfig represents the session token configuration
	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// MetricsConfig represents the Prometheus metrics configuration
	MetricsConfig struct {
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path string `yaml:"path"` // Path to i18n translation files
	}

	// PNCPConfig represents the national procurement portal client configuration
	PNCPConfig struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	}

	// SyncConfig represents the background reconciliation job configuration.
	// Each job type has a fixed retry delay; failures past MaxRetries are
	// abandoned with only a log trail.
	SyncConfig struct {
		MaxRetries         int           `yaml:"max_retries"`
		SupplierRetryDelay time.Duration `yaml:"supplier_retry_delay"`
		ContractRetryDelay time.Duration `yaml:"contract_retry_delay"`
	}

	// BootstrapConfig represents the initial ROOT user created when the
	// user table is empty
	BootstrapConfig struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		CPF      string `yaml:"cpf"`
		Password string `yaml:"password"`
	}
)
