package config

import (
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file with environment
// variable placeholder support (${VAR} or ${VAR:default}).
func LoadConfig(filename string) (*APIServerConfig, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	data = resolveEnv(data)
	var cfg APIServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	setDefaults(&cfg)
	return &cfg, nil
}

func setDefaults(cfg *APIServerConfig) {
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.JWT.Duration == 0 {
		cfg.JWT.Duration = 30 * time.Minute
	}
	if cfg.PNCP.Timeout == 0 {
		cfg.PNCP.Timeout = 30 * time.Second
	}
	if cfg.Sync.MaxRetries == 0 {
		cfg.Sync.MaxRetries = 3
	}
	if cfg.Sync.SupplierRetryDelay == 0 {
		cfg.Sync.SupplierRetryDelay = time.Minute
	}
	if cfg.Sync.ContractRetryDelay == 0 {
		cfg.Sync.ContractRetryDelay = 2 * time.Minute
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "sentinela"
	}
}

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	regex := regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

	return regex.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := regex.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}
