package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gitlab.com/timkado/api/lead-importer/internal/apperrors"
	"gitlab.com/timkado/api/lead-importer/internal/validator"
)

// Config holds all configuration for the importer
type Config struct {
	LogLevel    string `mapstructure:"logLevel"`
	LogEncoding string `mapstructure:"logEncoding" validate:"oneof=json console"`
	Database    struct {
		URL          string `mapstructure:"url" validate:"required"`
		Driver       string `mapstructure:"driver" validate:"omitempty,oneof=mysql postgres sqlite"`
		MaxOpenConns int    `mapstructure:"maxOpenConns" validate:"gte=1"`
	} `mapstructure:"database"`
	Paths struct {
		Upload    string `mapstructure:"upload" validate:"required"`
		Processed string `mapstructure:"processed" validate:"required"`
		LockFile  string `mapstructure:"lockFile" validate:"required"`
	} `mapstructure:"paths"`
	Import  ImportConfig `mapstructure:"import"`
	Metrics struct {
		Enabled        bool   `mapstructure:"enabled"`
		PushgatewayURL string `mapstructure:"pushgatewayURL" validate:"omitempty,url"`
		Job            string `mapstructure:"job" validate:"required"`
	} `mapstructure:"metrics"`
}

// ImportConfig holds the per-file pipeline knobs
type ImportConfig struct {
	BatchSize           int  `mapstructure:"batchSize" validate:"gte=1,lte=3000"` // rows per batch transaction; SQLite splits it into smaller INSERTs
	MaxExecutionSeconds int  `mapstructure:"maxExecutionSeconds" validate:"gte=1"`
	ArchiveTruncated    bool `mapstructure:"archiveTruncated"` // archive files cut short by the deadline instead of retrying them
}

// MaxExecution returns the per-file deadline as a duration
func (c ImportConfig) MaxExecution() time.Duration {
	return time.Duration(c.MaxExecutionSeconds) * time.Second
}

// envBindings maps config keys to the environment variables operators set
// in .env files.
var envBindings = map[string]string{
	"logLevel":                   "LOG_LEVEL",
	"logEncoding":                "LOG_ENCODING",
	"database.url":               "DATABASE_URL",
	"database.driver":            "DATABASE_DRIVER",
	"database.maxOpenConns":      "DATABASE_MAX_OPEN_CONNS",
	"paths.upload":               "UPLOAD_DIR",
	"paths.processed":            "PROCESSED_DIR",
	"paths.lockFile":             "LOCK_FILE",
	"import.batchSize":           "BATCH_SIZE",
	"import.maxExecutionSeconds": "MAX_EXECUTION_SECONDS",
	"import.archiveTruncated":    "ARCHIVE_TRUNCATED_FILES",
	"metrics.enabled":            "METRICS_ENABLED",
	"metrics.pushgatewayURL":     "METRICS_PUSHGATEWAY_URL",
	"metrics.job":                "METRICS_JOB",
}

// LoadConfig reads configuration from .env, an optional YAML file and the
// environment, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal in containers
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("logLevel", "info")
	v.SetDefault("logEncoding", "json")
	v.SetDefault("database.maxOpenConns", 5)
	v.SetDefault("paths.upload", "./uploads")
	v.SetDefault("paths.processed", "./processed")
	v.SetDefault("paths.lockFile", "./process.lock")
	v.SetDefault("import.batchSize", 1000)
	v.SetDefault("import.maxExecutionSeconds", 3600)
	v.SetDefault("import.archiveTruncated", false)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.job", "lead_importer")

	v.SetConfigName("default")
	v.SetConfigType("yaml")

	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath("$HOME/.lead-importer")
	v.AddConfigPath("/etc/lead-importer")

	if err := v.ReadInConfig(); err != nil {
		// It's ok if config file is not found, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: error reading config file: %w", apperrors.ErrConfig, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: unable to decode config into struct: %w", apperrors.ErrConfig, err)
	}

	if err := validator.Validate(config); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConfig, err)
	}

	return &config, nil
}
