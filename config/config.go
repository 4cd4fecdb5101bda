// Package config loads runtime settings from .env, config.yaml and the
// environment, and builds the global logger.
package config

import (
	"strings"
	"time"

	"bailbridge-backend/storage"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every derived environment variable
const EnvPrefix = "BAILBRIDGE"

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig          `yaml:"server" mapstructure:"server"`
	Gemini    GeminiConfig          `yaml:"gemini" mapstructure:"gemini"`
	Prompt    PromptConfig          `yaml:"prompt" mapstructure:"prompt"`
	Reference ReferenceConfig       `yaml:"reference" mapstructure:"reference"`
	Storage   storage.StorageConfig `yaml:"storage" mapstructure:"storage"`
	Database  DatabaseConfig        `yaml:"database" mapstructure:"database"`
	BailAPI   BailAPIConfig         `yaml:"bail_api" mapstructure:"bail_api"`
	Log       LogConfig             `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	// AdminToken enables the dataset management routes; empty disables them
	AdminToken string `yaml:"admin_token" mapstructure:"admin_token"`
}

// GeminiConfig configures the completion backend. APIKey is read from the
// environment or config file only.
type GeminiConfig struct {
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Backend string        `yaml:"backend" mapstructure:"backend"`
	Model   string        `yaml:"model" mapstructure:"model"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PromptConfig selects the prompt template.
type PromptConfig struct {
	Revision string `yaml:"revision" mapstructure:"revision"`
}

// ReferenceConfig selects where the section dataset is read from.
type ReferenceConfig struct {
	Source    string `yaml:"source" mapstructure:"source"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Path      string `yaml:"path" mapstructure:"path"`
	ObjectKey string `yaml:"object_key" mapstructure:"object_key"`
	// TrustRequestOrigin lets the HTTP loader fetch from the inbound request's
	// scheme and host when BaseURL is empty. Off, it fetches from this server.
	TrustRequestOrigin bool `yaml:"trust_request_origin" mapstructure:"trust_request_origin"`
}

// DatabaseConfig configures Postgres.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// BailAPIConfig points at the external auth and bail-application service.
type BailAPIConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Token   string `yaml:"token" mapstructure:"token"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// legacyEnv maps config keys to the bare variable names used by existing deployments
var legacyEnv = map[string]string{
	"server.port":                   "PORT",
	"gemini.api_key":                "GEMINI_API_KEY",
	"database.url":                  "DATABASE_URL",
	"storage.type":                  "STORAGE_TYPE",
	"storage.local_path":            "STORAGE_LOCAL_PATH",
	"storage.s3_bucket":             "AWS_S3_BUCKET",
	"storage.s3_region":             "AWS_REGION",
	"storage.aws_access_key_id":     "AWS_ACCESS_KEY_ID",
	"storage.aws_secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"bail_api.base_url":             "NEXT_PUBLIC_API_URL",
}

// LoadDotEnv loads .env from the working directory or the project root.
// A missing file is not an error.
func LoadDotEnv() bool {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			return false
		}
	}
	return true
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 0)
	v.SetDefault("server.rate_limit_burst", 5)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.admin_token", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.backend", "rest")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.timeout", time.Duration(0))
	v.SetDefault("prompt.revision", "short")
	v.SetDefault("reference.source", "http")
	v.SetDefault("reference.base_url", "")
	v.SetDefault("reference.path", "/bns_sections.csv")
	v.SetDefault("reference.object_key", "reference/bns_sections.csv")
	v.SetDefault("reference.trust_request_origin", false)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage/files")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_endpoint", "")
	v.SetDefault("storage.aws_access_key_id", "")
	v.SetDefault("storage.aws_secret_access_key", "")
	v.SetDefault("database.url", "")
	v.SetDefault("bail_api.base_url", "http://localhost:8080")
	v.SetDefault("bail_api.token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
