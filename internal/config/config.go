package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. DATAVIZ_SERVER_PORT.
const EnvPrefix = "DATAVIZ"

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server" envconfig:"SERVER"`
	Security      SecurityConfig      `yaml:"security" envconfig:"SECURITY"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Session       SessionConfig       `yaml:"session" envconfig:"SESSION"`
	Upload        UploadConfig        `yaml:"upload" envconfig:"UPLOAD"`
	Render        RenderConfig        `yaml:"render" envconfig:"RENDER"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"45s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"100"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/dataviz.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// SessionConfig bounds the in-memory dataset sessions
type SessionConfig struct {
	TTL         time.Duration `yaml:"ttl" envconfig:"TTL" default:"30m"`
	MaxSessions int           `yaml:"max_sessions" envconfig:"MAX_SESSIONS" default:"100"`
}

// UploadConfig limits accepted dataset files
type UploadConfig struct {
	MaxBytes          int64    `yaml:"max_bytes" envconfig:"MAX_BYTES" default:"52428800"`
	AllowedExtensions []string `yaml:"allowed_extensions" envconfig:"ALLOWED_EXTENSIONS" default:".csv,.tsv,.txt,.xlsx,.parquet"`
}

// RenderConfig holds chart and preview defaults
type RenderConfig struct {
	Width       int `yaml:"width" envconfig:"WIDTH" default:"800"`
	Height      int `yaml:"height" envconfig:"HEIGHT" default:"600"`
	PreviewRows int `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" default:"5"`
}

// ObservabilityConfig toggles tracing and metrics export
type ObservabilityConfig struct {
	ServiceName      string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"dataviz"`
	EnableTracing    bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING" default:"false"`
	EnableMetrics    bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	TraceSampleRatio float64 `yaml:"trace_sample_ratio" envconfig:"TRACE_SAMPLE_RATIO" default:"1"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg, *Default())
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// pick resolves one field. An env value that differs from the default was
// set explicitly and wins; otherwise a non-zero file value is used.
func pick[T comparable](env, file, def T) T {
	var zero T
	if env != def || file == zero {
		return env
	}
	return file
}

func pickList(env, file, def []string) []string {
	if strings.Join(env, ",") != strings.Join(def, ",") || len(file) == 0 {
		return env
	}
	return file
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(file, env, def Config) Config {
	out := env

	out.Server.Port = pick(env.Server.Port, file.Server.Port, def.Server.Port)
	out.Server.ReadTimeout = pick(env.Server.ReadTimeout, file.Server.ReadTimeout, def.Server.ReadTimeout)
	out.Server.WriteTimeout = pick(env.Server.WriteTimeout, file.Server.WriteTimeout, def.Server.WriteTimeout)
	out.Server.IdleTimeout = pick(env.Server.IdleTimeout, file.Server.IdleTimeout, def.Server.IdleTimeout)
	out.Server.MaxHeaderBytes = pick(env.Server.MaxHeaderBytes, file.Server.MaxHeaderBytes, def.Server.MaxHeaderBytes)
	out.Server.ShutdownTimeout = pick(env.Server.ShutdownTimeout, file.Server.ShutdownTimeout, def.Server.ShutdownTimeout)
	out.Server.RequestTimeout = pick(env.Server.RequestTimeout, file.Server.RequestTimeout, def.Server.RequestTimeout)

	out.Security.AllowedOrigins = pickList(env.Security.AllowedOrigins, file.Security.AllowedOrigins, def.Security.AllowedOrigins)
	out.Security.RateLimit.RPS = pick(env.Security.RateLimit.RPS, file.Security.RateLimit.RPS, def.Security.RateLimit.RPS)
	out.Security.RateLimit.Burst = pick(env.Security.RateLimit.Burst, file.Security.RateLimit.Burst, def.Security.RateLimit.Burst)

	out.Logging.Level = pick(env.Logging.Level, file.Logging.Level, def.Logging.Level)
	out.Logging.Output = pick(env.Logging.Output, file.Logging.Output, def.Logging.Output)
	out.Logging.FilePath = pick(env.Logging.FilePath, file.Logging.FilePath, def.Logging.FilePath)
	out.Logging.Development = pick(env.Logging.Development, file.Logging.Development, def.Logging.Development)

	out.Session.TTL = pick(env.Session.TTL, file.Session.TTL, def.Session.TTL)
	out.Session.MaxSessions = pick(env.Session.MaxSessions, file.Session.MaxSessions, def.Session.MaxSessions)

	out.Upload.MaxBytes = pick(env.Upload.MaxBytes, file.Upload.MaxBytes, def.Upload.MaxBytes)
	out.Upload.AllowedExtensions = pickList(env.Upload.AllowedExtensions, file.Upload.AllowedExtensions, def.Upload.AllowedExtensions)

	out.Render.Width = pick(env.Render.Width, file.Render.Width, def.Render.Width)
	out.Render.Height = pick(env.Render.Height, file.Render.Height, def.Render.Height)
	out.Render.PreviewRows = pick(env.Render.PreviewRows, file.Render.PreviewRows, def.Render.PreviewRows)

	out.Observability.ServiceName = pick(env.Observability.ServiceName, file.Observability.ServiceName, def.Observability.ServiceName)
	out.Observability.EnableTracing = pick(env.Observability.EnableTracing, file.Observability.EnableTracing, def.Observability.EnableTracing)
	out.Observability.TraceSampleRatio = pick(env.Observability.TraceSampleRatio, file.Observability.TraceSampleRatio, def.Observability.TraceSampleRatio)

	return out
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("max sessions must be positive")
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("at least one upload extension must be allowed")
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("invalid render size %dx%d", c.Render.Width, c.Render.Height)
	}

	if c.Render.PreviewRows <= 0 {
		c.Render.PreviewRows = 5
	}

	// Logs are always structured JSON
	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  45 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/dataviz.log",
		},
		Session: SessionConfig{
			TTL:         30 * time.Minute,
			MaxSessions: 100,
		},
		Upload: UploadConfig{
			MaxBytes:          50 << 20,
			AllowedExtensions: []string{".csv", ".tsv", ".txt", ".xlsx", ".parquet"},
		},
		Render: RenderConfig{
			Width:       800,
			Height:      600,
			PreviewRows: 5,
		},
		Observability: ObservabilityConfig{
			ServiceName:      "dataviz",
			EnableMetrics:    true,
			TraceSampleRatio: 1,
		},
	}
}
