package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for ada-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys, session secret) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds" env:"READ_TIMEOUT_SECONDS" env-default:"30"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds" env:"WRITE_TIMEOUT_SECONDS" env-default:"60"`

	// Upload handling and dataset retention
	Upload UploadConfig `yaml:"upload"`

	// Natural-language oracle (LLM) configuration
	Oracle OracleConfig `yaml:"oracle"`

	// SessionSecret signs auth cookies. Server refuses to start without it.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"` // Secret - not in YAML
}

// UploadConfig holds file upload and dataset retention settings.
type UploadConfig struct {
	// Dir is where uploaded dataset files are stored for the process lifetime.
	Dir string `yaml:"dir" env:"UPLOAD_DIR" env-default:"uploads"`
	// MaxFileMB caps the size of a single uploaded file.
	MaxFileMB int64 `yaml:"max_file_mb" env:"MAX_FILE_MB" env-default:"20"`
	// KeepMinutes is how long a dataset survives before the cleanup sweep evicts it.
	KeepMinutes int `yaml:"keep_minutes" env:"KEEP_UPLOAD_MINUTES" env-default:"60"`
}

// OracleConfig selects and configures the external language-model oracle.
// Provider selection happens once at startup; there is no runtime switching.
type OracleConfig struct {
	// Provider is "openai" or "anthropic".
	Provider string `yaml:"provider" env:"ORACLE_PROVIDER" env-default:"openai"`
	// Model is the model name, e.g. "gpt-4o-mini" or "claude-3-5-haiku-latest".
	Model string `yaml:"model" env:"ORACLE_MODEL" env-default:"gpt-4o-mini"`
	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string `yaml:"base_url" env:"ORACLE_BASE_URL" env-default:""`
	// APIKey authenticates against the provider. Empty means the oracle is
	// unavailable and every question is answered by the heuristic fallback.
	APIKey string `yaml:"-" env:"ORACLE_API_KEY"` // Secret - not in YAML
	// TimeoutSeconds bounds a single oracle call.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"ORACLE_TIMEOUT_SECONDS" env-default:"30"`
	// Temperature for chart-spec generation. Low by default: we want JSON, not prose.
	Temperature float64 `yaml:"temperature" env:"ORACLE_TEMPERATURE" env-default:"0.2"`
}

// Timeout returns the oracle call timeout as a duration.
func (c *OracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration from the given YAML file with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. Secrets (ORACLE_API_KEY, SESSION_SECRET) must come from
// environment variables (yaml:"-" fields).
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is not set")
	}

	switch strings.ToLower(c.Oracle.Provider) {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown oracle provider %q (expected openai or anthropic)", c.Oracle.Provider)
	}

	if c.Upload.MaxFileMB <= 0 {
		return fmt.Errorf("upload.max_file_mb must be positive")
	}
	if c.Upload.KeepMinutes <= 0 {
		return fmt.Errorf("upload.keep_minutes must be positive")
	}

	return nil
}

// EnsureUploadDir creates the upload directory if it does not exist.
func (c *Config) EnsureUploadDir() error {
	return os.MkdirAll(c.Upload.Dir, 0o755)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}
