package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/pkg/errors"
)

// Environment variables that override the config file.
const (
	EnvAPIKey         = "RESUME_BUILDER_API_KEY"
	EnvProviderAPIKey = "PERPLEXITY_API_KEY"
	EnvEndpoint       = "RESUME_BUILDER_ENDPOINT"
	EnvModel          = "RESUME_BUILDER_MODEL"
)

// Config represents the application configuration.
type Config struct {
	APIKey         string        `json:"api_key"`
	APIEndpoint    string        `json:"api_endpoint" validate:"required,url"`
	Model          string        `json:"model" validate:"required"`
	TimeoutSeconds int           `json:"timeout_seconds" validate:"gte=1,lte=600"`
	Generation     llm.Params    `json:"generation"`
	Revision       llm.Params    `json:"revision"`
	Defaults       DefaultConfig `json:"defaults"`
	Server         ServerConfig  `json:"server"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir    string `json:"output_dir" validate:"required"`
	PageSize     string `json:"page_size" validate:"oneof=A4 Letter Legal"`
	FontFamily   string `json:"font_family" validate:"oneof=Helvetica Times Courier"`
	KeepMarkdown bool   `json:"keep_markdown"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	ListenAddr string `json:"listen_addr" validate:"required,hostname_port"`
	// SessionDB is a SQLite database path; empty keeps sessions in memory.
	SessionDB string `json:"session_db"`
}

// Default returns the built-in configuration.
func Default() (cfg Config) {
	cfg = Config{
		APIEndpoint:    llm.DefaultEndpoint,
		Model:          llm.DefaultModel,
		TimeoutSeconds: int(llm.DefaultTimeout / time.Second),
		Generation:     llm.DefaultGenerationParams(),
		Revision:       llm.DefaultRevisionParams(),
		Defaults: DefaultConfig{
			OutputDir:  ".",
			PageSize:   "A4",
			FontFamily: "Helvetica",
		},
		Server: ServerConfig{
			ListenAddr: "localhost:8080",
		},
	}
	return cfg
}

// DefaultPath returns ~/.resume-builder/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".resume-builder", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
//
// Values missing from the file keep their defaults. When configPath is empty and the default
// file does not exist, the defaults are used; a named file that does not exist is an error.
func Load(configPath string) (cfg Config, err error) {
	cfg = Default()

	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'resume-builder init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

func (c *Config) applyEnv() {
	if apiKey := os.Getenv(EnvAPIKey); apiKey != "" {
		c.APIKey = apiKey
	} else if apiKey = os.Getenv(EnvProviderAPIKey); apiKey != "" {
		c.APIKey = apiKey
	}

	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		c.APIEndpoint = endpoint
	}

	if model := os.Getenv(EnvModel); model != "" {
		c.Model = model
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() (err error) {
	err = validator.New().Struct(c)
	if err != nil {
		err = errors.Wrap(err, "invalid configuration")
		return err
	}
	return err
}

// RequireAPIKey fails unless an API key is configured.
func (c *Config) RequireAPIKey() (err error) {
	if c.APIKey == "" {
		err = errors.Errorf("api_key is required (set in config or %s env var)", EnvAPIKey)
		return err
	}
	return err
}

// Timeout returns the per-request timeout for the text generation service.
func (c *Config) Timeout() (timeout time.Duration) {
	timeout = time.Duration(c.TimeoutSeconds) * time.Second
	return timeout
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Default()
	defaultConfig.APIKey = "pplx-..."

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
