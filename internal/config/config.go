package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultBaseURL is used when neither the config file nor the environment names a backend
const DefaultBaseURL = "http://localhost:8000"

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RemoteSessions bool          `mapstructure:"remote_sessions"`
}

type UploadConfig struct {
	MaxSize int64 `mapstructure:"max_size" validate:"gt=0"`
}

type LoggingConfig struct {
	Level        string        `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format       string        `mapstructure:"format" validate:"oneof=json console"`
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style" validate:"oneof=auto dark light notty"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file path
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	// Override with environment variables
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Backend
	v.SetDefault("backend.base_url", DefaultBaseURL)
	v.SetDefault("backend.timeout", "60s")
	v.SetDefault("backend.remote_sessions", false)

	// Upload
	v.SetDefault("upload.max_size", 10<<20) // 10 MiB

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_age", "168h") // 7 days
	v.SetDefault("logging.rotation_time", "24h")

	// UI
	v.SetDefault("ui.markdown_style", "auto")
}

func bindEnvVars(v *viper.Viper) {
	// Backend; VITE_API_URL is honoured for setups shared with the web client
	v.BindEnv("backend.base_url", "API_URL", "VITE_API_URL")
	v.BindEnv("backend.timeout", "API_TIMEOUT")
	v.BindEnv("backend.remote_sessions", "REMOTE_SESSIONS")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
	v.BindEnv("logging.file", "LOG_FILE")
}
