package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutDownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
}

// DataConfig holds the filesystem layout of the store.
type DataConfig struct {
	DocumentsDir string `mapstructure:"documents_dir"`
	SavesDir     string `mapstructure:"saves_dir"`
	LanguageDir  string `mapstructure:"language_dir"`
	BatchWorkers int    `mapstructure:"batch_workers"`
}

// MiscConfig holds everything else.
type MiscConfig struct {
	GinMode  string `mapstructure:"gin_mode"`
	LogLevel string `mapstructure:"log_level"`
}

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Misc   MiscConfig   `mapstructure:"misc"`
}

// LoadConfig reads config.yaml from the working directory and ./config,
// applies defaults and lets CORE_STORE_* environment variables override
// everything (e.g. CORE_STORE_SERVER_PORT). Running without a config file is
// supported.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Defaults to allow running without config file
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 2*time.Second)
	v.SetDefault("server.cors_allowed_origins", "*")
	v.SetDefault("data.documents_dir", "./data/documents")
	v.SetDefault("data.saves_dir", "./data/saves")
	v.SetDefault("data.language_dir", "./data/language")
	v.SetDefault("data.batch_workers", 4)
	v.SetDefault("misc.gin_mode", "release")
	v.SetDefault("misc.log_level", "info")

	v.SetEnvPrefix("CORE_STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file: defaults plus env vars are enough.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// validate rejects configurations the server cannot start with.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if c.Data.DocumentsDir == "" {
		return errors.New("data.documents_dir is required")
	}
	if c.Data.SavesDir == "" {
		return errors.New("data.saves_dir is required")
	}
	if c.Data.LanguageDir == "" {
		return errors.New("data.language_dir is required")
	}
	if c.Data.BatchWorkers <= 0 {
		return errors.New("data.batch_workers must be positive")
	}
	return nil
}
