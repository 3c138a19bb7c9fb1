package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Verification VerificationConfig `mapstructure:"verification"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings. An empty Host selects
// the in-memory store (demo mode, no persistence across restarts).
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// VerificationConfig holds the lifecycle and token settings. The detailed
// analysis calibration is code-level (analysis.DefaultConfig); only the
// decision threshold and the operational knobs live here.
type VerificationConfig struct {
	ChallengeTTL       time.Duration `mapstructure:"challenge_ttl"`
	VerificationTTL    time.Duration `mapstructure:"verification_ttl"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	TokenSecret        string        `mapstructure:"token_secret"`
	HumanThreshold     float64       `mapstructure:"human_threshold"`
	MinSamples         int           `mapstructure:"min_samples"`
	MaxSamples         int           `mapstructure:"max_samples"`
	MinDurationSeconds int           `mapstructure:"min_duration_seconds"`
	MaxDurationSeconds int           `mapstructure:"max_duration_seconds"`
	InstructionsPath   string        `mapstructure:"instructions_path"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")

	// Database defaults; host is left empty so a bare checkout runs
	// against the in-memory store.
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "weightcha")
	v.SetDefault("database.password", "weightcha")
	v.SetDefault("database.dbname", "weightcha")
	v.SetDefault("database.sslmode", "disable")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Verification defaults
	v.SetDefault("verification.challenge_ttl", "5m")
	v.SetDefault("verification.verification_ttl", "24h")
	v.SetDefault("verification.token_ttl", "24h")
	v.SetDefault("verification.token_secret", "")
	v.SetDefault("verification.human_threshold", 0.65)
	v.SetDefault("verification.min_samples", 5)
	v.SetDefault("verification.max_samples", 10000)
	v.SetDefault("verification.min_duration_seconds", 3)
	v.SetDefault("verification.max_duration_seconds", 30)
	v.SetDefault("verification.instructions_path", "")
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("WEIGHTCHA") // e.g., WEIGHTCHA_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
