package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Approval ApprovalConfig `mapstructure:"approval"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// ApprovalConfig holds the approval policy: the static rate table, the
// auto-approval threshold expressed in the reference currency, and the
// designated top-level admin who terminates every approver chain.
type ApprovalConfig struct {
	ReferenceCurrency    string             `mapstructure:"reference_currency"`
	Rates                map[string]float64 `mapstructure:"rates"`
	AutoApproveThreshold float64            `mapstructure:"auto_approve_threshold"`
	TopAdminID           int64              `mapstructure:"top_admin_id"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load a local .env first so viper's env binding can see it
	if _, err := os.Stat(".env"); err == nil {
		if err := gotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/expenseflow.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", 12*time.Hour)

	// Approval policy defaults mirror the seeded demo company
	viper.SetDefault("approval.reference_currency", "USD")
	viper.SetDefault("approval.rates", map[string]float64{
		"USD": 1.0,
		"EUR": 1.09,
		"GBP": 1.25,
		"JPY": 0.0068,
	})
	viper.SetDefault("approval.auto_approve_threshold", 100.0)
	viper.SetDefault("approval.top_admin_id", 1)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("auth.signing_key", "EXPENSEFLOW_SIGNING_KEY")
	viper.BindEnv("database.path", "EXPENSEFLOW_DB_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}

	if c.Approval.ReferenceCurrency == "" {
		return fmt.Errorf("approval.reference_currency is required")
	}
	if c.Approval.AutoApproveThreshold < 0 {
		return fmt.Errorf("approval.auto_approve_threshold must not be negative")
	}
	if c.Approval.TopAdminID <= 0 {
		return fmt.Errorf("approval.top_admin_id is required")
	}
	if rate, ok := c.Approval.Rates[c.Approval.ReferenceCurrency]; ok && rate != 1.0 {
		return fmt.Errorf("approval.rates must map the reference currency to 1.0")
	}

	return nil
}
