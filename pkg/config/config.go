package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Notify   NotifyConfig
	RabbitMQ RabbitMQConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds database connection configuration. URL, when
// set, overrides the individual host/port/user fields.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string        `mapstructure:"secret"`
	AccessExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer       string        `mapstructure:"issuer"`
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Configured reports whether SMTP credentials are present. Without them
// the mailer falls back to logging digests instead of sending.
func (c *SMTPConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// NotifyConfig holds stock notification sweep configuration
type NotifyConfig struct {
	To            string        `mapstructure:"to"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RabbitMQConfig holds the optional event broker configuration.
// Events are disabled when URL is empty.
type RabbitMQConfig struct {
	URL            string        `mapstructure:"url"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	MaxRetries     int           `mapstructure:"max_retries"`
	PrefetchCount  int           `mapstructure:"prefetch_count"`
}

// Enabled reports whether event publishing is configured.
func (c *RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

// Load loads configuration from environment and config files with
// development defaults applied.
func Load(serviceName string) (*Config, error) {
	return loadConfig(serviceName)
}

// LoadWithValidation loads configuration and validates it for the current
// environment. In production this fails fast on insecure defaults.
func LoadWithValidation(serviceName string) (*Config, error) {
	cfg, err := loadConfig(serviceName)
	if err != nil {
		return nil, err
	}

	if cfg.Server.Environment == EnvProduction {
		if cfg.JWT.Secret == "" || cfg.JWT.Secret == "dev-secret-change-in-production" {
			return nil, errors.New("OBATQU_JWT_SECRET must be set to a secure value in production")
		}
		if cfg.Database.Host == "" || cfg.Database.Host == "localhost" {
			return nil, errors.New("OBATQU_DATABASE_HOST must be set to a non-localhost value in production")
		}
	}

	return cfg, nil
}

func loadConfig(serviceName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("OBATQU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/obatqu")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.URL != "" {
		parsed, err := ParseDatabaseURL(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid OBATQU_DATABASE_URL: %w", err)
		}
		cfg.Database.Host = parsed.Host
		cfg.Database.Port = parsed.Port
		cfg.Database.User = parsed.User
		cfg.Database.Password = parsed.Password
		cfg.Database.Database = parsed.Database
		cfg.Database.SSLMode = parsed.SSLMode
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cors_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "obatqu")
	v.SetDefault("database.password", "devpassword")
	v.SetDefault("database.database", "obatqu")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// JWT defaults
	v.SetDefault("jwt.secret", "dev-secret-change-in-production")
	v.SetDefault("jwt.access_expiry", 24*time.Hour)
	v.SetDefault("jwt.issuer", "obatqu")

	// SMTP defaults
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 465)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")

	// Notification sweep defaults
	v.SetDefault("notify.to", "")
	v.SetDefault("notify.sweep_interval", 24*time.Hour)

	// RabbitMQ defaults (empty URL = events disabled)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.reconnect_delay", 5*time.Second)
	v.SetDefault("rabbitmq.max_retries", 5)
	v.SetDefault("rabbitmq.prefetch_count", 10)
}
