package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// ServiceName is used for the logger fields and the default metrics prefix
const ServiceName = "backoffice-service"

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DBConfig holds database configuration
type DBConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"postgres"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD" default:"password"`
	DBName          string        `envconfig:"DB_NAME" default:"backoffice"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	LogLevel        string        `envconfig:"DB_LOG_LEVEL" default:"warn"`
}

// GetDSN returns the connection string for the configured driver
func (c *DBConfig) GetDSN() string {
	if c.Driver == DriverMySQL {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GormLogLevel maps DB_LOG_LEVEL to the gorm logger level
func (c *DBConfig) GormLogLevel() logger.LogLevel {
	switch strings.ToLower(c.LogLevel) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Env  string `envconfig:"APP_ENV" default:"development"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string `envconfig:"JWT_SIGNING_KEY" default:"defaultsecretkey"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string `envconfig:"METRICS_PREFIX" default:"backoffice"`
}

// ReportConfig holds PDF report configuration
type ReportConfig struct {
	CompanyName string `envconfig:"REPORT_COMPANY_NAME" default:"Back Office"`
	Orientation string `envconfig:"REPORT_ORIENTATION" default:"L"`
}

// Config holds all configuration
type Config struct {
	DB      DBConfig
	Server  ServerConfig
	JWT     JWTConfig
	Log     LogConfig
	Metrics MetricsConfig
	Report  ReportConfig
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}
	return FromEnv()
}

// FromEnv populates the configuration from environment variables only
func FromEnv() (*Config, error) {
	config := &Config{}
	sections := map[string]interface{}{
		"database": &config.DB,
		"server":   &config.Server,
		"jwt":      &config.JWT,
		"log":      &config.Log,
		"metrics":  &config.Metrics,
		"report":   &config.Report,
	}
	for name, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, errors.Wrapf(err, "load %s configuration", name)
		}
	}

	driver := strings.ToLower(config.DB.Driver)
	if driver != DriverPostgres && driver != DriverMySQL {
		return nil, errors.Errorf("unsupported DB_DRIVER %q", config.DB.Driver)
	}
	config.DB.Driver = driver

	return config, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("db_driver", c.DB.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
	}
}
