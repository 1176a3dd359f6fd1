package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	App       AppConfig
	CORS      CORSConfig
	Leave     LeaveConfig
	Bootstrap BootstrapConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// RedisConfig is optional; an empty Addr disables the distributed job lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port            int
	Env             string
	LogLevel        string
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LeaveConfig holds leave ledger settings
type LeaveConfig struct {
	// DefaultMonthlyAccrual applies when neither the employee nor the company sets an increment.
	DefaultMonthlyAccrual decimal.Decimal
	AccrualCheckInterval  time.Duration
	Timezone              *time.Location
	LoginRatePerMinute    int
}

// BootstrapConfig seeds an empty database. The admin is only created when
// AdminCIN is set and no employee exists yet; its first password is the CIN.
type BootstrapConfig struct {
	CompanyName    string
	AdminCIN       string
	AdminEmail     string
	AdminLastName  string
	AdminFirstName string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "sirh"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "3001"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("APP_SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_SHUTDOWN_TIMEOUT: %w", err)
	}

	config.App = AppConfig{
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: shutdownTimeout,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
	}

	// Leave configuration
	accrual, err := decimal.NewFromString(getEnv("LEAVE_DEFAULT_MONTHLY_ACCRUAL", "1.5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_DEFAULT_MONTHLY_ACCRUAL: %w", err)
	}

	checkInterval, err := time.ParseDuration(getEnv("LEAVE_ACCRUAL_CHECK_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_ACCRUAL_CHECK_INTERVAL: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("LEAVE_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_TIMEZONE: %w", err)
	}

	loginRate, err := strconv.Atoi(getEnv("LOGIN_RATE_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %w", err)
	}

	config.Leave = LeaveConfig{
		DefaultMonthlyAccrual: accrual,
		AccrualCheckInterval:  checkInterval,
		Timezone:              loc,
		LoginRatePerMinute:    loginRate,
	}

	config.Bootstrap = BootstrapConfig{
		CompanyName:    getEnv("BOOTSTRAP_COMPANY_NAME", "SIRH"),
		AdminCIN:       getEnv("BOOTSTRAP_ADMIN_CIN", ""),
		AdminEmail:     getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@sirh.local"),
		AdminLastName:  getEnv("BOOTSTRAP_ADMIN_LAST_NAME", "Admin"),
		AdminFirstName: getEnv("BOOTSTRAP_ADMIN_FIRST_NAME", "System"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if c.Leave.DefaultMonthlyAccrual.IsNegative() {
		return fmt.Errorf("LEAVE_DEFAULT_MONTHLY_ACCRUAL must not be negative")
	}
	if c.Leave.AccrualCheckInterval <= 0 {
		return fmt.Errorf("LEAVE_ACCRUAL_CHECK_INTERVAL must be positive")
	}
	if c.Leave.LoginRatePerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	result := strings.Split(value, ",")
	for i := range result {
		result[i] = strings.TrimSpace(result[i])
	}
	return result
}
