package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	CORS       CORSConfig
	Redis      RedisConfig
	Payroll    PayrollConfig
	Attendance AttendanceConfig
	Storage    StorageConfig
	Bootstrap  BootstrapConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxConns int32
	MinConns int32

	// Upper bound for acquiring a connection and starting a transaction.
	TxMaxWait time.Duration
	// Upper bound for a whole transaction, begin to commit.
	TxTimeout    time.Duration
	TxMaxRetries int
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
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RedisConfig is optional. An empty Addr keeps idempotency keys in memory.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

// PayrollConfig holds the payslip calculation rules.
type PayrollConfig struct {
	TaxRate                  decimal.Decimal
	SocialRate               decimal.Decimal
	HonorariumHours          decimal.Decimal
	HonorariumFromAttendance bool
}

// AttendanceConfig holds the attendance status derivation rules.
type AttendanceConfig struct {
	LateThreshold  time.Duration
	LunchThreshold time.Duration
	LunchBreak     time.Duration
	HalfDayCutoff  string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

// BootstrapConfig creates the first SUPER_ADMIN on startup when both
// fields are set.
type BootstrapConfig struct {
	SuperAdminEmail    string
	SuperAdminPassword string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	txMaxWait, err := time.ParseDuration(getEnv("DB_TX_MAX_WAIT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_TX_MAX_WAIT: %w", err)
	}
	txTimeout, err := time.ParseDuration(getEnv("DB_TX_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_TX_TIMEOUT: %w", err)
	}
	txMaxRetries, err := strconv.Atoi(getEnv("DB_TX_MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_TX_MAX_RETRIES: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         dbPort,
		User:         getEnv("DB_USER", "postgres"),
		Password:     getEnv("DB_PASSWORD", ""),
		Name:         getEnv("DB_NAME", "gestion_salaires"),
		SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		MaxConns:     int32(maxConns),
		MinConns:     int32(minConns),
		TxMaxWait:    txMaxWait,
		TxTimeout:    txTimeout,
		TxMaxRetries: txMaxRetries,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_WRITE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("APP_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_SHUTDOWN_TIMEOUT: %w", err)
	}

	config.App = AppConfig{
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ShutdownTimeout: shutdownTimeout,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	idempotencyTTL, err := time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:           getEnv("REDIS_ADDR", ""),
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             redisDB,
		IdempotencyTTL: idempotencyTTL,
	}

	// Payroll configuration
	taxRate, err := decimal.NewFromString(getEnv("PAYROLL_TAX_RATE", "0.10"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_TAX_RATE: %w", err)
	}
	socialRate, err := decimal.NewFromString(getEnv("PAYROLL_SOCIAL_RATE", "0.055"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_SOCIAL_RATE: %w", err)
	}
	honorariumHours, err := decimal.NewFromString(getEnv("PAYROLL_HONORARIUM_HOURS", "160"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_HONORARIUM_HOURS: %w", err)
	}
	fromAttendance, err := strconv.ParseBool(getEnv("PAYROLL_HONORARIUM_USE_ATTENDANCE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_HONORARIUM_USE_ATTENDANCE: %w", err)
	}

	config.Payroll = PayrollConfig{
		TaxRate:                  taxRate,
		SocialRate:               socialRate,
		HonorariumHours:          honorariumHours,
		HonorariumFromAttendance: fromAttendance,
	}

	// Attendance configuration
	lateThreshold, err := time.ParseDuration(getEnv("ATTENDANCE_LATE_THRESHOLD", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_THRESHOLD: %w", err)
	}
	lunchThreshold, err := time.ParseDuration(getEnv("ATTENDANCE_LUNCH_THRESHOLD", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LUNCH_THRESHOLD: %w", err)
	}
	lunchBreak, err := time.ParseDuration(getEnv("ATTENDANCE_LUNCH_BREAK", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LUNCH_BREAK: %w", err)
	}

	config.Attendance = AttendanceConfig{
		LateThreshold:  lateThreshold,
		LunchThreshold: lunchThreshold,
		LunchBreak:     lunchBreak,
		HalfDayCutoff:  getEnv("ATTENDANCE_HALF_DAY_CUTOFF", "12:00"),
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	config.Bootstrap = BootstrapConfig{
		SuperAdminEmail:    getEnv("BOOTSTRAP_SUPER_ADMIN_EMAIL", ""),
		SuperAdminPassword: getEnv("BOOTSTRAP_SUPER_ADMIN_PASSWORD", ""),
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
	if c.Database.TxMaxWait <= 0 || c.Database.TxTimeout <= 0 {
		return fmt.Errorf("DB_TX_MAX_WAIT and DB_TX_TIMEOUT must be positive")
	}
	if c.Database.TxMaxWait > c.Database.TxTimeout {
		return fmt.Errorf("DB_TX_MAX_WAIT must not exceed DB_TX_TIMEOUT")
	}
	if c.Database.TxMaxRetries < 0 {
		return fmt.Errorf("DB_TX_MAX_RETRIES must not be negative")
	}
	if c.Payroll.TaxRate.IsNegative() || c.Payroll.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_TAX_RATE must be between 0 and 1")
	}
	if c.Payroll.SocialRate.IsNegative() || c.Payroll.SocialRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_SOCIAL_RATE must be between 0 and 1")
	}
	if !c.Payroll.HonorariumHours.IsPositive() {
		return fmt.Errorf("PAYROLL_HONORARIUM_HOURS must be positive")
	}
	if _, err := time.Parse("15:04", c.Attendance.HalfDayCutoff); err != nil {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_CUTOFF must be HH:MM")
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

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
