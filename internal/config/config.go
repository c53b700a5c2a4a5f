package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap" // Use logger for loading errors
)

const (
	DefaultSecretKey     = "default-secret"
	DefaultAdminPassword = "admin123"
)

// Config holds all configuration for the application
type Config struct {
	AppEnv           string
	Port             string
	CORSAllowOrigins string
	CORSAllowMethods string
	CORSAllowHeaders string
	SecretKey        string
	SessionTTLHours  int

	// DatabaseURL selects the backend: oracle://... uses godror, anything else is a SQLite path
	DatabaseURL                      string
	OracleMaxPoolOpenConns           int // Max open connections
	OracleMaxPoolIdleConns           int // Max idle connections
	OracleMaxPoolConnLifetimeMinutes int // Max lifetime in minutes
	OracleMaxPoolConnIdleTimeMinutes int // Max idle time in minutes

	LogFilePath        string
	LogLevel           string
	LogRotateInterval  int // Hour
	LogMaxSize         int // MB
	LogMaxBackups      int
	LogMaxAge          int // Days
	LogCompress        bool
	ActivityLogEnabled bool
	ActivityLogLevel   string

	UploadDir         string
	UploadURLPrefix   string
	MaxContentLength  int // bytes
	AllowedExtensions []string
	PageSize          int
	MaxImageWidth     int
	MaxImageHeight    int
	JPEGQuality       int

	AdminUsername string
	AdminPassword string
}

// LoadConfig reads configuration from environment variables or .env file
func LoadConfig(logger *zap.Logger) (*Config, error) { // logger can be nil here
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "local" // Default to local if not set
	}

	envFileName := fmt.Sprintf(".env.%s", appEnv)
	if _, err := os.Stat(envFileName); err == nil {
		if err := godotenv.Load(envFileName); err != nil {
			if logger != nil {
				logger.Warn("Error loading .env file, continuing with environment variables", zap.String("file", envFileName), zap.Error(err))
			}
		} else if logger != nil {
			logger.Info("Loaded configuration", zap.String("file", envFileName))
		}
	} else if logger != nil {
		logger.Warn("No specific .env file found for environment, relying on environment variables or defaults", zap.String("environment", appEnv))
	}

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "local"),
		Port:            getEnv("PORT", "5000"),
		SecretKey:       getEnv("SECRET_KEY", DefaultSecretKey),
		SessionTTLHours: getEnvAsInt("SESSION_TTL_HOURS", 24),

		DatabaseURL:                      getEnv("DATABASE_URL", "sqlite:///instance/gallery.db"),
		OracleMaxPoolOpenConns:           getEnvAsInt("ORACLE_MAX_POOL_OPEN_CONNS", 20),
		OracleMaxPoolIdleConns:           getEnvAsInt("ORACLE_MAX_POOL_IDLE_CONNS", 5),
		OracleMaxPoolConnLifetimeMinutes: getEnvAsInt("ORACLE_MAX_POOL_CONN_LIFETIME_MINUTES", 60),
		OracleMaxPoolConnIdleTimeMinutes: getEnvAsInt("ORACLE_MAX_POOL_CONN_IDLE_TIME_MINUTES", 10),

		LogFilePath:        getEnv("LOG_FILE_PATH", "./logs/gallery.log"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogRotateInterval:  getEnvAsInt("LOG_ROTATE_INTERVAL", 24),
		LogMaxSize:         getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups:      getEnvAsInt("LOG_MAX_BACKUPS", 5),
		LogMaxAge:          getEnvAsInt("LOG_MAX_AGE", 30),
		LogCompress:        getEnvAsBool("LOG_COMPRESS", false),
		ActivityLogEnabled: getEnvAsBool("ACTIVITY_LOG_ENABLED", true),
		ActivityLogLevel:   strings.ToLower(getEnv("ACTIVITY_LOG_LEVEL", "info")),

		UploadDir:         getEnv("UPLOAD_FOLDER", "./static/uploads"),
		UploadURLPrefix:   "/static/uploads",
		MaxContentLength:  getEnvAsInt("MAX_CONTENT_LENGTH", 16*1024*1024), // 16MB max file size
		AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{"png", "jpg", "jpeg", "gif", "webp"}),
		PageSize:          getEnvAsInt("PAGE_SIZE", 12),
		MaxImageWidth:     getEnvAsInt("MAX_IMAGE_WIDTH", 1200),
		MaxImageHeight:    getEnvAsInt("MAX_IMAGE_HEIGHT", 1200),
		JPEGQuality:       getEnvAsInt("JPEG_QUALITY", 85),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", DefaultAdminPassword),

		// Default AllowOrigins to "*" for local, empty for others (forcing explicit setting)
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", func() string {
			if appEnv == "local" || appEnv == "development" {
				return "*"
			}
			return ""
		}()),
		CORSAllowMethods: getEnv("CORS_ALLOW_METHODS", "GET,POST,HEAD"),
		CORSAllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Type,Accept,Authorization"),
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "dpanic": true, "panic": true, "fatal": true}
	if !validLevels[cfg.LogLevel] {
		if logger != nil {
			logger.Warn("Invalid LOG_LEVEL specified, defaulting to 'info'", zap.String("invalidLevel", cfg.LogLevel))
		}
		cfg.LogLevel = "info"
	}
	if !validLevels[cfg.ActivityLogLevel] {
		if logger != nil {
			logger.Warn("Invalid ACTIVITY_LOG_LEVEL specified, defaulting to 'info'", zap.String("invalidLevel", cfg.ActivityLogLevel))
		}
		cfg.ActivityLogLevel = "info"
	}

	if err := cfg.Validate(); err != nil {
		if logger != nil {
			logger.Error("Invalid configuration", zap.Error(err))
		}
		return nil, err
	}

	if cfg.SecretKey == DefaultSecretKey && logger != nil {
		logger.Warn("SECRET_KEY is using the default value. Please set a strong secret in production.")
	}
	if cfg.AdminPassword == DefaultAdminPassword && logger != nil {
		logger.Warn("ADMIN_PASSWORD is using the default value. Change it in production!")
	}

	// Create upload directory if it doesnt exist
	if _, err := os.Stat(cfg.UploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
			if logger != nil {
				logger.Error("Failed to create upload directory", zap.String("path", cfg.UploadDir), zap.Error(err))
			}
			return nil, fmt.Errorf("failed to create upload directory %s: %w", cfg.UploadDir, err)
		}
		if logger != nil {
			logger.Info("Created upload directory", zap.String("path", cfg.UploadDir))
		}
	}

	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must list at least one extension")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxImageWidth <= 0 || c.MaxImageHeight <= 0 {
		return fmt.Errorf("MAX_IMAGE_WIDTH and MAX_IMAGE_HEIGHT must be positive")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.AppEnv != "local" && c.AppEnv != "development" && c.AppEnv != "test" && (c.CORSAllowOrigins == "*" || c.CORSAllowOrigins == "") {
		return fmt.Errorf("CORS_ALLOW_ORIGINS must be set explicitly in production environments")
	}
	return nil
}

// AllowedExtensionSet returns the allowed extensions as a lookup set.
func (c *Config) AllowedExtensionSet() map[string]bool {
	set := make(map[string]bool, len(c.AllowedExtensions))
	for _, ext := range c.AllowedExtensions {
		set[ext] = true
	}
	return set
}

// Helper function to get env var or default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get env var as int or default
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// Helper function to get env var as bool or default
func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated env var, lower-casing and trimming each item
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if strings.TrimSpace(valueStr) == "" {
		return fallback
	}
	var items []string
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), ".")))
		if part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
