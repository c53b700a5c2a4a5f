package utils

import (
	"fmt"
	"strings"

	"go-gallery/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TraceConfigDetails(logger *zap.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		fmt.Println("[WARN] logger or config is nil in TraceConfigDetails")
		return
	}
	fields := []zapcore.Field{
		zap.String("AppEnv", cfg.AppEnv),
		zap.String("Port", cfg.Port),
		zap.String("SecretKey", MaskSecret(cfg.SecretKey, config.DefaultSecretKey)),
		zap.Int("SessionTTLHours", cfg.SessionTTLHours),
		zap.String("DatabaseURL", MaskDatabaseURL(cfg.DatabaseURL)),
		zap.Int("OracleMaxPoolOpenConns", cfg.OracleMaxPoolOpenConns),
		zap.Int("OracleMaxPoolIdleConns", cfg.OracleMaxPoolIdleConns),
		zap.Int("OracleMaxPoolConnLifetimeMinutes", cfg.OracleMaxPoolConnLifetimeMinutes),
		zap.Int("OracleMaxPoolConnIdleTimeMinutes", cfg.OracleMaxPoolConnIdleTimeMinutes),
		zap.String("LogFilePath", cfg.LogFilePath),
		zap.String("LogLevel", cfg.LogLevel),
		zap.Int("LogRotateIntervalHours", cfg.LogRotateInterval),
		zap.Int("LogMaxSizeMB", cfg.LogMaxSize),
		zap.Int("LogMaxBackups", cfg.LogMaxBackups),
		zap.Int("LogMaxAgeDays", cfg.LogMaxAge),
		zap.Bool("LogCompress", cfg.LogCompress),
		zap.Bool("ActivityLog_Enabled", cfg.ActivityLogEnabled),
		zap.String("ActivityLog_Level", cfg.ActivityLogLevel),
		zap.String("UploadDir", cfg.UploadDir),
		zap.Int("MaxContentLength", cfg.MaxContentLength),
		zap.String("AllowedExtensions", strings.Join(cfg.AllowedExtensions, ",")),
		zap.Int("PageSize", cfg.PageSize),
		zap.String("MaxImageSize", fmt.Sprintf("%dx%d", cfg.MaxImageWidth, cfg.MaxImageHeight)),
		zap.Int("JPEGQuality", cfg.JPEGQuality),
		zap.String("AdminUsername", cfg.AdminUsername),
		zap.String("AdminPassword", MaskSecret(cfg.AdminPassword, config.DefaultAdminPassword)),
		zap.String("CORS_AllowOrigins", cfg.CORSAllowOrigins),
		zap.String("CORS_AllowMethods", cfg.CORSAllowMethods),
		zap.String("CORS_AllowHeaders", cfg.CORSAllowHeaders),
	}
	logger.Debug("Loaded application configuration details", fields...)
}
