package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-gallery/internal/config"
	"go-gallery/internal/models"
	"go-gallery/internal/repositories"

	"github.com/DeRuina/timberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLoggers holds the different logger instances for the application.
type AppLoggers struct {
	File     *zap.Logger // console + rotating file
	Activity *zap.Logger // domain events persisted to tbl_log, Nop when disabled
}

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

func customColorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var colorPrefix, colorSuffix string
	switch level {
	case zapcore.DebugLevel:
		colorPrefix = "\x1b[35m" // Magenta
	case zapcore.InfoLevel:
		colorPrefix = "\x1b[32m" // Green
	case zapcore.WarnLevel:
		colorPrefix = "\x1b[33m" // Yellow
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		colorPrefix = "\x1b[31m" // Red
	}
	if colorPrefix != "" {
		colorSuffix = "\x1b[0m"
	}
	enc.AppendString(colorPrefix + "[" + level.CapitalString() + "]" + colorSuffix)
}

// CreateFileConsoleEncoderConfigs sets up the encoder configurations.
func CreateFileConsoleEncoderConfigs() (zapcore.EncoderConfig, zapcore.EncoderConfig) {
	consoleEncoderCfg := zap.NewDevelopmentEncoderConfig()
	consoleEncoderCfg.EncodeLevel = customColorLevelEncoder
	consoleEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoderCfg.EncodeCaller = zapcore.ShortCallerEncoder

	fileEncoderCfg := zap.NewProductionEncoderConfig()
	fileEncoderCfg.EncodeLevel = customLevelEncoder
	fileEncoderCfg.TimeKey = "timestamp"
	fileEncoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	fileEncoderCfg.EncodeCaller = zapcore.ShortCallerEncoder

	return consoleEncoderCfg, fileEncoderCfg
}

// NewRotatingFileSyncer creates the log directory and a timberjack writer for cfg.LogFilePath.
func NewRotatingFileSyncer(cfg *config.Config) (zapcore.WriteSyncer, error) {
	logDir := filepath.Dir(cfg.LogFilePath)
	if logDir != "." && logDir != "/" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to ensure log directory %s exists: %w", logDir, err)
		}
	}
	return zapcore.AddSync(&timberjack.Logger{
		Filename:         cfg.LogFilePath,
		MaxSize:          cfg.LogMaxSize,
		MaxBackups:       cfg.LogMaxBackups,
		MaxAge:           cfg.LogMaxAge,
		Compress:         cfg.LogCompress,
		LocalTime:        true,
		RotationInterval: time.Duration(cfg.LogRotateInterval) * time.Hour,
	}), nil
}

// InitializeLoggers creates the file/console application logger and the activity logger.
// The file logger is also installed as zap's global logger.
// logRepo may be nil, in which case the activity logger is a no-op.
func InitializeLoggers(cfg *config.Config, logRepo repositories.LogRepository, fileSyncer zapcore.WriteSyncer) (*AppLoggers, error) {
	if fileSyncer == nil {
		return nil, fmt.Errorf("file syncer is required")
	}
	appLoggers := &AppLoggers{}

	var fileLogLevel zapcore.Level
	if err := fileLogLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Invalid LOG_LEVEL '%s', defaulting to info: %v\n", cfg.LogLevel, err)
		fileLogLevel = zapcore.InfoLevel
	}

	consoleEncoderCfg, fileEncoderCfg := CreateFileConsoleEncoderConfigs()
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderCfg), zapcore.Lock(os.Stdout), fileLogLevel)
	fileOutputCore := zapcore.NewCore(zapcore.NewConsoleEncoder(fileEncoderCfg), fileSyncer, fileLogLevel)

	appLoggers.File = zap.New(zapcore.NewTee(consoleCore, fileOutputCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.ReplaceGlobals(appLoggers.File)
	appLoggers.File.Info("======================================================================================")
	appLoggers.File.Info("File/Console application logger initialized",
		zap.String("environment", cfg.AppEnv),
		zap.String("configuredLevel", cfg.LogLevel),
		zap.String("effectiveLevel", fileLogLevel.String()),
		zap.String("logFile", cfg.LogFilePath),
	)

	if !cfg.ActivityLogEnabled || logRepo == nil {
		appLoggers.File.Info("Activity logger is disabled.")
		appLoggers.Activity = zap.NewNop()
		return appLoggers, nil
	}

	var activityLevel zapcore.Level
	if err := activityLevel.UnmarshalText([]byte(cfg.ActivityLogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Invalid ACTIVITY_LOG_LEVEL '%s', defaulting to info: %v\n", cfg.ActivityLogLevel, err)
		activityLevel = zapcore.InfoLevel
	}
	appLoggers.Activity = zap.New(NewActivityCore(activityLevel, logRepo))
	appLoggers.File.Info("Activity logger initialized", zap.String("effectiveLevel", activityLevel.String()))

	return appLoggers, nil
}

// activityCore implements zapcore.Core and persists entries through a LogRepository.
type activityCore struct {
	zapcore.LevelEnabler
	repo   repositories.LogRepository
	fields []zapcore.Field // added via logger.With()
}

// NewActivityCore creates a core that writes each entry as one tbl_log row.
func NewActivityCore(enab zapcore.LevelEnabler, repo repositories.LogRepository) zapcore.Core {
	return &activityCore{LevelEnabler: enab, repo: repo}
}

func (c *activityCore) With(fields []zapcore.Field) zapcore.Core {
	clone := c.clone()
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *activityCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write never fails the caller; a persistence error is reported on stderr.
func (c *activityCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	mapEncoder := zapcore.NewMapObjectEncoder()
	for _, field := range c.fields {
		field.AddTo(mapEncoder)
	}
	for _, field := range fields {
		field.AddTo(mapEncoder)
	}

	entry := models.LogEntry{
		Timestamp: ent.Time,
		Level:     ent.Level.String(),
		Message:   ent.Message,
		Fields:    "{}",
	}
	if len(mapEncoder.Fields) > 0 {
		if fieldBytes, err := json.Marshal(mapEncoder.Fields); err == nil {
			entry.Fields = string(fieldBytes)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to marshal activity log fields: %v\n", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.repo.Insert(ctx, entry); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to insert activity log entry: %v\n", err)
	}
	return nil
}

func (c *activityCore) Sync() error {
	return nil
}

func (c *activityCore) clone() *activityCore {
	return &activityCore{
		LevelEnabler: c.LevelEnabler,
		repo:         c.repo,
		fields:       append([]zapcore.Field(nil), c.fields...),
	}
}
