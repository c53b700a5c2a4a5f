package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-gallery/internal/bootstrap"
	"go-gallery/internal/config"
	"go-gallery/internal/database"
	"go-gallery/internal/logging"
	"go-gallery/internal/middleware"
	"go-gallery/internal/repositories"
	"go-gallery/internal/routes"
	"go-gallery/internal/utils"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "go-gallery"

// NewServer builds the fiber application with middleware and routes on top of an open database.
func NewServer(cfg *config.Config, loggers *logging.AppLoggers, db *database.DB, logRepo repositories.LogRepository) (*fiber.App, *bootstrap.AppComponents, error) {
	fileLogger := loggers.File

	components, err := bootstrap.InitializeAppComponents(cfg, fileLogger, db, logRepo)
	if err != nil {
		return nil, nil, err
	}

	appFiber := fiber.New(fiber.Config{
		AppName:      appName,
		BodyLimit:    cfg.MaxContentLength,
		UnescapePath: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			lg := middleware.GetRequestFileLogger(c)
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			fields := []zap.Field{
				zap.Int("status", code),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
				zap.Error(err),
			}
			resp := fiber.Map{"error": "An unexpected error occurred"}
			switch code {
			case fiber.StatusNotFound:
				lg.Warn("Resource not found", fields...)
				resp["error"] = "Not found"
			case fiber.StatusRequestEntityTooLarge:
				lg.Warn("Request body too large", fields...)
				resp["error"] = "File too large"
			default:
				lg.Error("Generic ErrorHandler", fields...)
			}
			if cfg.AppEnv != "production" {
				resp["detail"] = err.Error()
			}
			return c.Status(code).JSON(resp)
		},
	})

	appFiber.Use(recover.New(recover.Config{
		EnableStackTrace: strings.ToLower(cfg.LogLevel) == "debug",
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			middleware.GetRequestFileLogger(c).Error("Panic recovered", zap.Any("panic_value", e))
		},
	}))
	fileLogger.Info("Configuring CORS", zap.String("origins", cfg.CORSAllowOrigins), zap.String("methods", cfg.CORSAllowMethods), zap.String("headers", cfg.CORSAllowHeaders))
	appFiber.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: cfg.CORSAllowMethods,
		AllowHeaders: cfg.CORSAllowHeaders,
	}))
	appFiber.Use(middleware.RequestLoggers(fileLogger, loggers.Activity))
	if strings.ToLower(cfg.LogLevel) == "debug" {
		appFiber.Use(middleware.RequestDebugLogger())
	}
	appFiber.Use(fiberzap.New(fiberzap.Config{
		Logger: fileLogger,
		Fields: []string{"status", "method", "url", "ip", "latency", "error"},
		FieldsFunc: func(c *fiber.Ctx) []zap.Field {
			fields := []zap.Field{zap.String("log_type", "access")}
			if reqID := middleware.GetRequestID(c); reqID != "" {
				fields = append(fields, zap.String("request_id", reqID))
			}
			return fields
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || strings.HasPrefix(c.Path(), cfg.UploadURLPrefix)
		},
	}))
	appFiber.Use(middleware.LoadIdentity(cfg.SecretKey))

	routes.SetupRoutes(appFiber, cfg, fileLogger, components)
	return appFiber, components, nil
}

// Run initializes and starts the application
func Run() {
	initAppStartTime := time.Now()

	// --- 1. Load Configuration ---
	tempConfigLogger, _ := zap.NewProduction(zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	defer tempConfigLogger.Sync()

	cfg, err := config.LoadConfig(tempConfigLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- 2. Rotating file writer ---
	fileSyncer, err := logging.NewRotatingFileSyncer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	// --- 3. Database (the activity logger persists through it) ---
	db, err := database.Open(cfg, tempConfigLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to open database: %v\n", err)
		os.Exit(1)
	}
	logRepo := repositories.NewLogRepository(db, tempConfigLogger)

	// --- 4. Application loggers ---
	appLoggers, err := logging.InitializeLoggers(cfg, logRepo, fileSyncer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize application loggers: %v\n", err)
		os.Exit(1)
	}
	fileLogger := appLoggers.File
	utils.TraceConfigDetails(fileLogger, cfg)
	fileLogger.Info("Database ready", zap.String("dialect", db.Dialect.Name()), zap.String("url", utils.MaskDatabaseURL(cfg.DatabaseURL)))

	// --- 5. Fiber app, components and routes ---
	appFiber, _, err := NewServer(cfg, appLoggers, db, logRepo)
	if err != nil {
		fileLogger.Fatal("Failed to initialize application components", zap.Error(err))
	}

	// --- 6. Start Server & Graceful Shutdown ---
	serverCtx, cancelServerCtx := context.WithCancel(context.Background())
	defer cancelServerCtx()
	serverStopped := make(chan struct{})

	go func() {
		defer close(serverStopped)
		listenAddr := ":" + cfg.Port
		fileLogger.Info(fmt.Sprintf("Completed initialization application in %d ms.", time.Since(initAppStartTime).Milliseconds()))
		fileLogger.Info("Starting Fiber server...",
			zap.String("address", listenAddr),
			zap.Int("pid", os.Getpid()),
			zap.String("app_env", cfg.AppEnv),
		)
		if err := appFiber.Listen(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fileLogger.Error("Server listener failed", zap.String("address", listenAddr), zap.Error(err))
			cancelServerCtx()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	select {
	case s := <-sig:
		fileLogger.Info("Shutdown signal received.", zap.String("signal", s.String()))
	case <-serverCtx.Done():
		fileLogger.Info("Server context cancelled, initiating shutdown.")
	}

	fileLogger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelShutdown()

	if err := appFiber.ShutdownWithContext(shutdownCtx); err != nil {
		fileLogger.Error("Fiber server shutdown failed", zap.Error(err))
	} else {
		fileLogger.Info("Fiber server gracefully stopped.")
	}
	<-serverStopped

	if errSync := fileLogger.Sync(); errSync != nil {
		errMsg := errSync.Error()
		if !strings.Contains(errMsg, "handle is invalid") && !strings.Contains(errMsg, "sync /dev/stdout") {
			fmt.Fprintf(os.Stderr, "[WARN] Error syncing file/console logger: %v\n", errSync)
		}
	}

	if errClose := db.Close(); errClose != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Error closing %s database: %v\n", db.Dialect.Name(), errClose)
	} else {
		fmt.Println("[INFO] Database connection closed.")
	}
	fmt.Println("[INFO] Application shutdown complete.")
}
