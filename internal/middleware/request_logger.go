package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLoggers injects request-scoped loggers carrying a "request_id" field into c.Locals().
// The request id is also stored in Locals and echoed in the X-Request-ID response header.
func RequestLoggers(baseFileLogger, baseActivityLogger *zap.Logger) fiber.Handler {
	if baseFileLogger == nil {
		baseFileLogger = zap.NewNop()
	}
	if baseActivityLogger == nil {
		baseActivityLogger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Set(RequestIDHeader, requestID)
		c.Locals(RequestIDKey, requestID)

		c.Locals(RequestFileLoggerKey, baseFileLogger.With(zap.String("request_id", requestID)))
		c.Locals(RequestActivityLoggerKey, baseActivityLogger.With(
			zap.String("request_id", requestID),
			zap.String("ip", c.IP()),
		))

		return c.Next()
	}
}

// GetRequestFileLogger retrieves the request-scoped file/console logger.
// Falls back to the global zap logger if not found.
func GetRequestFileLogger(c *fiber.Ctx) *zap.Logger {
	if logger, ok := c.Locals(RequestFileLoggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.L()
}

// GetRequestActivityLogger retrieves the request-scoped activity logger, or a Nop logger.
func GetRequestActivityLogger(c *fiber.Ctx) *zap.Logger {
	if logger, ok := c.Locals(RequestActivityLoggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

// GetRequestID retrieves the request ID string from fiber.Ctx.Locals.
func GetRequestID(c *fiber.Ctx) string {
	if reqID, ok := c.Locals(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}
