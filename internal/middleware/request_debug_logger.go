package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxBodyLogSize = 1024

var passwordFieldPattern = regexp.MustCompile(`((?:"password"\s*:\s*")|(?:password=))[^"&]*`)

// RequestDebugLogger logs headers and body of each request when the logger is at Debug level,
// plus the response status and latency afterwards.
func RequestDebugLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger := GetRequestFileLogger(c)
		startTime := time.Now()

		if logger.Core().Enabled(zapcore.DebugLevel) {
			headersMap := make(map[string]string)
			c.Request().Header.VisitAll(func(key, value []byte) {
				headerKey := string(key)
				if headerKey == AuthorizationHeader || headerKey == "Cookie" {
					headersMap[headerKey] = "*** HIDDEN ***"
				} else {
					headersMap[headerKey] = string(value)
				}
			})

			logger.Debug("Incoming Request Details",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Any("headers", headersMap),
				zap.String("body", describeBody(c)),
			)
		}

		err := c.Next()

		logger.Debug("Request Handled",
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(startTime)),
		)
		return err
	}
}

// describeBody returns a printable, truncated and password-scrubbed view of the request body.
// Multipart uploads are summarized by size only.
func describeBody(c *fiber.Ctx) string {
	body := c.BodyRaw()
	if len(body) == 0 {
		return "(Empty Body)"
	}
	contentType := string(c.Request().Header.ContentType())
	textual := strings.Contains(contentType, "json") || strings.Contains(contentType, "text") || strings.Contains(contentType, "x-www-form-urlencoded")
	if !textual {
		return fmt.Sprintf("(Binary or multipart body, size: %d bytes)", len(body))
	}
	bodyLog := string(body)
	if len(body) > maxBodyLogSize {
		bodyLog = string(body[:maxBodyLogSize]) + "... (truncated)"
	}
	return sanitizeSensitiveData(bodyLog)
}

func sanitizeSensitiveData(body string) string {
	return passwordFieldPattern.ReplaceAllString(body, `${1}***`)
}
