package middleware

import (
	"strings"

	"go-gallery/internal/models"
	"go-gallery/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoadIdentity reads the session cookie, or a Bearer token, and stores the Identity in Locals.
// It never rejects a request; invalid or missing sessions simply leave no identity.
func LoadIdentity(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			if authHeader := c.Get(AuthorizationHeader); strings.HasPrefix(authHeader, BearerPrefix) {
				token = strings.TrimPrefix(authHeader, BearerPrefix)
			}
		}
		if token == "" {
			return c.Next()
		}

		claims, err := utils.ValidateToken(token, secret)
		if err != nil {
			GetRequestFileLogger(c).Debug("Ignoring invalid session token", zap.Error(err))
			return c.Next()
		}

		identity := models.Identity{UserID: claims.UserID, Username: claims.Username}
		c.Locals(IdentityKey, identity)
		c.Locals(RequestFileLoggerKey, GetRequestFileLogger(c).With(zap.String("user", identity.Username)))
		c.Locals(RequestActivityLoggerKey, GetRequestActivityLogger(c).With(zap.String("user", identity.Username)))
		return c.Next()
	}
}

// RequireIdentity rejects anonymous requests: GET is redirected to /login, everything else gets 401.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentIdentity(c); ok {
			return c.Next()
		}
		GetRequestFileLogger(c).Warn("Anonymous request to protected route", zap.String("method", c.Method()), zap.String("path", c.Path()))
		if c.Method() == fiber.MethodGet {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please log in to access this page.",
		})
	}
}

// CurrentIdentity returns the identity loaded for this request, if any.
func CurrentIdentity(c *fiber.Ctx) (models.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(models.Identity)
	return identity, ok
}
