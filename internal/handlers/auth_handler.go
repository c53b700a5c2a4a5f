package handlers

import (
	"errors"
	"time"

	mw "go-gallery/internal/middleware"
	"go-gallery/internal/pkg/validation"
	"go-gallery/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles session related HTTP requests
type AuthHandler struct {
	authService  services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session cookie HTTPS-only.
func NewAuthHandler(authService services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// LoginRequest accepts both form posts and JSON bodies
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=80"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if _, ok := mw.CurrentIdentity(c); ok {
		return c.Redirect("/admin", fiber.StatusFound)
	}
	return c.JSON(fiber.Map{
		"message": "Please log in",
		"fields":  []string{"username", "password"},
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	fileLogger := mw.GetRequestFileLogger(c)
	if _, ok := mw.CurrentIdentity(c); ok {
		return c.Redirect("/admin", fiber.StatusFound)
	}

	var req LoginRequest
	if !validation.ParseAndValidate(c, &req) {
		fileLogger.Warn("Login request validation failed or bad request body")
		return nil
	}

	token, identity, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			mw.GetRequestActivityLogger(c).Warn("Failed login", zap.String("username", req.Username))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid username or password",
			})
		}
		fileLogger.Error("Internal server error during login", zap.String("username", req.Username), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed due to an internal error",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     mw.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.SessionTTL()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	mw.GetRequestActivityLogger(c).Info("User logged in", zap.String("user", identity.Username))
	return c.JSON(fiber.Map{
		"message":  "Logged in successfully!",
		"username": identity.Username,
		"redirect": "/admin",
	})
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     mw.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	mw.GetRequestActivityLogger(c).Info("User logged out")
	return c.Redirect("/", fiber.StatusFound)
}

// SecretAccess handles GET /secret-access, an unlisted entry point to the login page
func (h *AuthHandler) SecretAccess(c *fiber.Ctx) error {
	return c.Redirect("/login", fiber.StatusFound)
}

// SetupAuthRoutes registers the session routes; logout sits behind gate
func (h *AuthHandler) SetupAuthRoutes(router fiber.Router, gate fiber.Handler) {
	router.Get("/login", h.LoginPage)
	router.Post("/login", h.Login)
	router.Get("/secret-access", h.SecretAccess)
	router.Get("/logout", gate, h.Logout)
}
