package handlers

import (
	"errors"
	"log"

	"brutarie/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login and the
// authenticated profile pages.
type AuthHandler struct {
	authService  *services.AuthService
	offerService *services.OfferService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, offerService *services.OfferService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		offerService: offerService,
	}
}

// RegisterRoutes registers the account routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/confirm_email/:code", h.HandleConfirmEmail)
	authRoutes.Post("/logout", authRequired, h.HandleLogout)
	authRoutes.Post("/change_password", authRequired, h.HandleChangePassword)

	router.Get("/profile", authRequired, h.HandleProfile)
}

// HandleRegister creates a new unconfirmed account.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return badRequest(c, err)
	}

	user, err := h.authService.Register(req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) || errors.Is(err, services.ErrEmailRegistered) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Please confirm your email address to complete registration.",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// HandleLogin authenticates a user and issues a JWT token. Blocked and
// unconfirmed accounts get their own messages; everything else is a generic
// credentials failure.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badRequest(c, err)
	}

	token, err := h.authService.Login(req.Username, req.Password, req.RememberMe)
	if err != nil {
		message := "Authentication failed"
		switch {
		case errors.Is(err, services.ErrAccountBlocked):
			message = "Your account has been blocked. Contact the administrator for more information."
		case errors.Is(err, services.ErrEmailNotConfirmed):
			message = "Please confirm your email first."
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "You have been logged in with success!",
		"token":   token,
	})
}

// HandleConfirmEmail consumes a confirmation code from the emailed link.
func (h *AuthHandler) HandleConfirmEmail(c *fiber.Ctx) error {
	code := c.Params("code")

	alreadyConfirmed, err := h.authService.ConfirmEmail(code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidConfirmationLink) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message":  "Invalid confirmation link.",
				"redirect": "/api/v1/auth/register",
			})
		}
		return respondError(c, err)
	}

	message := "Your email has been successfully confirmed!"
	if alreadyConfirmed {
		message = "Your email is already confirmed."
	}
	return c.JSON(fiber.Map{
		"message":  message,
		"redirect": "/api/v1/auth/login",
	})
}

// HandleLogout releases the special-offer grant, if held, and ends the
// session. Revocation problems never block the logout.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.offerService.ReleaseOffer(currentUserID(c))
	return c.JSON(fiber.Map{
		"message": "You have been logged out successfully.",
	})
}

// HandleProfile returns the session user's profile data.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user_data": fiber.Map{
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
	})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// HandleChangePassword updates the session user's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	err := h.authService.ChangePassword(currentUserID(c), req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Your password was successfully updated!",
	})
}
