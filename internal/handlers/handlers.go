package handlers

import (
	"errors"

	"brutarie/internal/repositories"
	"brutarie/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service-layer failures onto HTTP responses: validation
// failures re-render as field-scoped messages, missing records become 404s,
// everything else is a server fault.
func respondError(c *fiber.Ctx, err error) error {
	var fieldErrs validation.FieldErrors
	if errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrs,
		})
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

// forbidden renders the 403 page payload: a title, the requesting identity
// (or "Guest"), and a fixed explanatory message. It never reveals whether the
// target resource exists.
func forbidden(c *fiber.Ctx, title, message string) error {
	username := "Guest"
	if v, ok := c.Locals("username").(string); ok && v != "" {
		username = v
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"title":    title,
		"username": username,
		"message":  message,
	})
}

// currentUserID returns the authenticated user's ID, or "" for guests.
func currentUserID(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_id").(string); ok {
		return v
	}
	return ""
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
