package handlers

import (
	"log"

	"brutarie/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// RegisterRoutes registers the contact routes with the Fiber app.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleSubmit)
}

// HandleSubmit validates a contact submission and stores it.
func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	var sub services.ContactSubmission
	if err := c.BodyParser(&sub); err != nil {
		log.Printf("Error parsing contact request body: %v", err)
		return badRequest(c, err)
	}

	record, err := h.contactService.Submit(sub)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Thank you for your message!",
		"contact": record,
	})
}
