package handlers

import (
	"errors"
	"log"

	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OfferHandler handles the special-offer workflow: the random banner, the
// claim endpoint, and the gated offer page.
type OfferHandler struct {
	offerService *services.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offerService *services.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// RegisterRoutes registers the offer routes with the Fiber app. The offer
// page itself uses optional auth so that guests receive the 403 payload with
// the "Guest" identity instead of a bare 401.
func (h *OfferHandler) RegisterRoutes(router fiber.Router, authRequired, optionalAuth fiber.Handler) {
	offers := router.Group("/offers")
	offers.Get("/banner", authRequired, h.HandleBanner)
	offers.Post("/claim", authRequired, h.HandleClaim)
	offers.Get("/special", optionalAuth, h.HandleOfferPage)
}

// HandleBanner samples the banner exposure for this page load. Nothing is
// persisted; each request rolls again.
func (h *OfferHandler) HandleBanner(c *fiber.Ctx) error {
	showBanner := h.offerService.ShowBanner()
	message := "Banner hidden due to random probability."
	if showBanner {
		message = "Special offer banner is displayed! Click to claim."
	}
	return c.JSON(fiber.Map{
		"show_banner": showBanner,
		"message":     message,
	})
}

// HandleClaim grants the view_offer capability to the session user,
// idempotently. A missing registry entry is a configuration fault.
func (h *OfferHandler) HandleClaim(c *fiber.Ctx) error {
	if err := h.offerService.ClaimOffer(currentUserID(c)); err != nil {
		if errors.Is(err, repositories.ErrCapabilityUndefined) {
			log.Printf("Offer claim failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Unable to claim the offer: required permission not found.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Offer claimed successfully! You can now access the special offer page.",
	})
}

// HandleOfferPage serves the gated offer page. Without the grant the
// response is a 403 carrying the requesting identity and a fixed message.
func (h *OfferHandler) HandleOfferPage(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID != "" {
		granted, err := h.offerService.Has(userID, models.CapabilityViewOffer)
		if err != nil {
			return respondError(c, err)
		}
		if granted {
			return c.JSON(fiber.Map{
				"message": "Congratulations! You have unlocked the special offer!",
			})
		}
	}
	return forbidden(c, "Error Displaying Offer", "You are not authorized to view the special offer.")
}
