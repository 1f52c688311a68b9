package handlers

import (
	"log"
	"strconv"
	"strings"

	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
	offerService   *services.OfferService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, offerService *services.OfferService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		offerService:   offerService,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleList)
	products.Get("/:id", h.HandleGet)
	products.Post("/", authRequired, h.HandleCreate)
	products.Put("/:id", authRequired, h.HandleUpdate)
	products.Delete("/:id", authRequired, h.HandleDelete)
}

// HandleList returns one page of the filtered product listing.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Name:        strings.TrimSpace(c.Query("name")),
		CategoryID:  strings.TrimSpace(c.Query("category_id")),
		Description: strings.TrimSpace(c.Query("description")),
	}
	if raw := c.Query("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if raw := c.Query("stock"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MinStock = &v
		}
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))

	result, err := h.productService.ListProducts(filter, page)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleGet returns a single product.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// canAddProduct reports whether the session user holds the add_product
// capability gating all catalog mutations.
func (h *ProductHandler) canAddProduct(c *fiber.Ctx) (bool, error) {
	return h.offerService.Has(currentUserID(c), models.CapabilityAddProduct)
}

// HandleCreate validates and creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	allowed, err := h.canAddProduct(c)
	if err != nil {
		return respondError(c, err)
	}
	if !allowed {
		return forbidden(c, "Error adding products", "You are not allowed to add products.")
	}

	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return badRequest(c, err)
	}

	product, err := h.productService.CreateProduct(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate validates and updates an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	allowed, err := h.canAddProduct(c)
	if err != nil {
		return respondError(c, err)
	}
	if !allowed {
		return forbidden(c, "Error updating products", "You are not allowed to add products.")
	}

	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	product, err := h.productService.UpdateProduct(c.Params("id"), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	allowed, err := h.canAddProduct(c)
	if err != nil {
		return respondError(c, err)
	}
	if !allowed {
		return forbidden(c, "Error deleting products", "You are not allowed to add products.")
	}

	if err := h.productService.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
