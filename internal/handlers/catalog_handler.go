package handlers

import (
	"brutarie/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles categories, bakeries (with their staff and fleet),
// and promotions.
type CatalogHandler struct {
	catalogService   *services.CatalogService
	promotionService *services.PromotionService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService, promotionService *services.PromotionService) *CatalogHandler {
	return &CatalogHandler{
		catalogService:   catalogService,
		promotionService: promotionService,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app. Creation
// endpoints are back-office operations and require authentication.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	categories := router.Group("/categories")
	categories.Get("/", h.HandleListCategories)
	categories.Get("/:id", h.HandleGetCategory)
	categories.Post("/", authRequired, h.HandleCreateCategory)
	categories.Delete("/:id", authRequired, h.HandleDeleteCategory)

	bakeries := router.Group("/bakeries")
	bakeries.Get("/", h.HandleListBakeries)
	bakeries.Get("/:id", h.HandleGetBakery)
	bakeries.Post("/", authRequired, h.HandleCreateBakery)
	bakeries.Get("/:id/employees", h.HandleListEmployees)
	bakeries.Post("/:id/employees", authRequired, h.HandleCreateEmployee)
	bakeries.Get("/:id/vehicles", h.HandleListVehicles)
	bakeries.Post("/:id/vehicles", authRequired, h.HandleCreateVehicle)

	promotions := router.Group("/promotions")
	promotions.Get("/", h.HandleListPromotions)
	promotions.Get("/:id", h.HandleGetPromotion)
	promotions.Post("/", authRequired, h.HandleCreatePromotion)
}

// HandleListCategories lists all categories.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.GetAllCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// HandleGetCategory returns a single category.
func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.catalogService.GetCategory(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// HandleCreateCategory creates a new category.
func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	category, err := h.catalogService.CreateCategory(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleDeleteCategory removes a category and, by cascade, its products.
func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteCategory(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// HandleListBakeries lists all bakeries.
func (h *CatalogHandler) HandleListBakeries(c *fiber.Ctx) error {
	bakeries, err := h.catalogService.GetAllBakeries()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bakeries": bakeries})
}

// HandleGetBakery returns a single bakery.
func (h *CatalogHandler) HandleGetBakery(c *fiber.Ctx) error {
	bakery, err := h.catalogService.GetBakery(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bakery)
}

// HandleCreateBakery creates a new bakery.
func (h *CatalogHandler) HandleCreateBakery(c *fiber.Ctx) error {
	var input services.BakeryInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	bakery, err := h.catalogService.CreateBakery(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bakery)
}

// HandleListEmployees lists a bakery's employees.
func (h *CatalogHandler) HandleListEmployees(c *fiber.Ctx) error {
	employees, err := h.catalogService.GetEmployees(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employees": employees})
}

// HandleCreateEmployee adds an employee to a bakery.
func (h *CatalogHandler) HandleCreateEmployee(c *fiber.Ctx) error {
	var input services.EmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	input.BakeryID = c.Params("id")
	employee, err := h.catalogService.CreateEmployee(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(employee)
}

// HandleListVehicles lists a bakery's fleet.
func (h *CatalogHandler) HandleListVehicles(c *fiber.Ctx) error {
	vehicles, err := h.catalogService.GetVehicles(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"vehicles": vehicles})
}

// HandleCreateVehicle adds a fleet vehicle to a bakery.
func (h *CatalogHandler) HandleCreateVehicle(c *fiber.Ctx) error {
	var input services.VehicleInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	input.BakeryID = c.Params("id")
	vehicle, err := h.catalogService.CreateVehicle(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

// HandleListPromotions lists all promotions.
func (h *CatalogHandler) HandleListPromotions(c *fiber.Ctx) error {
	promotions, err := h.promotionService.GetAllPromotions()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"promotions": promotions})
}

// HandleGetPromotion returns a single promotion.
func (h *CatalogHandler) HandleGetPromotion(c *fiber.Ctx) error {
	promotion, err := h.promotionService.GetPromotion(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(promotion)
}

// HandleCreatePromotion creates a new promotion.
func (h *CatalogHandler) HandleCreatePromotion(c *fiber.Ctx) error {
	var input services.PromotionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	promotion, err := h.promotionService.CreatePromotion(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(promotion)
}
