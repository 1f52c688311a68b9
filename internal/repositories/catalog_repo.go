package repositories

import (
	"brutarie/internal/models"
)

// CatalogRepository defines data access for the back-office catalog entities:
// categories, bakeries, employees, and the vehicle fleet.
type CatalogRepository interface {
	GetAllCategories() ([]models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	CreateCategory(category *models.Category) error
	DeleteCategory(id string) error

	GetAllBakeries() ([]models.Bakery, error)
	GetBakeryByID(id string) (*models.Bakery, error)
	CreateBakery(bakery *models.Bakery) error

	CreateEmployee(employee *models.Employee) error
	GetEmployeesByBakery(bakeryID string) ([]models.Employee, error)

	CreateVehicle(vehicle *models.Vehicle) error
	GetVehiclesByBakery(bakeryID string) ([]models.Vehicle, error)
}
