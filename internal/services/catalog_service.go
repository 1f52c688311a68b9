package services

import (
	"time"

	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/validation"

	"github.com/go-playground/validator/v10"
)

// CategoryInput is the typed payload for creating a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// BakeryInput is the typed payload for creating a bakery.
type BakeryInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location" validate:"required,max=100"`
	OpenedAt string `json:"opened_at" validate:"omitempty,datetime=2006-01-02"`
}

// EmployeeInput is the typed payload for creating an employee record.
type EmployeeInput struct {
	BakeryID string `json:"bakery_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
	Age      int    `json:"age" validate:"required,gte=18,lte=70"`
	JobTitle string `json:"job_title" validate:"omitempty,max=100"`
}

// VehicleInput is the typed payload for creating a fleet vehicle record.
type VehicleInput struct {
	BakeryID        string `json:"bakery_id" validate:"required"`
	Brand           string `json:"brand" validate:"required,max=100"`
	ManufactureYear int    `json:"manufacture_year" validate:"required,gte=1900"`
	PurchaseDate    string `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
}

// CatalogService covers the back-office catalog: categories, bakeries,
// employees, and the vehicle fleet.
type CatalogService struct {
	repo     repositories.CatalogRepository
	validate *validator.Validate
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository) *CatalogService {
	return &CatalogService{
		repo:     repo,
		validate: validation.New(),
	}
}

// GetAllCategories retrieves all categories.
func (s *CatalogService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAllCategories()
}

// GetCategory retrieves a category by its ID.
func (s *CatalogService) GetCategory(id string) (*models.Category, error) {
	return s.repo.GetCategoryByID(id)
}

// CreateCategory validates and persists a new category.
func (s *CatalogService) CreateCategory(input CategoryInput) (*models.Category, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validation.Collect(err)
	}
	category := &models.Category{Name: input.Name, Description: input.Description}
	if err := s.repo.CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category together with its products.
func (s *CatalogService) DeleteCategory(id string) error {
	return s.repo.DeleteCategory(id)
}

// GetAllBakeries retrieves all bakeries.
func (s *CatalogService) GetAllBakeries() ([]models.Bakery, error) {
	return s.repo.GetAllBakeries()
}

// GetBakery retrieves a bakery by its ID.
func (s *CatalogService) GetBakery(id string) (*models.Bakery, error) {
	return s.repo.GetBakeryByID(id)
}

// CreateBakery validates and persists a new bakery.
func (s *CatalogService) CreateBakery(input BakeryInput) (*models.Bakery, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validation.Collect(err)
	}
	bakery := &models.Bakery{Name: input.Name, Location: input.Location, OpenedAt: input.OpenedAt}
	if err := s.repo.CreateBakery(bakery); err != nil {
		return nil, err
	}
	return bakery, nil
}

// CreateEmployee validates and persists a new employee. Employees must be
// between 18 and 70 years old.
func (s *CatalogService) CreateEmployee(input EmployeeInput) (*models.Employee, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validation.Collect(err)
	}
	if _, err := s.repo.GetBakeryByID(input.BakeryID); err != nil {
		return nil, err
	}
	employee := &models.Employee{
		BakeryID: input.BakeryID,
		Name:     input.Name,
		Age:      input.Age,
		JobTitle: input.JobTitle,
	}
	if err := s.repo.CreateEmployee(employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// GetEmployees returns the employees of a bakery.
func (s *CatalogService) GetEmployees(bakeryID string) ([]models.Employee, error) {
	return s.repo.GetEmployeesByBakery(bakeryID)
}

// CreateVehicle validates and persists a new fleet vehicle. The manufacture
// year is bounded by the current year, which is why it is checked here rather
// than with a static tag.
func (s *CatalogService) CreateVehicle(input VehicleInput) (*models.Vehicle, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validation.Collect(err)
	}
	if input.ManufactureYear > time.Now().Year() {
		return nil, validation.FieldErrors{"manufacture_year": "The manufacture year cannot be in the future."}
	}
	if _, err := s.repo.GetBakeryByID(input.BakeryID); err != nil {
		return nil, err
	}
	vehicle := &models.Vehicle{
		BakeryID:        input.BakeryID,
		Brand:           input.Brand,
		ManufactureYear: input.ManufactureYear,
		PurchaseDate:    input.PurchaseDate,
	}
	if err := s.repo.CreateVehicle(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// GetVehicles returns the fleet vehicles of a bakery.
func (s *CatalogService) GetVehicles(bakeryID string) ([]models.Vehicle, error) {
	return s.repo.GetVehiclesByBakery(bakeryID)
}
