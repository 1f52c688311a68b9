package repositories

import (
	"errors"
	"fmt"

	"brutarie/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{db: db}
}

// GetAllCategories retrieves all categories.
func (r *GORMCatalogRepository) GetAllCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by its ID.
func (r *GORMCatalogRepository) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return &category, nil
}

// CreateCategory creates a new category.
func (r *GORMCatalogRepository) CreateCategory(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category and its products. SQLite does not enforce
// the FK cascade by default, so the products are deleted explicitly inside one
// transaction.
func (r *GORMCatalogRepository) DeleteCategory(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete category products: %w", err)
		}
		res := tx.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// GetAllBakeries retrieves all bakeries.
func (r *GORMCatalogRepository) GetAllBakeries() ([]models.Bakery, error) {
	var bakeries []models.Bakery
	if err := r.db.Find(&bakeries).Error; err != nil {
		return nil, fmt.Errorf("failed to get all bakeries: %w", err)
	}
	return bakeries, nil
}

// GetBakeryByID retrieves a bakery by its ID.
func (r *GORMCatalogRepository) GetBakeryByID(id string) (*models.Bakery, error) {
	var bakery models.Bakery
	if err := r.db.First(&bakery, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bakery with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bakery by ID %s: %w", id, err)
	}
	return &bakery, nil
}

// CreateBakery creates a new bakery.
func (r *GORMCatalogRepository) CreateBakery(bakery *models.Bakery) error {
	if bakery.ID == "" {
		bakery.ID = uuid.New().String()
	}
	if err := r.db.Create(bakery).Error; err != nil {
		return fmt.Errorf("failed to create bakery: %w", err)
	}
	return nil
}

// CreateEmployee creates a new employee record.
func (r *GORMCatalogRepository) CreateEmployee(employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.New().String()
	}
	if err := r.db.Create(employee).Error; err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// GetEmployeesByBakery returns all employees of a bakery.
func (r *GORMCatalogRepository) GetEmployeesByBakery(bakeryID string) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.Where("bakery_id = ?", bakeryID).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to get employees for bakery %s: %w", bakeryID, err)
	}
	return employees, nil
}

// CreateVehicle creates a new fleet vehicle record.
func (r *GORMCatalogRepository) CreateVehicle(vehicle *models.Vehicle) error {
	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	if err := r.db.Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetVehiclesByBakery returns all fleet vehicles of a bakery.
func (r *GORMCatalogRepository) GetVehiclesByBakery(bakeryID string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.Where("bakery_id = ?", bakeryID).Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to get vehicles for bakery %s: %w", bakeryID, err)
	}
	return vehicles, nil
}
