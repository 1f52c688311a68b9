package repositories

import (
	"brutarie/internal/models"
)

// ProductFilter narrows a product listing. Nil/empty fields are ignored.
type ProductFilter struct {
	Name        string   // substring match, case-insensitive
	CategoryID  string   // exact match
	MinPrice    *float64 // price >= MinPrice
	MaxPrice    *float64 // price <= MaxPrice
	MinStock    *int     // stock >= MinStock
	Description string   // substring match, case-insensitive
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// ExistsByName reports whether a product with exactly this name exists.
	ExistsByName(name string) (bool, error)

	// Filter returns one page of matching products plus the total match count.
	// Pages are 1-based.
	Filter(filter ProductFilter, page, perPage int) ([]models.Product, int64, error)
}
