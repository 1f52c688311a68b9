package services

import (
	"fmt"
	"strings"

	"brutarie/internal/cache"
	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/validation"

	"github.com/go-playground/validator/v10"
)

// ProductsPerPage is the fixed page size of the product listing.
const ProductsPerPage = 10

// ProductInput is the typed payload for creating or updating a product.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,min=3,letters_only"`
	CategoryID  string  `json:"category_id" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0,lte=1000"`
	Stock       int     `json:"stock" validate:"gte=0,lte=1000"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Calories    int     `json:"calories" validate:"gte=0,lte=1000,calories_step"`
	Allergens   string  `json:"allergens" validate:"omitempty,allergen_list"`
}

// ProductPage is one page of a filtered product listing.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalItems int64            `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	catalog  repositories.CatalogRepository
	cache    *cache.Store
	validate *validator.Validate
}

// NewProductService creates a new ProductService. The cache may be nil.
func NewProductService(repo repositories.ProductRepository, catalog repositories.CatalogRepository, store *cache.Store) *ProductService {
	return &ProductService{
		repo:     repo,
		catalog:  catalog,
		cache:    store,
		validate: validation.New(),
	}
}

// validateInput applies the field rules plus the cross-field allergen rule:
// a product above 500 kcal must not list nuts among its allergens.
func (s *ProductService) validateInput(input ProductInput) error {
	if err := s.validate.Struct(input); err != nil {
		return validation.Collect(err)
	}
	if input.Calories > 500 && strings.Contains(strings.ToLower(input.Allergens), "nuts") {
		return validation.FieldErrors{
			validation.NonFieldKey: "High-calorie products (>500 kcal) should not include 'nuts' as an allergen.",
		}
	}
	return nil
}

// CreateProduct validates the input and persists a new product. The product
// name must not already exist among persisted products.
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if exists {
		return nil, validation.FieldErrors{"name": "A product with this name already exists."}
	}
	if _, err := s.catalog.GetCategoryByID(input.CategoryID); err != nil {
		return nil, validation.FieldErrors{"category_id": "Please select a valid category for the product."}
	}

	product := &models.Product{
		Name:        input.Name,
		CategoryID:  input.CategoryID,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
		Calories:    input.Calories,
		Allergens:   strings.TrimSpace(input.Allergens),
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.invalidateListings()
	return product, nil
}

// UpdateProduct validates the input and updates an existing product. A name
// change must not collide with another product.
func (s *ProductService) UpdateProduct(id string, input ProductInput) (*models.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if input.Name != product.Name {
		exists, err := s.repo.ExistsByName(input.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check product name: %w", err)
		}
		if exists {
			return nil, validation.FieldErrors{"name": "A product with this name already exists."}
		}
	}

	product.Name = input.Name
	product.CategoryID = input.CategoryID
	product.Price = input.Price
	product.Stock = input.Stock
	product.Description = input.Description
	product.Calories = input.Calories
	product.Allergens = strings.TrimSpace(input.Allergens)
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.invalidateListings()
	return product, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidateListings()
	return nil
}

// ListProducts returns one page of the filtered listing, 10 products per
// page. Pages are served from the shared cache until it is invalidated or the
// periodic cache-clearing job wipes it.
func (s *ProductService) ListProducts(filter repositories.ProductFilter, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	key := listingCacheKey(filter, page)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if result, ok := cached.(*ProductPage); ok {
				return result, nil
			}
		}
	}

	products, total, err := s.repo.Filter(filter, page, ProductsPerPage)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + ProductsPerPage - 1) / ProductsPerPage)
	result := &ProductPage{
		Products:   products,
		Page:       page,
		PerPage:    ProductsPerPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

func (s *ProductService) invalidateListings() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func listingCacheKey(filter repositories.ProductFilter, page int) string {
	minPrice, maxPrice, minStock := "", "", ""
	if filter.MinPrice != nil {
		minPrice = fmt.Sprintf("%g", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		maxPrice = fmt.Sprintf("%g", *filter.MaxPrice)
	}
	if filter.MinStock != nil {
		minStock = fmt.Sprintf("%d", *filter.MinStock)
	}
	return fmt.Sprintf("products:%s:%s:%s:%s:%s:%s:%d",
		filter.Name, filter.CategoryID, minPrice, maxPrice, minStock, filter.Description, page)
}
