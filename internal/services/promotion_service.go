package services

import (
	"time"

	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/validation"

	"github.com/go-playground/validator/v10"
)

// PromotionInput is the typed payload for creating a promotion.
type PromotionInput struct {
	Name       string   `json:"name" validate:"required,max=100"`
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
	StartDate  string   `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate    string   `json:"end_date" validate:"required"`   // YYYY-MM-DD
	Discount   float64  `json:"discount" validate:"required"`
}

// PromotionService handles staff-created promotions.
type PromotionService struct {
	repo     repositories.PromotionRepository
	products repositories.ProductRepository
	validate *validator.Validate
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(repo repositories.PromotionRepository, products repositories.ProductRepository) *PromotionService {
	return &PromotionService{
		repo:     repo,
		products: products,
		validate: validation.New(),
	}
}

// CreatePromotion validates and persists a new active promotion. The discount
// must lie in (0, 100] and the start date must precede the end date.
func (s *PromotionService) CreatePromotion(input PromotionInput) (*models.Promotion, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validation.Collect(err)
	}
	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return nil, validation.FieldErrors{"start_date": "Enter a valid date (YYYY-MM-DD)."}
	}
	endDate, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		return nil, validation.FieldErrors{"end_date": "Enter a valid date (YYYY-MM-DD)."}
	}
	if input.Discount <= 0 || input.Discount > 100 {
		return nil, validation.FieldErrors{"discount": "The discount must be between 0% and 100%."}
	}
	if !startDate.Before(endDate) {
		return nil, validation.FieldErrors{validation.NonFieldKey: "The start date must be earlier than the end date."}
	}

	products := make([]models.Product, 0, len(input.ProductIDs))
	for _, id := range input.ProductIDs {
		product, err := s.products.GetByID(id)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}

	promotion := &models.Promotion{
		Name:      input.Name,
		Products:  products,
		StartDate: startDate,
		EndDate:   endDate,
		Discount:  input.Discount,
		IsActive:  true,
	}
	if err := s.repo.Create(promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// GetAllPromotions retrieves all promotions.
func (s *PromotionService) GetAllPromotions() ([]models.Promotion, error) {
	return s.repo.GetAll()
}

// GetPromotion retrieves a single promotion by its ID.
func (s *PromotionService) GetPromotion(id string) (*models.Promotion, error) {
	return s.repo.GetByID(id)
}
