package repositories

import (
	"errors"
	"fmt"
	"time"

	"brutarie/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPromotionRepository is a GORM implementation of PromotionRepository.
type GORMPromotionRepository struct {
	db *gorm.DB
}

// NewGORMPromotionRepository creates a new instance of GORMPromotionRepository.
func NewGORMPromotionRepository(db *gorm.DB) *GORMPromotionRepository {
	return &GORMPromotionRepository{db: db}
}

// GetAll retrieves all promotions with their products preloaded.
func (r *GORMPromotionRepository) GetAll() ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := r.db.Preload("Products").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to get all promotions: %w", err)
	}
	return promotions, nil
}

// GetByID retrieves a single promotion by its ID.
func (r *GORMPromotionRepository) GetByID(id string) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.Preload("Products").First(&promotion, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("promotion with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get promotion by ID %s: %w", id, err)
	}
	return &promotion, nil
}

// Create creates a new promotion, including its product associations.
func (r *GORMPromotionRepository) Create(promotion *models.Promotion) error {
	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	if err := r.db.Create(promotion).Error; err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

// Update persists changes to an existing promotion. Associations are left
// untouched; only column values are written.
func (r *GORMPromotionRepository) Update(promotion *models.Promotion) error {
	res := r.db.Omit("Products").Save(promotion)
	if res.Error != nil {
		return fmt.Errorf("failed to update promotion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("promotion with ID %s: %w", promotion.ID, ErrNotFound)
	}
	return nil
}

// FindExpiredActive returns still-active promotions whose end date has passed.
func (r *GORMPromotionRepository) FindExpiredActive(now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.db.Where("end_date < ? AND is_active = ?", now, true).Find(&promotions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired promotions: %w", err)
	}
	return promotions, nil
}
