package repositories

import (
	"time"

	"brutarie/internal/models"
)

// PromotionRepository defines the interface for promotion data access.
type PromotionRepository interface {
	GetAll() ([]models.Promotion, error)
	GetByID(id string) (*models.Promotion, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error

	// FindExpiredActive returns promotions whose end date has passed but that
	// are still marked active.
	FindExpiredActive(now time.Time) ([]models.Promotion, error)
}
