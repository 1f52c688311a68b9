package repositories

import (
	"fmt"

	"brutarie/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactRepository defines the interface for contact message persistence.
// Messages are append-only.
type ContactRepository interface {
	Create(message *models.ContactMessage) error
	GetAll() ([]models.ContactMessage, error)
}

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

// NewGORMContactRepository creates a new instance of GORMContactRepository.
func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{db: db}
}

// Create persists a contact message.
func (r *GORMContactRepository) Create(message *models.ContactMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// GetAll returns every stored contact message.
func (r *GORMContactRepository) GetAll() ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	if err := r.db.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to get contact messages: %w", err)
	}
	return messages, nil
}
