package repositories

import (
	"errors"
	"fmt"

	"brutarie/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCapabilityRepository is a GORM implementation of CapabilityRepository.
type GORMCapabilityRepository struct {
	db *gorm.DB
}

// NewGORMCapabilityRepository creates a new instance of GORMCapabilityRepository.
func NewGORMCapabilityRepository(db *gorm.DB) *GORMCapabilityRepository {
	return &GORMCapabilityRepository{db: db}
}

// Seed ensures the given capabilities exist, keyed by codename. The ID is
// supplied through Attrs so an existing row is matched on codename alone.
func (r *GORMCapabilityRepository) Seed(capabilities []models.Capability) error {
	for i := range capabilities {
		var cap models.Capability
		err := r.db.Where("codename = ?", capabilities[i].Codename).
			Attrs(models.Capability{
				ID:   uuid.New().String(),
				Name: capabilities[i].Name,
			}).
			FirstOrCreate(&cap).Error
		if err != nil {
			return fmt.Errorf("failed to seed capability %q: %w", capabilities[i].Codename, err)
		}
	}
	return nil
}

// GetByCodename returns the registry entry for a codename.
func (r *GORMCapabilityRepository) GetByCodename(codename string) (*models.Capability, error) {
	var cap models.Capability
	if err := r.db.First(&cap, "codename = ?", codename).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("capability %q: %w", codename, ErrCapabilityUndefined)
		}
		return nil, fmt.Errorf("failed to get capability %q: %w", codename, err)
	}
	return &cap, nil
}

// Grant gives the user the capability, idempotently. The dest struct stays
// zero so the lookup matches on (user_id, capability_id) only; the fresh ID is
// applied through Attrs when no row exists yet.
func (r *GORMCapabilityRepository) Grant(userID, capabilityID string) error {
	var grant models.UserCapability
	err := r.db.Where("user_id = ? AND capability_id = ?", userID, capabilityID).
		Attrs(models.UserCapability{ID: uuid.New().String()}).
		FirstOrCreate(&grant).Error
	if err != nil {
		return fmt.Errorf("failed to grant capability: %w", err)
	}
	return nil
}

// Revoke removes the user's grant. A missing grant is not an error.
func (r *GORMCapabilityRepository) Revoke(userID, capabilityID string) error {
	err := r.db.Unscoped().
		Where("user_id = ? AND capability_id = ?", userID, capabilityID).
		Delete(&models.UserCapability{}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke capability: %w", err)
	}
	return nil
}

// Has reports whether the user currently holds the capability.
func (r *GORMCapabilityRepository) Has(userID, capabilityID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserCapability{}).
		Where("user_id = ? AND capability_id = ?", userID, capabilityID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check capability: %w", err)
	}
	return count > 0, nil
}
