package repositories

import (
	"fmt"
	"sync"

	"brutarie/internal/models"

	"github.com/google/uuid"
)

// MockCapabilityRepository is an in-memory implementation of CapabilityRepository.
type MockCapabilityRepository struct {
	registry map[string]models.Capability // codename -> capability
	grants   map[string]map[string]bool   // userID -> capabilityID set
	mu       sync.RWMutex
}

// NewMockCapabilityRepository creates a new instance of MockCapabilityRepository.
func NewMockCapabilityRepository() *MockCapabilityRepository {
	return &MockCapabilityRepository{
		registry: make(map[string]models.Capability),
		grants:   make(map[string]map[string]bool),
	}
}

// Seed ensures the given capabilities exist.
func (r *MockCapabilityRepository) Seed(capabilities []models.Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cap := range capabilities {
		if _, ok := r.registry[cap.Codename]; ok {
			continue
		}
		if cap.ID == "" {
			cap.ID = uuid.New().String()
		}
		r.registry[cap.Codename] = cap
	}
	return nil
}

// GetByCodename returns the registry entry for a codename.
func (r *MockCapabilityRepository) GetByCodename(codename string) (*models.Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cap, ok := r.registry[codename]
	if !ok {
		return nil, fmt.Errorf("capability %q: %w", codename, ErrCapabilityUndefined)
	}
	return &cap, nil
}

// Grant gives the user the capability, idempotently.
func (r *MockCapabilityRepository) Grant(userID, capabilityID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.grants[userID] == nil {
		r.grants[userID] = make(map[string]bool)
	}
	r.grants[userID][capabilityID] = true
	return nil
}

// Revoke removes the user's grant; a missing grant is a no-op.
func (r *MockCapabilityRepository) Revoke(userID, capabilityID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.grants[userID], capabilityID)
	return nil
}

// Has reports whether the user currently holds the capability.
func (r *MockCapabilityRepository) Has(userID, capabilityID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.grants[userID][capabilityID], nil
}
