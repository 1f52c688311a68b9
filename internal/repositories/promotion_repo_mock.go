package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"brutarie/internal/models"

	"github.com/google/uuid"
)

// MockPromotionRepository is an in-memory implementation of PromotionRepository.
type MockPromotionRepository struct {
	promotions map[string]models.Promotion
	mu         sync.RWMutex
}

// NewMockPromotionRepository creates a new instance of MockPromotionRepository.
func NewMockPromotionRepository() *MockPromotionRepository {
	return &MockPromotionRepository{
		promotions: make(map[string]models.Promotion),
	}
}

// GetAll returns all promotions.
func (r *MockPromotionRepository) GetAll() ([]models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Promotion, 0, len(r.promotions))
	for _, p := range r.promotions {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// GetByID returns a promotion by its ID.
func (r *MockPromotionRepository) GetByID(id string) (*models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	promotion, ok := r.promotions[id]
	if !ok {
		return nil, fmt.Errorf("promotion with ID %s: %w", id, ErrNotFound)
	}
	return &promotion, nil
}

// Create adds a new promotion.
func (r *MockPromotionRepository) Create(promotion *models.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	r.promotions[promotion.ID] = *promotion
	return nil
}

// Update modifies an existing promotion.
func (r *MockPromotionRepository) Update(promotion *models.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.promotions[promotion.ID]; !ok {
		return fmt.Errorf("promotion with ID %s: %w", promotion.ID, ErrNotFound)
	}
	r.promotions[promotion.ID] = *promotion
	return nil
}

// FindExpiredActive returns still-active promotions whose end date has passed.
func (r *MockPromotionRepository) FindExpiredActive(now time.Time) ([]models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expired []models.Promotion
	for _, p := range r.promotions {
		if p.IsActive && p.EndDate.Before(now) {
			expired = append(expired, p)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	return expired, nil
}
