package repositories

import (
	"fmt"
	"sync"
	"time"

	"brutarie/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	r.users[user.ID] = *user
	return nil
}

// Update modifies an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MockUserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user: %w", ErrNotFound)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

// GetByConfirmationCode returns a user by confirmation code.
func (r *MockUserRepository) GetByConfirmationCode(code string) (*models.User, error) {
	return r.find(func(u models.User) bool {
		return u.ConfirmationCode != nil && *u.ConfirmationCode == code
	})
}

// DeleteUnconfirmedBefore removes unconfirmed, non-superuser accounts joined
// at or before the cutoff.
func (r *MockUserRepository) DeleteUnconfirmedBefore(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, u := range r.users {
		if !u.EmailConfirmed && !u.Superuser && !u.DateJoined.After(cutoff) {
			delete(r.users, id)
			deleted++
		}
	}
	return deleted, nil
}

// ListJoinedBefore returns accounts joined at or before the cutoff.
func (r *MockUserRepository) ListJoinedBefore(cutoff time.Time) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []models.User
	for _, u := range r.users {
		if !u.DateJoined.After(cutoff) {
			users = append(users, u)
		}
	}
	return users, nil
}

// ListSuperusers returns all superuser accounts.
func (r *MockUserRepository) ListSuperusers() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []models.User
	for _, u := range r.users {
		if u.Superuser {
			users = append(users, u)
		}
	}
	return users, nil
}
