package repositories

import (
	"errors"
	"fmt"
	"time"

	"brutarie/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update persists changes to an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMUserRepository) getBy(query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user (%s = %v): %w", query, arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user (%s = %v): %w", query, arg, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.getBy("id = ?", id)
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getBy("username = ?", username)
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email = ?", email)
}

// GetByConfirmationCode retrieves a user by their confirmation code.
func (r *GORMUserRepository) GetByConfirmationCode(code string) (*models.User, error) {
	return r.getBy("confirmation_code = ?", code)
}

// DeleteUnconfirmedBefore removes unconfirmed, non-superuser accounts that
// joined at or before the cutoff. Uses Unscoped so the rows are gone for good
// rather than soft-deleted.
func (r *GORMUserRepository) DeleteUnconfirmedBefore(cutoff time.Time) (int64, error) {
	res := r.db.Unscoped().
		Where("email_confirmed = ? AND superuser = ? AND date_joined <= ?", false, false, cutoff).
		Delete(&models.User{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete unconfirmed users: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListJoinedBefore returns accounts that joined at or before the cutoff.
func (r *GORMUserRepository) ListJoinedBefore(cutoff time.Time) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("date_joined <= ?", cutoff).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users joined before %s: %w", cutoff, err)
	}
	return users, nil
}

// ListSuperusers returns all superuser accounts.
func (r *GORMUserRepository) ListSuperusers() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("superuser = ?", true).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list superusers: %w", err)
	}
	return users, nil
}
