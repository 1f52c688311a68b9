package repositories

import (
	"time"

	"brutarie/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByConfirmationCode(code string) (*models.User, error)

	// DeleteUnconfirmedBefore permanently removes accounts that never
	// confirmed their email and joined at or before the cutoff. Superuser
	// accounts are never removed. Returns the number of deleted rows.
	DeleteUnconfirmedBefore(cutoff time.Time) (int64, error)

	// ListJoinedBefore returns accounts whose DateJoined is at or before the
	// cutoff, for newsletter dispatch.
	ListJoinedBefore(cutoff time.Time) ([]models.User, error)

	// ListSuperusers returns all superuser accounts.
	ListSuperusers() ([]models.User, error)
}
