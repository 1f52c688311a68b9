package repositories

import (
	"errors"

	"brutarie/internal/models"
)

// ErrCapabilityUndefined is returned when a codename is missing from the
// capability registry. Granting against it is a configuration fault.
var ErrCapabilityUndefined = errors.New("capability undefined")

// CapabilityRepository defines the interface for the capability registry and
// per-user grants.
type CapabilityRepository interface {
	// Seed ensures the given capabilities exist in the registry. Existing
	// entries are left untouched.
	Seed(capabilities []models.Capability) error

	// GetByCodename returns the registry entry for a codename, or
	// ErrCapabilityUndefined (wrapped) if the registry has no such entry.
	GetByCodename(codename string) (*models.Capability, error)

	// Grant gives the user the capability. Granting an already-held
	// capability is a no-op.
	Grant(userID, capabilityID string) error

	// Revoke removes the capability from the user. Revoking a capability the
	// user does not hold is a no-op.
	Revoke(userID, capabilityID string) error

	// Has reports whether the user currently holds the capability.
	Has(userID, capabilityID string) (bool, error)
}
