package models

import "gorm.io/gorm"

// Well-known capability codenames.
const (
	CapabilityViewOffer  = "view_offer"
	CapabilityAddProduct = "add_product"
)

// Capability is a named grant in the registry. Granting an undefined codename
// is a configuration fault, so the registry is seeded at startup.
type Capability struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Codename   string `json:"codename" gorm:"uniqueIndex;type:varchar(100)"`
	Name       string `json:"name" gorm:"type:varchar(255)"`
	gorm.Model `json:"-"`
}

// UserCapability records that a user currently holds a capability. The
// composite unique index keeps grants idempotent.
type UserCapability struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	UserID       string `gorm:"uniqueIndex:idx_user_capability;type:varchar(36)"`
	CapabilityID string `gorm:"uniqueIndex:idx_user_capability;type:varchar(36)"`
	gorm.Model
}
