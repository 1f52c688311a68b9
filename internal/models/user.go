package models

import (
	"time"

	"gorm.io/gorm"
)

// Sex values stored on a user record.
const (
	SexMale   = "M"
	SexFemale = "F"
)

// User represents a storefront account. Accounts start out unconfirmed and
// carry a unique confirmation code until the owner follows the emailed link.
type User struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string `json:"username" gorm:"uniqueIndex;type:varchar(100)"`
	Email     string `json:"email" gorm:"type:varchar(255)"`
	Password  string `gorm:"type:varchar(255)"` // bcrypt hash, no json tag for security
	FirstName string `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string `json:"last_name" gorm:"type:varchar(100)"`

	BirthDate   time.Time `json:"birth_date"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(15)"`
	Sex         string    `json:"sex" gorm:"type:varchar(1);default:M"`
	Country     string    `json:"country" gorm:"type:varchar(100)"`
	State       string    `json:"state" gorm:"type:varchar(100)"`
	City        string    `json:"city" gorm:"type:varchar(100)"`
	Address     string    `json:"address" gorm:"type:varchar(100)"`

	// ConfirmationCode stays set for the lifetime of the account; confirmation
	// flips EmailConfirmed instead of clearing the code.
	ConfirmationCode *string   `json:"-" gorm:"uniqueIndex;type:varchar(100)"`
	EmailConfirmed   bool      `json:"email_confirmed" gorm:"default:false"`
	Blocked          bool      `json:"-" gorm:"default:false"`
	Superuser        bool      `json:"-" gorm:"default:false"`
	DateJoined       time.Time `json:"date_joined"`

	gorm.Model `json:"-"`
}

// FullName returns "<first> <last>", the signature expected at the end of a
// contact message.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
